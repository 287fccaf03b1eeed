package codec

import "strings"

// Sub-field delimiters used to pack multi-valued data into one field.
const (
	ListSep = ';'
	PairSep = '#'
	escape  = '\\'
)

func escapeEntry(s string) string {
	if !strings.ContainsAny(s, `;#\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ListSep, PairSep, escape:
			b.WriteByte(escape)
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// splitEscaped splits s on sep, honouring backslash escapes. Escapes are
// kept in the parts so nested splits still see them.
func splitEscaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case escape:
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func unescape(s string) string {
	if !strings.ContainsRune(s, escape) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == escape && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// PackList terminates every entry with ';', so an empty entry is kept
// distinct from an empty list: [] packs to "" and [""] packs to ";".
func PackList(entries []string) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(escapeEntry(e))
		b.WriteByte(ListSep)
	}
	return b.String()
}

// UnpackList is the inverse of PackList. Empty entries are preserved; a
// missing final terminator is tolerated.
func UnpackList(s string) []string {
	if s == "" {
		return nil
	}
	parts := splitEscaped(s, ListSep)
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = unescape(part)
	}
	return out
}

// Pair is a description/amount group such as a bill line item.
type Pair struct {
	Text   string
	Amount float64
}

// PackPairs renders pairs as "text#amount;text#amount".
func PackPairs(pairs []Pair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = escapeEntry(p.Text) + string(PairSep) + FormatFloat(p.Amount)
	}
	return strings.Join(parts, string(ListSep))
}

// UnpackPairs is the inverse of PackPairs. Groups without a '#' are skipped;
// a malformed amount becomes 0.
func UnpackPairs(s string) []Pair {
	var out []Pair
	for _, group := range splitEscaped(s, ListSep) {
		if group == "" {
			continue
		}
		kv := splitEscaped(group, PairSep)
		if len(kv) < 2 {
			continue
		}
		text := strings.Join(kv[:len(kv)-1], string(PairSep))
		out = append(out, Pair{Text: unescape(text), Amount: ParseFloat(kv[len(kv)-1])})
	}
	return out
}
