// Package codec encodes records (ordered string fields) to and from a single
// delimited text line. Fields are separated by commas; a field holding a
// comma, a space or a double quote is wrapped in double quotes with inner
// quotes doubled.
package codec

import (
	"strconv"
	"strings"
)

const trimSet = " \t\r\n"

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Encode joins fields into one line.
func Encode(fields []string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		f = lineBreaks.Replace(f)
		if !strings.ContainsAny(f, ", \"") {
			b.WriteString(f)
			continue
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	return b.String()
}

// Decode splits a line into fields. It never fails: unbalanced quotes yield a
// best-effort split. Whitespace outside quoted spans is trimmed at the edges
// of each field.
func Decode(line string) []string {
	var (
		out    []string
		cur    []byte
		quoted bool
		qStart = -1
		qEnd   = -1
	)
	flush := func() {
		out = append(out, finish(cur, qStart, qEnd))
		cur = cur[:0]
		qStart, qEnd = -1, -1
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quoted {
			if c == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					cur = append(cur, '"')
					i++
					continue
				}
				quoted = false
				qEnd = len(cur)
				continue
			}
			cur = append(cur, c)
			continue
		}
		switch c {
		case '"':
			quoted = true
			if qStart < 0 {
				qStart = len(cur)
			}
			qEnd = len(cur)
		case ',':
			flush()
		default:
			cur = append(cur, c)
		}
	}
	if quoted {
		qEnd = len(cur)
	}
	flush()
	return out
}

func finish(cur []byte, qStart, qEnd int) string {
	if qStart < 0 {
		return strings.Trim(string(cur), trimSet)
	}
	head := strings.TrimLeft(string(cur[:qStart]), trimSet)
	tail := strings.TrimRight(string(cur[qEnd:]), trimSet)
	return head + string(cur[qStart:qEnd]) + tail
}

// Field returns fields[i], or "" when the record is too short.
func Field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

// Int parses fields[i]; missing or malformed values give 0.
func Int(fields []string, i int) int {
	n, err := strconv.Atoi(Field(fields, i))
	if err != nil {
		return 0
	}
	return n
}

// Float parses fields[i]; missing or malformed values give 0.0.
func Float(fields []string, i int) float64 {
	return ParseFloat(Field(fields, i))
}

// Bool reports whether fields[i] is "1".
func Bool(fields []string, i int) bool {
	return Field(fields, i) == "1"
}

// ParseFloat parses s, falling back to 0.0.
func ParseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatFloat renders f with the fewest digits that parse back to f.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatBool renders b as "1" or "0".
func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
