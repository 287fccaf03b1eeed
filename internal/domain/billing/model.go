package billing

import (
	"strconv"

	"github.com/shms/shms/internal/platform/codec"
)

// TimestampLayout formats a bill's creation time.
const TimestampLayout = "2006-01-02 15:04:05"

// LineItem is one charge on a bill.
type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Bill is a patient invoice. Items are append-only.
type Bill struct {
	ID              int        `json:"id"`
	PatientID       int        `json:"patient_id"`
	Items           []LineItem `json:"items"`
	Insured         bool       `json:"insured"`
	CoveragePercent float64    `json:"coverage_percent"`
	CreatedAt       string     `json:"created_at"`
}

// ClampCoverage bounds a coverage percentage to [0, 100].
func ClampCoverage(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// AddItem appends a line item.
func (b *Bill) AddItem(description string, amount float64) {
	b.Items = append(b.Items, LineItem{Description: description, Amount: amount})
}

// Base is the sum of item amounts.
func (b Bill) Base() float64 {
	var sum float64
	for _, it := range b.Items {
		sum += it.Amount
	}
	return sum
}

// Total applies insurance coverage to Base when the bill is insured.
func (b Bill) Total() float64 {
	base := b.Base()
	if !b.Insured {
		return base
	}
	return base * (1 - b.CoveragePercent/100)
}

// Clone returns a copy that shares no slices with b.
func (b Bill) Clone() Bill {
	b.Items = append([]LineItem(nil), b.Items...)
	return b
}

// Fields returns id, patientId, insured, coverage, createdAt, items.
func (b Bill) Fields() []string {
	pairs := make([]codec.Pair, len(b.Items))
	for i, it := range b.Items {
		pairs[i] = codec.Pair{Text: it.Description, Amount: it.Amount}
	}
	return []string{
		strconv.Itoa(b.ID),
		strconv.Itoa(b.PatientID),
		codec.FormatBool(b.Insured),
		codec.FormatFloat(b.CoveragePercent),
		b.CreatedAt,
		codec.PackPairs(pairs),
	}
}

// BillFromFields rebuilds a bill; missing fields take defaults.
func BillFromFields(f []string) Bill {
	b := Bill{
		ID:              codec.Int(f, 0),
		PatientID:       codec.Int(f, 1),
		Insured:         codec.Bool(f, 2),
		CoveragePercent: codec.Float(f, 3),
		CreatedAt:       codec.Field(f, 4),
	}
	for _, p := range codec.UnpackPairs(codec.Field(f, 5)) {
		b.AddItem(p.Text, p.Amount)
	}
	return b
}
