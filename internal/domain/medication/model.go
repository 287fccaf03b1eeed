package medication

import (
	"strconv"

	"github.com/shms/shms/internal/platform/codec"
)

// Medicine is one pharmacy stock line, keyed by name.
type Medicine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Expiry   string `json:"expiry"`
}

// IsLow reports whether stock is below threshold.
func (m Medicine) IsLow(threshold int) bool {
	return m.Quantity < threshold
}

// Fields returns name, quantity, expiryDate.
func (m Medicine) Fields() []string {
	return []string{m.Name, strconv.Itoa(m.Quantity), m.Expiry}
}

// MedicineFromFields rebuilds a stock line; missing fields take defaults.
func MedicineFromFields(f []string) Medicine {
	return Medicine{
		Name:     codec.Field(f, 0),
		Quantity: codec.Int(f, 1),
		Expiry:   codec.Field(f, 2),
	}
}
