package medication

import (
	"testing"

	"github.com/shms/shms/internal/platform/codec"
)

func TestMedicine_RoundTrip(t *testing.T) {
	m := Medicine{Name: "Vitamin C 500mg", Quantity: 40, Expiry: "2026-12-31"}
	got := MedicineFromFields(codec.Decode(codec.Encode(m.Fields())))
	if got != m {
		t.Errorf("round trip = %+v, want %+v", got, m)
	}
}

func TestMedicineFromFields_Short(t *testing.T) {
	got := MedicineFromFields([]string{"Paracetamol"})
	if got.Name != "Paracetamol" || got.Quantity != 0 || got.Expiry != "" {
		t.Errorf("MedicineFromFields = %+v", got)
	}
}

func TestMedicine_IsLow(t *testing.T) {
	m := Medicine{Quantity: 9}
	if !m.IsLow(10) {
		t.Error("9 < 10 should be low")
	}
	if m.IsLow(9) {
		t.Error("9 is not below 9")
	}
}
