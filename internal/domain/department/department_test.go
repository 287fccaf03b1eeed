package department

import "testing"

func TestParse(t *testing.T) {
	for _, in := range []string{"surgery", "Surgery", "  EMERGENCY "} {
		if _, err := Parse(in); err != nil {
			t.Errorf("Parse(%q) = %v", in, err)
		}
	}
	if _, err := Parse("radiology"); err == nil {
		t.Error("expected error for unknown service")
	}
}

func TestEntry(t *testing.T) {
	got := Diagnostics.Entry("2025-01-01 10:00:00", "CBC normal")
	want := "2025-01-01 10:00:00 | Diagnostics: Diagnostic report - CBC normal"
	if got != want {
		t.Errorf("Entry = %q, want %q", got, want)
	}
	if got := Emergency.Entry("t", " "); got != "t | Emergency: Emergency admission" {
		t.Errorf("Entry without note = %q", got)
	}
}

func TestAll_HaveNames(t *testing.T) {
	for _, s := range All() {
		if s.Name() == "" {
			t.Errorf("service %q has no name", s)
		}
	}
}
