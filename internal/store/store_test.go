package store

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/shms/shms/internal/domain/admin"
	"github.com/shms/shms/internal/domain/department"
	"github.com/shms/shms/internal/domain/identity"
	"github.com/shms/shms/internal/platform/flatfile"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	s := New(flatfile.NewDir(fsys, "/data", zerolog.Nop()), zerolog.Nop(), Options{
		Now: func() time.Time { return fixedNow },
	})
	return s, fsys
}

func patient(name string) identity.Patient {
	return identity.Patient{Person: identity.Person{Name: name, Age: 30, Gender: "F", Contact: "555"}}
}

func doctor(name, spec string, fee float64) identity.Doctor {
	return identity.Doctor{
		Person:          identity.Person{Name: name, Age: 40, Gender: "M", Contact: "555"},
		Specialization:  spec,
		ConsultationFee: fee,
	}
}

func TestPersonIDsAreSharedAndUnique(t *testing.T) {
	s, _ := newTestStore(t)

	p1 := s.AddPatient(patient("A"))
	d1 := s.AddDoctor(doctor("B", "General", 10))
	st := s.AddStaff(identity.Staff{Person: identity.Person{Name: "C"}, Role: "Nurse"})
	p2 := s.AddPatient(patient("D"))

	got := []int{p1, d1, st, p2}
	for i, id := range got {
		if id != i+1 {
			t.Errorf("id[%d] = %d, want %d", i, id, i+1)
		}
	}
	if _, ok := s.FindDoctor(p1); ok {
		t.Error("patient id should not resolve to a doctor")
	}
	if _, ok := s.FindPatient(d1); ok {
		t.Error("doctor id should not resolve to a patient")
	}
	if got, ok := s.FindStaff(st); !ok || got.Role != "Nurse" {
		t.Errorf("FindStaff = %+v, %v", got, ok)
	}
}

func TestFindPerson(t *testing.T) {
	s, _ := newTestStore(t)
	pid := s.AddPatient(patient("Sara"))
	did := s.AddDoctor(doctor("Dr. Imran", "ENT", 1500))
	sid := s.AddStaff(identity.Staff{Person: identity.Person{Name: "Bilal"}, Role: "Nurse"})

	tests := []struct {
		id   int
		kind identity.Kind
		name string
	}{
		{pid, identity.KindPatient, "Sara"},
		{did, identity.KindDoctor, "Dr. Imran"},
		{sid, identity.KindStaff, "Bilal"},
	}
	for _, tt := range tests {
		r, ok := s.FindPerson(tt.id)
		if !ok {
			t.Fatalf("FindPerson(%d) not found", tt.id)
		}
		if r.Kind() != tt.kind || r.PersonID() != tt.id {
			t.Errorf("FindPerson(%d) = %s/%d, want %s/%d", tt.id, r.Kind(), r.PersonID(), tt.kind, tt.id)
		}
		if !strings.Contains(r.Describe(), tt.name) {
			t.Errorf("Describe = %q, want it to mention %q", r.Describe(), tt.name)
		}
	}
	if _, ok := s.FindPerson(99); ok {
		t.Error("FindPerson(99) should report not found")
	}

	r, _ := s.FindPerson(did)
	d := r.(identity.Doctor)
	d.BookedSlots = append(d.BookedSlots, "2025-01-01 10:00")
	if got, _ := s.FindDoctor(did); len(got.BookedSlots) != 0 {
		t.Error("FindPerson result aliases store state")
	}
}

func TestAddDoctor_NegativeFeeClamped(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddDoctor(doctor("X", "General", -5))
	d, _ := s.FindDoctor(id)
	if d.ConsultationFee != 0 {
		t.Errorf("fee = %v, want 0", d.ConsultationFee)
	}
}

func TestFindPatient_ReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddPatient(patient("A"))
	if err := s.AddPatientHistory(id, "first"); err != nil {
		t.Fatal(err)
	}

	p, _ := s.FindPatient(id)
	p.History[0] = "tampered"
	p.Name = "tampered"

	again, _ := s.FindPatient(id)
	if again.Name != "A" || again.History[0] != "first" {
		t.Errorf("store state changed through a lookup: %+v", again)
	}
}

func TestSearch(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddPatient(patient("Ali Hassan"))
	s.AddPatient(patient("Sara"))
	s.AddPatient(patient("Alina"))
	s.AddDoctor(doctor("X", "Cardiology", 1))
	s.AddDoctor(doctor("Y", "General", 1))

	got := s.SearchPatientsByName("Ali")
	if len(got) != 2 || got[0].Name != "Ali Hassan" || got[1].Name != "Alina" {
		t.Errorf("SearchPatientsByName(Ali) = %+v", got)
	}
	if got := s.SearchPatientsByName("ali"); len(got) != 0 {
		t.Errorf("search should be case-sensitive, got %d results", len(got))
	}
	if got := s.SearchDoctorsBySpecialization("Cardio"); len(got) != 1 || got[0].Name != "X" {
		t.Errorf("SearchDoctorsBySpecialization = %+v", got)
	}
}

func TestScheduleAppointment(t *testing.T) {
	s, _ := newTestStore(t)
	pid := s.AddPatient(patient("P"))
	did := s.AddDoctor(doctor("D", "General", 10))

	id, err := s.ScheduleAppointment(pid, did, "2025-01-01 10:00", "Consult", "checkup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 1 {
		t.Errorf("appointment id = %d, want 1", id)
	}
	if s.IsDoctorAvailable(did, "2025-01-01 10:00") {
		t.Error("doctor should be busy after booking")
	}
	if !s.IsDoctorAvailable(did, "2025-01-01 10:30") {
		t.Error("different slot should be free")
	}
	d, _ := s.FindDoctor(did)
	if len(d.BookedSlots) != 1 || d.BookedSlots[0] != "2025-01-01 10:00" {
		t.Errorf("BookedSlots = %v", d.BookedSlots)
	}

	// Same 16-character prefix conflicts even with a seconds suffix.
	_, err = s.ScheduleAppointment(pid, did, "2025-01-01 10:00:30", "Consult", "again")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
	if n := len(s.ListAppointments()); n != 1 {
		t.Errorf("appointments = %d, want 1", n)
	}
}

func TestScheduleAppointment_Errors(t *testing.T) {
	s, _ := newTestStore(t)
	pid := s.AddPatient(patient("P"))
	did := s.AddDoctor(doctor("D", "General", 10))

	tests := []struct {
		name     string
		patient  int
		doctor   int
		datetime string
		want     error
	}{
		{"missing patient", 99, did, "2025-01-01 10:00", ErrNotFound},
		{"missing doctor", pid, 99, "2025-01-01 10:00", ErrNotFound},
		{"doctor id used as patient", did, did, "2025-01-01 10:00", ErrNotFound},
		{"empty datetime", pid, did, "", ErrInvalidDateTime},
		{"short datetime", pid, did, "2025-01-01", ErrInvalidDateTime},
		{"garbage datetime", pid, did, "tomorrow morning", ErrInvalidDateTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ScheduleAppointment(tt.patient, tt.doctor, tt.datetime, "", "")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if n := len(s.ListAppointments()); n != 0 {
		t.Errorf("failed scheduling left %d appointments", n)
	}
	if d, _ := s.FindDoctor(did); len(d.BookedSlots) != 0 {
		t.Errorf("failed scheduling left slots %v", d.BookedSlots)
	}

	if id := mustSchedule(t, s, pid, did, "2025-01-01 10:00"); id != 1 {
		t.Errorf("first successful appointment id = %d, want 1", id)
	}
	if _, err := s.ScheduleAppointment(pid, did, "2025-01-01 10:00", "", ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if id := mustSchedule(t, s, pid, did, "2025-01-01 11:00"); id != 2 {
		t.Errorf("appointment id after a conflict = %d, want 2", id)
	}
}

func TestCancelAppointment(t *testing.T) {
	s, _ := newTestStore(t)
	pid := s.AddPatient(patient("P"))
	did := s.AddDoctor(doctor("D", "General", 10))
	id, err := s.ScheduleAppointment(pid, did, "2025-01-01 10:00", "Consult", "")
	if err != nil {
		t.Fatal(err)
	}
	other, err := s.ScheduleAppointment(pid, did, "2025-01-01 11:00", "Consult", "")
	if err != nil {
		t.Fatal(err)
	}

	if !s.CancelAppointment(id) {
		t.Fatal("CancelAppointment returned false")
	}
	if _, ok := s.GetAppointment(id); ok {
		t.Error("cancelled appointment still present")
	}
	if !s.IsDoctorAvailable(did, "2025-01-01 10:00") {
		t.Error("slot should be free after cancellation")
	}
	if s.IsDoctorAvailable(did, "2025-01-01 11:00") {
		t.Error("other slot should still be booked")
	}
	if _, ok := s.GetAppointment(other); !ok {
		t.Error("other appointment should remain")
	}
	if s.CancelAppointment(id) {
		t.Error("second cancel should report false")
	}

	// Freed slot can be rebooked and gets a fresh id.
	again, err := s.ScheduleAppointment(pid, did, "2025-01-01 10:00", "Consult", "")
	if err != nil {
		t.Fatalf("rebook: %v", err)
	}
	if again != 3 {
		t.Errorf("rebooked id = %d, want 3", again)
	}
}

func TestAppointmentsForPatientAndDoctor(t *testing.T) {
	s, _ := newTestStore(t)
	p1 := s.AddPatient(patient("P1"))
	p2 := s.AddPatient(patient("P2"))
	d1 := s.AddDoctor(doctor("D1", "General", 10))
	d2 := s.AddDoctor(doctor("D2", "General", 10))

	mustSchedule(t, s, p1, d1, "2025-01-01 09:00")
	mustSchedule(t, s, p1, d2, "2025-01-01 09:00")
	mustSchedule(t, s, p2, d1, "2025-01-01 10:00")

	if got := s.GetAppointmentsForPatient(p1); len(got) != 2 {
		t.Errorf("patient appointments = %d, want 2", len(got))
	}
	got := s.GetAppointmentsForDoctor(d1)
	if len(got) != 2 || got[0].PatientID != p1 || got[1].PatientID != p2 {
		t.Errorf("doctor appointments = %+v", got)
	}
}

func mustSchedule(t *testing.T, s *Store, pid, did int, dt string) int {
	t.Helper()
	id, err := s.ScheduleAppointment(pid, did, dt, "Consult", "")
	if err != nil {
		t.Fatalf("schedule %d/%d at %s: %v", pid, did, dt, err)
	}
	return id
}

func TestBilling(t *testing.T) {
	s, _ := newTestStore(t)
	pid := s.AddPatient(patient("P"))

	if _, err := s.CreateBill(99, false, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("CreateBill(missing) err = %v, want ErrNotFound", err)
	}

	id, err := s.CreateBill(pid, true, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddBillItem(id, "Consultation", 50); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBillItem(id, "Lab test", 20); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBillItem(99, "x", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddBillItem(missing) err = %v, want ErrNotFound", err)
	}

	b, ok := s.GetBill(id)
	if !ok {
		t.Fatal("bill not found")
	}
	if b.Base() != 70 {
		t.Errorf("Base = %v, want 70", b.Base())
	}
	if math.Abs(b.Total()-63) > 1e-9 {
		t.Errorf("Total = %v, want 63", b.Total())
	}
	if b.CreatedAt != "2025-03-14 09:26:53" {
		t.Errorf("CreatedAt = %q", b.CreatedAt)
	}

	over, _ := s.CreateBill(pid, true, 150)
	if b, _ := s.GetBill(over); b.CoveragePercent != 100 {
		t.Errorf("coverage = %v, want 100", b.CoveragePercent)
	}
	if got := s.GetBillsForPatient(pid); len(got) != 2 {
		t.Errorf("bills for patient = %d, want 2", len(got))
	}
}

func TestAddUser_DuplicateRejected(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.AddUser(admin.User{Username: "alice", Role: admin.RoleDoctor, Password: "one"}); err != nil {
		t.Fatal(err)
	}
	err := s.AddUser(admin.User{Username: "alice", Role: admin.RoleAdmin, Password: "two"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}

	u, ok := s.Authenticate("alice", "one")
	if !ok || u.Role != admin.RoleDoctor {
		t.Errorf("Authenticate = %+v, %v; original record should be unchanged", u, ok)
	}
	if _, ok := s.Authenticate("alice", "two"); ok {
		t.Error("rejected password should not authenticate")
	}
	if _, ok := s.Authenticate("Alice", "one"); ok {
		t.Error("usernames are case-sensitive")
	}
}

func TestPharmacy(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.AddMedicine("Ibuprofen", 20, "2026-01-01"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMedicine("Ibuprofen", 5, "2027-01-01"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMedicine("", 5, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty name err = %v", err)
	}

	meds := s.ListMedicines()
	if len(meds) != 1 || meds[0].Quantity != 25 || meds[0].Expiry != "2027-01-01" {
		t.Errorf("ListMedicines = %+v", meds)
	}

	if err := s.IssueMedicine("Ibuprofen", 30); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("err = %v, want ErrInsufficientStock", err)
	}
	if err := s.IssueMedicine("Aspirin", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := s.IssueMedicine("Ibuprofen", 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if err := s.IssueMedicine("Ibuprofen", 20); err != nil {
		t.Fatal(err)
	}
	low := s.LowStock(10)
	if len(low) != 1 || low[0].Quantity != 5 {
		t.Errorf("LowStock = %+v", low)
	}
}

func TestPerformService(t *testing.T) {
	s, _ := newTestStore(t)
	pid := s.AddPatient(patient("P"))

	entry, err := s.PerformService(department.Diagnostics, pid, "CBC normal")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(entry, "2025-03-14 09:26:53 | Diagnostics") || !strings.HasSuffix(entry, "CBC normal") {
		t.Errorf("entry = %q", entry)
	}
	p, _ := s.FindPatient(pid)
	if len(p.History) != 1 || p.History[0] != entry {
		t.Errorf("History = %v", p.History)
	}

	if _, err := s.PerformService(department.Surgery, 42, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAddPatientHistory(t *testing.T) {
	s, _ := newTestStore(t)
	pid := s.AddPatient(patient("P"))
	if err := s.AddPatientHistory(pid, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank entry err = %v", err)
	}
	if err := s.AddPatientHistory(99, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing patient err = %v", err)
	}
	if err := s.SetPatientInsurance(pid, true, "Acme"); err != nil {
		t.Fatal(err)
	}
	p, _ := s.FindPatient(pid)
	if !p.Insured || p.InsuranceProvider != "Acme" {
		t.Errorf("insurance not updated: %+v", p)
	}
}

func TestStats(t *testing.T) {
	s, _ := newTestStore(t)
	if st := s.Stats(); st.BusiestDoctorID != 0 || st.BusiestDoctorName != "" {
		t.Errorf("empty store stats = %+v", st)
	}

	pid := s.AddPatient(patient("P"))
	d1 := s.AddDoctor(doctor("Dr One", "General", 10))
	d2 := s.AddDoctor(doctor("Dr Two", "General", 10))
	mustSchedule(t, s, pid, d2, "2025-01-01 09:00")
	mustSchedule(t, s, pid, d1, "2025-01-01 10:00")

	bid, _ := s.CreateBill(pid, false, 0)
	_ = s.AddBillItem(bid, "x", 40)
	bid, _ = s.CreateBill(pid, true, 50)
	_ = s.AddBillItem(bid, "y", 20)

	st := s.Stats()
	if st.Patients != 1 || st.Doctors != 2 || st.Appointments != 2 || st.Bills != 2 {
		t.Errorf("counts = %+v", st)
	}
	if st.Revenue != 50 {
		t.Errorf("Revenue = %v, want 50", st.Revenue)
	}
	// Tie between d1 and d2 goes to the lower id.
	if st.BusiestDoctorID != d1 || st.BusiestDoctorName != "Dr One" || st.BusiestDoctorBookings != 1 {
		t.Errorf("busiest = %d %q %d", st.BusiestDoctorID, st.BusiestDoctorName, st.BusiestDoctorBookings)
	}
}
