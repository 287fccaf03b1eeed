// Package store is the hospital records aggregate. It owns one repository per
// entity type, allocates ids, enforces cross-entity rules (appointments need
// an existing patient and doctor, doctors cannot be double-booked) and loads
// and saves everything through the flatfile boundary.
//
// Every exported method takes the store's single mutex, so a Store may be
// shared by the HTTP handlers. Values returned by lookups are copies; mutate
// records only through Store methods.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shms/shms/internal/domain/admin"
	"github.com/shms/shms/internal/domain/billing"
	"github.com/shms/shms/internal/domain/identity"
	"github.com/shms/shms/internal/domain/medication"
	"github.com/shms/shms/internal/domain/scheduling"
	"github.com/shms/shms/internal/platform/flatfile"
	"github.com/shms/shms/internal/platform/repo"
)

// Sentinel errors. Callers match them with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("doctor already booked for that slot")
	ErrDuplicate         = errors.New("already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidDateTime   = scheduling.ErrInvalidDateTime
)

// Options tunes a Store.
type Options struct {
	// SeedDemo reseeds demonstration records when patients, doctors and staff
	// are all empty after a load.
	SeedDemo bool
	// Now is the clock used for bill and history timestamps.
	Now func() time.Time
}

// sequence hands out monotonically increasing ids starting at 1.
type sequence struct {
	next int
}

func (s *sequence) reset() { s.next = 1 }

func (s *sequence) take() int {
	id := s.next
	s.next++
	return id
}

func (s *sequence) advancePast(id int) {
	if id >= s.next {
		s.next = id + 1
	}
}

// Store is the records aggregate.
type Store struct {
	mu     sync.Mutex
	files  *flatfile.Dir
	logger zerolog.Logger
	opts   Options

	personSeq sequence
	apptSeq   sequence
	billSeq   sequence

	patients     *repo.Repository[int, identity.Patient]
	doctors      *repo.Repository[int, identity.Doctor]
	staff        *repo.Repository[int, identity.Staff]
	appointments *repo.Repository[int, scheduling.Appointment]
	bills        *repo.Repository[int, billing.Bill]
	users        *repo.Repository[string, admin.User]
	medicines    *repo.Repository[string, medication.Medicine]
}

// New returns an empty store backed by files. Call LoadAll to populate it.
func New(files *flatfile.Dir, logger zerolog.Logger, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Store{
		files:        files,
		logger:       logger.With().Str("component", "store").Logger(),
		opts:         opts,
		patients:     repo.New[int, identity.Patient](),
		doctors:      repo.New[int, identity.Doctor](),
		staff:        repo.New[int, identity.Staff](),
		appointments: repo.New[int, scheduling.Appointment](),
		bills:        repo.New[int, billing.Bill](),
		users:        repo.New[string, admin.User](),
		medicines:    repo.New[string, medication.Medicine](),
	}
	s.resetSequences()
	return s
}

func (s *Store) resetSequences() {
	s.personSeq.reset()
	s.apptSeq.reset()
	s.billSeq.reset()
}

func (s *Store) timestamp() string {
	return s.opts.Now().Format(billing.TimestampLayout)
}

// -- People --

// AddPatient registers p under a new person id and returns the id.
func (s *Store) AddPatient(p identity.Patient) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPatient(p)
}

func (s *Store) addPatient(p identity.Patient) int {
	p = p.Clone()
	p.ID = s.personSeq.take()
	return s.patients.Insert(p.ID, p)
}

// AddDoctor registers d under a new person id and returns the id. A negative
// fee is stored as 0.
func (s *Store) AddDoctor(d identity.Doctor) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addDoctor(d)
}

func (s *Store) addDoctor(d identity.Doctor) int {
	d = d.Clone()
	d.ID = s.personSeq.take()
	if d.ConsultationFee < 0 {
		s.logger.Warn().Int("doctor_id", d.ID).Float64("fee", d.ConsultationFee).Msg("negative consultation fee clamped to 0")
		d.ConsultationFee = 0
	}
	return s.doctors.Insert(d.ID, d)
}

// AddStaff registers st under a new person id and returns the id.
func (s *Store) AddStaff(st identity.Staff) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.ID = s.personSeq.take()
	return s.staff.Insert(st.ID, st)
}

// FindPatient returns a copy of the patient with id.
func (s *Store) FindPatient(id int) (identity.Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients.Get(id)
	return p.Clone(), ok
}

// FindDoctor returns a copy of the doctor with id.
func (s *Store) FindDoctor(id int) (identity.Doctor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors.Get(id)
	return d.Clone(), ok
}

// FindStaff returns the staff member with id.
func (s *Store) FindStaff(id int) (identity.Staff, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staff.Get(id)
}

// FindPerson resolves an id from the shared person sequence to whichever
// patient, doctor or staff record holds it.
func (s *Store) FindPerson(id int) (identity.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.patients.Get(id); ok {
		return p.Clone(), true
	}
	if d, ok := s.doctors.Get(id); ok {
		return d.Clone(), true
	}
	if st, ok := s.staff.Get(id); ok {
		return st, true
	}
	return nil, false
}

// SearchPatientsByName returns patients whose name contains sub
// (case-sensitive), in ascending id order.
func (s *Store) SearchPatientsByName(sub string) []identity.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePatients(s.patients.Scan(func(p identity.Patient) bool {
		return strings.Contains(p.Name, sub)
	}))
}

// SearchDoctorsBySpecialization returns doctors whose specialization contains
// sub (case-sensitive), in ascending id order.
func (s *Store) SearchDoctorsBySpecialization(sub string) []identity.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDoctors(s.doctors.Scan(func(d identity.Doctor) bool {
		return strings.Contains(d.Specialization, sub)
	}))
}

// ListPatients returns every patient in ascending id order.
func (s *Store) ListPatients() []identity.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePatients(s.patients.All())
}

// ListDoctors returns every doctor in ascending id order.
func (s *Store) ListDoctors() []identity.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDoctors(s.doctors.All())
}

// ListStaff returns every staff member in ascending id order.
func (s *Store) ListStaff() []identity.Staff {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staff.All()
}

// AddPatientHistory appends a non-empty entry to a patient's history.
func (s *Store) AddPatientHistory(id int, entry string) error {
	if strings.TrimSpace(entry) == "" {
		return fmt.Errorf("history entry is empty: %w", ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendHistory(id, entry)
}

func (s *Store) appendHistory(id int, entry string) error {
	p, ok := s.patients.Get(id)
	if !ok {
		return fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	p = p.Clone()
	p.AddHistory(entry)
	s.patients.Update(id, p)
	return nil
}

// SetPatientInsurance updates a patient's insurance fields.
func (s *Store) SetPatientInsurance(id int, insured bool, provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients.Get(id)
	if !ok {
		return fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	p.Insured = insured
	p.InsuranceProvider = provider
	s.patients.Update(id, p)
	return nil
}

func clonePatients(in []identity.Patient) []identity.Patient {
	for i := range in {
		in[i] = in[i].Clone()
	}
	return in
}

func cloneDoctors(in []identity.Doctor) []identity.Doctor {
	for i := range in {
		in[i] = in[i].Clone()
	}
	return in
}
