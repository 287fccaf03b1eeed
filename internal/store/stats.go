package store

import (
	"fmt"

	"github.com/shms/shms/internal/domain/department"
)

// Stats summarises the store.
type Stats struct {
	Patients     int     `json:"patients"`
	Doctors      int     `json:"doctors"`
	Staff        int     `json:"staff"`
	Appointments int     `json:"appointments"`
	Bills        int     `json:"bills"`
	Revenue      float64 `json:"revenue"`
	// BusiestDoctorID is 0 when nothing is booked.
	BusiestDoctorID       int    `json:"busiest_doctor_id,omitempty"`
	BusiestDoctorName     string `json:"busiest_doctor_name,omitempty"`
	BusiestDoctorBookings int    `json:"busiest_doctor_bookings,omitempty"`
}

// Stats returns record counts, total billed revenue and the most booked
// doctor. Ties go to the lowest doctor id.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Patients:     s.patients.Len(),
		Doctors:      s.doctors.Len(),
		Staff:        s.staff.Len(),
		Appointments: s.appointments.Len(),
		Bills:        s.bills.Len(),
	}
	for _, b := range s.bills.All() {
		st.Revenue += b.Total()
	}

	counts := make(map[int]int)
	for _, a := range s.appointments.All() {
		counts[a.DoctorID]++
	}
	for id, n := range counts {
		if n > st.BusiestDoctorBookings || (n == st.BusiestDoctorBookings && id < st.BusiestDoctorID) {
			st.BusiestDoctorID, st.BusiestDoctorBookings = id, n
		}
	}
	if st.BusiestDoctorBookings > 0 {
		st.BusiestDoctorName = "Unknown"
		if d, ok := s.doctors.Get(st.BusiestDoctorID); ok {
			st.BusiestDoctorName = d.Name
		}
	}
	return st
}

// PerformService runs a department service for an existing patient and
// records a dated entry in the patient's history. It returns the entry.
func (s *Store) PerformService(svc department.Service, patientID int, note string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := svc.Entry(s.timestamp(), note)
	if err := s.appendHistory(patientID, entry); err != nil {
		return "", fmt.Errorf("%s service: %w", svc.Name(), err)
	}
	s.logger.Info().Str("service", string(svc)).Int("patient_id", patientID).Msg("service performed")
	return entry, nil
}
