package store

import (
	"fmt"

	"github.com/shms/shms/internal/domain/scheduling"
)

// IsDoctorAvailable reports whether the doctor exists and has no booked slot
// sharing datetime's "YYYY-MM-DD HH:MM" prefix.
func (s *Store) IsDoctorAvailable(doctorID int, datetime string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors.Get(doctorID)
	return ok && d.IsFree(datetime)
}

// ScheduleAppointment books a patient with a doctor. It fails with
// ErrNotFound when either party is missing, ErrInvalidDateTime when datetime
// does not start with "YYYY-MM-DD HH:MM" and ErrConflict when the doctor is
// already booked for that slot. On success the appointment and the doctor's
// booked slot are recorded together.
func (s *Store) ScheduleAppointment(patientID, doctorID int, datetime, apptType, reason string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.patients.Has(patientID) {
		return 0, fmt.Errorf("patient %d: %w", patientID, ErrNotFound)
	}
	doc, ok := s.doctors.Get(doctorID)
	if !ok {
		return 0, fmt.Errorf("doctor %d: %w", doctorID, ErrNotFound)
	}
	if err := scheduling.ValidateDateTime(datetime); err != nil {
		return 0, fmt.Errorf("%q: %w", datetime, err)
	}
	if !doc.IsFree(datetime) {
		return 0, fmt.Errorf("doctor %d at %s: %w", doctorID, scheduling.SlotKey(datetime), ErrConflict)
	}

	id := s.apptSeq.take()
	s.appointments.Insert(id, scheduling.Appointment{
		ID:        id,
		PatientID: patientID,
		DoctorID:  doctorID,
		DateTime:  datetime,
		Type:      apptType,
		Reason:    reason,
	})
	doc = doc.Clone()
	doc.Book(datetime)
	s.doctors.Update(doctorID, doc)

	s.logger.Info().Int("appointment_id", id).Int("patient_id", patientID).Int("doctor_id", doctorID).Str("datetime", datetime).Msg("appointment scheduled")
	return id, nil
}

// CancelAppointment removes the appointment and every slot on its doctor that
// shares the appointment's date-time prefix. It reports false, changing
// nothing, when id is unknown.
func (s *Store) CancelAppointment(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments.Get(id)
	if !ok {
		return false
	}
	released := 0
	if doc, ok := s.doctors.Get(a.DoctorID); ok {
		doc = doc.Clone()
		released = doc.Release(a.DateTime)
		s.doctors.Update(a.DoctorID, doc)
	}
	s.appointments.Delete(id)

	s.logger.Info().Int("appointment_id", id).Int("doctor_id", a.DoctorID).Int("slots_released", released).Msg("appointment cancelled")
	return true
}

// GetAppointment returns the appointment with id.
func (s *Store) GetAppointment(id int) (scheduling.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appointments.Get(id)
}

// ListAppointments returns every appointment in ascending id order.
func (s *Store) ListAppointments() []scheduling.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appointments.All()
}

// GetAppointmentsForPatient returns the patient's appointments.
func (s *Store) GetAppointmentsForPatient(patientID int) []scheduling.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appointments.Scan(func(a scheduling.Appointment) bool { return a.PatientID == patientID })
}

// GetAppointmentsForDoctor returns the doctor's appointments.
func (s *Store) GetAppointmentsForDoctor(doctorID int) []scheduling.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appointments.Scan(func(a scheduling.Appointment) bool { return a.DoctorID == doctorID })
}
