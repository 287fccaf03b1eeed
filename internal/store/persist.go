package store

import (
	"fmt"

	"github.com/shms/shms/internal/domain/admin"
	"github.com/shms/shms/internal/domain/billing"
	"github.com/shms/shms/internal/domain/identity"
	"github.com/shms/shms/internal/domain/medication"
	"github.com/shms/shms/internal/domain/scheduling"
)

// Data file names under the data directory.
const (
	PatientsFile     = "patients.txt"
	DoctorsFile      = "doctors.txt"
	StaffFile        = "staff.txt"
	AppointmentsFile = "appointments.txt"
	BillsFile        = "bills.txt"
	MedicinesFile    = "medicines.txt"
	UsersFile        = "users.txt"
)

// LoadAll discards in-memory state and reloads every collection from the data
// directory. Absent files are empty collections. Id counters are re-derived
// as max(id)+1 per namespace. The default accounts are created when the users
// file is absent and, with Options.SeedDemo, demo records are created when no
// people were loaded. LoadAll never writes; call SaveAll to persist seeds.
func (s *Store) LoadAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.patients.Reset()
	s.doctors.Reset()
	s.staff.Reset()
	s.appointments.Reset()
	s.bills.Reset()
	s.users.Reset()
	s.medicines.Reset()
	s.resetSequences()

	if !s.files.Exists(UsersFile) {
		s.logger.Info().Msg("no users file, creating default accounts")
		for _, u := range admin.DefaultAccounts() {
			_ = s.addUser(u)
		}
	}

	rows, err := s.files.Read(PatientsFile)
	if err != nil {
		return err
	}
	for _, f := range rows {
		p := identity.PatientFromFields(f)
		s.patients.Insert(p.ID, p)
	}

	if rows, err = s.files.Read(DoctorsFile); err != nil {
		return err
	}
	for _, f := range rows {
		d := identity.DoctorFromFields(f)
		s.doctors.Insert(d.ID, d)
	}

	if rows, err = s.files.Read(StaffFile); err != nil {
		return err
	}
	for _, f := range rows {
		st := identity.StaffFromFields(f)
		s.staff.Insert(st.ID, st)
	}

	if rows, err = s.files.Read(AppointmentsFile); err != nil {
		return err
	}
	for _, f := range rows {
		a := scheduling.AppointmentFromFields(f)
		s.appointments.Insert(a.ID, a)
		// Slots are normally persisted on the doctor already; only restore
		// the ones that are missing.
		if d, ok := s.doctors.Get(a.DoctorID); ok && a.DateTime != "" && !d.HasSlot(a.DateTime) {
			d = d.Clone()
			d.Book(a.DateTime)
			s.doctors.Update(d.ID, d)
		}
	}

	if rows, err = s.files.Read(BillsFile); err != nil {
		return err
	}
	for _, f := range rows {
		b := billing.BillFromFields(f)
		s.bills.Insert(b.ID, b)
	}

	if rows, err = s.files.Read(UsersFile); err != nil {
		return err
	}
	for _, f := range rows {
		u := admin.UserFromFields(f)
		if u.Username == "" {
			s.logger.Debug().Str("file", UsersFile).Msg("skipping user row without username")
			continue
		}
		s.users.Insert(u.Username, u)
	}

	if rows, err = s.files.Read(MedicinesFile); err != nil {
		return err
	}
	for _, f := range rows {
		m := medication.MedicineFromFields(f)
		if m.Name == "" {
			s.logger.Debug().Str("file", MedicinesFile).Msg("skipping medicine row without name")
			continue
		}
		s.medicines.Insert(m.Name, m)
	}

	s.deriveSequences()

	if s.opts.SeedDemo && s.patients.Len() == 0 && s.doctors.Len() == 0 && s.staff.Len() == 0 {
		s.seedDemo()
	}

	s.logger.Info().
		Str("dir", s.files.Root()).
		Int("patients", s.patients.Len()).
		Int("doctors", s.doctors.Len()).
		Int("staff", s.staff.Len()).
		Int("appointments", s.appointments.Len()).
		Int("bills", s.bills.Len()).
		Int("users", s.users.Len()).
		Int("medicines", s.medicines.Len()).
		Msg("records loaded")
	return nil
}

func (s *Store) deriveSequences() {
	if id, ok := s.patients.MaxKey(); ok {
		s.personSeq.advancePast(id)
	}
	if id, ok := s.doctors.MaxKey(); ok {
		s.personSeq.advancePast(id)
	}
	if id, ok := s.staff.MaxKey(); ok {
		s.personSeq.advancePast(id)
	}
	if id, ok := s.appointments.MaxKey(); ok {
		s.apptSeq.advancePast(id)
	}
	if id, ok := s.bills.MaxKey(); ok {
		s.billSeq.advancePast(id)
	}
}

func (s *Store) seedDemo() {
	s.addDoctor(identity.Doctor{
		Person:          identity.Person{Name: "Dr. Ayesha Khan", Age: 45, Gender: "F", Contact: "+92-300-0000000"},
		Specialization:  "Cardiology",
		ConsultationFee: 60,
	})
	s.addDoctor(identity.Doctor{
		Person:          identity.Person{Name: "Dr. Omar Ali", Age: 38, Gender: "M", Contact: "+92-300-1111111"},
		Specialization:  "General",
		ConsultationFee: 30,
	})
	muneeba := s.addPatient(identity.Patient{
		Person: identity.Person{Name: "Muneeba Arshad", Age: 22, Gender: "F", Contact: "+92-300-2222222"},
	})
	s.addPatient(identity.Patient{
		Person:            identity.Person{Name: "Ali Hassan", Age: 30, Gender: "M", Contact: "+92-300-3333333"},
		Insured:           true,
		InsuranceProvider: "DemoCare",
	})
	s.addMedicine("Paracetamol", 100, "2026-12-31")
	s.addMedicine("Amoxicillin", 50, "2025-05-30")
	if err := s.addUser(admin.User{Username: "muneeba", Role: admin.RolePatient, Password: "password", LinkedID: muneeba}); err != nil {
		s.logger.Debug().Err(err).Msg("demo login already present")
	}
	s.logger.Info().Msg("demo records seeded")
}

// SaveAll rewrites every data file from memory. Every file is attempted; the
// first failure is returned.
func (s *Store) SaveAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first error
	write := func(name string, rows [][]string) {
		if err := s.files.Write(name, rows); err != nil {
			s.logger.Error().Err(err).Str("file", name).Msg("save failed")
			if first == nil {
				first = fmt.Errorf("save: %w", err)
			}
		}
	}

	write(PatientsFile, rowsOf(s.patients.All(), identity.Patient.Fields))
	write(DoctorsFile, rowsOf(s.doctors.All(), identity.Doctor.Fields))
	write(StaffFile, rowsOf(s.staff.All(), identity.Staff.Fields))
	write(AppointmentsFile, rowsOf(s.appointments.All(), scheduling.Appointment.Fields))
	write(BillsFile, rowsOf(s.bills.All(), billing.Bill.Fields))
	write(UsersFile, rowsOf(s.users.All(), admin.User.Fields))
	write(MedicinesFile, rowsOf(s.medicines.All(), medication.Medicine.Fields))

	if first == nil {
		s.logger.Debug().Str("dir", s.files.Root()).Msg("records saved")
	}
	return first
}

func rowsOf[V any](vals []V, fields func(V) []string) [][]string {
	rows := make([][]string, len(vals))
	for i, v := range vals {
		rows[i] = fields(v)
	}
	return rows
}
