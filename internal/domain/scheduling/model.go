package scheduling

import (
	"errors"
	"strconv"
	"time"

	"github.com/shms/shms/internal/platform/codec"
)

// SlotLayout is the date-time granularity used for booking conflicts.
const SlotLayout = "2006-01-02 15:04"

// SlotKeyLen is the number of leading characters compared for conflicts.
const SlotKeyLen = len(SlotLayout)

// ErrInvalidDateTime is returned when a date-time does not begin with a
// "YYYY-MM-DD HH:MM" stamp.
var ErrInvalidDateTime = errors.New("date-time must start with YYYY-MM-DD HH:MM")

// SlotKey returns the first 16 characters of datetime, or all of it when
// shorter.
func SlotKey(datetime string) string {
	if len(datetime) > SlotKeyLen {
		return datetime[:SlotKeyLen]
	}
	return datetime
}

// Conflicts reports whether two date-times fall in the same booking slot.
// Empty values never conflict.
func Conflicts(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return SlotKey(a) == SlotKey(b)
}

// ValidateDateTime checks that datetime starts with a parseable
// "YYYY-MM-DD HH:MM" stamp. Anything after the stamp (seconds, a zone) is
// allowed and ignored by conflict checks.
func ValidateDateTime(datetime string) error {
	if len(datetime) < SlotKeyLen {
		return ErrInvalidDateTime
	}
	if _, err := time.Parse(SlotLayout, datetime[:SlotKeyLen]); err != nil {
		return ErrInvalidDateTime
	}
	return nil
}

// Appointment links a patient to a doctor at a date-time. It is immutable once
// created; cancellation removes it.
type Appointment struct {
	ID        int    `json:"id"`
	PatientID int    `json:"patient_id"`
	DoctorID  int    `json:"doctor_id"`
	DateTime  string `json:"datetime"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
}

// Fields returns id, patientId, doctorId, datetime, type, reason.
func (a Appointment) Fields() []string {
	return []string{
		strconv.Itoa(a.ID),
		strconv.Itoa(a.PatientID),
		strconv.Itoa(a.DoctorID),
		a.DateTime,
		a.Type,
		a.Reason,
	}
}

// AppointmentFromFields rebuilds an appointment; missing fields take defaults.
func AppointmentFromFields(f []string) Appointment {
	return Appointment{
		ID:        codec.Int(f, 0),
		PatientID: codec.Int(f, 1),
		DoctorID:  codec.Int(f, 2),
		DateTime:  codec.Field(f, 3),
		Type:      codec.Field(f, 4),
		Reason:    codec.Field(f, 5),
	}
}
