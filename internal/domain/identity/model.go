package identity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shms/shms/internal/domain/scheduling"
	"github.com/shms/shms/internal/platform/codec"
)

// Kind tags the person variants. Patients, doctors and staff share one id
// sequence, so an id alone never collides across kinds.
type Kind string

const (
	KindPatient Kind = "Patient"
	KindDoctor  Kind = "Doctor"
	KindStaff   Kind = "Staff"
)

// Record is the capability every person variant exposes.
type Record interface {
	Kind() Kind
	PersonID() int
	Fields() []string
	Describe() string
}

// Person holds the fields common to all variants.
type Person struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Contact string `json:"contact"`
}

// PersonID returns the shared-sequence id.
func (p Person) PersonID() int { return p.ID }

func (p Person) fields() []string {
	return []string{strconv.Itoa(p.ID), p.Name, strconv.Itoa(p.Age), p.Gender, p.Contact}
}

func personFromFields(f []string) Person {
	return Person{
		ID:      codec.Int(f, 0),
		Name:    codec.Field(f, 1),
		Age:     codec.Int(f, 2),
		Gender:  codec.Field(f, 3),
		Contact: codec.Field(f, 4),
	}
}

func (p Person) describe() string {
	return fmt.Sprintf("ID: %d | Name: %s | Age: %d | Gender: %s | Contact: %s", p.ID, p.Name, p.Age, p.Gender, p.Contact)
}

// ---------------------------------------------------------------------------
// Patient
// ---------------------------------------------------------------------------

// Patient is a registered patient with an append-only history log.
type Patient struct {
	Person
	Insured           bool     `json:"insured"`
	InsuranceProvider string   `json:"insurance_provider,omitempty"`
	NationalID        string   `json:"national_id,omitempty"`
	History           []string `json:"history,omitempty"`
}

func (p Patient) Kind() Kind { return KindPatient }

// AddHistory appends one entry to the history log.
func (p *Patient) AddHistory(entry string) {
	p.History = append(p.History, entry)
}

// Clone returns a copy that shares no slices with p.
func (p Patient) Clone() Patient {
	p.History = append([]string(nil), p.History...)
	return p
}

// Fields returns id, name, age, gender, contact, insured, provider,
// nationalId, history.
func (p Patient) Fields() []string {
	return append(p.Person.fields(),
		codec.FormatBool(p.Insured),
		p.InsuranceProvider,
		p.NationalID,
		codec.PackList(p.History),
	)
}

// PatientFromFields rebuilds a patient; missing fields take defaults.
func PatientFromFields(f []string) Patient {
	return Patient{
		Person:            personFromFields(f),
		Insured:           codec.Bool(f, 5),
		InsuranceProvider: codec.Field(f, 6),
		NationalID:        codec.Field(f, 7),
		History:           codec.UnpackList(codec.Field(f, 8)),
	}
}

func (p Patient) Describe() string {
	var b strings.Builder
	b.WriteString("[Patient] " + p.describe())
	if p.Insured {
		b.WriteString(" | Insured: Yes | Provider: " + p.InsuranceProvider)
	} else {
		b.WriteString(" | Insured: No")
	}
	if p.NationalID != "" {
		b.WriteString(" | National ID: " + p.NationalID)
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Doctor
// ---------------------------------------------------------------------------

// Doctor is a practitioner with booked slots used for conflict checks.
type Doctor struct {
	Person
	Specialization  string   `json:"specialization"`
	ConsultationFee float64  `json:"consultation_fee"`
	BookedSlots     []string `json:"booked_slots,omitempty"`
}

func (d Doctor) Kind() Kind { return KindDoctor }

// IsFree reports whether no booked slot shares datetime's slot key.
func (d Doctor) IsFree(datetime string) bool {
	for _, s := range d.BookedSlots {
		if scheduling.Conflicts(s, datetime) {
			return false
		}
	}
	return true
}

// HasSlot reports whether datetime is booked verbatim.
func (d Doctor) HasSlot(datetime string) bool {
	for _, s := range d.BookedSlots {
		if s == datetime {
			return true
		}
	}
	return false
}

// Book records datetime as a booked slot.
func (d *Doctor) Book(datetime string) {
	d.BookedSlots = append(d.BookedSlots, datetime)
}

// Release removes every slot sharing datetime's slot key and returns how many
// were removed.
func (d *Doctor) Release(datetime string) int {
	kept := d.BookedSlots[:0]
	removed := 0
	for _, s := range d.BookedSlots {
		if scheduling.Conflicts(s, datetime) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	d.BookedSlots = kept
	return removed
}

// Clone returns a copy that shares no slices with d.
func (d Doctor) Clone() Doctor {
	d.BookedSlots = append([]string(nil), d.BookedSlots...)
	return d
}

// Fields returns id, name, age, gender, contact, specialization, fee, slots.
func (d Doctor) Fields() []string {
	return append(d.Person.fields(),
		d.Specialization,
		codec.FormatFloat(d.ConsultationFee),
		codec.PackList(d.BookedSlots),
	)
}

// DoctorFromFields rebuilds a doctor; missing fields take defaults.
func DoctorFromFields(f []string) Doctor {
	return Doctor{
		Person:          personFromFields(f),
		Specialization:  codec.Field(f, 5),
		ConsultationFee: codec.Float(f, 6),
		BookedSlots:     codec.UnpackList(codec.Field(f, 7)),
	}
}

func (d Doctor) Describe() string {
	return fmt.Sprintf("[Doctor] %s | Specialization: %s | Fee: %.2f | Booked: %d",
		d.describe(), d.Specialization, d.ConsultationFee, len(d.BookedSlots))
}

// ---------------------------------------------------------------------------
// Staff
// ---------------------------------------------------------------------------

// Staff is a non-clinical employee, optionally linked to a login.
type Staff struct {
	Person
	Role     string `json:"role"`
	Username string `json:"username,omitempty"`
}

func (s Staff) Kind() Kind { return KindStaff }

// Fields returns id, name, age, gender, contact, role, username.
func (s Staff) Fields() []string {
	return append(s.Person.fields(), s.Role, s.Username)
}

// StaffFromFields rebuilds a staff member; missing fields take defaults.
func StaffFromFields(f []string) Staff {
	return Staff{
		Person:   personFromFields(f),
		Role:     codec.Field(f, 5),
		Username: codec.Field(f, 6),
	}
}

func (s Staff) Describe() string {
	out := "[Staff] " + s.describe() + " | Role: " + s.Role
	if s.Username != "" {
		out += " | Username: " + s.Username
	}
	return out
}
