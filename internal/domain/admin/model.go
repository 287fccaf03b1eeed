package admin

import (
	"strconv"

	"github.com/shms/shms/internal/platform/codec"
)

// Account roles.
const (
	RoleAdmin        = "Admin"
	RoleReceptionist = "Receptionist"
	RoleDoctor       = "Doctor"
	RolePatient      = "Patient"
	RoleStaff        = "Staff"
)

// User is a login account. Passwords are stored and compared in plaintext.
// LinkedID points at the patient, doctor or staff record the account belongs
// to, or 0 when there is none.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"-"`
	LinkedID int    `json:"linked_id"`
}

// Roles lists every account role.
var Roles = []string{RoleAdmin, RoleReceptionist, RoleDoctor, RolePatient, RoleStaff}

// ValidRole reports whether role is one of Roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Fields returns username, role, password, linkedId.
func (u User) Fields() []string {
	return []string{u.Username, u.Role, u.Password, strconv.Itoa(u.LinkedID)}
}

// UserFromFields rebuilds an account; missing fields take defaults.
func UserFromFields(f []string) User {
	return User{
		Username: codec.Field(f, 0),
		Role:     codec.Field(f, 1),
		Password: codec.Field(f, 2),
		LinkedID: codec.Int(f, 3),
	}
}

// DefaultAccounts are created when no users file exists.
func DefaultAccounts() []User {
	return []User{
		{Username: "admin", Role: RoleAdmin, Password: "admin"},
		{Username: "recept", Role: RoleReceptionist, Password: "recept"},
	}
}
