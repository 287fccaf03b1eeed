package store

import (
	"fmt"

	"github.com/shms/shms/internal/domain/admin"
)

// AddUser registers an account. An existing username is left untouched and
// ErrDuplicate is returned.
func (s *Store) AddUser(u admin.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUser(u)
}

func (s *Store) addUser(u admin.User) error {
	if s.users.Has(u.Username) {
		return fmt.Errorf("user %q: %w", u.Username, ErrDuplicate)
	}
	s.users.Insert(u.Username, u)
	return nil
}

// Authenticate returns the account whose username and password both match
// exactly. The caller checks the role.
func (s *Store) Authenticate(username, password string) (admin.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users.Get(username)
	if !ok || u.Password != password {
		return admin.User{}, false
	}
	return u, true
}

// ListUsers returns every account ordered by username.
func (s *Store) ListUsers() []admin.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.All()
}
