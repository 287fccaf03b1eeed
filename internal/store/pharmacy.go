package store

import (
	"fmt"
	"strings"

	"github.com/shms/shms/internal/domain/medication"
)

// AddMedicine adds qty units to a medicine's stock, creating it if needed, and
// sets its expiry date.
func (s *Store) AddMedicine(name string, qty int, expiry string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("medicine name is empty: %w", ErrInvalidInput)
	}
	if qty < 0 {
		return fmt.Errorf("quantity %d: %w", qty, ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addMedicine(name, qty, expiry)
	return nil
}

func (s *Store) addMedicine(name string, qty int, expiry string) {
	m, _ := s.medicines.Get(name)
	m.Name = name
	m.Quantity += qty
	m.Expiry = expiry
	s.medicines.Insert(name, m)
}

// IssueMedicine removes qty units from stock. It fails with ErrNotFound for an
// unknown medicine and ErrInsufficientStock when stock is short.
func (s *Store) IssueMedicine(name string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity %d: %w", qty, ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.medicines.Get(name)
	if !ok {
		return fmt.Errorf("medicine %q: %w", name, ErrNotFound)
	}
	if m.Quantity < qty {
		return fmt.Errorf("medicine %q has %d, want %d: %w", name, m.Quantity, qty, ErrInsufficientStock)
	}
	m.Quantity -= qty
	s.medicines.Update(name, m)
	return nil
}

// ListMedicines returns stock ordered by name.
func (s *Store) ListMedicines() []medication.Medicine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.medicines.All()
}

// LowStock returns medicines whose quantity is below threshold.
func (s *Store) LowStock(threshold int) []medication.Medicine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.medicines.Scan(func(m medication.Medicine) bool { return m.IsLow(threshold) })
}
