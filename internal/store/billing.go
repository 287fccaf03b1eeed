package store

import (
	"fmt"

	"github.com/shms/shms/internal/domain/billing"
)

// CreateBill opens an empty bill for an existing patient. Coverage is clamped
// to [0, 100].
func (s *Store) CreateBill(patientID int, insured bool, coveragePercent float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.patients.Has(patientID) {
		return 0, fmt.Errorf("patient %d: %w", patientID, ErrNotFound)
	}
	id := s.billSeq.take()
	s.bills.Insert(id, billing.Bill{
		ID:              id,
		PatientID:       patientID,
		Insured:         insured,
		CoveragePercent: billing.ClampCoverage(coveragePercent),
		CreatedAt:       s.timestamp(),
	})
	return id, nil
}

// AddBillItem appends a line item to an existing bill.
func (s *Store) AddBillItem(billID int, description string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bills.Get(billID)
	if !ok {
		return fmt.Errorf("bill %d: %w", billID, ErrNotFound)
	}
	b = b.Clone()
	b.AddItem(description, amount)
	s.bills.Update(billID, b)
	return nil
}

// GetBill returns a copy of the bill with id.
func (s *Store) GetBill(id int) (billing.Bill, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bills.Get(id)
	return b.Clone(), ok
}

// ListBills returns every bill in ascending id order.
func (s *Store) ListBills() []billing.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBills(s.bills.All())
}

// GetBillsForPatient returns the patient's bills in ascending id order.
func (s *Store) GetBillsForPatient(patientID int) []billing.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBills(s.bills.Scan(func(b billing.Bill) bool { return b.PatientID == patientID }))
}

func cloneBills(in []billing.Bill) []billing.Bill {
	for i := range in {
		in[i] = in[i].Clone()
	}
	return in
}
