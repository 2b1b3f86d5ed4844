package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/equipment-loan-tracker/internal/models"
)

// memoryStore is the in-memory RecordStore. One lock guards all three
// collections so that commands and imports are single atomic steps.
type memoryStore struct {
	mu        sync.RWMutex
	users     []models.User
	materials []models.Material
	loans     []models.Loan
}

// NewMemoryStore creates an empty record store
func NewMemoryStore() RecordStore {
	return &memoryStore{
		users:     make([]models.User, 0),
		materials: make([]models.Material, 0),
		loans:     make([]models.Loan, 0),
	}
}

// Verify interface compliance
var _ RecordStore = (*memoryStore)(nil)

// AddUser appends a user
func (s *memoryStore) AddUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = append(s.users, *user)
	return nil
}

// AddMaterial appends a material
func (s *memoryStore) AddMaterial(ctx context.Context, material *models.Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.materials = append(s.materials, *material)
	return nil
}

// AddLoan appends a loan once guard accepts the current loans
func (s *memoryStore) AddLoan(ctx context.Context, loan *models.Loan, guard func(loans []models.Loan) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if guard != nil {
		if err := guard(s.loans); err != nil {
			return err
		}
	}
	s.loans = append(s.loans, *loan)
	return nil
}

// UpdateLoan mutates a copy of the loan and stores it when fn succeeds
func (s *memoryStore) UpdateLoan(ctx context.Context, id string, fn func(loan *models.Loan) error) (*models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.loans {
		if s.loans[i].ID != id {
			continue
		}
		updated := s.loans[i]
		if err := fn(&updated); err != nil {
			return nil, err
		}
		s.loans[i] = updated
		return &updated, nil
	}
	return nil, fmt.Errorf("loan %s: %w", id, ErrNotFound)
}

// GetUser retrieves a user by ID, nil when missing
func (s *memoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].ID == id {
			user := s.users[i]
			return &user, nil
		}
	}
	return nil, nil
}

// GetMaterial retrieves a material by ID, nil when missing
func (s *memoryStore) GetMaterial(ctx context.Context, id string) (*models.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.materials {
		if s.materials[i].ID == id {
			material := s.materials[i]
			return &material, nil
		}
	}
	return nil, nil
}

// GetLoan retrieves a loan by ID, nil when missing
func (s *memoryStore) GetLoan(ctx context.Context, id string) (*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.loans {
		if s.loans[i].ID == id {
			loan := s.loans[i]
			return &loan, nil
		}
	}
	return nil, nil
}

// Read copies the three collections
func (s *memoryStore) Read(ctx context.Context) models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.Snapshot{
		Users:     append(make([]models.User, 0, len(s.users)), s.users...),
		Materials: append(make([]models.Material, 0, len(s.materials)), s.materials...),
		Loans:     append(make([]models.Loan, 0, len(s.loans)), s.loans...),
	}
}

// Replace overwrites the collections present in doc
func (s *memoryStore) Replace(ctx context.Context, doc *models.Snapshot) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var applied []string
	if doc.Users != nil {
		s.users = append(make([]models.User, 0, len(doc.Users)), doc.Users...)
		applied = append(applied, ResourceUsers)
	}
	if doc.Materials != nil {
		s.materials = append(make([]models.Material, 0, len(doc.Materials)), doc.Materials...)
		applied = append(applied, ResourceMaterials)
	}
	if doc.Loans != nil {
		s.loans = append(make([]models.Loan, 0, len(doc.Loans)), doc.Loans...)
		applied = append(applied, ResourceLoans)
	}
	return applied
}

// Count returns the size of a collection
func (s *memoryStore) Count(ctx context.Context, resource string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch resource {
	case ResourceUsers:
		return len(s.users), nil
	case ResourceMaterials:
		return len(s.materials), nil
	case ResourceLoans:
		return len(s.loans), nil
	default:
		return 0, fmt.Errorf("unknown resource: %s", resource)
	}
}
