package repository

import (
	"context"
	"errors"

	"github.com/equipment-loan-tracker/internal/models"
)

// ErrNotFound is returned when an update targets a missing record
var ErrNotFound = errors.New("record not found")

// RecordStore holds the users, materials and loans collections.
// Every method is an atomic step; readers always see a consistent state.
type RecordStore interface {
	AddUser(ctx context.Context, user *models.User) error
	AddMaterial(ctx context.Context, material *models.Material) error
	// AddLoan runs guard against the current loans under the write lock and
	// only appends the loan when guard returns nil.
	AddLoan(ctx context.Context, loan *models.Loan, guard func(loans []models.Loan) error) error
	// UpdateLoan applies fn to the stored loan under the write lock.
	// The change is discarded when fn returns an error.
	UpdateLoan(ctx context.Context, id string, fn func(loan *models.Loan) error) (*models.Loan, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetMaterial(ctx context.Context, id string) (*models.Material, error)
	GetLoan(ctx context.Context, id string) (*models.Loan, error)
	// Read returns a copy of all three collections
	Read(ctx context.Context) models.Snapshot
	// Replace overwrites every non-nil collection of doc and returns the
	// names of the collections it replaced.
	Replace(ctx context.Context, doc *models.Snapshot) []string
	Count(ctx context.Context, resource string) (int, error)
}

// SnapshotRepository persists archived snapshots
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *models.ArchivedSnapshot) error
	// List returns archived snapshots newest first, without documents
	List(ctx context.Context, limit int) ([]models.ArchivedSnapshot, error)
	// Latest returns the newest snapshot with its document, or nil
	Latest(ctx context.Context) (*models.ArchivedSnapshot, error)
}

// Resource names shared by Count and the archive
const (
	ResourceUsers     = "users"
	ResourceMaterials = "materials"
	ResourceLoans     = "loans"
)

// Repositories holds all repository interfaces.
// Snapshots is nil when no archive backend is configured.
type Repositories struct {
	Records   RecordStore
	Snapshots SnapshotRepository
}

// New creates the repositories around a fresh in-memory record store
func New(snapshots SnapshotRepository) *Repositories {
	return &Repositories{
		Records:   NewMemoryStore(),
		Snapshots: snapshots,
	}
}
