package mocks

import (
	"context"
	"sort"

	"github.com/equipment-loan-tracker/internal/models"
	"github.com/equipment-loan-tracker/internal/repository"
)

// MockSnapshotRepository is a mock implementation of SnapshotRepository
type MockSnapshotRepository struct {
	Snapshots []*models.ArchivedSnapshot
	SaveError error
	ListError error
	SaveCalls int
}

// Verify interface compliance
var _ repository.SnapshotRepository = (*MockSnapshotRepository)(nil)

func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{
		Snapshots: make([]*models.ArchivedSnapshot, 0),
	}
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snapshot *models.ArchivedSnapshot) error {
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	stored := *snapshot
	if snapshot.Document != nil {
		doc := *snapshot.Document
		stored.Document = &doc
	}
	m.Snapshots = append(m.Snapshots, &stored)
	return nil
}

func (m *MockSnapshotRepository) List(ctx context.Context, limit int) ([]models.ArchivedSnapshot, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	sorted := m.sorted()
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	result := make([]models.ArchivedSnapshot, 0, len(sorted))
	for _, s := range sorted {
		header := *s
		header.Document = nil
		result = append(result, header)
	}
	return result, nil
}

func (m *MockSnapshotRepository) Latest(ctx context.Context) (*models.ArchivedSnapshot, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	sorted := m.sorted()
	if len(sorted) == 0 {
		return nil, nil
	}
	return sorted[0], nil
}

func (m *MockSnapshotRepository) sorted() []*models.ArchivedSnapshot {
	sorted := append([]*models.ArchivedSnapshot(nil), m.Snapshots...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TakenAt.After(sorted[j].TakenAt)
	})
	return sorted
}
