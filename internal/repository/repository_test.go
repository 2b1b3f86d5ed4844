package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/equipment-loan-tracker/internal/models"
	"github.com/equipment-loan-tracker/internal/repository"
)

func TestMemoryStore_AddAndGet(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	store.AddUser(ctx, &models.User{ID: "u1", FirstName: "Amélie", LastName: "Martin", CreatedAt: time.Now()})
	store.AddMaterial(ctx, &models.Material{ID: "m1", Name: "ThinkPad", Category: "Ordinateur portable", CreatedAt: time.Now()})

	user, err := store.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user == nil || user.FullName() != "Amélie Martin" {
		t.Errorf("Expected Amélie Martin, got %+v", user)
	}

	missing, err := store.GetMaterial(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("Expected nil material for unknown id, got %+v, %v", missing, err)
	}

	count, _ := store.Count(ctx, repository.ResourceMaterials)
	if count != 1 {
		t.Errorf("Expected 1 material, got %d", count)
	}
	if _, err := store.Count(ctx, "books"); err == nil {
		t.Error("Expected error for unknown resource")
	}
}

func TestMemoryStore_AddLoanGuard(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	errBusy := errors.New("busy")

	guard := func(loans []models.Loan) error {
		for _, l := range loans {
			if l.MaterialID == "m1" && l.IsActive() {
				return errBusy
			}
		}
		return nil
	}

	first := &models.Loan{ID: "l1", MaterialID: "m1", Status: models.LoanStatusActive}
	if err := store.AddLoan(ctx, first, guard); err != nil {
		t.Fatalf("First loan should be accepted: %v", err)
	}

	second := &models.Loan{ID: "l2", MaterialID: "m1", Status: models.LoanStatusActive}
	if err := store.AddLoan(ctx, second, guard); !errors.Is(err, errBusy) {
		t.Errorf("Expected guard error, got %v", err)
	}

	count, _ := store.Count(ctx, repository.ResourceLoans)
	if count != 1 {
		t.Errorf("Rejected loan must not be stored, got %d loans", count)
	}
}

func TestMemoryStore_UpdateLoan(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	store.AddLoan(ctx, &models.Loan{ID: "l1", MaterialID: "m1", Status: models.LoanStatusActive}, nil)

	_, err := store.UpdateLoan(ctx, "l1", func(l *models.Loan) error {
		l.Status = models.LoanStatusReturned
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("Expected error from fn")
	}
	loan, _ := store.GetLoan(ctx, "l1")
	if loan.Status != models.LoanStatusActive {
		t.Error("Failed update must leave the loan untouched")
	}

	updated, err := store.UpdateLoan(ctx, "l1", func(l *models.Loan) error {
		l.Status = models.LoanStatusReturned
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateLoan failed: %v", err)
	}
	if updated.Status != models.LoanStatusReturned {
		t.Errorf("Expected returned status, got %s", updated.Status)
	}

	if _, err := store.UpdateLoan(ctx, "missing", func(*models.Loan) error { return nil }); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ReadIsACopy(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	store.AddUser(ctx, &models.User{ID: "u1", FirstName: "Bruno", LastName: "Martin"})

	doc := store.Read(ctx)
	doc.Users[0].FirstName = "Changed"

	user, _ := store.GetUser(ctx, "u1")
	if user.FirstName != "Bruno" {
		t.Error("Mutating a read copy must not change the store")
	}
}

func TestMemoryStore_ReplacePartial(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	store.AddUser(ctx, &models.User{ID: "u1"})
	store.AddMaterial(ctx, &models.Material{ID: "m1"})
	store.AddLoan(ctx, &models.Loan{ID: "l1", MaterialID: "m1", Status: models.LoanStatusActive}, nil)

	applied := store.Replace(ctx, &models.Snapshot{
		Users: []models.User{{ID: "u2"}, {ID: "u3"}},
	})
	if len(applied) != 1 || applied[0] != repository.ResourceUsers {
		t.Errorf("Expected only users applied, got %v", applied)
	}

	doc := store.Read(ctx)
	if len(doc.Users) != 2 || doc.Users[0].ID != "u2" {
		t.Errorf("Users should be replaced, got %+v", doc.Users)
	}
	if len(doc.Materials) != 1 || len(doc.Loans) != 1 {
		t.Errorf("Materials and loans should be unchanged, got %d/%d", len(doc.Materials), len(doc.Loans))
	}

	applied = store.Replace(ctx, &models.Snapshot{Loans: []models.Loan{}})
	if len(applied) != 1 || applied[0] != repository.ResourceLoans {
		t.Errorf("Empty loans slice should still apply, got %v", applied)
	}
	if count, _ := store.Count(ctx, repository.ResourceLoans); count != 0 {
		t.Errorf("Expected loans cleared, got %d", count)
	}
}

func TestDirSnapshotRepo(t *testing.T) {
	repo, err := repository.NewDirSnapshotRepo(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirSnapshotRepo failed: %v", err)
	}
	ctx := context.Background()

	latest, err := repo.Latest(ctx)
	if err != nil || latest != nil {
		t.Fatalf("Expected empty archive, got %+v, %v", latest, err)
	}

	base := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := repo.Save(ctx, &models.ArchivedSnapshot{
			ID:      fmt.Sprintf("snap-%d", i),
			TakenAt: base.Add(time.Duration(i) * time.Hour),
			Users:   i,
			Document: &models.Snapshot{
				Users: make([]models.User, i),
			},
		})
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	list, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(list))
	}
	if list[0].ID != "snap-2" || list[1].ID != "snap-1" {
		t.Errorf("Expected newest first, got %s, %s", list[0].ID, list[1].ID)
	}
	if list[0].Document != nil {
		t.Error("List should not carry documents")
	}

	latest, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.ID != "snap-2" || latest.Document == nil || len(latest.Document.Users) != 2 {
		t.Errorf("Unexpected latest snapshot: %+v", latest)
	}
}
