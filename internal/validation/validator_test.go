package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/equipment-loan-tracker/internal/models"
)

func TestValidateUserInput(t *testing.T) {
	tests := []struct {
		name       string
		req        models.CreateUserRequest
		wantFields []string
	}{
		{"valid user", models.CreateUserRequest{FirstName: "Amélie", LastName: "Martin"}, nil},
		{"blank first name", models.CreateUserRequest{FirstName: "   ", LastName: "Martin"}, []string{"firstName"}},
		{"both missing", models.CreateUserRequest{}, []string{"firstName", "lastName"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateUserInput(&tt.req)
			assertFields(t, errs, tt.wantFields)
		})
	}
}

func TestValidateMaterialInput(t *testing.T) {
	tests := []struct {
		name       string
		req        models.CreateMaterialRequest
		wantFields []string
	}{
		{"valid material", models.CreateMaterialRequest{Name: "ThinkPad X1", Category: "Ordinateur portable"}, nil},
		{"missing category", models.CreateMaterialRequest{Name: "ThinkPad X1"}, []string{"category"}},
		{"blank name", models.CreateMaterialRequest{Name: "\t", Category: "Souris"}, []string{"name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateMaterialInput(&tt.req)
			assertFields(t, errs, tt.wantFields)
		})
	}
}

func TestValidateLoanInput(t *testing.T) {
	tests := []struct {
		name       string
		req        models.CreateLoanRequest
		wantFields []string
	}{
		{"no expected date", models.CreateLoanRequest{UserID: "u1", MaterialID: "m1"}, nil},
		{"calendar date", models.CreateLoanRequest{UserID: "u1", MaterialID: "m1", ExpectedReturnDate: "2024-01-05"}, nil},
		{"bad date", models.CreateLoanRequest{UserID: "u1", MaterialID: "m1", ExpectedReturnDate: "05/01/2024"}, []string{"expectedReturnDate"}},
		{"missing refs", models.CreateLoanRequest{}, []string{"userId", "materialId"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateLoanInput(&tt.req)
			assertFields(t, errs, tt.wantFields)
		})
	}
}

func TestValidateLoan(t *testing.T) {
	now := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		loan       models.Loan
		wantFields []string
	}{
		{
			name: "valid active loan",
			loan: models.Loan{ID: "l1", UserID: "u1", MaterialID: "m1", BorrowDate: now, Status: models.LoanStatusActive},
		},
		{
			name: "valid returned loan",
			loan: models.Loan{ID: "l2", UserID: "u1", MaterialID: "m1", BorrowDate: now, Status: models.LoanStatusReturned, ActualReturnDate: &now},
		},
		{
			name:       "returned without return date",
			loan:       models.Loan{ID: "l3", UserID: "u1", MaterialID: "m1", BorrowDate: now, Status: models.LoanStatusReturned},
			wantFields: []string{"actualReturnDate"},
		},
		{
			name:       "active with return date",
			loan:       models.Loan{ID: "l4", UserID: "u1", MaterialID: "m1", BorrowDate: now, Status: models.LoanStatusActive, ActualReturnDate: &now},
			wantFields: []string{"actualReturnDate"},
		},
		{
			name:       "unknown status",
			loan:       models.Loan{ID: "l5", UserID: "u1", MaterialID: "m1", BorrowDate: now, Status: "lost"},
			wantFields: []string{"status"},
		},
		{
			name:       "missing everything",
			loan:       models.Loan{Status: models.LoanStatusActive},
			wantFields: []string{"id", "userId", "materialId", "borrowDate"},
		},
	}

	validator := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validator.ValidateLoan(&tt.loan)
			assertFields(t, errs, tt.wantFields)
		})
	}
}

func TestValidateSnapshot_DuplicateIDs(t *testing.T) {
	doc := &models.Snapshot{
		Users:     []models.User{{ID: "u1"}, {ID: "u1"}},
		Materials: []models.Material{{ID: "m1"}, {ID: ""}},
	}

	errs := ValidateSnapshot(doc)
	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %d: %+v", len(errs), errs)
	}
	if errs[0].Collection != "users" || errs[0].Index != 1 || !strings.Contains(errs[0].Message, "duplicate") {
		t.Errorf("Unexpected first error: %+v", errs[0])
	}
	if errs[1].Collection != "materials" || errs[1].Index != 1 || errs[1].Field != "id" {
		t.Errorf("Unexpected second error: %+v", errs[1])
	}
}

func TestValidateSnapshot_DanglingReferencesAllowed(t *testing.T) {
	now := time.Now()
	doc := &models.Snapshot{
		Loans: []models.Loan{{ID: "l1", UserID: "ghost", MaterialID: "ghost", BorrowDate: now, Status: models.LoanStatusActive}},
	}
	if errs := ValidateSnapshot(doc); len(errs) != 0 {
		t.Errorf("Dangling references should not be errors, got %+v", errs)
	}
}

func TestDescribe(t *testing.T) {
	msg := Describe([]ValidationError{
		{Field: "firstName", Message: "firstName is required"},
		{Field: "lastName", Message: "lastName is required"},
	})
	if msg != "firstName: firstName is required; lastName: lastName is required" {
		t.Errorf("Unexpected description: %s", msg)
	}
}

func assertFields(t *testing.T, errs []ValidationError, want []string) {
	t.Helper()
	if len(errs) != len(want) {
		t.Fatalf("Expected %d errors, got %d: %+v", len(want), len(errs), errs)
	}
	for i, field := range want {
		if errs[i].Field != field {
			t.Errorf("Expected error on field %s, got %s", field, errs[i].Field)
		}
	}
}
