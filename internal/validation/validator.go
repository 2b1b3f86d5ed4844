package validation

import (
	"fmt"
	"strings"

	"github.com/equipment-loan-tracker/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator checks command input and imported records.
// Its ID caches detect duplicates across one imported document.
type Validator struct {
	userIDCache     map[string]bool
	materialIDCache map[string]bool
	loanIDCache     map[string]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		userIDCache:     make(map[string]bool),
		materialIDCache: make(map[string]bool),
		loanIDCache:     make(map[string]bool),
	}
}

// ValidateUserInput validates a user registration; names are trimmed first
func ValidateUserInput(req *models.CreateUserRequest) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(req.FirstName) == "" {
		errors = append(errors, ValidationError{Field: "firstName", Message: "firstName is required"})
	}
	if strings.TrimSpace(req.LastName) == "" {
		errors = append(errors, ValidationError{Field: "lastName", Message: "lastName is required"})
	}

	return errors
}

// ValidateMaterialInput validates a material registration
func ValidateMaterialInput(req *models.CreateMaterialRequest) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(req.Name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(req.Category) == "" {
		errors = append(errors, ValidationError{Field: "category", Message: "category is required"})
	}

	return errors
}

// ValidateLoanInput validates a checkout request
func ValidateLoanInput(req *models.CreateLoanRequest) []ValidationError {
	var errors []ValidationError

	if req.UserID == "" {
		errors = append(errors, ValidationError{Field: "userId", Message: "userId is required"})
	}
	if req.MaterialID == "" {
		errors = append(errors, ValidationError{Field: "materialId", Message: "materialId is required"})
	}
	if req.ExpectedReturnDate != "" {
		if _, err := models.ParseCalendarDate(req.ExpectedReturnDate); err != nil {
			errors = append(errors, ValidationError{
				Field:   "expectedReturnDate",
				Message: "expectedReturnDate must be a YYYY-MM-DD date",
				Value:   req.ExpectedReturnDate,
			})
		}
	}

	return errors
}

// ValidateUser validates an imported user record
func (v *Validator) ValidateUser(user *models.User) []ValidationError {
	var errors []ValidationError

	if user.ID == "" {
		errors = append(errors, ValidationError{Field: "id", Message: "id is required"})
	} else if v.userIDCache[user.ID] {
		errors = append(errors, ValidationError{Field: "id", Message: "duplicate id", Value: user.ID})
	} else {
		v.userIDCache[user.ID] = true
	}

	return errors
}

// ValidateMaterial validates an imported material record
func (v *Validator) ValidateMaterial(material *models.Material) []ValidationError {
	var errors []ValidationError

	if material.ID == "" {
		errors = append(errors, ValidationError{Field: "id", Message: "id is required"})
	} else if v.materialIDCache[material.ID] {
		errors = append(errors, ValidationError{Field: "id", Message: "duplicate id", Value: material.ID})
	} else {
		v.materialIDCache[material.ID] = true
	}

	return errors
}

// ValidateLoan validates an imported loan record.
// Dangling userId/materialId references are allowed.
func (v *Validator) ValidateLoan(loan *models.Loan) []ValidationError {
	var errors []ValidationError

	if loan.ID == "" {
		errors = append(errors, ValidationError{Field: "id", Message: "id is required"})
	} else if v.loanIDCache[loan.ID] {
		errors = append(errors, ValidationError{Field: "id", Message: "duplicate id", Value: loan.ID})
	} else {
		v.loanIDCache[loan.ID] = true
	}

	if loan.UserID == "" {
		errors = append(errors, ValidationError{Field: "userId", Message: "userId is required"})
	}
	if loan.MaterialID == "" {
		errors = append(errors, ValidationError{Field: "materialId", Message: "materialId is required"})
	}
	if loan.BorrowDate.IsZero() {
		errors = append(errors, ValidationError{Field: "borrowDate", Message: "borrowDate is required"})
	}

	switch {
	case !models.ValidLoanStatuses[loan.Status]:
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "invalid status, must be one of: active, returned",
			Value:   loan.Status,
		})
	case loan.Status == models.LoanStatusReturned && loan.ActualReturnDate == nil:
		errors = append(errors, ValidationError{Field: "actualReturnDate", Message: "returned loans must have actualReturnDate"})
	case loan.Status == models.LoanStatusActive && loan.ActualReturnDate != nil:
		errors = append(errors, ValidationError{Field: "actualReturnDate", Message: "active loans must not have actualReturnDate"})
	}

	return errors
}

// ValidateSnapshot validates every record of an imported document
func ValidateSnapshot(doc *models.Snapshot) []models.ValidationError {
	v := NewValidator()
	var result []models.ValidationError

	collect := func(collection string, index int, errs []ValidationError) {
		for _, e := range errs {
			result = append(result, models.ValidationError{
				Collection: collection,
				Index:      index,
				Field:      e.Field,
				Message:    e.Message,
				Value:      e.Value,
			})
		}
	}

	for i := range doc.Users {
		collect("users", i, v.ValidateUser(&doc.Users[i]))
	}
	for i := range doc.Materials {
		collect("materials", i, v.ValidateMaterial(&doc.Materials[i]))
	}
	for i := range doc.Loans {
		collect("loans", i, v.ValidateLoan(&doc.Loans[i]))
	}

	return result
}

// Describe renders validation errors as one message
func Describe(errs []ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}
