package service

import (
	"errors"
	"fmt"

	"github.com/equipment-loan-tracker/internal/validation"
)

var (
	// ErrLoanNotFound is returned when a return targets an unknown loan
	ErrLoanNotFound = errors.New("loan not found")
	// ErrLoanAlreadyReturned is returned when a loan is returned twice
	ErrLoanAlreadyReturned = errors.New("loan already returned")
	// ErrImportParse is returned when an imported document cannot be decoded
	ErrImportParse = errors.New("invalid snapshot document")
	// ErrImportInvalid is returned when imported records break record rules
	ErrImportInvalid = errors.New("snapshot document contains invalid records")
	// ErrArchiveDisabled is returned when no archive backend is configured
	ErrArchiveDisabled = errors.New("snapshot archive is disabled")
	// ErrInvalidFilter is returned for unknown filter or sort values
	ErrInvalidFilter = errors.New("invalid filter")
)

// ValidationErrors is returned when command input is refused
type ValidationErrors []validation.ValidationError

func (e ValidationErrors) Error() string {
	return "validation failed: " + validation.Describe(e)
}

// ConflictError is returned when a material already has an active loan
type ConflictError struct {
	MaterialID   string
	ActiveLoanID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("material %s is already on loan (loan %s)", e.MaterialID, e.ActiveLoanID)
}
