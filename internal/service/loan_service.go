package service

import (
	"context"
	"errors"
	"strings"

	"github.com/equipment-loan-tracker/internal/loanstate"
	"github.com/equipment-loan-tracker/internal/models"
	"github.com/equipment-loan-tracker/internal/repository"
	"github.com/equipment-loan-tracker/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// loanService is the concrete implementation of LoanService
type loanService struct {
	store repository.RecordStore
	clock Clock
	log   zerolog.Logger
}

// newLoanService creates a new LoanService
func newLoanService(store repository.RecordStore, clock Clock, log zerolog.Logger) *loanService {
	return &loanService{
		store: store,
		clock: clock,
		log:   log.With().Str("service", "loans").Logger(),
	}
}

// AddUser registers a user with trimmed names
func (s *loanService) AddUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if errs := validation.ValidateUserInput(req); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	user := &models.User{
		ID:        uuid.New().String(),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		CreatedAt: s.clock(),
	}
	if err := s.store.AddUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("User added")
	return user, nil
}

// AddMaterial registers a material with trimmed fields
func (s *loanService) AddMaterial(ctx context.Context, req *models.CreateMaterialRequest) (*models.Material, error) {
	if errs := validation.ValidateMaterialInput(req); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	material := &models.Material{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Category:  strings.TrimSpace(req.Category),
		CreatedAt: s.clock(),
	}
	if err := s.store.AddMaterial(ctx, material); err != nil {
		return nil, err
	}

	s.log.Info().Str("material_id", material.ID).Str("category", material.Category).Msg("Material added")
	return material, nil
}

// CreateLoan checks out an available material.
// A material that already has an active loan yields a *ConflictError.
func (s *loanService) CreateLoan(ctx context.Context, req *models.CreateLoanRequest) (*models.Loan, error) {
	if errs := validation.ValidateLoanInput(req); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	var refErrs ValidationErrors
	if user, err := s.store.GetUser(ctx, req.UserID); err != nil {
		return nil, err
	} else if user == nil {
		refErrs = append(refErrs, validation.ValidationError{Field: "userId", Message: "referenced user does not exist", Value: req.UserID})
	}
	if material, err := s.store.GetMaterial(ctx, req.MaterialID); err != nil {
		return nil, err
	} else if material == nil {
		refErrs = append(refErrs, validation.ValidationError{Field: "materialId", Message: "referenced material does not exist", Value: req.MaterialID})
	}
	if len(refErrs) > 0 {
		return nil, refErrs
	}

	loan := &models.Loan{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		MaterialID: req.MaterialID,
		BorrowDate: s.clock(),
		Status:     models.LoanStatusActive,
	}
	if req.ExpectedReturnDate != "" {
		expected, err := models.ParseCalendarDate(req.ExpectedReturnDate)
		if err != nil {
			return nil, err
		}
		loan.ExpectedReturnDate = &expected
	}

	err := s.store.AddLoan(ctx, loan, func(loans []models.Loan) error {
		if active, found := loanstate.FindActiveLoan(loan.MaterialID, loans); found {
			return &ConflictError{MaterialID: loan.MaterialID, ActiveLoanID: active.ID}
		}
		return nil
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			s.log.Warn().
				Str("material_id", conflict.MaterialID).
				Str("active_loan_id", conflict.ActiveLoanID).
				Msg("Loan refused, material already on loan")
		}
		return nil, err
	}

	s.log.Info().
		Str("loan_id", loan.ID).
		Str("user_id", loan.UserID).
		Str("material_id", loan.MaterialID).
		Bool("has_expected_return", loan.ExpectedReturnDate != nil).
		Msg("Loan created")

	return loan, nil
}

// ReturnLoan marks an active loan as returned now
func (s *loanService) ReturnLoan(ctx context.Context, loanID string) (*models.Loan, error) {
	now := s.clock()
	daysLate := 0

	loan, err := s.store.UpdateLoan(ctx, loanID, func(l *models.Loan) error {
		if l.Status == models.LoanStatusReturned {
			return ErrLoanAlreadyReturned
		}
		daysLate = loanstate.DaysLate(l, now)
		l.Status = models.LoanStatusReturned
		l.ActualReturnDate = &now
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("loan_id", loan.ID).
		Str("material_id", loan.MaterialID).
		Int("days_late", daysLate).
		Msg("Material returned")

	return loan, nil
}
