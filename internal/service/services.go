package service

import (
	"context"
	"io"
	"time"

	"github.com/equipment-loan-tracker/internal/config"
	"github.com/equipment-loan-tracker/internal/models"
	"github.com/equipment-loan-tracker/internal/repository"
	"github.com/rs/zerolog"
)

// Clock returns the current time; views and commands never call time.Now directly
type Clock func() time.Time

// LoanService is the single writer of the record store
type LoanService interface {
	AddUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	AddMaterial(ctx context.Context, req *models.CreateMaterialRequest) (*models.Material, error)
	CreateLoan(ctx context.Context, req *models.CreateLoanRequest) (*models.Loan, error)
	ReturnLoan(ctx context.Context, loanID string) (*models.Loan, error)
}

// ViewService projects the record store into display-ready structures
type ViewService interface {
	Users(ctx context.Context) []models.User
	Materials(ctx context.Context, filter models.MaterialFilter) (*models.MaterialList, error)
	AvailableMaterials(ctx context.Context) []models.Material
	LoanBoard(ctx context.Context) []models.LoanView
	History(ctx context.Context, filter models.HistoryFilter, sortBy models.HistorySort) ([]models.LoanView, error)
	Summary(ctx context.Context) models.Summary
}

// SnapshotService exports, imports and archives the whole record store
type SnapshotService interface {
	Export(ctx context.Context) *models.Snapshot
	ExportFileName() string
	Import(ctx context.Context, r io.Reader) (*models.ImportResult, error)
	HistoryReport(ctx context.Context, filter models.HistoryFilter, sortBy models.HistorySort) ([]models.HistoryReportRow, error)
	ReportFileName() string
	Archive(ctx context.Context) (*models.ArchivedSnapshot, error)
	ListArchive(ctx context.Context, limit int) ([]models.ArchivedSnapshot, error)
	RestoreLatest(ctx context.Context) (*models.ImportResult, error)
}

// Services holds all service interfaces
type Services struct {
	Loans    LoanService
	Views    ViewService
	Snapshot SnapshotService
}

// NewServices creates all services on the wall clock
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return NewServicesWithClock(repos, cfg, log, time.Now)
}

// NewServicesWithClock creates all services reading time from clock
func NewServicesWithClock(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger, clock Clock) *Services {
	viewSvc := newViewService(repos.Records, cfg.Locale, clock)
	loanSvc := newLoanService(repos.Records, clock, log)
	snapshotSvc := newSnapshotService(repos, viewSvc, cfg, clock, log)

	return &Services{
		Loans:    loanSvc,
		Views:    viewSvc,
		Snapshot: snapshotSvc,
	}
}
