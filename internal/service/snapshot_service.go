package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/equipment-loan-tracker/internal/config"
	"github.com/equipment-loan-tracker/internal/loanstate"
	"github.com/equipment-loan-tracker/internal/models"
	"github.com/equipment-loan-tracker/internal/repository"
	"github.com/equipment-loan-tracker/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// reportDateLayout matches the fr-FR date-time rendering of the history report
const reportDateLayout = "02/01/2006 15:04:05"

// snapshotService is the concrete implementation of SnapshotService
type snapshotService struct {
	repos    *repository.Repositories
	views    ViewService
	cfg      config.SnapshotConfig
	location *time.Location
	clock    Clock
	log      zerolog.Logger
}

// newSnapshotService creates a new SnapshotService
func newSnapshotService(repos *repository.Repositories, views ViewService, cfg *config.Config, clock Clock, log zerolog.Logger) *snapshotService {
	log = log.With().Str("service", "snapshot").Logger()

	location := time.UTC
	if cfg.TimeZone != "" {
		if loc, err := time.LoadLocation(cfg.TimeZone); err == nil {
			location = loc
		} else {
			log.Warn().Err(err).Str("timezone", cfg.TimeZone).Msg("Unknown time zone, report dates use UTC")
		}
	}

	return &snapshotService{
		repos:    repos,
		views:    views,
		cfg:      cfg.Snapshot,
		location: location,
		clock:    clock,
		log:      log,
	}
}

// Export bundles the three collections verbatim
func (s *snapshotService) Export(ctx context.Context) *models.Snapshot {
	doc := s.repos.Records.Read(ctx)

	s.log.Info().
		Int("users", len(doc.Users)).
		Int("materials", len(doc.Materials)).
		Int("loans", len(doc.Loans)).
		Msg("Snapshot exported")

	return &doc
}

// ExportFileName returns <base>_YYYY-MM-DD.json for today
func (s *snapshotService) ExportFileName() string {
	return datedFileName(s.cfg.ExportBaseName, s.clock())
}

// ReportFileName returns the history report file name for today
func (s *snapshotService) ReportFileName() string {
	return datedFileName(s.cfg.ReportBaseName, s.clock())
}

func datedFileName(base string, now time.Time) string {
	return fmt.Sprintf("%s_%s.json", base, now.UTC().Format(models.DateLayout))
}

// Import decodes a snapshot document and replaces the collections it
// carries. A malformed or invalid document leaves the store untouched.
func (s *snapshotService) Import(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var doc *models.Snapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warn().Err(err).Msg("Snapshot import rejected, parse failure")
		return nil, fmt.Errorf("%w: %v", ErrImportParse, err)
	}
	if doc == nil {
		s.log.Warn().Msg("Snapshot import rejected, document is null")
		return nil, fmt.Errorf("%w: document must be a JSON object", ErrImportParse)
	}

	return s.apply(ctx, doc)
}

// apply validates doc and swaps it into the store in one step
func (s *snapshotService) apply(ctx context.Context, doc *models.Snapshot) (*models.ImportResult, error) {
	if errs := validation.ValidateSnapshot(doc); len(errs) > 0 {
		s.log.Warn().Int("error_count", len(errs)).Msg("Snapshot import rejected, invalid records")
		return &models.ImportResult{Errors: errs}, ErrImportInvalid
	}

	result := &models.ImportResult{
		Applied: s.repos.Records.Replace(ctx, doc),
	}

	current := s.repos.Records.Read(ctx)
	result.Users = len(current.Users)
	result.Materials = len(current.Materials)
	result.Loans = len(current.Loans)

	for _, materialID := range loanstate.ActiveLoanConflicts(current.Loans) {
		winner, _ := loanstate.FindActiveLoan(materialID, current.Loans)
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"material %s has several active loans, loan %s is treated as current", materialID, winner.ID,
		))
	}

	s.log.Info().
		Strs("applied", result.Applied).
		Int("users", result.Users).
		Int("materials", result.Materials).
		Int("loans", result.Loans).
		Int("warnings", len(result.Warnings)).
		Msg("Snapshot imported")

	return result, nil
}

// HistoryReport flattens the history view into the downloadable report
func (s *snapshotService) HistoryReport(ctx context.Context, filter models.HistoryFilter, sortBy models.HistorySort) ([]models.HistoryReportRow, error) {
	loans, err := s.views.History(ctx, filter, sortBy)
	if err != nil {
		return nil, err
	}

	rows := make([]models.HistoryReportRow, 0, len(loans))
	for _, loan := range loans {
		row := models.HistoryReportRow{
			Utilisateur:      loan.UserName,
			Materiel:         loan.MaterialName,
			Categorie:        loan.MaterialCategory,
			DateEmprunt:      s.formatDate(loan.BorrowDate),
			DateRetourPrevue: "Non définie",
			Statut:           "En cours",
			EnRetard:         "Non",
			JoursRetard:      loan.DaysLate,
		}
		if loan.ExpectedReturnDate != nil {
			row.DateRetourPrevue = s.formatDate(*loan.ExpectedReturnDate)
		}
		if loan.ActualReturnDate != nil {
			row.DateRetourEffective = s.formatDate(*loan.ActualReturnDate)
		}
		if loan.Status == models.LoanStatusReturned {
			row.Statut = "Retourné"
		}
		if loan.Overdue {
			row.EnRetard = "Oui"
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *snapshotService) formatDate(t time.Time) string {
	return t.In(s.location).Format(reportDateLayout)
}

// Archive persists the current state to the archive backend
func (s *snapshotService) Archive(ctx context.Context) (*models.ArchivedSnapshot, error) {
	if s.repos.Snapshots == nil {
		return nil, ErrArchiveDisabled
	}

	doc := s.repos.Records.Read(ctx)
	snapshot := &models.ArchivedSnapshot{
		ID:        uuid.New().String(),
		TakenAt:   s.clock(),
		Users:     len(doc.Users),
		Materials: len(doc.Materials),
		Loans:     len(doc.Loans),
		Document:  &doc,
	}
	if err := s.repos.Snapshots.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to archive snapshot: %w", err)
	}

	s.log.Info().Str("snapshot_id", snapshot.ID).Msg("Snapshot archived")

	snapshot.Document = nil
	return snapshot, nil
}

// ListArchive returns archived snapshot headers, newest first
func (s *snapshotService) ListArchive(ctx context.Context, limit int) ([]models.ArchivedSnapshot, error) {
	if s.repos.Snapshots == nil {
		return nil, ErrArchiveDisabled
	}
	return s.repos.Snapshots.List(ctx, limit)
}

// RestoreLatest imports the newest archived snapshot.
// It returns a nil result when the archive is empty.
func (s *snapshotService) RestoreLatest(ctx context.Context) (*models.ImportResult, error) {
	if s.repos.Snapshots == nil {
		return nil, ErrArchiveDisabled
	}

	latest, err := s.repos.Snapshots.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	if latest == nil || latest.Document == nil {
		s.log.Info().Msg("Archive empty, nothing to restore")
		return nil, nil
	}

	s.log.Info().Str("snapshot_id", latest.ID).Time("taken_at", latest.TakenAt).Msg("Restoring archived snapshot")
	return s.apply(ctx, latest.Document)
}
