package benchmark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/equipment-loan-tracker/internal/config"
	"github.com/equipment-loan-tracker/internal/loanstate"
	"github.com/equipment-loan-tracker/internal/models"
	"github.com/equipment-loan-tracker/internal/repository"
	"github.com/equipment-loan-tracker/internal/service"
	"github.com/equipment-loan-tracker/internal/validation"
	"github.com/rs/zerolog"
)

var benchNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// buildSnapshot generates n users, n materials and n loans, half of them active
func buildSnapshot(n int) *models.Snapshot {
	doc := &models.Snapshot{
		Users:     make([]models.User, 0, n),
		Materials: make([]models.Material, 0, n),
		Loans:     make([]models.Loan, 0, n),
	}
	for i := 0; i < n; i++ {
		created := benchNow.AddDate(0, 0, -i%90)
		doc.Users = append(doc.Users, models.User{
			ID:        fmt.Sprintf("user-%06d", i),
			FirstName: fmt.Sprintf("Prénom%03d", i%500),
			LastName:  fmt.Sprintf("Nom%03d", (i*7)%500),
			CreatedAt: created,
		})
		doc.Materials = append(doc.Materials, models.Material{
			ID:        fmt.Sprintf("mat-%06d", i),
			Name:      fmt.Sprintf("Matériel %06d", (i*13)%n),
			Category:  models.Categories[i%len(models.Categories)],
			CreatedAt: created,
		})

		expected := models.CalendarDate(created.AddDate(0, 0, 7))
		loan := models.Loan{
			ID:                 fmt.Sprintf("loan-%06d", i),
			UserID:             fmt.Sprintf("user-%06d", (i*3)%n),
			MaterialID:         fmt.Sprintf("mat-%06d", i),
			BorrowDate:         created,
			ExpectedReturnDate: &expected,
			Status:             models.LoanStatusActive,
		}
		if i%2 == 1 {
			returned := created.AddDate(0, 0, 5)
			loan.ActualReturnDate = &returned
			loan.Status = models.LoanStatusReturned
		}
		doc.Loans = append(doc.Loans, loan)
	}
	return doc
}

func newBenchServices(b *testing.B, doc *models.Snapshot) *service.Services {
	b.Helper()
	cfg := &config.Config{
		Snapshot: config.SnapshotConfig{ExportBaseName: "gestion_materiel", ReportBaseName: "historique_emprunts"},
		Locale:   "fr",
		TimeZone: "UTC",
	}
	repos := repository.New(nil)
	repos.Records.Replace(context.Background(), doc)
	return service.NewServicesWithClock(repos, cfg, zerolog.Nop(), func() time.Time { return benchNow })
}

// BenchmarkFindActiveLoan benchmarks the availability scan over 1000 loans
func BenchmarkFindActiveLoan(b *testing.B) {
	loans := buildSnapshot(1000).Loans

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		loanstate.IsAvailable("mat-000998", loans)
	}
}

// BenchmarkHistorySort benchmarks the collated history view
func BenchmarkHistorySort(b *testing.B) {
	ctx := context.Background()
	services := newBenchServices(b, buildSnapshot(1000))

	for _, sortBy := range []models.HistorySort{models.HistorySortDate, models.HistorySortUser, models.HistorySortMaterial} {
		b.Run(string(sortBy), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := services.Views.History(ctx, models.HistoryFilterAll, sortBy); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "rows/sec")
		})
	}
}

// BenchmarkSummary benchmarks the summary counters
func BenchmarkSummary(b *testing.B) {
	ctx := context.Background()
	services := newBenchServices(b, buildSnapshot(1000))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		services.Views.Summary(ctx)
	}
}

// BenchmarkImport benchmarks decoding, validating and applying a document
func BenchmarkImport(b *testing.B) {
	ctx := context.Background()
	data, err := json.Marshal(buildSnapshot(1000))
	if err != nil {
		b.Fatal(err)
	}
	services := newBenchServices(b, &models.Snapshot{})

	b.ResetTimer()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		if _, err := services.Snapshot.Import(ctx, bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkValidateSnapshot benchmarks the semantic document checks
func BenchmarkValidateSnapshot(b *testing.B) {
	doc := buildSnapshot(1000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if errs := validation.ValidateSnapshot(doc); len(errs) > 0 {
			b.Fatalf("unexpected validation errors: %v", errs)
		}
	}
}
