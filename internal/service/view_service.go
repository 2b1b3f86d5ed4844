package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/equipment-loan-tracker/internal/loanstate"
	"github.com/equipment-loan-tracker/internal/models"
	"github.com/equipment-loan-tracker/internal/repository"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// viewService is the concrete implementation of ViewService.
// Every projection is recomputed from a fresh read of the store.
type viewService struct {
	store  repository.RecordStore
	locale language.Tag
	clock  Clock
}

// newViewService creates a new ViewService collating names for locale
func newViewService(store repository.RecordStore, locale string, clock Clock) *viewService {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.French
	}
	return &viewService{
		store:  store,
		locale: tag,
		clock:  clock,
	}
}

// nameResolver maps record IDs to display names, falling back to the
// unknown labels for dangling references.
type nameResolver struct {
	users     map[string]*models.User
	materials map[string]*models.Material
}

func newNameResolver(doc *models.Snapshot) *nameResolver {
	r := &nameResolver{
		users:     make(map[string]*models.User, len(doc.Users)),
		materials: make(map[string]*models.Material, len(doc.Materials)),
	}
	// first record wins on duplicate IDs
	for i := range doc.Users {
		if _, ok := r.users[doc.Users[i].ID]; !ok {
			r.users[doc.Users[i].ID] = &doc.Users[i]
		}
	}
	for i := range doc.Materials {
		if _, ok := r.materials[doc.Materials[i].ID]; !ok {
			r.materials[doc.Materials[i].ID] = &doc.Materials[i]
		}
	}
	return r
}

func (r *nameResolver) userName(id string) string {
	if user, ok := r.users[id]; ok {
		return user.FullName()
	}
	return models.UnknownUserName
}

func (r *nameResolver) material(id string) (name, category string) {
	if material, ok := r.materials[id]; ok {
		return material.Name, material.Category
	}
	return models.UnknownMaterialName, ""
}

func (r *nameResolver) loanView(loan *models.Loan, now time.Time) models.LoanView {
	name, category := r.material(loan.MaterialID)
	return models.LoanView{
		Loan:             *loan,
		UserName:         r.userName(loan.UserID),
		MaterialName:     name,
		MaterialCategory: category,
		Overdue:          loanstate.IsOverdue(loan, now),
		DaysLate:         loanstate.DaysLate(loan, now),
	}
}

// Users returns all registered users in creation order
func (s *viewService) Users(ctx context.Context) []models.User {
	return s.store.Read(ctx).Users
}

// Materials returns the material list with availability badges
func (s *viewService) Materials(ctx context.Context, filter models.MaterialFilter) (*models.MaterialList, error) {
	if filter == "" {
		filter = models.MaterialFilterAll
	}
	if filter != models.MaterialFilterAll && filter != models.MaterialFilterAvailable && filter != models.MaterialFilterBorrowed {
		return nil, fmt.Errorf("%w: material filter must be one of: all, available, borrowed", ErrInvalidFilter)
	}

	doc := s.store.Read(ctx)
	names := newNameResolver(&doc)
	active := loanstate.ActiveLoanIndex(doc.Loans)

	list := &models.MaterialList{
		Filter: filter,
		Items:  make([]models.MaterialView, 0, len(doc.Materials)),
	}
	for _, material := range doc.Materials {
		loan, borrowed := active[material.ID]
		if borrowed {
			list.BorrowedCount++
		} else {
			list.AvailableCount++
		}

		if (filter == models.MaterialFilterAvailable && borrowed) ||
			(filter == models.MaterialFilterBorrowed && !borrowed) {
			continue
		}

		item := models.MaterialView{Material: material, Available: !borrowed}
		if borrowed {
			item.ActiveLoanID = loan.ID
			item.BorrowerName = names.userName(loan.UserID)
		}
		list.Items = append(list.Items, item)
	}

	return list, nil
}

// AvailableMaterials returns the materials that can be offered for checkout
func (s *viewService) AvailableMaterials(ctx context.Context) []models.Material {
	doc := s.store.Read(ctx)
	active := loanstate.ActiveLoanIndex(doc.Loans)

	available := make([]models.Material, 0, len(doc.Materials))
	for _, material := range doc.Materials {
		if _, borrowed := active[material.ID]; !borrowed {
			available = append(available, material)
		}
	}
	return available
}

// LoanBoard returns the active loans annotated for display
func (s *viewService) LoanBoard(ctx context.Context) []models.LoanView {
	doc := s.store.Read(ctx)
	names := newNameResolver(&doc)
	now := s.clock()

	board := make([]models.LoanView, 0)
	for i := range doc.Loans {
		if doc.Loans[i].IsActive() {
			board = append(board, names.loanView(&doc.Loans[i], now))
		}
	}
	return board
}

// History returns all loans filtered by status and sorted.
// Name sorts use locale-aware collation; every sort is stable.
func (s *viewService) History(ctx context.Context, filter models.HistoryFilter, sortBy models.HistorySort) ([]models.LoanView, error) {
	if filter == "" {
		filter = models.HistoryFilterAll
	}
	if sortBy == "" {
		sortBy = models.HistorySortDate
	}
	if filter != models.HistoryFilterAll && filter != models.HistoryFilterActive && filter != models.HistoryFilterReturned {
		return nil, fmt.Errorf("%w: status must be one of: all, active, returned", ErrInvalidFilter)
	}
	if sortBy != models.HistorySortDate && sortBy != models.HistorySortUser && sortBy != models.HistorySortMaterial {
		return nil, fmt.Errorf("%w: sort must be one of: date, user, material", ErrInvalidFilter)
	}

	doc := s.store.Read(ctx)
	names := newNameResolver(&doc)
	now := s.clock()

	rows := make([]models.LoanView, 0, len(doc.Loans))
	for i := range doc.Loans {
		loan := &doc.Loans[i]
		if filter == models.HistoryFilterActive && loan.Status != models.LoanStatusActive {
			continue
		}
		if filter == models.HistoryFilterReturned && loan.Status != models.LoanStatusReturned {
			continue
		}
		rows = append(rows, names.loanView(loan, now))
	}

	// collate.Collator is not safe for concurrent use, build one per call
	collator := collate.New(s.locale)
	switch sortBy {
	case models.HistorySortUser:
		sort.SliceStable(rows, func(i, j int) bool {
			return collator.CompareString(rows[i].UserName, rows[j].UserName) < 0
		})
	case models.HistorySortMaterial:
		sort.SliceStable(rows, func(i, j int) bool {
			return collator.CompareString(rows[i].MaterialName, rows[j].MaterialName) < 0
		})
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].BorrowDate.After(rows[j].BorrowDate)
		})
	}

	return rows, nil
}

// Summary counts records for the dashboard
func (s *viewService) Summary(ctx context.Context) models.Summary {
	doc := s.store.Read(ctx)
	now := s.clock()
	active := loanstate.ActiveLoanIndex(doc.Loans)

	summary := models.Summary{
		Users:      len(doc.Users),
		Materials:  len(doc.Materials),
		Loans:      len(doc.Loans),
		ComputedAt: now,
	}
	for _, material := range doc.Materials {
		if _, borrowed := active[material.ID]; borrowed {
			summary.BorrowedMaterial++
		} else {
			summary.AvailableMaterial++
		}
	}
	for i := range doc.Loans {
		switch doc.Loans[i].Status {
		case models.LoanStatusActive:
			summary.Active++
		case models.LoanStatusReturned:
			summary.Returned++
		}
		if loanstate.IsOverdue(&doc.Loans[i], now) {
			summary.Overdue++
		}
	}
	return summary
}
