// Package loanstate derives availability and overdue facts from raw loan
// records. Nothing here is cached: callers pass the current loan collection
// and the current time on every call.
package loanstate

import (
	"sort"

	"github.com/equipment-loan-tracker/internal/models"
)

// FindActiveLoan returns the active loan for a material.
//
// At most one active loan per material is expected. When an imported
// document breaks that rule, the loan with the most recent BorrowDate wins
// and equal borrow dates resolve to the earliest in collection order.
func FindActiveLoan(materialID string, loans []models.Loan) (*models.Loan, bool) {
	var found *models.Loan
	for i := range loans {
		loan := &loans[i]
		if loan.MaterialID != materialID || !loan.IsActive() {
			continue
		}
		if found == nil || loan.BorrowDate.After(found.BorrowDate) {
			found = loan
		}
	}
	return found, found != nil
}

// IsAvailable reports whether a material has no active loan
func IsAvailable(materialID string, loans []models.Loan) bool {
	_, found := FindActiveLoan(materialID, loans)
	return !found
}

// ActiveLoanIndex maps each borrowed material to its winning active loan,
// using the same tie-break as FindActiveLoan.
func ActiveLoanIndex(loans []models.Loan) map[string]*models.Loan {
	index := make(map[string]*models.Loan)
	for i := range loans {
		loan := &loans[i]
		if !loan.IsActive() {
			continue
		}
		current, ok := index[loan.MaterialID]
		if !ok || loan.BorrowDate.After(current.BorrowDate) {
			index[loan.MaterialID] = loan
		}
	}
	return index
}

// ActiveLoanConflicts returns the materials holding more than one active
// loan, sorted by material ID.
func ActiveLoanConflicts(loans []models.Loan) []string {
	counts := make(map[string]int)
	for i := range loans {
		if loans[i].IsActive() {
			counts[loans[i].MaterialID]++
		}
	}

	var conflicts []string
	for materialID, n := range counts {
		if n > 1 {
			conflicts = append(conflicts, materialID)
		}
	}
	sort.Strings(conflicts)
	return conflicts
}
