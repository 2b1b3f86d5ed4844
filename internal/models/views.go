package models

import (
	"time"
)

// MaterialFilter selects materials by availability
type MaterialFilter string

const (
	MaterialFilterAll       MaterialFilter = "all"
	MaterialFilterAvailable MaterialFilter = "available"
	MaterialFilterBorrowed  MaterialFilter = "borrowed"
)

// HistoryFilter selects loans by status
type HistoryFilter string

const (
	HistoryFilterAll      HistoryFilter = "all"
	HistoryFilterActive   HistoryFilter = "active"
	HistoryFilterReturned HistoryFilter = "returned"
)

// HistorySort orders the history table
type HistorySort string

const (
	HistorySortDate     HistorySort = "date"
	HistorySortUser     HistorySort = "user"
	HistorySortMaterial HistorySort = "material"
)

// MaterialView is a material annotated with its availability badge
type MaterialView struct {
	Material
	Available    bool   `json:"available"`
	ActiveLoanID string `json:"activeLoanId,omitempty"`
	BorrowerName string `json:"borrowerName,omitempty"`
}

// MaterialList is the material projection with its counters
type MaterialList struct {
	Filter         MaterialFilter `json:"filter"`
	Items          []MaterialView `json:"items"`
	AvailableCount int            `json:"availableCount"`
	BorrowedCount  int            `json:"borrowedCount"`
}

// LoanView is a loan annotated with resolved names and overdue state
type LoanView struct {
	Loan
	UserName         string `json:"userName"`
	MaterialName     string `json:"materialName"`
	MaterialCategory string `json:"materialCategory"`
	Overdue          bool   `json:"overdue"`
	DaysLate         int    `json:"daysLate"`
}

// Summary holds the aggregate counters shown on the dashboard
type Summary struct {
	Users             int       `json:"users"`
	Materials         int       `json:"materials"`
	AvailableMaterial int       `json:"availableMaterials"`
	BorrowedMaterial  int       `json:"borrowedMaterials"`
	Loans             int       `json:"loans"`
	Active            int       `json:"active"`
	Returned          int       `json:"returned"`
	Overdue           int       `json:"overdue"`
	ComputedAt        time.Time `json:"computedAt"`
}

// HistoryReportRow is one flattened row of the downloadable history report
type HistoryReportRow struct {
	Utilisateur         string `json:"utilisateur"`
	Materiel            string `json:"materiel"`
	Categorie           string `json:"categorie"`
	DateEmprunt         string `json:"dateEmprunt"`
	DateRetourPrevue    string `json:"dateRetourPrevue"`
	DateRetourEffective string `json:"dateRetourEffective"`
	Statut              string `json:"statut"`
	EnRetard            string `json:"enRetard"`
	JoursRetard         int    `json:"joursRetard"`
}
