package loanstate

import (
	"time"

	"github.com/equipment-loan-tracker/internal/models"
)

const millisPerDay = int64(24 * time.Hour / time.Millisecond)

// IsOverdue reports whether an active loan has passed its expected return date.
// Returned loans and loans without an expected date are never overdue.
func IsOverdue(loan *models.Loan, now time.Time) bool {
	if loan.Status == models.LoanStatusReturned || loan.ExpectedReturnDate == nil {
		return false
	}
	return now.After(*loan.ExpectedReturnDate)
}

// DaysLate returns the number of started days since the expected return
// date. Any overdue amount under 24 hours counts as one day.
func DaysLate(loan *models.Loan, now time.Time) int {
	if loan.Status == models.LoanStatusReturned || loan.ExpectedReturnDate == nil {
		return 0
	}

	diff := now.Sub(*loan.ExpectedReturnDate).Milliseconds()
	if diff <= 0 {
		return 0
	}
	days := diff / millisPerDay
	if diff%millisPerDay != 0 {
		days++
	}
	return int(days)
}
