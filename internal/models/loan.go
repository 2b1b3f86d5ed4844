package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
)

// ValidLoanStatuses defines allowed loan statuses
var ValidLoanStatuses = map[LoanStatus]bool{
	LoanStatusActive:   true,
	LoanStatusReturned: true,
}

// Loan records the checkout of one material by one user.
// ExpectedReturnDate and ActualReturnDate are nil when unset.
type Loan struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	MaterialID         string     `json:"materialId"`
	BorrowDate         time.Time  `json:"borrowDate"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate,omitempty"`
	ActualReturnDate   *time.Time `json:"actualReturnDate,omitempty"`
	Status             LoanStatus `json:"status"`
}

// IsActive reports whether the material is still checked out
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// CreateLoanRequest is the payload for checking out material.
// ExpectedReturnDate is a calendar date (YYYY-MM-DD) or empty.
type CreateLoanRequest struct {
	UserID             string `json:"userId"`
	MaterialID         string `json:"materialId"`
	ExpectedReturnDate string `json:"expectedReturnDate,omitempty"`
}

// DateLayout is the textual form of calendar dates
const DateLayout = "2006-01-02"

// CalendarDate truncates t to midnight UTC of its calendar day
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseCalendarDate accepts YYYY-MM-DD or an RFC 3339 timestamp
func ParseCalendarDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %q", s)
	}
	return CalendarDate(t), nil
}

// UnmarshalJSON accepts bare calendar dates for expectedReturnDate in
// addition to full timestamps.
func (l *Loan) UnmarshalJSON(data []byte) error {
	type loanAlias Loan
	aux := struct {
		*loanAlias
		ExpectedReturnDate *string `json:"expectedReturnDate"`
	}{loanAlias: (*loanAlias)(l)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	l.ExpectedReturnDate = nil
	if aux.ExpectedReturnDate != nil && *aux.ExpectedReturnDate != "" {
		if t, err := time.Parse(time.RFC3339Nano, *aux.ExpectedReturnDate); err == nil {
			l.ExpectedReturnDate = &t
			return nil
		}
		t, err := time.Parse(DateLayout, *aux.ExpectedReturnDate)
		if err != nil {
			return fmt.Errorf("expectedReturnDate: invalid date %q", *aux.ExpectedReturnDate)
		}
		l.ExpectedReturnDate = &t
	}
	return nil
}
