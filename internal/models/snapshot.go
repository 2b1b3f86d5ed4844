package models

import (
	"time"
)

// Snapshot is the export/import document bundling all record collections.
// A nil collection means the key was absent (or null) in the document and
// is left unchanged on import; an empty slice replaces the collection.
type Snapshot struct {
	Users     []User     `json:"users"`
	Materials []Material `json:"materials"`
	Loans     []Loan     `json:"loans"`
}

// ImportResult summarizes an applied snapshot import
type ImportResult struct {
	Applied   []string          `json:"applied"`
	Users     int               `json:"users"`
	Materials int               `json:"materials"`
	Loans     int               `json:"loans"`
	Warnings  []string          `json:"warnings,omitempty"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error.
// Index is the position in the offending collection, -1 for command input.
type ValidationError struct {
	Collection string      `json:"collection,omitempty"`
	Index      int         `json:"index"`
	Field      string      `json:"field"`
	Message    string      `json:"message"`
	Value      interface{} `json:"value,omitempty"`
}

// ArchivedSnapshot is a snapshot persisted by the archive backend
type ArchivedSnapshot struct {
	ID        string    `json:"id"`
	TakenAt   time.Time `json:"taken_at"`
	Users     int       `json:"users"`
	Materials int       `json:"materials"`
	Loans     int       `json:"loans"`
	Document  *Snapshot `json:"document,omitempty"`
}
