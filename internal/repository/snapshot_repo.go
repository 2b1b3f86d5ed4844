package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/equipment-loan-tracker/internal/database"
	"github.com/equipment-loan-tracker/internal/models"
	"github.com/lib/pq"
)

// undefinedTable is the PostgreSQL error code for a missing relation
const undefinedTable = "42P01"

// snapshotRepo is the PostgreSQL implementation of SnapshotRepository
type snapshotRepo struct {
	db *database.DB
}

// NewSnapshotRepo creates a new PostgreSQL snapshot repository
func NewSnapshotRepo(db *database.DB) SnapshotRepository {
	return &snapshotRepo{db: db}
}

// Save inserts an archived snapshot with its document as JSONB
func (r *snapshotRepo) Save(ctx context.Context, snapshot *models.ArchivedSnapshot) error {
	document, err := json.Marshal(snapshot.Document)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot document: %w", err)
	}

	query := `
		INSERT INTO snapshots (id, taken_at, users_count, materials_count, loans_count, document)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.ExecContext(ctx, query,
		snapshot.ID, snapshot.TakenAt, snapshot.Users, snapshot.Materials, snapshot.Loans, document,
	)
	return wrapPQError(err)
}

// List retrieves archived snapshot headers, newest first
func (r *snapshotRepo) List(ctx context.Context, limit int) ([]models.ArchivedSnapshot, error) {
	query := `
		SELECT id, taken_at, users_count, materials_count, loans_count
		FROM snapshots ORDER BY taken_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapPQError(err)
	}
	defer rows.Close()

	var snapshots []models.ArchivedSnapshot
	for rows.Next() {
		var s models.ArchivedSnapshot
		if err := rows.Scan(&s.ID, &s.TakenAt, &s.Users, &s.Materials, &s.Loans); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// Latest retrieves the newest snapshot including its document
func (r *snapshotRepo) Latest(ctx context.Context) (*models.ArchivedSnapshot, error) {
	query := `
		SELECT id, taken_at, users_count, materials_count, loans_count, document
		FROM snapshots ORDER BY taken_at DESC LIMIT 1
	`

	var s models.ArchivedSnapshot
	var document []byte
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.ID, &s.TakenAt, &s.Users, &s.Materials, &s.Loans, &document,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapPQError(err)
	}

	var doc models.Snapshot
	if err := json.Unmarshal(document, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", s.ID, err)
	}
	s.Document = &doc

	return &s, nil
}

// wrapPQError adds a hint when the schema has not been migrated
func wrapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return fmt.Errorf("snapshots table missing, run migrations: %w", err)
	}
	return err
}
