// Package history records the outcome of generation runs. Only run
// metadata is persisted; the schema being edited never is.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mockforge/mockforge/internal/types"
)

// Run is one recorded generation attempt.
type Run struct {
	ID          string         `json:"id"`
	FileType    types.FileType `json:"fileType"`
	FileSize    int            `json:"fileSize"`
	FieldCount  int            `json:"fieldCount"`
	Status      string         `json:"status"` // "succeeded" or "failed"
	Error       string         `json:"error,omitempty"`
	RequestedAt time.Time      `json:"requestedAt"`
}

// Store is the interface for reading and writing generation runs.
type Store interface {
	// WriteRun records one generation attempt.
	WriteRun(ctx context.Context, run Run) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// SQLiteStore implements Store on a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// CreateTable creates the generation_runs table. Run at startup.
func (s *SQLiteStore) CreateTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS generation_runs (
			id           TEXT PRIMARY KEY,
			file_type    TEXT NOT NULL,
			file_size    INTEGER NOT NULL,
			field_count  INTEGER NOT NULL,
			status       TEXT NOT NULL,
			error        TEXT NOT NULL DEFAULT '',
			requested_at TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("creating generation_runs table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) WriteRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generation_runs (id, file_type, file_size, field_count, status, error, requested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.FileType), run.FileSize, run.FieldCount,
		run.Status, run.Error, run.RequestedAt.UTC())
	if err != nil {
		return fmt.Errorf("writing generation run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_type, file_size, field_count, status, error, requested_at
		FROM generation_runs
		ORDER BY requested_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying generation runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r  Run
			ft string
		)
		if err := rows.Scan(&r.ID, &ft, &r.FileSize, &r.FieldCount, &r.Status, &r.Error, &r.RequestedAt); err != nil {
			return nil, fmt.Errorf("scanning generation run: %w", err)
		}
		r.FileType = types.FileType(ft)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
