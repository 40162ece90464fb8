package runlog

import (
	"context"
	"database/sql"
	"fmt"

	"ftplake/internal/domain"
)

// Repo persists run records. It implements domain.RunRepository.
type Repo struct {
	db *sql.DB
}

// NewRepo creates a repository over an open run-log database.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Insert stores one run record.
func (r *Repo) Insert(ctx context.Context, rec *domain.RunRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (id, command, status, stage, remote_file, table_ref,
		                  rows_loaded, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Command, rec.Status, rec.Stage, rec.RemoteFile, rec.Table,
		rec.RowsLoaded, rec.Error, rec.StartedAt, rec.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", rec.ID, err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (r *Repo) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, command, status, stage, remote_file, table_ref,
		       rows_loaded, error, started_at, duration_ms
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.RunRecord
	for rows.Next() {
		var rec domain.RunRecord
		if err := rows.Scan(&rec.ID, &rec.Command, &rec.Status, &rec.Stage,
			&rec.RemoteFile, &rec.Table, &rec.RowsLoaded, &rec.Error,
			&rec.StartedAt, &rec.DurationMs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ domain.RunRepository = (*Repo)(nil)
