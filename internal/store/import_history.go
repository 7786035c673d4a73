package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type ImportHistoryStore struct {
	db *sqlx.DB
}

var (
	TriggerTypeManual    = "manual"
	TriggerTypeScheduled = "scheduled"
)

var (
	StatusInProgress = "in_progress"
	StatusSuccess    = "success"
	StatusFailure    = "failure"
	StatusPartial    = "partial"
)

// ImportHistory records one ads report import run.
type ImportHistory struct {
	ID            int64     `db:"id" json:"id"`
	ReferenceDate time.Time `db:"reference_date" json:"reference_date"`
	SourceFile    string    `db:"source_file" json:"source_file"`
	TriggerType   string    `db:"trigger_type" json:"trigger_type"`
	Status        string    `db:"status" json:"status"`
	RowsImported  int       `db:"rows_imported" json:"rows_imported"`
	RowsFailed    int       `db:"rows_failed" json:"rows_failed"`
	ErrorMessage  *string   `db:"error_message" json:"error_message"`
	ProcessedAt   time.Time `db:"processed_at" json:"processed_at"`
}

func IsImportStatus(s string) bool {
	switch s {
	case StatusInProgress, StatusSuccess, StatusFailure, StatusPartial:
		return true
	}
	return false
}

func (ih *ImportHistoryStore) InsertImportHistory(ctx context.Context, history *ImportHistory) error {
	query := `INSERT INTO import_history (
		reference_date,
		source_file,
		trigger_type,
		status,
		rows_imported,
		rows_failed,
		error_message
	) VALUES (
		:reference_date,
		:source_file,
		:trigger_type,
		:status,
		:rows_imported,
		:rows_failed,
		:error_message
	) RETURNING id, processed_at`

	if err := namedReturning(ctx, ih.db, query, history, &history.ID, &history.ProcessedAt); err != nil {
		return fmt.Errorf("failed to insert import history: %w", err)
	}
	return nil
}

func (ih *ImportHistoryStore) GetLatest(ctx context.Context, limit int) ([]ImportHistory, error) {
	out := []ImportHistory{}
	query := `SELECT id, reference_date, source_file, trigger_type, status, rows_imported,
		rows_failed, error_message, processed_at
	FROM import_history
	ORDER BY processed_at DESC
	LIMIT $1`
	if err := ih.db.SelectContext(ctx, &out, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query import history: %w", err)
	}
	return out, nil
}

func (ih *ImportHistoryStore) UpdateImportStatus(ctx context.Context, id int64, status string) error {
	res, err := ih.db.ExecContext(ctx, `UPDATE import_history SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update import status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
