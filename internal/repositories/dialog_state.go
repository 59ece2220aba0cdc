package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/plx/internal/dialogs"
	"github.com/desertthunder/plx/internal/shared"
)

var _ dialogs.Store = (*DialogStateRepository)(nil)

// DialogStateRepository implements [dialogs.Store] for the dialog_state table.
//
// Rows are upserted by tag so each dialog tag holds at most one record.
type DialogStateRepository struct {
	db *sql.DB
}

// NewDialogStateRepository creates a new DialogStateRepository with the given database connection
func NewDialogStateRepository(db *sql.DB) *DialogStateRepository {
	return &DialogStateRepository{db: db}
}

// Save inserts or replaces the record for rec.Tag
func (r *DialogStateRepository) Save(rec dialogs.Record) error {
	if rec.Tag == "" {
		return fmt.Errorf("%w: record tag", shared.ErrMissingArgument)
	}
	if rec.ShownAt.IsZero() {
		rec.ShownAt = time.Now()
	}

	query := `
		INSERT INTO dialog_state (tag, kind, params, shown_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(tag) DO UPDATE SET
			kind = excluded.kind,
			params = excluded.params,
			shown_at = excluded.shown_at
	`

	if _, err := r.db.Exec(query, rec.Tag, rec.Kind.String(), rec.Params, rec.ShownAt.UTC()); err != nil {
		return fmt.Errorf("failed to save dialog state: %w", err)
	}
	return nil
}

// Delete removes the record for tag. Deleting a missing tag is not an error.
func (r *DialogStateRepository) Delete(tag string) error {
	if _, err := r.db.Exec("DELETE FROM dialog_state WHERE tag = ?", tag); err != nil {
		return fmt.Errorf("failed to delete dialog state: %w", err)
	}
	return nil
}

// Get retrieves the record for tag
func (r *DialogStateRepository) Get(tag string) (*dialogs.Record, error) {
	row := r.db.QueryRow("SELECT tag, kind, params, shown_at FROM dialog_state WHERE tag = ?", tag)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoDialog, tag)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns every record, oldest first. Rows of a kind this build doesn't know have [dialogs.KindUnknown].
func (r *DialogStateRepository) List() ([]dialogs.Record, error) {
	rows, err := r.db.Query("SELECT tag, kind, params, shown_at FROM dialog_state ORDER BY shown_at ASC, tag ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query dialog state: %w", err)
	}
	defer rows.Close()

	var records []dialogs.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dialog state: %w", err)
	}
	return records, nil
}

// Clear removes every record
func (r *DialogStateRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM dialog_state"); err != nil {
		return fmt.Errorf("failed to clear dialog state: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*dialogs.Record, error) {
	var (
		rec  dialogs.Record
		kind string
	)
	if err := s.Scan(&rec.Tag, &kind, &rec.Params, &rec.ShownAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan dialog state: %w", err)
	}

	// Unknown kinds come back as KindUnknown so the registry can drop them on restore.
	rec.Kind, _ = dialogs.ParseKind(kind)
	return &rec, nil
}
