// Package repository contains the SQL queries behind the storage layer.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ProgressRepository handles the persisted id -> quantity mapping.
type ProgressRepository interface {
	// GetAll returns every stored card quantity.
	GetAll(ctx context.Context) (map[string]int, error)

	// ReplaceAll overwrites the stored mapping with progress. Entries with a
	// quantity of zero or less are not written.
	ReplaceAll(ctx context.Context, progress map[string]int) error
}

type progressRepository struct {
	db DBTX
}

// NewProgressRepository creates a progress repository over db.
func NewProgressRepository(db DBTX) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetAll(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT card_id, quantity FROM progress`)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	defer func() { _ = rows.Close() }()

	progress := make(map[string]int)
	for rows.Next() {
		var (
			cardID   string
			quantity int
		)
		if err := rows.Scan(&cardID, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		progress[cardID] = quantity
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress: %w", err)
	}

	return progress, nil
}

func (r *progressRepository) ReplaceAll(ctx context.Context, progress map[string]int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM progress`); err != nil {
		return fmt.Errorf("failed to clear progress: %w", err)
	}

	now := time.Now()
	for cardID, quantity := range progress {
		if quantity <= 0 {
			continue
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO progress (card_id, quantity, updated_at) VALUES (?, ?, ?)`,
			cardID, quantity, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert progress for %s: %w", cardID, err)
		}
	}

	return nil
}
