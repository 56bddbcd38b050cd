package progress

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/storage"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/storage/repository"
)

// SQLStore keeps progress in the SQLite progress table.
type SQLStore struct {
	db *storage.DB
}

// NewSQLStore creates a store over an open, migrated database.
func NewSQLStore(db *storage.DB) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &SQLStore{db: db}, nil
}

// Load returns every stored quantity. An empty table is a fresh start.
func (s *SQLStore) Load(ctx context.Context) (map[string]int, error) {
	progress, err := repository.NewProgressRepository(s.db.Conn()).GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return sparse(progress), nil
}

// Save replaces the stored mapping in a single transaction.
func (s *SQLStore) Save(ctx context.Context, progress map[string]int) error {
	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		return repository.NewProgressRepository(tx).ReplaceAll(ctx, progress)
	})
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Backup copies the database into dir.
func (s *SQLStore) Backup(ctx context.Context, dir string) (string, error) {
	return s.db.Backup(ctx, dir)
}
