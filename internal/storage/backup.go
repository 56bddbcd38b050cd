package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackupName returns a timestamped file name such as
// "collection_20260102_150405.db".
func BackupName(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s%s", prefix, now.Format("20060102_150405"), ext)
}

// Backup writes a consistent copy of the database to dir and returns its path.
// It uses VACUUM INTO, which does not need an exclusive lock.
func (db *DB) Backup(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(dir, BackupName("collection", ".db", time.Now()))
	if _, err := db.conn.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}

	if err := VerifyBackup(ctx, path); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("backup verification failed: %w", err)
	}
	return path, nil
}

// VerifyBackup checks that path is a readable SQLite database holding the
// progress table.
func VerifyBackup(ctx context.Context, path string) error {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = conn.Close() }()

	var result string
	if err := conn.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	var n int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM progress").Scan(&n); err != nil {
		return fmt.Errorf("backup has no progress table: %w", err)
	}
	return nil
}
