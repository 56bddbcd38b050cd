package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/storage"
)

// JSONStore keeps progress in a pretty-printed JSON object on disk.
type JSONStore struct {
	path   string
	logger *slog.Logger
}

// NewJSONStore creates a store backed by the file at path.
func NewJSONStore(path string, logger *slog.Logger) (*JSONStore, error) {
	if path == "" {
		return nil, fmt.Errorf("progress path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONStore{path: path, logger: logger}, nil
}

// Path returns the file the store reads and writes.
func (s *JSONStore) Path() string { return s.path }

// Load reads the progress file. A missing file is a fresh start.
func (s *JSONStore) Load(_ context.Context) (map[string]int, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("no save file found, starting with a fresh collection", "path", s.path)
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read progress file: %w", err)
	}

	var progress map[string]int
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProgressCorrupt, s.path, err)
	}

	progress = sparse(progress)
	s.logger.Debug("progress loaded", "path", s.path, "entries", len(progress))
	return progress, nil
}

// Save writes progress to a temporary file next to the target and renames it
// into place, so the previous content is replaced in full or not at all.
func (s *JSONStore) Save(_ context.Context, progress map[string]int) error {
	data, err := json.MarshalIndent(sparse(progress), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create progress directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace progress file: %w", err)
	}

	s.logger.Info("progress saved", "path", s.path, "entries", len(progress))
	return nil
}

// Backup copies the progress file into dir. Nothing is written when no
// progress has been saved yet; the returned path is then empty.
func (s *JSONStore) Backup(_ context.Context, dir string) (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read progress file: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}
	path := filepath.Join(dir, storage.BackupName("collection_progress", ".json", time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	s.logger.Info("progress backed up", "path", path)
	return path, nil
}
