// Package progress persists the user's card quantities between sessions.
package progress

import (
	"context"
	"errors"
)

// ErrProgressCorrupt means saved progress exists but cannot be decoded.
var ErrProgressCorrupt = errors.New("saved progress is corrupt")

// Store loads and saves the sparse card id -> quantity mapping.
type Store interface {
	// Load returns the saved mapping. A store with nothing saved yet
	// returns an empty mapping and no error.
	Load(ctx context.Context) (map[string]int, error)

	// Save replaces everything previously saved with progress.
	Save(ctx context.Context, progress map[string]int) error
}

// Backuper is implemented by stores that can copy their saved state aside.
type Backuper interface {
	// Backup writes a timestamped copy into dir and returns its path.
	Backup(ctx context.Context, dir string) (string, error)
}

// sparse copies progress without entries whose quantity is zero or less.
func sparse(progress map[string]int) map[string]int {
	out := make(map[string]int, len(progress))
	for id, qty := range progress {
		if qty > 0 {
			out[id] = qty
		}
	}
	return out
}
