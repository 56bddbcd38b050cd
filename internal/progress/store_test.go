package progress

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/storage"
)

func newJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "collection_progress.json"), nil)
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}
	return store
}

func newSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := storage.Open(storage.DefaultConfig(filepath.Join(t.TempDir(), "progress.db")))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSQLStore(db)
	if err != nil {
		t.Fatalf("NewSQLStore() error = %v", err)
	}
	return store
}

func TestNewJSONStore_RequiresPath(t *testing.T) {
	if _, err := NewJSONStore("", nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestNewSQLStore_RequiresDB(t *testing.T) {
	if _, err := NewSQLStore(nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestJSONStore_MissingFileIsFreshStart(t *testing.T) {
	store := newJSONStore(t)

	progress, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(progress) != 0 {
		t.Errorf("expected empty progress, got %v", progress)
	}
}

func TestJSONStore_SaveIsSparseAndPretty(t *testing.T) {
	store := newJSONStore(t)

	if err := store.Save(context.Background(), map[string]int{"A2": 1, "A1": 2, "A3": 0}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	want := "{\n  \"A1\": 2,\n  \"A2\": 1\n}"
	if string(data) != want {
		t.Errorf("unexpected file content:\n%s\nwant:\n%s", data, want)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(store.Path()), "*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("expected temp files to be cleaned up, found %v", leftovers)
	}
}

func TestJSONStore_SaveOverwrites(t *testing.T) {
	store := newJSONStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, map[string]int{"A1": 2, "A2": 1}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, map[string]int{"A3": 4}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	progress, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(progress) != 1 || progress["A3"] != 4 {
		t.Errorf("expected only A3=4, got %v", progress)
	}
}

func TestJSONStore_Corrupt(t *testing.T) {
	store := newJSONStore(t)
	if err := os.WriteFile(store.Path(), []byte(`{"A1": "two"`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := store.Load(context.Background())
	if !errors.Is(err, ErrProgressCorrupt) {
		t.Fatalf("expected ErrProgressCorrupt, got %v", err)
	}
}

func TestJSONStore_LoadDropsNonPositive(t *testing.T) {
	store := newJSONStore(t)
	if err := os.WriteFile(store.Path(), []byte(`{"A1": 2, "A2": 0, "A3": -4}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	progress, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(progress) != 1 || progress["A1"] != 2 {
		t.Errorf("expected only A1=2, got %v", progress)
	}
}

func TestJSONStore_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory at the target path makes the final rename fail.
	target := filepath.Join(dir, "progress.json")
	if err := os.MkdirAll(filepath.Join(target, "child"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	store, err := NewJSONStore(target, nil)
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}
	if err := store.Save(context.Background(), map[string]int{"A1": 1}); err == nil {
		t.Fatal("expected save error")
	}
}

// TestRoundTrip saves a model's progress and loads it into a freshly built
// model for every backend.
func TestRoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) Store{
		"json":   func(t *testing.T) Store { return newJSONStore(t) },
		"sqlite": func(t *testing.T) Store { return newSQLStore(t) },
	}

	newCards := func() []*collection.Card {
		return []*collection.Card{{ID: "A1"}, {ID: "A2"}, {ID: "A3"}}
	}

	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			before := collection.NewModel(newCards())
			a1, _ := before.Lookup("A1")
			a3, _ := before.Lookup("A3")
			before.IncrementOwned(a1)
			before.IncrementOwned(a1)
			before.IncrementOwned(a3)

			if err := store.Save(ctx, before.Progress()); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			loaded, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			after := collection.NewModel(newCards())
			after.ApplyProgress(loaded)

			for _, c := range before.Cards() {
				got, _ := after.Lookup(c.ID)
				if got.Owned() != c.Owned() {
					t.Errorf("%s: expected %d, got %d", c.ID, c.Owned(), got.Owned())
				}
			}
		})
	}
}

func TestSQLStore_EmptyIsFreshStart(t *testing.T) {
	progress, err := newSQLStore(t).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(progress) != 0 {
		t.Errorf("expected empty progress, got %v", progress)
	}
}

func TestJSONStore_Backup(t *testing.T) {
	store := newJSONStore(t)
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "backups")

	path, err := store.Backup(ctx, dir)
	if err != nil || path != "" {
		t.Fatalf("Backup() with nothing saved = %q, %v; want empty path", path, err)
	}

	if err := store.Save(ctx, map[string]int{"A1": 2}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	path, err = store.Backup(ctx, dir)
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}

	copied, err := NewJSONStore(path, nil)
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}
	got, err := copied.Load(ctx)
	if err != nil {
		t.Fatalf("Load() backup error = %v", err)
	}
	if len(got) != 1 || got["A1"] != 2 {
		t.Errorf("unexpected backup contents %v", got)
	}
}

func TestSQLStore_Backup(t *testing.T) {
	store := newSQLStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, map[string]int{"A1": 1}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	var b Backuper = store
	path, err := b.Backup(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if err := storage.VerifyBackup(ctx, path); err != nil {
		t.Errorf("VerifyBackup() error = %v", err)
	}
}
