package imagecache

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func newTestServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprintf(w, "image:%s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestCache(t *testing.T, capacity int) *Cache {
	t.Helper()
	c, err := New(Options{Capacity: capacity, RateLimit: time.Millisecond})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Options{Capacity: -1}); err == nil {
		t.Fatal("expected error for negative capacity")
	}
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
}

func TestGet_CachesDownloads(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	c := newTestCache(t, 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		data, err := c.Get(ctx, srv.URL+"/OP01-001.png")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(data) != "image:/OP01-001.png" {
			t.Errorf("unexpected body %q", data)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("expected a single download, got %d", hits.Load())
	}
}

func TestGet_EvictsLeastRecentlyUsed(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	c := newTestCache(t, 2)
	ctx := context.Background()

	a, b, d := srv.URL+"/a.png", srv.URL+"/b.png", srv.URL+"/d.png"
	for _, ref := range []string{a, b, a, d} {
		if _, err := c.Get(ctx, ref); err != nil {
			t.Fatalf("Get(%s) error = %v", ref, err)
		}
	}

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if !c.Contains(a) || !c.Contains(d) {
		t.Error("expected a and d to be cached")
	}
	if c.Contains(b) {
		t.Error("expected b to be evicted as least recently used")
	}
}

func TestGet_HTTPError(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	c := newTestCache(t, 2)

	if _, err := c.Get(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Fatal("expected error for 404")
	}
	if c.Len() != 0 {
		t.Error("failed downloads must not be cached")
	}
}

func TestGet_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.png")
	if err := os.WriteFile(path, []byte("local"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := newTestCache(t, 2)

	data, err := c.Get(context.Background(), path)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != "local" {
		t.Errorf("unexpected data %q", data)
	}

	if _, err := c.Get(context.Background(), filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for missing local file")
	}
}

func TestGet_EmptyRefAndCancelledContext(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	c := newTestCache(t, 2)

	if _, err := c.Get(context.Background(), ""); err == nil {
		t.Error("expected error for empty ref")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Get(ctx, srv.URL+"/x.png"); err == nil {
		t.Error("expected error for cancelled context")
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("expected purge to empty cache, got %d", c.Len())
	}
}
