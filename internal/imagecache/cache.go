// Package imagecache keeps recently shown card images in memory.
package imagecache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const (
	// DefaultCapacity is the number of images kept before the least recently
	// used one is evicted.
	DefaultCapacity = 200

	defaultRateLimit = 100 * time.Millisecond
	defaultTimeout   = 30 * time.Second
	maxImageBytes    = 10 << 20
)

// Cache fetches card images by URL or local path and keeps a bounded number
// of them in memory.
type Cache struct {
	entries    *lru.Cache[string, []byte]
	limiter    *rate.Limiter
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// Options configures the image cache.
type Options struct {
	Capacity  int           // Maximum cached images (default 200)
	RateLimit time.Duration // Minimum delay between downloads (default 100ms)
	Timeout   time.Duration // HTTP request timeout (default 30s)
	Logger    *slog.Logger
}

// DefaultOptions returns the default cache options.
func DefaultOptions() Options {
	return Options{
		Capacity:  DefaultCapacity,
		RateLimit: defaultRateLimit,
		Timeout:   defaultTimeout,
	}
}

// New creates an image cache.
func New(opts Options) (*Cache, error) {
	if opts.Capacity < 0 {
		return nil, fmt.Errorf("capacity cannot be negative: %d", opts.Capacity)
	}
	if opts.Capacity == 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	entries, err := lru.New[string, []byte](opts.Capacity)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}

	return &Cache{
		entries:    entries,
		limiter:    rate.NewLimiter(rate.Every(opts.RateLimit), 1),
		httpClient: &http.Client{Timeout: opts.Timeout},
		logger:     opts.Logger,
		userAgent:  "OPTCG-Pack-Simulator/1.0",
	}, nil
}

// Get returns the image bytes for ref, which is either an http(s) URL or a
// local file path. Cached images are returned without any I/O.
func (c *Cache) Get(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, fmt.Errorf("image reference is empty")
	}
	if data, ok := c.entries.Get(ref); ok {
		return data, nil
	}

	data, err := c.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	if evicted := c.entries.Add(ref, data); evicted {
		c.logger.Debug("image cache evicted oldest entry", "size", c.entries.Len())
	}
	return data, nil
}

// Contains reports whether ref is cached, without touching its recency.
func (c *Cache) Contains(ref string) bool {
	return c.entries.Contains(ref)
}

// Len returns the number of cached images.
func (c *Cache) Len() int { return c.entries.Len() }

// Purge drops every cached image.
func (c *Cache) Purge() { c.entries.Purge() }

func (c *Cache) fetch(ctx context.Context, ref string) ([]byte, error) {
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", ref, err)
		}
		return data, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	c.logger.Debug("image downloaded", "url", ref, "bytes", len(data))
	return data, nil
}
