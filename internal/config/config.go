package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Progress backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	// Card catalog configuration
	Catalog CatalogConfig `toml:"catalog"`

	// Collection progress persistence
	Progress ProgressConfig `toml:"progress"`

	// Pack opening rules
	Packs PacksConfig `toml:"packs"`

	// Card image cache
	Images ImagesConfig `toml:"images"`

	// Application configuration
	App AppConfig `toml:"app"`

	path string
}

// CatalogConfig contains catalog source settings.
type CatalogConfig struct {
	Path  string `toml:"path"`  // Path to the catalog XML
	Watch bool   `toml:"watch"` // Reload the catalog when the file changes
}

// ProgressConfig contains persistence settings.
type ProgressConfig struct {
	Backend       string `toml:"backend"`         // "json" or "sqlite"
	Path          string `toml:"path"`            // JSON progress file
	DBPath        string `toml:"db_path"`         // SQLite database file
	SaveAfterPack bool   `toml:"save_after_pack"` // Save after every resolved pack, not only on exit
	BackupDir     string `toml:"backup_dir"`      // Where backups are written
}

// PacksConfig contains pack-opening rules.
type PacksConfig struct {
	Size          int      `toml:"size"`           // Cards per randomized pack
	FixedPrefixes []string `toml:"fixed_prefixes"` // Series-code prefixes of fixed-contents products
	ArtURL        string   `toml:"art_url"`        // Pack art shown before opening
}

// ImagesConfig contains card image cache settings.
type ImagesConfig struct {
	CacheSize int    `toml:"cache_size"` // Max cached images
	RateLimit string `toml:"rate_limit"` // Minimum delay between downloads (e.g., "100ms")
	Timeout   string `toml:"timeout"`    // HTTP request timeout (e.g., "30s")
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dir := dataDir()
	return &Config{
		Catalog: CatalogConfig{
			Path:  "OnePieceCards.xml",
			Watch: false,
		},
		Progress: ProgressConfig{
			Backend:       BackendJSON,
			Path:          filepath.Join(dir, "collection_progress.json"),
			DBPath:        filepath.Join(dir, "collection.db"),
			SaveAfterPack: false,
			BackupDir:     filepath.Join(dir, "backups"),
		},
		Packs: PacksConfig{
			Size:          12,
			FixedPrefixes: []string{"ST-"},
			ArtURL:        "https://cdn.onepiece-cardgame.com/images/pack/thumbnail_OP-05.png",
		},
		Images: ImagesConfig{
			CacheSize: 200,
			RateLimit: "100ms",
			Timeout:   "30s",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// dataDir returns the per-user application directory, falling back to the
// working directory when no home directory is available.
func dataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".op-pack-simulator")
}

// DefaultPath returns the default location of the configuration file.
func DefaultPath() string {
	return filepath.Join(dataDir(), "config.toml")
}

// Load loads the configuration from path, or from DefaultPath when path is
// empty. A missing file yields the default config. Values absent from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	config := DefaultConfig()
	config.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	if c.path == "" {
		return DefaultPath()
	}
	return c.path
}

// Save writes the configuration back to its path.
func (c *Config) Save() error {
	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required")
	}

	switch c.Progress.Backend {
	case BackendJSON:
		if c.Progress.Path == "" {
			return fmt.Errorf("progress path is required for the json backend")
		}
	case BackendSQLite:
		if c.Progress.DBPath == "" {
			return fmt.Errorf("progress db_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown progress backend %q", c.Progress.Backend)
	}

	if c.Packs.Size <= 0 {
		return fmt.Errorf("pack size must be positive: %d", c.Packs.Size)
	}

	if c.Images.CacheSize <= 0 {
		return fmt.Errorf("image cache size must be positive: %d", c.Images.CacheSize)
	}
	if _, err := time.ParseDuration(c.Images.RateLimit); err != nil {
		return fmt.Errorf("invalid image rate limit %q: %w", c.Images.RateLimit, err)
	}
	if _, err := time.ParseDuration(c.Images.Timeout); err != nil {
		return fmt.Errorf("invalid image timeout %q: %w", c.Images.Timeout, err)
	}

	return nil
}

// GetImageRateLimit returns the image download interval as a duration.
func (c *Config) GetImageRateLimit() (time.Duration, error) {
	return time.ParseDuration(c.Images.RateLimit)
}

// GetImageTimeout returns the image request timeout as a duration.
func (c *Config) GetImageTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Images.Timeout)
}
