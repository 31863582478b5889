package inkpress

import (
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SiteConfig holds all configuration for an inkpress site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Default byline when a post has none

	Addr       string `yaml:"addr"`        // Listen address (default ":3000")
	ContentDir string `yaml:"content_dir"` // Markdown source directory (default "content")
	IndexPath  string `yaml:"index_path"`  // SQLite index path (default "data/index.db")

	AnalyticsEnabled      bool   `yaml:"analytics"`                // Enable analytics (default false)
	AnalyticsDatabasePath string `yaml:"analytics_database_path"`  // Analytics SQLite path (default "data/analytics.db")
	AnalyticsRetentionDays int   `yaml:"analytics_retention_days"` // Visit retention (default 365)

	AdminPassword string `yaml:"-"` // Required for admin routes; env only
	SessionSecret string `yaml:"-"` // Required for admin routes; env only
	CookieSecure  bool   `yaml:"cookie_secure"`

	PostCacheTTL time.Duration `yaml:"post_cache_ttl"` // Post cache TTL (default 5min)
	Debug        bool          `yaml:"debug"`          // Development logging
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.IndexPath == "" {
		c.IndexPath = "data/index.db"
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.AnalyticsRetentionDays == 0 {
		c.AnalyticsRetentionDays = 365
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// LoadConfig reads a site.yaml file and applies environment overrides.
// A missing file is not an error; env vars and defaults still apply.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env and defaults
	default:
		return SiteConfig{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.Name = EnvOr("SITE_NAME", cfg.Name)
	cfg.URL = EnvOr("SITE_URL", cfg.URL)
	cfg.Description = EnvOr("SITE_DESCRIPTION", cfg.Description)
	cfg.Author = EnvOr("SITE_AUTHOR", cfg.Author)
	cfg.Addr = EnvOr("ADDR", cfg.Addr)
	cfg.ContentDir = EnvOr("CONTENT_DIR", cfg.ContentDir)
	cfg.IndexPath = EnvOr("INDEX_PATH", cfg.IndexPath)
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.SessionSecret = os.Getenv("ADMIN_SESSION_SECRET")
	if os.Getenv("COOKIE_SECURE") != "" {
		cfg.CookieSecure = os.Getenv("COOKIE_SECURE") == "true"
	}
	if os.Getenv("DEBUG") != "" {
		cfg.Debug = os.Getenv("DEBUG") == "true"
	}

	cfg.setDefaults()
	return cfg, nil
}

// NewLogger builds the app logger: human-readable in debug mode, JSON
// production encoding otherwise.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the default logger.
func WithLogger(log *zap.Logger) Option {
	return func(a *App) {
		a.log = log
	}
}

// WithoutWatcher disables the content file watcher; the post cache TTL
// becomes the only refresh path. Useful in tests and one-shot builds.
func WithoutWatcher() Option {
	return func(a *App) {
		a.noWatch = true
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("inkpress: required environment variable %s is not set", key)
	}
	return v
}
