package testsupport

import (
	"path/filepath"
	"testing"

	"movieflix/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config rooted in a fresh temp directory per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Logging.Level = "error"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBaseURL points the config at a test server, e.g. httptest.Server.URL+"/api".
func WithBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.API.BaseURL = url
	}
}

// WithPageSize overrides the dashboard page size.
func WithPageSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Dashboard.PageSize = size
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
