package config

import (
	"fmt"
	"os"
	"strings"
)

// apiBaseURLEnv lists the environment variables consulted for the backend
// URL, highest priority first. The Vite/CRA names keep parity with deployments
// that already export them for the web client.
var apiBaseURLEnv = []string{
	"MOVIEFLIX_API_BASE_URL",
	"VITE_API_BASE_URL",
	"REACT_APP_API_BASE_URL",
}

func (c *Config) normalize() error {
	c.normalizeAPI()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeDashboard()
	return nil
}

func (c *Config) normalizeAPI() {
	for _, key := range apiBaseURLEnv {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			c.API.BaseURL = value
			break
		}
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultAPIBaseURL
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = defaultAPITimeoutSeconds
	}
	if c.API.BreakerFailures <= 0 {
		c.API.BreakerFailures = defaultBreakerFailures
	}
	if c.API.BreakerCooldownSeconds <= 0 {
		c.API.BreakerCooldownSeconds = defaultBreakerCooldown
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeDashboard() {
	if c.Dashboard.PageSize <= 0 {
		c.Dashboard.PageSize = defaultPageSize
	}
	c.Dashboard.View = strings.ToLower(strings.TrimSpace(c.Dashboard.View))
	if c.Dashboard.View == "" {
		c.Dashboard.View = defaultDashboardView
	}
}
