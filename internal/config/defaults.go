package config

const (
	defaultAPIBaseURL        = "http://localhost:4000/api"
	defaultAPITimeoutSeconds = 15
	defaultStateDir          = "~/.local/share/movieflix"
	defaultLogDir            = "~/.local/share/movieflix/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "warn"
	defaultPageSize          = 15
	defaultDashboardView     = "table"
	defaultBreakerFailures   = 5
	defaultBreakerCooldown   = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:                defaultAPIBaseURL,
			TimeoutSeconds:         defaultAPITimeoutSeconds,
			BreakerFailures:        defaultBreakerFailures,
			BreakerCooldownSeconds: defaultBreakerCooldown,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Dashboard: Dashboard{
			PageSize: defaultPageSize,
			View:     defaultDashboardView,
		},
	}
}
