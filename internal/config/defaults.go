package config

import "time"

// Logging levels and formats.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	FormatText = "text"
	FormatJSON = "json"
)

// Defaults.
const (
	DefaultCommandTimeout    = 30 * time.Second
	DefaultResolutionHistory = 32
	DefaultLogLevel          = LevelInfo
	DefaultLogFormat         = FormatText
	DefaultDebugServerAddr   = "127.0.0.1:6060"
)

// Default returns a configuration with every default applied.
//
// Load decodes the file over this value, so runtime fields absent from the
// file keep their default while an explicit zero disables the feature.
func Default() Config {
	cfg := Config{
		Runtime: RuntimeSection{
			CommandTimeout:    DefaultCommandTimeout,
			ResolutionHistory: DefaultResolutionHistory,
		},
	}
	ApplyDefaults(&cfg)
	return cfg
}

// ApplyDefaults sets default values for unspecified string and version
// fields. Runtime numbers are not touched: zero is a meaningful value there
// (MaxWorkers zero lets the isolator pick its own bound).
func ApplyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Debug.ServerAddr == "" {
		cfg.Debug.ServerAddr = DefaultDebugServerAddr
	}
}
