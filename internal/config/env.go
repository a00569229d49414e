package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables applied over the file configuration.
const (
	EnvNodeIdentity      = "LIME_NODE_IDENTITY"
	EnvTrustDomain       = "LIME_TRUST_DOMAIN"
	EnvMaxWorkers        = "LIME_MAX_WORKERS"
	EnvCommandTimeout    = "LIME_COMMAND_TIMEOUT"
	EnvResolutionHistory = "LIME_RESOLUTION_HISTORY"
	EnvLogLevel          = "LIME_LOG_LEVEL"
	EnvLogFormat         = "LIME_LOG_FORMAT"
	EnvDebugAddr         = "LIME_DEBUG_ADDR"
)

// applyEnvOverrides overrides config values with environment variables if set.
// Returns error for invalid environment variable values to fail fast
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvNodeIdentity); v != "" {
		cfg.Node.Identity = v
	}
	if v := os.Getenv(EnvTrustDomain); v != "" {
		cfg.Node.TrustDomain = v
	}

	if v := os.Getenv(EnvMaxWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxWorkers, v, err)
		}
		cfg.Runtime.MaxWorkers = n
	}
	if v := os.Getenv(EnvCommandTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvCommandTimeout, v, err)
		}
		cfg.Runtime.CommandTimeout = d
	}
	if v := os.Getenv(EnvResolutionHistory); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvResolutionHistory, v, err)
		}
		cfg.Runtime.ResolutionHistory = n
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(EnvDebugAddr); v != "" {
		cfg.Debug.ServerAddr = v
	}

	return nil
}
