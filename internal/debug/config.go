package debug

import (
	"os"
	"strconv"
)

// Environment variables read by Init.
const (
	EnvDebug             = "LIME_DEBUG"
	EnvDebugSingleThread = "LIME_DEBUG_SINGLE_THREAD"
	EnvDebugServer       = "LIME_DEBUG_SERVER"
	EnvDebugAddr         = "LIME_DEBUG_ADDR"
)

// DefaultServerAddr is where the debug server listens unless overridden.
const DefaultServerAddr = "127.0.0.1:6060"

// Config holds debug mode configuration
type Config struct {
	// Enabled is the global debug on/off switch
	Enabled bool

	// SingleThreaded runs isolated tasks synchronously on the caller's goroutine
	SingleThreaded bool

	// LocalDebugServer enables localhost debug HTTP server
	LocalDebugServer bool

	// DebugServerAddr is the address for the debug HTTP server
	DebugServerAddr string
}

// Active is the global debug configuration
var Active Config

// Init initializes debug configuration from environment variables
func Init() {
	Active = Config{
		Enabled:          parseBool(os.Getenv(EnvDebug), false),
		SingleThreaded:   parseBool(os.Getenv(EnvDebugSingleThread), false),
		LocalDebugServer: parseBool(os.Getenv(EnvDebugServer), false),
		DebugServerAddr:  getEnvOrDefault(EnvDebugAddr, DefaultServerAddr),
	}

	// If any debug feature is enabled, ensure global debug is on
	if Active.SingleThreaded || Active.LocalDebugServer {
		Active.Enabled = true
	}
}

func parseBool(s string, defaultVal bool) bool {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(s)
	if err != nil {
		return defaultVal
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// IsEnabled returns whether debug mode is enabled
func IsEnabled() bool {
	return Active.Enabled
}
