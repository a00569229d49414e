package debug

import (
	"fmt"
	"log"
	"sync"
)

// Logger interface for debug logging.
// Output is produced only when debug mode is enabled.
//
// Example usage:
//
//	logger := debug.GetLogger()
//	logger.Debugf("resolved %s for %s", uri, from)
type Logger interface {
	// Debugf logs a formatted debug message
	Debugf(format string, args ...any)
	// Debug logs debug arguments
	Debug(args ...any)
}

// nopLogger does nothing (used when debug mode is disabled).
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Debug(...any)          {}

// stdLogger logs to standard logger with [DEBUG] prefix.
type stdLogger struct{}

func (stdLogger) Debugf(format string, args ...any) {
	log.Printf("[DEBUG] "+format, args...)
}

func (stdLogger) Debug(args ...any) {
	log.Printf("[DEBUG] %v", fmt.Sprint(args...))
}

var (
	l    Logger = nopLogger{}
	once sync.Once
)

// GetLogger returns the configured debug logger.
// Always use this function to access the logger instead of storing a reference.
func GetLogger() Logger {
	return l
}

// InitLogger initializes the debug logger based on debug mode.
// Call this after Init so Active.Enabled is set; only the first call has an effect.
func InitLogger() {
	once.Do(func() {
		if Active.Enabled {
			l = stdLogger{}
			l.Debug("Debug logging enabled")
		}
	})
}
