// Package config loads the lime runtime configuration.
//
// Values come from three layers, later ones winning: built-in defaults, an
// optional YAML file, and LIME_* environment variables. The result is
// validated before it is returned.
package config

import (
	"log/slog"
	"time"
)

// NodeSection names the local node.
type NodeSection struct {
	// Identity is this node's address, name@domain[/instance]. Optional.
	Identity string `yaml:"identity"`

	// TrustDomain is the SPIFFE trust domain peers are expected to present. Optional.
	TrustDomain string `yaml:"trust_domain"`
}

// RuntimeSection tunes the concurrency primitives.
type RuntimeSection struct {
	// MaxWorkers bounds concurrently running isolated tasks.
	// Zero selects isolate.DefaultMaxWorkers.
	MaxWorkers int `yaml:"max_workers"`

	// CommandTimeout is the cancellation deadline applied to awaited
	// operations that do not carry their own. Zero disables it.
	CommandTimeout time.Duration `yaml:"command_timeout"`

	// ResolutionHistory is how many recent resolutions are kept for the
	// debug snapshot. Zero disables the history.
	ResolutionHistory int `yaml:"resolution_history"`
}

// LoggingSection configures the structured logger.
type LoggingSection struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// DebugSection configures the debug server (debug builds only).
type DebugSection struct {
	ServerAddr string `yaml:"server_addr"`
}

// Config is the lime configuration file.
//
// The config format is versioned to support future evolution without breaking changes.
type Config struct {
	// Version is the config file format version (optional, currently always 1)
	Version int `yaml:"version,omitempty"`

	Node    NodeSection    `yaml:"node"`
	Runtime RuntimeSection `yaml:"runtime"`
	Logging LoggingSection `yaml:"logging"`
	Debug   DebugSection   `yaml:"debug"`
}

// SlogLevel maps Level to a slog.Level. Call after Validate.
func (l LoggingSection) SlogLevel() slog.Level {
	switch l.Level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
