package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration file at path over the defaults, applies
// environment overrides, and validates the result. An empty path skips
// the file and uses defaults plus environment only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		// Clean the path to prevent directory traversal attacks
		cleanPath := filepath.Clean(path)
		data, err := os.ReadFile(cleanPath) // #nosec G304 - Config file path is trusted (from admin/user)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	ApplyDefaults(&cfg)
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML without applying defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := decode(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode overlays data onto cfg; keys absent from data leave cfg as is.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}
