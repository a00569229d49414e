package config

import (
	"errors"
	"fmt"

	"github.com/spiffe/go-spiffe/v2/spiffeid"

	"github.com/sufield/lime/internal/domain"
)

// Validate checks a configuration after defaults and overrides are applied.
//
// Ensures:
//   - Version is 1
//   - runtime values are non-negative
//   - logging level and format are known
//   - node.identity, if set, parses as name@domain[/instance]
//   - node.trust_domain, if set, is a valid SPIFFE trust domain (using SDK validation)
func Validate(cfg Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d", cfg.Version)
	}

	if cfg.Runtime.MaxWorkers < 0 {
		return fmt.Errorf("runtime.max_workers must not be negative, got %d", cfg.Runtime.MaxWorkers)
	}
	if cfg.Runtime.CommandTimeout < 0 {
		return fmt.Errorf("runtime.command_timeout must not be negative, got %s", cfg.Runtime.CommandTimeout)
	}
	if cfg.Runtime.ResolutionHistory < 0 {
		return fmt.Errorf("runtime.resolution_history must not be negative, got %d", cfg.Runtime.ResolutionHistory)
	}

	switch cfg.Logging.Level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("logging.format must be text or json; got %q", cfg.Logging.Format)
	}

	if cfg.Debug.ServerAddr == "" {
		return errors.New("debug.server_addr must be set")
	}

	if cfg.Node.Identity != "" {
		if _, err := domain.ParseNode(cfg.Node.Identity); err != nil {
			return fmt.Errorf("invalid node.identity %q: %w", cfg.Node.Identity, err)
		}
	}
	if cfg.Node.TrustDomain != "" {
		if _, err := spiffeid.TrustDomainFromString(cfg.Node.TrustDomain); err != nil {
			return fmt.Errorf("invalid node.trust_domain %q: %w", cfg.Node.TrustDomain, err)
		}
	}

	return nil
}
