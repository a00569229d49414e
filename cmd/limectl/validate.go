package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sufield/lime/internal/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate lime configuration files",
		Example: `  # Use in CI/CD pipelines
  if limectl validate config/production.yaml; then
      echo "Configuration is valid"
  fi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			cmd.Printf("✓ %s is valid\n", args[0])
			if cfg.Node.Identity != "" {
				cmd.Printf("  node:            %s\n", cfg.Node.Identity)
			}
			cmd.Printf("  max workers:     %d (0 = default)\n", cfg.Runtime.MaxWorkers)
			cmd.Printf("  command timeout: %s\n", cfg.Runtime.CommandTimeout)
			cmd.Printf("  logging:         %s/%s\n", cfg.Logging.Level, cfg.Logging.Format)
			return nil
		},
	}
}
