package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sufield/lime"
	"github.com/sufield/lime/internal/domain"
)

func newResolveCmd() *cobra.Command {
	var (
		from    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <uri>",
		Short: "Resolve a command resource URI to its absolute form",
		Long: `Resolve a command resource URI to its absolute form.

Absolute URIs are printed unchanged. Relative URIs are rebased onto the
sender given by --from, or onto node.identity from the configuration.`,
		Example: `  limectl resolve /accounts/1 --from alice@example.com
  limectl resolve lime://postmaster@msging.net/contacts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			logOut := io.Discard
			if verbose {
				logOut = cmd.ErrOrStderr()
			}
			logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

			rt, err := lime.New(configPath, lime.WithLogger(logger))
			if err != nil {
				return err
			}
			defer func() { _ = rt.Shutdown(context.Background()) }()

			command, err := rt.NewCommand(domain.MethodGet, args[0])
			if err != nil {
				return err
			}
			if from != "" {
				node, err := domain.ParseNode(from)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				command.WithFrom(node)
			}

			resolved, err := rt.Resolve(command)
			if err != nil {
				return err
			}
			cmd.Println(resolved.String())

			if target, err := rt.Route(command); err == nil {
				cmd.Printf("route: %s\n", target)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "sender node, name@domain[/instance]")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log resolution details to stderr")
	return cmd
}
