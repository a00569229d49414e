// Command limectl inspects lime identities, command URIs, media types,
// certificates and configuration files from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// VersionInfo holds build-time version information
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

func main() {
	root := newRootCmd(VersionInfo{Version: version, Commit: commit, Date: date})
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(v VersionInfo) *cobra.Command {
	root := &cobra.Command{
		Use:           "limectl",
		Short:         "Inspect lime addresses, documents and configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  # Parse an identity
  limectl identity parse alice@example.com

  # Resolve a relative command URI for a sender
  limectl resolve /accounts/1 --from alice@example.com/home

  # Look up a media type
  limectl mediatype application/vnd.lime.ping+json

  # Validate configuration file
  limectl validate lime.yaml`,
	}
	root.PersistentFlags().String("config", "", "path to lime.yaml (defaults plus LIME_* environment when empty)")

	root.AddCommand(
		newIdentityCmd(),
		newResolveCmd(),
		newMediaTypeCmd(),
		newCertCmd(),
		newValidateCmd(),
		newVersionCmd(v),
	)
	return root
}
