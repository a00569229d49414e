package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd(v VersionInfo) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("limectl version %s\n", v.Version)
			if verbose {
				cmd.Printf("  commit: %s\n", v.Commit)
				cmd.Printf("  built:  %s\n", v.Date)
				cmd.Printf("  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
	cmd.Flags().BoolVar(&verbose, "verbose", false, "show commit, build date and toolchain")
	return cmd
}
