package cmd

import (
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

// VersionCmd returns the version subcommand
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tarea version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("tarea %s\n", Version)
		},
	}
}
