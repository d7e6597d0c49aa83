// Package cmd defines the tarea command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tarea-pm/tarea/internal/config"
	"github.com/tarea-pm/tarea/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "tarea",
	Short: "Tarea - project management API and operations tooling",
	Long: `Tarea is a project management server with kanban boards, tasks,
time tracking, and notifications, plus the operational commands to run
and maintain it (migrations, superuser creation, backup and restore).`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(
		ServeCmd(),
		MigrateCmd(),
		CreateSuperuserCmd(),
		BackupCmd(),
		RestoreCmd(),
		VersionCmd(),
	)
}

// loadConfig reads configuration and initializes logging for commands
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logging.Init(cfg.Logging.File, cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	return cfg, nil
}
