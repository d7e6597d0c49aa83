package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tarea-pm/tarea/internal/database"
)

// MigrateCmd returns the migrate subcommand
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Create or update the database schema. Safe to run repeatedly;
migrations are idempotent.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	cmd.Printf("migrations applied (%s)\n", db.Engine())
	return nil
}
