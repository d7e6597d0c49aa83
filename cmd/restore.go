package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tarea-pm/tarea/internal/backup"
)

// RestoreCmd returns the restore subcommand
func RestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Restore the database from a snapshot",
		Long: `Replace the current database with the given backup file. For sqlite
a safety copy of the live database is taken before it is overwritten.

Example:
  tarea restore backups/backup_sqlite_20260115_093000.sqlite3`,
		Args: cobra.ExactArgs(1),
		RunE: runRestore,
	}
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := backup.NewManager(cfg).Restore(cmd.Context(), args[0]); err != nil {
		return err
	}

	cmd.Printf("database restored from %s\n", args[0])
	return nil
}
