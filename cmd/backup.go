package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tarea-pm/tarea/internal/backup"
)

// BackupCmd returns the backup subcommand
func BackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup [file]",
		Short: "Create a database snapshot",
		Long: `Create a snapshot of the configured database. Without arguments the
snapshot is written to a timestamped file in the backup directory;
with a file argument it is written there instead. SQLite databases
are copied as files, postgres databases are dumped with pg_dump.

Examples:
  tarea backup
  tarea backup /tmp/before-upgrade.sqlite3
  tarea backup list`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBackup,
	}

	cmd.AddCommand(backupListCmd())

	return cmd
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	manager := backup.NewManager(cfg)

	var path string
	if len(args) == 1 {
		path = args[0]
		err = manager.BackupTo(cmd.Context(), path)
	} else {
		path, err = manager.Backup(cmd.Context())
	}
	if err != nil {
		return err
	}

	cmd.Printf("backup written to %s\n", path)
	return nil
}

func backupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List existing backups, newest first",
		RunE:  runBackupList,
	}
}

func runBackupList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	backups, err := backup.NewManager(cfg).List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		cmd.Println("no backups found")
		return nil
	}

	for _, b := range backups {
		cmd.Printf("%s\t%d bytes\t%s\n", b.Path, b.Size, b.ModTime.Format("2006-01-02 15:04:05"))
	}
	return nil
}
