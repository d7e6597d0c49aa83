// Package backup creates and restores database snapshots for both storage
// engines: file copies for sqlite, pg_dump/psql for postgres.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tarea-pm/tarea/internal/config"
)

var (
	ErrUnsupportedEngine = errors.New("unsupported database engine")
	ErrBackupNotFound    = errors.New("backup file not found")
)

const timestampLayout = "20060102_150405"

// Info describes one backup file on disk
type Info struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Manager performs backup and restore for the configured engine
type Manager struct {
	cfg *config.Config
	now func() time.Time
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg, now: time.Now}
}

// Backup writes a timestamped snapshot into the backup directory and
// returns its path.
func (m *Manager) Backup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(m.cfg.Backup.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	timestamp := m.now().Format(timestampLayout)
	var target string
	switch m.cfg.Database.Engine {
	case config.EngineSQLite:
		target = filepath.Join(m.cfg.Backup.Dir, fmt.Sprintf("backup_sqlite_%s.sqlite3", timestamp))
	case config.EnginePostgres:
		target = filepath.Join(m.cfg.Backup.Dir, fmt.Sprintf("backup_postgres_%s.sql", timestamp))
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedEngine, m.cfg.Database.Engine)
	}
	return target, m.BackupTo(ctx, target)
}

// BackupTo writes a snapshot to an explicit target path
func (m *Manager) BackupTo(ctx context.Context, target string) error {
	switch m.cfg.Database.Engine {
	case config.EngineSQLite:
		if err := copyFile(m.cfg.Database.Path, target); err != nil {
			return fmt.Errorf("copying database file: %w", err)
		}
		return nil
	case config.EnginePostgres:
		return m.pgDump(ctx, target)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEngine, m.cfg.Database.Engine)
	}
}

// Restore replaces the current database with the given backup file. For
// sqlite a safety copy of the live file is taken first.
func (m *Manager) Restore(ctx context.Context, backupPath string) error {
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("%w: %s", ErrBackupNotFound, backupPath)
	}

	switch m.cfg.Database.Engine {
	case config.EngineSQLite:
		live := m.cfg.Database.Path
		if _, err := os.Stat(live); err == nil {
			safety := live + ".pre-restore-" + m.now().Format(timestampLayout)
			if err := copyFile(live, safety); err != nil {
				return fmt.Errorf("taking safety copy: %w", err)
			}
			slog.Info("saved pre-restore copy", "path", safety)
		}
		if err := copyFile(backupPath, live); err != nil {
			return fmt.Errorf("restoring database file: %w", err)
		}
		return nil
	case config.EnginePostgres:
		return m.psqlRestore(ctx, backupPath)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEngine, m.cfg.Database.Engine)
	}
}

// List returns the backups for the configured engine, newest first
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.cfg.Backup.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	prefix := "backup_" + m.cfg.Database.Engine + "_"
	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		stat, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:    filepath.Join(m.cfg.Backup.Dir, entry.Name()),
			Size:    stat.Size(),
			ModTime: stat.ModTime(),
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModTime.After(backups[j].ModTime)
	})
	return backups, nil
}

func (m *Manager) pgDump(ctx context.Context, target string) error {
	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating backup file: %w", err)
	}
	defer out.Close()

	cmd := exec.CommandContext(ctx, "pg_dump", m.pgArgs()...)
	cmd.Env = m.pgEnv()
	cmd.Stdout = out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.Remove(target)
		return fmt.Errorf("pg_dump failed: %w", err)
	}
	return nil
}

func (m *Manager) psqlRestore(ctx context.Context, backupPath string) error {
	in, err := os.Open(backupPath)
	if err != nil {
		return fmt.Errorf("opening backup file: %w", err)
	}
	defer in.Close()

	cmd := exec.CommandContext(ctx, "psql", m.pgArgs()...)
	cmd.Env = m.pgEnv()
	cmd.Stdin = in
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("psql failed: %w", err)
	}
	return nil
}

func (m *Manager) pgArgs() []string {
	db := m.cfg.Database
	if db.URL != "" {
		return []string{db.URL}
	}
	args := []string{"-h", db.Host, "-p", db.Port, "-U", db.User, "-d", db.Name}
	return args
}

// pgEnv passes the password through the environment so it never shows up
// in the process list.
func (m *Manager) pgEnv() []string {
	env := os.Environ()
	if m.cfg.Database.Password != "" {
		env = append(env, "PGPASSWORD="+m.cfg.Database.Password)
	}
	return env
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
