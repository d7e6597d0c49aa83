package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarea-pm/tarea/internal/config"
)

func sqliteManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "tarea.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("live data"), 0o644))

	cfg := &config.Config{
		Database: config.DatabaseConfig{Engine: config.EngineSQLite, Path: dbPath},
		Backup:   config.BackupConfig{Dir: filepath.Join(dir, "backups")},
	}
	return NewManager(cfg), dbPath
}

func TestSQLiteBackupAndList(t *testing.T) {
	manager, _ := sqliteManager(t)
	ctx := context.Background()

	first, err := manager.Backup(ctx)
	require.NoError(t, err)
	assert.FileExists(t, first)
	assert.Contains(t, filepath.Base(first), "backup_sqlite_")

	content, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "live data", string(content))

	// A later snapshot sorts first
	manager.now = func() time.Time { return time.Now().Add(time.Hour) }
	second, err := manager.Backup(ctx)
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(second, time.Now().Add(time.Hour), time.Now().Add(time.Hour)))

	backups, err := manager.List()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, second, backups[0].Path)
}

func TestSQLiteBackupToExplicitTarget(t *testing.T) {
	manager, _ := sqliteManager(t)

	target := filepath.Join(t.TempDir(), "before-upgrade.sqlite3")
	require.NoError(t, manager.BackupTo(context.Background(), target))

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "live data", string(content))
}

func TestSQLiteRestoreTakesSafetyCopy(t *testing.T) {
	manager, dbPath := sqliteManager(t)
	ctx := context.Background()

	snapshot, err := manager.Backup(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(dbPath, []byte("corrupted"), 0o644))
	require.NoError(t, manager.Restore(ctx, snapshot))

	restored, err := os.ReadFile(dbPath)
	require.NoError(t, err)
	assert.Equal(t, "live data", string(restored))

	// The corrupted state was preserved alongside the live file
	matches, err := filepath.Glob(dbPath + ".pre-restore-*")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	safety, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "corrupted", string(safety))
}

func TestRestoreMissingFile(t *testing.T) {
	manager, _ := sqliteManager(t)
	err := manager.Restore(context.Background(), "/nonexistent/backup.sqlite3")
	assert.ErrorIs(t, err, ErrBackupNotFound)
}

func TestListEmptyDirectory(t *testing.T) {
	manager, _ := sqliteManager(t)
	backups, err := manager.List()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestUnsupportedEngine(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{Engine: "oracle"},
		Backup:   config.BackupConfig{Dir: t.TempDir()},
	}
	manager := NewManager(cfg)

	_, err := manager.Backup(context.Background())
	assert.ErrorIs(t, err, ErrUnsupportedEngine)
}
