package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/attendance/internal/config"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.ConfigPathEnv,
		"ATTENDANCE_STORE_DRIVER",
		"ATTENDANCE_STORE_PATH",
		"ATTENDANCE_LOG_LEVEL",
		"ATTENDANCE_LOG_PATH",
		"ATTENDANCE_TIMEZONE",
		"ATTENDANCE_RENAME_HISTORY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  driver: badger
  path: /var/lib/attendance
log:
  level: debug
tracker:
  timezone: Asia/Tokyo
  rename_history: drop
`), 0o600))

	t.Setenv(config.ConfigPathEnv, path)
	t.Setenv("ATTENDANCE_LOG_LEVEL", "warn")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.DriverBadger, cfg.Store.Driver)
	require.Equal(t, "/var/lib/attendance", cfg.Store.Path)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, "drop", cfg.Tracker.RenameHistory)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("ATTENDANCE_STORE_DRIVER", "postgres")
	_, err := config.Load()
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	clearEnv(t)
	t.Setenv("ATTENDANCE_TIMEZONE", "Mars/Olympus")
	_, err = config.Load()
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	clearEnv(t)
	t.Setenv("ATTENDANCE_RENAME_HISTORY", "archive")
	_, err = config.Load()
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.ConfigPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := config.Load()
	require.Error(t, err)
}
