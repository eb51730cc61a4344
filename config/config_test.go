package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// chdir is a stand-in for t.Chdir, which needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir()) // no config.yaml around

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Address)
	require.Equal(t, "8000", cfg.Server.HTTPPort)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("IOT_SERVER_HTTP_PORT", "9000")
	t.Setenv("IOT_DATABASE_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Server.HTTPPort)
	require.Equal(t, "sqlite", cfg.Database.Driver)
}
