package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 1000, cfg.DefaultTrials)
	assert.Equal(t, tennis.FormatClassic, cfg.Format)
	assert.Equal(t, tennis.ModelTight, cfg.Model)
	assert.Zero(t, cfg.Seeds())
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"TENNIS_FORMAT=classic-3set\nTENNIS_WORKERS=3\nTENNIS_SERVER_SEED=srv\nTENNIS_CLIENT_SEED=cli\n"), 0o600))

	for _, k := range []string{"TENNIS_FORMAT", "TENNIS_WORKERS", "TENNIS_SERVER_SEED", "TENNIS_CLIENT_SEED"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tennis.FormatClassic3Set, cfg.Format)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "srv", cfg.Seeds().Server)
	assert.Equal(t, "cli", cfg.Seeds().Client)
}

func TestLoadMissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TENNIS_DEFAULT_TRIALS", "50")
	t.Setenv("TENNIS_MODEL", "wide")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.DefaultTrials)
	assert.Equal(t, tennis.ModelWide, cfg.Model)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TENNIS_FORMAT", "fast4")
	t.Setenv("TENNIS_DEFAULT_TRIALS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, tennis.ErrUnknownPreset)
	assert.Contains(t, err.Error(), "TENNIS_DEFAULT_TRIALS")
}
