package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	want := Default()
	want.Port = 8081
	want.DBPath = "/var/lib/devtasks/tasks.db"

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"PORT":             "4000",
		"DB_PATH":          "/tmp/tasks.db",
		"APP_ENV":          "production",
		"LOG_FORMAT":       "json",
		"SHUTDOWN_TIMEOUT": "3s",
		"LOG_LEVEL":        "  ",
	}

	cfg, err := ApplyEnv(Default(), mapLookup(env))
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "/tmp/tasks.db", cfg.DBPath)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, ":4000", cfg.Addr())
}

func TestApplyEnvRejectsBadPort(t *testing.T) {
	_, err := ApplyEnv(Default(), mapLookup(map[string]string{"PORT": "http"}))
	assert.ErrorContains(t, err, "invalid PORT")
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DEVTASKS_TEST_A=from-file\nDEVTASKS_TEST_B=from-file\n"), 0o644))
	t.Setenv("DEVTASKS_TEST_A", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("DEVTASKS_TEST_B") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")))

	assert.Equal(t, "from-env", os.Getenv("DEVTASKS_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("DEVTASKS_TEST_B"))
}

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func TestNewLoggerHonoursFormatAndLevel(t *testing.T) {
	cfg := Default()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "task_id", 7)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"env":"development"`)
}
