package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "epitrend/internal/errors"
)

// clearEnv removes every variable a test could leak into Load.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"EPITREND_CONFIG",
		"EPITREND_FEEDS_NATIONAL",
		"EPITREND_FEEDS_REGIONAL",
		"EPITREND_PIPELINE_WORKERS",
		"EPITREND_LOGGING_LEVEL",
		"EPITREND_LOGGING_FORMAT",
		"EPITREND_EXPORT_DIR",
		"EPITREND_EXPORT_EXCEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("EPITREND_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/dpc-covid19-ita-andamento-nazionale.csv", cfg.Feeds.National)
	assert.Equal(t, "data/dpc-covid19-ita-regioni.csv", cfg.Feeds.Regional)
	assert.Equal(t, 0, cfg.Pipeline.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "reports", cfg.Export.Dir)
	assert.True(t, cfg.Export.Excel)
}

func TestLoadEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("EPITREND_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("EPITREND_FEEDS_NATIONAL", "/feeds/national.csv")
	t.Setenv("EPITREND_PIPELINE_WORKERS", "4")
	t.Setenv("EPITREND_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/feeds/national.csv", cfg.Feeds.National)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "data/dpc-covid19-ita-regioni.csv", cfg.Feeds.Regional,
		"untouched fields keep their defaults")
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
feeds:
  national: /data/national.csv
pipeline:
  workers: 2
logging:
  level: warn
export:
  dir: /tmp/reports
`), 0o644))
	t.Setenv("EPITREND_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/national.csv", cfg.Feeds.National)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/tmp/reports", cfg.Export.Dir)
}

func TestEnvWinsOverFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline:\n  workers: 2\n"), 0o644))
	t.Setenv("EPITREND_CONFIG", path)
	t.Setenv("EPITREND_PIPELINE_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
}

func TestEnvSetToDefaultWinsOverFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o644))
	t.Setenv("EPITREND_CONFIG", path)
	t.Setenv("EPITREND_LOGGING_LEVEL", "info")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level,
		"an env value equal to the default is still an explicit setting")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown log level", key: "EPITREND_LOGGING_LEVEL", value: "chatty"},
		{name: "unknown log format", key: "EPITREND_LOGGING_FORMAT", value: "xml"},
		{name: "negative workers", key: "EPITREND_PIPELINE_WORKERS", value: "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("EPITREND_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
		})
	}
}

func TestWorkers(t *testing.T) {
	cfg := Default()
	assert.Equal(t, runtime.NumCPU(), cfg.Workers(), "zero selects the CPU count")

	cfg.Pipeline.Workers = 3
	assert.Equal(t, 3, cfg.Workers())
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "info", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Default()
			cfg.Logging.Level = tt.level
			assert.Equal(t, tt.want, cfg.LogLevel())
		})
	}
}
