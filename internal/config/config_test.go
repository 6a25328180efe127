package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 250000, cfg.Coverage.MaxGridPoints)
	assert.Equal(t, int64(50000000), cfg.Coverage.MaxEvaluations)
	assert.Equal(t, 0, cfg.Coverage.Workers)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "coverage-api", cfg.Tracing.ServiceName)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://ops.example.com")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("COVERAGE_MAX_GRID_POINTS", "1000")
	t.Setenv("COVERAGE_WORKERS", "3")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_SAMPLE_RATIO", "0.25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173", "https://ops.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 1000, cfg.Coverage.MaxGridPoints)
	assert.Equal(t, 3, cfg.Coverage.Workers)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 0.25, cfg.Tracing.SampleRatio)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ENVIRONMENT", "staging")

	contents := "PORT=7070\nCOVERAGE_MAX_EVALUATIONS=1234\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.staging"), []byte(contents), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Server.Env)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, int64(1234), cfg.Coverage.MaxEvaluations)
}

func TestLoadInvalidTimeoutFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REQUEST_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
}
