package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir replicates testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "enrich-cli/1.0 (+https://github.com/sells-group/enrich-cli)", cfg.HTTP.UserAgent)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout())
	assert.Equal(t, 5*time.Second, cfg.HTTP.ProbeTimeout())
	assert.Equal(t, int64(2*1024*1024), cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 25, cfg.Jobs.TopPostings)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := []byte("server:\n  port: 9090\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched defaults survive.
	assert.Equal(t, "sqlite", cfg.Store.Driver)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENRICH_GITHUB_TOKEN", "ghp_test")
	t.Setenv("ENRICH_ANTHROPIC_KEY", "sk-ant-test")
	t.Setenv("ENRICH_STORE_DATABASE_URL", "postgres://localhost/enrich")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
	assert.Equal(t, "sk-ant-test", cfg.Anthropic.Key)
	assert.Equal(t, "postgres://localhost/enrich", cfg.Store.DatabaseURL)
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
}
