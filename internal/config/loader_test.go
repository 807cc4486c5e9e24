package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/commitcat/internal/config"
)

// writeFile is a test helper that creates a temporary file with the given content.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

// ---------------------------------------------------------------------------
// LoadFile tests
// ---------------------------------------------------------------------------

func TestLoadFileBasicKeyValue(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "STORE_BACKEND=sqlite\nPOLL_INTERVAL=15\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", m["STORE_BACKEND"])
	assert.Equal(t, "15", m["POLL_INTERVAL"])
}

func TestLoadFileSkipsCommentsBlankLinesAndUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "# comment\n\nVERBOSE=true\nUNKNOWN=1\nno equals here\n  EVENT_LOG = /tmp/a=b.jsonl  \n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 2)
	assert.Equal(t, "true", m["VERBOSE"])
	assert.Equal(t, "/tmp/a=b.jsonl", m["EVENT_LOG"], "value keeps everything after the first =")
}

func TestLoadFileReturnsErrorForMissingFile(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// ---------------------------------------------------------------------------
// LoadWithPrecedence tests
// ---------------------------------------------------------------------------

func TestLoadWithPrecedenceDefaultsOnly(t *testing.T) {
	cfg, err := config.LoadWithPrecedence("", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, config.NewDefaultConfig(), cfg)
}

func TestLoadWithPrecedenceFullChain(t *testing.T) {
	dir := t.TempDir()
	global := writeFile(t, dir, "global", "POLL_INTERVAL=20\nSTORE_BACKEND=sqlite\nFLUSH_INTERVAL=90\n")
	project := writeFile(t, dir, "project", "POLL_INTERVAL=25\nGIT_POLL_INTERVAL=45\n")
	explicit := writeFile(t, dir, "explicit", "POLL_INTERVAL=30\nINTERACTION_SECONDS=4\n")

	cfg, err := config.LoadWithPrecedence(global, project, explicit, map[string]string{"VERBOSE": "true"})
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.PollInterval, "explicit beats project and global")
	assert.Equal(t, "sqlite", cfg.StoreBackend, "global survives when nobody overrides it")
	assert.Equal(t, 90, cfg.FlushInterval)
	assert.Equal(t, 45, cfg.GitPollInterval)
	assert.Equal(t, 4, cfg.InteractionSeconds)
	assert.True(t, cfg.Verbose)
}

func TestLoadWithPrecedenceCLIOverridesAll(t *testing.T) {
	dir := t.TempDir()
	explicit := writeFile(t, dir, "explicit", "DATA_DIR=/from/file\n")

	cfg, err := config.LoadWithPrecedence("", "", explicit, map[string]string{"DATA_DIR": "/from/cli"})
	require.NoError(t, err)
	assert.Equal(t, "/from/cli", cfg.DataDir)
}

func TestLoadWithPrecedenceMissingOptionalFilesAreNotErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := config.LoadWithPrecedence(filepath.Join(dir, "nope"), filepath.Join(dir, "nada"), "", nil)
	assert.NoError(t, err)
}

func TestLoadWithPrecedenceMissingExplicitIsError(t *testing.T) {
	_, err := config.LoadWithPrecedence("", "", filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explicit config")
}

func TestLoadWithPrecedenceUnreadableGlobalIsError(t *testing.T) {
	// A directory cannot be scanned as a file.
	dir := t.TempDir()
	_, err := config.LoadWithPrecedence(dir, "", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "global config")
}

// ---------------------------------------------------------------------------
// ApplyMapToConfig / Validate tests
// ---------------------------------------------------------------------------

func TestApplyMapToConfigIgnoresInvalidIntegers(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{"POLL_INTERVAL": "soon", "FLUSH_INTERVAL": "12"})
	assert.Equal(t, 10, cfg.PollInterval)
	assert.Equal(t, 12, cfg.FlushInterval)
}

func TestApplyMapToConfigBooleanVariations(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "1", "yes", "on"} {
		cfg := config.NewDefaultConfig()
		config.ApplyMapToConfig(cfg, map[string]string{"VERBOSE": v})
		assert.True(t, cfg.Verbose, v)
	}
	for _, v := range []string{"false", "0", "no", ""} {
		cfg := config.NewDefaultConfig()
		cfg.Verbose = true
		config.ApplyMapToConfig(cfg, map[string]string{"VERBOSE": v})
		assert.False(t, cfg.Verbose, v)
	}
}

func TestApplyMapToConfigLowercasesBackend(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{"STORE_BACKEND": "SQLite"})
	assert.Equal(t, config.BackendSQLite, cfg.StoreBackend)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"defaults are valid", func(*config.Config) {}, ""},
		{"empty data dir", func(c *config.Config) { c.DataDir = "" }, "DATA_DIR"},
		{"unknown backend", func(c *config.Config) { c.StoreBackend = "redis" }, "STORE_BACKEND"},
		{"poll too fast", func(c *config.Config) { c.PollInterval = 0 }, "POLL_INTERVAL"},
		{"poll too slow", func(c *config.Config) { c.PollInterval = 301 }, "POLL_INTERVAL"},
		{"flush zero", func(c *config.Config) { c.FlushInterval = 0 }, "FLUSH_INTERVAL"},
		{"git poll zero", func(c *config.Config) { c.GitPollInterval = 0 }, "GIT_POLL_INTERVAL"},
		{"interaction zero", func(c *config.Config) { c.InteractionSeconds = 0 }, "INTERACTION_SECONDS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
