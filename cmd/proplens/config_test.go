package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := loadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Empty(t, cfg.Workspace)
	assert.Empty(t, cfg.LogFile)
}

func TestLoadConfig_Parsed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".proplens"), 0o755))
	content := `version: 1
workspace: ./src
log_file: /tmp/proplens.jsonl
log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, configRelPath), []byte(content), 0o644))

	cfg, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "./src", cfg.Workspace)
	assert.Equal(t, "/tmp/proplens.jsonl", cfg.LogFile)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".proplens"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, configRelPath), []byte("{not yaml"), 0o644))

	_, err := loadConfig(dir)
	assert.Error(t, err)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "flag", firstNonEmpty("flag", "config", "default"))
	assert.Equal(t, "config", firstNonEmpty("", "config", "default"))
	assert.Equal(t, "default", firstNonEmpty("", "", "default"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
