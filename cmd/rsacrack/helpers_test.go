package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/rsacrack/pkg/config"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hell…", truncate("hello world", 5))
	assert.Equal(t, "ab…\ncd", truncate("abcdef\ncd", 3))
	assert.Equal(t, "unchanged", truncate("unchanged", 0))
}

func TestClipLines(t *testing.T) {
	assert.Equal(t, "a\nb", clipLines("a\nb", 3))
	assert.Equal(t, "a\nb\n… 3 more lines", clipLines("a\nb\nc\nd\ne", 3))
	assert.Equal(t, "a\nb\nc", clipLines("a\nb\nc", 0))
}

func TestRenderPretty_PlainText(t *testing.T) {
	assert.Equal(t, "Provide n", renderPretty("Provide n", 80))
	assert.Equal(t, "unreachable", renderPretty("unreachable", 80))
}

func TestRenderPretty_JSON(t *testing.T) {
	out := renderPretty("{\n  \"factors\": [7, 13]\n}", 80)
	assert.Contains(t, out, "factors")
	assert.Contains(t, out, "13")
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RSACRACK_TEST_ORIGIN=http://localhost:8082\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("RSACRACK_TEST_ORIGIN") })

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "http://localhost:8082", os.Getenv("RSACRACK_TEST_ORIGIN"))
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local", "rsacrack.log")

	log, closeLog, err := newLogger(config.Default(), path, false)
	require.NoError(t, err)

	log.Info("hello", "k", "v")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello")
	assert.Contains(t, string(data), "k=v")
}

func TestNewLogger_Discard(t *testing.T) {
	log, closeLog, err := newLogger(config.Default(), "", false)
	require.NoError(t, err)
	defer closeLog()

	assert.False(t, log.Enabled(t.Context(), -10))
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig(options{dir: ".rsacrack"})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	require.NoError(t, os.WriteFile("rsacrack.yaml", []byte("origin: http://localhost:8082\n"), 0o600))

	cfg, err = loadConfig(options{dir: ".rsacrack"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8082", cfg.Origin)
}
