package appdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_PathAccessors(t *testing.T) {
	d := New("/project/.rsacrack")

	assert.Equal(t, "/project/.rsacrack", d.Root())
	assert.Equal(t, "/project/.rsacrack/config.yaml", d.ConfigPath())
	assert.Equal(t, "/project/.rsacrack/local", d.LocalDir())
	assert.Equal(t, "/project/.rsacrack/local/rsacrack.log", d.LogPath())
	assert.Equal(t, "/project/.rsacrack/.gitignore", d.GitignorePath())
}

func TestDir_Exists(t *testing.T) {
	tmp := t.TempDir()

	assert.False(t, New(filepath.Join(tmp, "missing")).Exists())
	assert.True(t, New(tmp).Exists())
}

func TestEnsureStructure_Idempotent(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), ".rsacrack"))

	require.NoError(t, EnsureStructure(d))
	require.NoError(t, os.WriteFile(d.GitignorePath(), []byte("custom\n"), 0o600))
	require.NoError(t, EnsureStructure(d))

	info, err := os.Stat(d.LocalDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	data, err := os.ReadFile(d.GitignorePath())
	require.NoError(t, err)
	assert.Equal(t, "custom\n", string(data))
}

func TestBootstrap(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), ".rsacrack"))

	require.NoError(t, Bootstrap(d, []byte("origin: https://example.com\n")))
	assert.True(t, d.HasConfig())

	data, err := os.ReadFile(d.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, "origin: https://example.com\n", string(data))

	err = Bootstrap(d, []byte("origin: https://other.example\n"))
	assert.ErrorContains(t, err, "already exists")
}

func TestResolveConfig(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)

	d := New(filepath.Join(tmp, ".rsacrack"))

	assert.Equal(t, "explicit.yaml", ResolveConfig("explicit.yaml", d))
	assert.Empty(t, ResolveConfig("", d))

	require.NoError(t, os.WriteFile("rsacrack.yaml", []byte("{}"), 0o600))
	assert.Equal(t, "rsacrack.yaml", ResolveConfig("", d))

	require.NoError(t, Bootstrap(d, []byte("{}")))
	assert.Equal(t, d.ConfigPath(), ResolveConfig("", d))
}
