// Package appdir resolves paths within the .rsacrack/ project directory and
// creates its layout.
package appdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const gitignoreContent = "local/\n"

// Dir is a value object that resolves paths within a .rsacrack/ directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. The path is converted to an
// absolute path. No I/O is performed.
func New(root string) Dir {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	return Dir{root: abs}
}

// Root returns the absolute path to the directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the config file.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, "config.yaml") }

// LocalDir returns the path to the local (gitignored) runtime directory.
func (d Dir) LocalDir() string { return filepath.Join(d.root, "local") }

// LogPath returns the default log file path inside local/.
func (d Dir) LogPath() string { return filepath.Join(d.root, "local", "rsacrack.log") }

// GitignorePath returns the path to the .gitignore file.
func (d Dir) GitignorePath() string { return filepath.Join(d.root, ".gitignore") }

// Exists reports whether the root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}

// HasConfig reports whether the config file exists.
func (d Dir) HasConfig() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// EnsureStructure creates the local/ directory and the .gitignore file if
// they are missing. It is safe to call multiple times.
func EnsureStructure(d Dir) error {
	if err := os.MkdirAll(d.LocalDir(), 0o750); err != nil {
		return fmt.Errorf("appdir: create local dir: %w", err)
	}

	if _, err := os.Stat(d.GitignorePath()); err == nil {
		return nil
	}

	if err := os.WriteFile(d.GitignorePath(), []byte(gitignoreContent), 0o600); err != nil {
		return fmt.Errorf("appdir: gitignore: %w", err)
	}

	return nil
}

// Bootstrap creates the directory layout and writes configYAML as the config
// file. It refuses to overwrite an existing config.
func Bootstrap(d Dir, configYAML []byte) error {
	if d.HasConfig() {
		return fmt.Errorf("appdir: %s already exists", d.ConfigPath())
	}

	if err := EnsureStructure(d); err != nil {
		return err
	}

	if err := os.WriteFile(d.ConfigPath(), configYAML, 0o600); err != nil {
		return fmt.Errorf("appdir: write config: %w", err)
	}

	return nil
}

// ResolveConfig returns the config file to use. Priority: explicit path,
// then the directory's config.yaml, then rsacrack.yaml in the working
// directory. It returns "" when none exists and no explicit path was given.
func ResolveConfig(explicit string, d Dir) string {
	if explicit != "" {
		return explicit
	}

	if d.HasConfig() {
		return d.ConfigPath()
	}

	if _, err := os.Stat("rsacrack.yaml"); !errors.Is(err, fs.ErrNotExist) {
		return "rsacrack.yaml"
	}

	return ""
}
