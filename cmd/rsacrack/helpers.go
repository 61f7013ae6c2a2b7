package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/mattn/go-runewidth"

	"github.com/germanamz/rsacrack/pkg/config"
)

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// truncate shortens every line of s to at most width terminal cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = runewidth.Truncate(line, width, "…")
	}
	return strings.Join(lines, "\n")
}

// clipLines keeps at most n lines of s, marking the cut.
func clipLines(s string, n int) string {
	if n <= 0 {
		return s
	}

	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}

	kept := lines[:n-1]
	return strings.Join(kept, "\n") + "\n" + fmt.Sprintf("… %d more lines", len(lines)-len(kept))
}

// renderPretty renders region text for a terminal. JSON documents become a
// highlighted code block; anything else is returned as is.
func renderPretty(text string, width int) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return text
	}

	if width <= 0 {
		width = 100
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}

	out, err := r.Render("```json\n" + trimmed + "\n```\n")
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// newLogger builds the process logger. File logging wins over stderr; with
// neither, logs are discarded.
func newLogger(cfg config.Config, logFile string, stderr bool) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: cfg.Level()}

	if stderr && logFile == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), func() {}, nil
	}

	if logFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0o750); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return slog.New(slog.NewTextHandler(f, opts)), func() { _ = f.Close() }, nil
}
