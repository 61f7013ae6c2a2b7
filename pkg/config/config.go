// Package config loads the client configuration from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/rsacrack/pkg/dispatch"
	"github.com/germanamz/rsacrack/pkg/fetch"
)

// DefaultOrigin is the service the client talks to when none is configured.
const DefaultOrigin = "https://rsacrack.com"

// Config is the top-level client configuration.
type Config struct {
	Origin         string   `yaml:"origin"`
	UserAgent      string   `yaml:"user_agent"`
	RequestTimeout Duration `yaml:"request_timeout"` // Client-side transport timeout (0 = default).
	LogFile        string   `yaml:"log_file"`        // Empty discards logs in the TUI.
	LogLevel       string   `yaml:"log_level"`
	BatchWorkers   int      `yaml:"batch_workers"`
	Defaults       Defaults `yaml:"defaults"`
}

// Defaults are the initial values of the input controls.
type Defaults struct {
	TimeoutMS   string `yaml:"timeout_ms"`
	MaxBits     string `yaml:"max_bits"`
	BudgetMS    string `yaml:"budget_ms"`
	RhoRestarts string `yaml:"rho_restarts"`
	Schedule    string `yaml:"schedule"`
}

// Form returns the defaults as an otherwise empty form.
func (d Defaults) Form() dispatch.Form {
	return dispatch.Form{
		TimeoutMS:   d.TimeoutMS,
		MaxBits:     d.MaxBits,
		BudgetMS:    d.BudgetMS,
		RhoRestarts: d.RhoRestarts,
		Schedule:    d.Schedule,
	}
}

// Duration is a time.Duration that unmarshals from strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	if s == "" {
		*d = 0
		return nil
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	if d == 0 {
		return "", nil
	}
	return time.Duration(d).String(), nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Origin:       DefaultOrigin,
		UserAgent:    "rsacrack-cli",
		LogLevel:     "info",
		BatchWorkers: 4,
		Defaults: Defaults{
			BudgetMS: "500",
			Schedule: dispatch.DefaultSchedule,
		},
	}
}

// Load reads a YAML file on top of [Default]. Environment variables
// referenced as ${VAR} or $VAR are expanded before parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML data on top of [Default] and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Origin == "" {
		return fmt.Errorf("config: origin is required")
	}

	if _, err := fetch.ParseOrigin(c.Origin); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: request_timeout must not be negative")
	}

	if c.BatchWorkers < 0 {
		return fmt.Errorf("config: batch_workers must not be negative")
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level. An
// empty name means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("config: unknown log_level %q", name)
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}
