package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/germanamz/rsacrack/pkg/appdir"
	"github.com/germanamz/rsacrack/pkg/config"
	"github.com/germanamz/rsacrack/pkg/fetch"
)

// wizardAnswers are the raw form values, all kept as strings so huh inputs
// can bind to them.
type wizardAnswers struct {
	Origin         string
	UserAgent      string
	RequestTimeout string
	LogToFile      bool
	LogLevel       string
	BatchWorkers   string
	BudgetMS       string
	Schedule       string
}

func defaultAnswers() wizardAnswers {
	cfg := config.Default()
	return wizardAnswers{
		Origin:       cfg.Origin,
		UserAgent:    cfg.UserAgent,
		LogLevel:     cfg.LogLevel,
		BatchWorkers: strconv.Itoa(cfg.BatchWorkers),
		BudgetMS:     cfg.Defaults.BudgetMS,
		Schedule:     cfg.Defaults.Schedule,
	}
}

func runInit(dirPath string) error {
	d := appdir.New(dirPath)
	if d.HasConfig() {
		return fmt.Errorf("%s already exists", d.ConfigPath())
	}

	answers := defaultAnswers()
	if err := runWizard(&answers); err != nil {
		return err
	}

	cfg, err := answers.config(d)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	if err := appdir.Bootstrap(d, data); err != nil {
		return err
	}

	fmt.Printf("Initialized %s\n", d.Root())
	return nil
}

func runWizard(a *wizardAnswers) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Service origin").Value(&a.Origin).Validate(validateOrigin),
			huh.NewInput().Title("User agent").Value(&a.UserAgent),
			huh.NewInput().Title("Request timeout (empty = default, e.g. 30s)").Value(&a.RequestTimeout).Validate(validateOptionalDuration),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Write logs to the local directory?").Value(&a.LogToFile),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&a.LogLevel),
			huh.NewInput().Title("Concurrent lotto requests in batch mode").Value(&a.BatchWorkers).Validate(validatePositiveInt),
		),
		huh.NewGroup(
			huh.NewInput().Title("Default lotto budget_ms").Value(&a.BudgetMS).Validate(validateOptionalNonNegativeInt),
			huh.NewSelect[string]().
				Title("Default restart schedule").
				Options(
					huh.NewOption("Luby", "luby"),
					huh.NewOption("Geometric", "geometric"),
					huh.NewOption("Fixed", "fixed"),
				).
				Value(&a.Schedule),
		),
	).Run()
}

// config converts the answers into a validated configuration. Log files go
// under the local directory of d.
func (a wizardAnswers) config(d appdir.Dir) (config.Config, error) {
	cfg := config.Default()
	cfg.Origin = strings.TrimSpace(a.Origin)
	cfg.UserAgent = strings.TrimSpace(a.UserAgent)
	cfg.LogLevel = a.LogLevel
	cfg.Defaults.BudgetMS = strings.TrimSpace(a.BudgetMS)
	cfg.Defaults.Schedule = a.Schedule

	if a.LogToFile {
		cfg.LogFile = d.LogPath()
	}

	if s := strings.TrimSpace(a.RequestTimeout); s != "" {
		v, err := time.ParseDuration(s)
		if err != nil {
			return config.Config{}, fmt.Errorf("request timeout: %w", err)
		}
		cfg.RequestTimeout = config.Duration(v)
	}

	if s := strings.TrimSpace(a.BatchWorkers); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return config.Config{}, fmt.Errorf("batch workers: %w", err)
		}
		cfg.BatchWorkers = n
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func validateOrigin(s string) error {
	_, err := fetch.ParseOrigin(s)
	return err
}

func validateOptionalDuration(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.ParseDuration(s); err != nil {
		return fmt.Errorf("must be a duration like 30s or 2m")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func validateOptionalNonNegativeInt(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	return nil
}
