package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/rsacrack/pkg/appdir"
	"github.com/germanamz/rsacrack/pkg/config"
)

func TestWizardAnswers_DefaultsRoundTrip(t *testing.T) {
	d := appdir.New(t.TempDir())

	cfg, err := defaultAnswers().config(d)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestWizardAnswers_Config(t *testing.T) {
	d := appdir.New(t.TempDir())

	a := defaultAnswers()
	a.Origin = " http://localhost:8082 "
	a.RequestTimeout = "30s"
	a.LogToFile = true
	a.LogLevel = "debug"
	a.BatchWorkers = "8"
	a.BudgetMS = "900"
	a.Schedule = "geometric"

	cfg, err := a.config(d)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8082", cfg.Origin)
	assert.Equal(t, config.Duration(30*time.Second), cfg.RequestTimeout)
	assert.Equal(t, d.LogPath(), cfg.LogFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.BatchWorkers)
	assert.Equal(t, "900", cfg.Defaults.BudgetMS)
	assert.Equal(t, "geometric", cfg.Defaults.Schedule)
}

func TestWizardAnswers_Invalid(t *testing.T) {
	d := appdir.New(t.TempDir())

	a := defaultAnswers()
	a.Origin = "rsacrack.com"
	_, err := a.config(d)
	assert.Error(t, err)

	a = defaultAnswers()
	a.RequestTimeout = "soon"
	_, err = a.config(d)
	assert.ErrorContains(t, err, "request timeout")
}

func TestWizardAnswers_WrittenConfigLoads(t *testing.T) {
	d := appdir.New(t.TempDir())

	cfg, err := defaultAnswers().config(d)
	require.NoError(t, err)

	data, err := cfg.Marshal()
	require.NoError(t, err)
	require.NoError(t, appdir.Bootstrap(d, data))

	loaded, err := config.Load(d.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateOrigin("https://rsacrack.com"))
	assert.Error(t, validateOrigin("ftp://rsacrack.com"))

	assert.NoError(t, validateOptionalDuration(""))
	assert.NoError(t, validateOptionalDuration("2m"))
	assert.Error(t, validateOptionalDuration("2 minutes"))

	assert.NoError(t, validatePositiveInt("4"))
	assert.Error(t, validatePositiveInt("0"))
	assert.Error(t, validatePositiveInt("x"))

	assert.NoError(t, validateOptionalNonNegativeInt(""))
	assert.NoError(t, validateOptionalNonNegativeInt("0"))
	assert.Error(t, validateOptionalNonNegativeInt("-1"))
}
