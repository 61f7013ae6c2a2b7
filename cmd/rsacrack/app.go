package main

import (
	"flag"
	"log/slog"
	"time"

	"github.com/germanamz/rsacrack/pkg/appdir"
	"github.com/germanamz/rsacrack/pkg/config"
	"github.com/germanamz/rsacrack/pkg/dispatch"
	"github.com/germanamz/rsacrack/pkg/fetch"
	"github.com/germanamz/rsacrack/pkg/shim"
)

// options are the flags shared by every command.
type options struct {
	configPath string
	dir        string
	envFile    string
	verbose    bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "path to configuration file (default: .rsacrack/config.yaml or rsacrack.yaml)")
	fs.StringVar(&o.dir, "dir", ".rsacrack", "path to .rsacrack directory")
	fs.StringVar(&o.envFile, "env", ".env", "path to .env file (ignored if missing)")
	fs.BoolVar(&o.verbose, "verbose", false, "log requests at debug level (stderr for one-shot commands)")
}

// app is the wired client: configuration, logger and dispatcher.
type app struct {
	cfg   config.Config
	log   *slog.Logger
	disp  *dispatch.Dispatcher
	close func()
}

// loadConfig resolves and loads the configuration. Without any config file
// the defaults are used.
func loadConfig(o options) (config.Config, error) {
	path := appdir.ResolveConfig(o.configPath, appdir.New(o.dir))
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newApp loads everything the commands need. When logStderr is set and no
// log file is configured, logs go to stderr.
func newApp(o options, logStderr bool) (*app, error) {
	if err := loadDotEnv(o.envFile); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(o)
	if err != nil {
		return nil, err
	}

	if o.verbose {
		cfg.LogLevel = "debug"
	}

	log, closeLog, err := newLogger(cfg, cfg.LogFile, logStderr && o.verbose)
	if err != nil {
		return nil, err
	}

	disp, err := newDispatcher(cfg, log)
	if err != nil {
		closeLog()
		return nil, err
	}

	return &app{cfg: cfg, log: log, disp: disp, close: closeLog}, nil
}

// newDispatcher builds the fetch client, installs the normalization shim in
// front of it and hands the result to a dispatcher.
func newDispatcher(cfg config.Config, log *slog.Logger) (*dispatch.Dispatcher, error) {
	client, err := fetch.New(cfg.Origin, nil)
	if err != nil {
		return nil, err
	}

	client.UserAgent = cfg.UserAgent
	client.Timeout = time.Duration(cfg.RequestTimeout)

	f := shim.Install(client, shim.Normalizer{Protocol: client.Protocol()})
	log.Debug("client ready", "origin", client.Origin.String())

	return dispatch.New(f, log), nil
}
