package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/rsacrack/pkg/tools/mcpserver"
)

const version = "0.1.0"

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "init":
			initCmd := flag.NewFlagSet("init", flag.ExitOnError)
			initCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: rsacrack init [flags]\n\nInitialize a .rsacrack directory with a config file.\n\nFlags:\n")
				initCmd.PrintDefaults()
			}
			dir := initCmd.String("dir", ".rsacrack", "path to .rsacrack directory")
			_ = initCmd.Parse(os.Args[2:])

			exitOnErr(runInit(*dir))
			return

		case "health", "factor", "classify", "lotto":
			exitOnErr(runAction(os.Args[1], os.Args[2:]))
			return

		case "mcp":
			mcpCmd := flag.NewFlagSet("mcp", flag.ExitOnError)
			mcpCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: rsacrack mcp [flags]\n\nServe the factoring actions as MCP tools over stdio.\n\nFlags:\n")
				mcpCmd.PrintDefaults()
			}
			var o options
			o.register(mcpCmd)
			_ = mcpCmd.Parse(os.Args[2:])

			exitOnErr(runMCP(o))
			return
		}
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rsacrack [flags]\n       rsacrack <command> [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n"+
			"  health    Probe the service\n"+
			"  factor    Factor n with the deterministic pipeline\n"+
			"  classify  Classify n\n"+
			"  lotto     Lotto factor one or many numerals (stdin when none are given)\n"+
			"  mcp       Serve the actions as MCP tools over stdio\n"+
			"  init      Initialize a .rsacrack directory\n")
	}

	var o options
	o.register(flag.CommandLine)
	flag.Parse()

	exitOnErr(runTUI(o))
}

func exitOnErr(err error) {
	if err == nil {
		return
	}

	var ec exitCode
	if errors.As(err, &ec) {
		os.Exit(int(ec))
	}

	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func runTUI(o options) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(o, false)
	if err != nil {
		return err
	}
	defer a.close()

	p := tea.NewProgram(newAppModel(ctx, a.disp, a.cfg.Defaults.Form()), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func runMCP(o options) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// stdout carries the protocol, so logs never go there.
	a, err := newApp(o, true)
	if err != nil {
		return err
	}
	defer a.close()

	a.log.Info("serving mcp", "version", version)
	return mcpserver.New("rsacrack", version, a.disp.Tools()).Serve(ctx, os.Stdin, os.Stdout)
}
