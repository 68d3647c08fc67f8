package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/idilsaglam/tada/internal/cli"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/store/kvstore"
	"github.com/idilsaglam/tada/internal/todos"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}

	printer := ui.Printer{Out: stdout, Err: stderr, Theme: ui.ThemeByName(cfg.Theme)}

	// The TUI owns the terminal, so without a log file interactive runs log
	// nothing. One-shot subcommands log to stderr at the configured level.
	logOut := stderr
	if len(cfg.Args) == 0 || cfg.Args[0] == "tui" {
		logOut = io.Discard
	}
	logger, logCloser, err := logging.Open(cfg.LogLevel, cfg.LogFormat, cfg.LogFile, logOut)
	if err != nil {
		printer.Fail("log: " + err.Error())
		return 1
	}
	defer logCloser.Close()

	app := &cli.App{
		Printer:     printer,
		Options:     cli.Options{Group: cfg.Group},
		Interactive: tui.Run,
	}
	if cli.NeedsList(cfg.Args) {
		kv, err := kvstore.Open(cfg.Store, cfg.Data)
		if err != nil {
			printer.Fail("store: " + err.Error())
			return 1
		}
		defer kv.Close()
		logger.Debug("store opened", "backend", cfg.Store, "data", cfg.Data, "key", cfg.Key, "theme", printer.Theme.Name)
		app.Todos = todos.New(jsonstore.New(kv, cfg.Key), todos.WithLogger(logger))
	}
	code := app.Run(cfg.Args)
	if code != 0 {
		fmt.Fprintln(stderr)
	}
	return code
}
