// Package main is the entry point for the vnav viewer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/vnav/internal/app"
	"github.com/dshills/vnav/internal/config"
	"github.com/dshills/vnav/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type rootFlags struct {
	configPath string
	logLevel   string
	logFile    string
	tabWidth   int
	wrap       bool
	debug      bool
	noWatch    bool
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootFlags{})
}

func newRootCmdWith(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vnav [file]",
		Short: "Terminal file viewer with sticky-column navigation",
		Long: `vnav opens a file for viewing in the terminal. Moving up and down
keeps the cursor in the column it started from, even across shorter lines,
soft-wrapped rows, tabs and wide characters.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := f.load(cmd)
			if err != nil {
				return err
			}
			opts := app.Options{
				Config:      cfg,
				ConfigPath:  path,
				WatchConfig: !f.noWatch && fileExists(path),
				Debug:       f.debug,
			}
			if len(args) == 1 {
				opts.File = args[0]
			}
			return runApp(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "config file (default is "+config.DefaultPath()+")")
	flags.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	flags.IntVar(&f.tabWidth, "tab-width", 0, "distance between tab stops")
	flags.BoolVar(&f.wrap, "wrap", false, "soft-wrap long lines")
	flags.BoolVarP(&f.debug, "debug", "d", false, "log every bus event (implies --log-level debug)")
	flags.BoolVar(&f.noWatch, "no-watch", false, "do not reload the config file when it changes")

	return cmd
}

// load reads the config file and applies the flags the user set on top.
func (f *rootFlags) load(cmd *cobra.Command) (*config.Config, string, error) {
	path := f.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}

	flags := cmd.Flags()
	if flags.Changed("tab-width") {
		cfg.Editor.TabWidth = f.tabWidth
	}
	if flags.Changed("wrap") {
		cfg.Editor.SoftWrap = f.wrap
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = f.logFile
	}
	switch {
	case flags.Changed("log-level"):
		cfg.Logging.Level = f.logLevel
	case f.debug:
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, path, nil
}

func runApp(ctx context.Context, opts app.Options) error {
	logger, err := app.NewLogger(app.LoggerConfig{
		Level: opts.Config.Logging.Level,
		File:  opts.Config.Logging.File,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	opts.Logger = logger

	application, err := app.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	term, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	application.SetBackend(term)

	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		return err
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
