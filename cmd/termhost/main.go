// Package main is the entry point for termhost, a shell host with
// scrollback search and configurable shortcuts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/dshills/termhost/internal/app"
	"github.com/dshills/termhost/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// shutdownTimeout bounds how long closing sessions may take on exit.
const shutdownTimeout = 5 * time.Second

type cliOptions struct {
	app.Options
	pipe bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	interactive := !opts.pipe && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	// Log lines on stderr would tear the full-screen view.
	if interactive && slices.Equal(cfg.Log.OutputPaths, []string{"stderr"}) {
		cfg.Log.OutputPaths = []string{filepath.Join(os.TempDir(), "termhost.log")}
	}
	opts.Config = cfg

	application, err := app.New(opts.Options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = application.Close(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if interactive {
		err = runViewer(ctx, application)
	} else {
		err = runPipe(ctx, application, os.Stdin, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", config.DefaultPath(), "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", config.DefaultPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&opts.Shell, "shell", "", "Shell to run instead of the detected one")
	flag.StringVar(&opts.Shell, "s", "", "Shell to run instead of the detected one (shorthand)")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug logging (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.pipe, "pipe", false, "Feed stdin to the shell and print the resulting screen")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "termhost - terminal sessions with scrollback search\n\n")
		fmt.Fprintf(os.Stderr, "Usage: termhost [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  termhost                         Open the detected shell\n")
		fmt.Fprintf(os.Stderr, "  termhost -s /bin/zsh             Open zsh\n")
		fmt.Fprintf(os.Stderr, "  echo 'ls -l' | termhost -pipe    Run input and print the screen\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("termhost %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %v\n", flag.Args())
		os.Exit(1)
	}

	return opts
}
