package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/jury/internal/adapters/console"
	app "github.com/okian/jury/internal/app"
	"github.com/okian/jury/internal/config"
	"github.com/okian/jury/pkg/logger"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one assignment and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("jury", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file (default: $"+config.EnvConfig+")")
	printConfig := fs.Bool("print-config", false, "Print the effective configuration as YAML and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	// Initialize logging
	if err := logger.InitWithWriter(stderr); err != nil {
		_, _ = fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()
	loggerInstance := logger.Get()

	// Load configuration (defaults -> optional file -> env)
	path := *configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	cfg, err := config.LoadFile(ctx, path)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "failed to load config: "+err.Error())
		return 1
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if *printConfig {
		out, err := cfg.YAML()
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err.Error())
			return 1
		}
		_, _ = stdout.Write(out)
		return 0
	}

	svc := app.New(app.WithConfig(cfg), app.WithLogger(loggerInstance))
	printer := console.New(stdout)
	res, err := svc.Run(ctx)
	if err != nil {
		if perr := printer.Failure(app.Diagnostic(err), res.ErrorPath); perr != nil {
			loggerInstance.Error(ctx, "failed to print outcome", logger.Error(perr))
		}
		return 1
	}
	if err := printer.Success(res.OutputDir, res.Summary); err != nil {
		loggerInstance.Error(ctx, "failed to print outcome", logger.Error(err))
	}
	return 0
}
