package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/jury/internal/config"
	"github.com/okian/jury/internal/sampledata"
	"github.com/okian/jury/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration (default: $"+config.EnvConfig+")")
		out        = flag.String("out", "", "Directory for the generated files (default: the configured input_dir)")
		judges     = flag.Int("judges", sampledata.DefaultJudges, "Number of judges")
		students   = flag.Int("students", sampledata.DefaultStudents, "Number of students")
		seed       = flag.Uint64("seed", sampledata.DefaultSeed, "Random seed")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		sampledata.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := *configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	cfg, err := config.LoadFile(ctx, path)
	if err != nil {
		os.Stderr.WriteString("Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	dir := *out
	if dir == "" {
		dir = cfg.InputDir
	}

	sample, err := sampledata.Generate(ctx, cfg, sampledata.Options{Judges: *judges, Students: *students, Seed: *seed})
	if err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := sampledata.Write(ctx, dir, cfg, sample); err != nil {
		os.Stderr.WriteString("Write failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
