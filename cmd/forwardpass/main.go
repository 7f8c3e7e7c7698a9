package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"forwardpass/internal/config"
	"forwardpass/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("forward pass failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("forwardpass", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "Path to YAML config (defaults to the reference network)")
	outputDir := fs.String("output-dir", "", "Override output directory")
	logLevel := fs.String("log-level", "", "Override log level (debug, info, warn, error)")
	dpi := fs.Int("dpi", 0, "Override image DPI")
	noRender := fs.Bool("no-render", false, "Print the report without writing images")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg.ApplyOverrides(config.Overrides{
		OutputDir: *outputDir,
		LogLevel:  *logLevel,
		DPI:       *dpi,
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	runCfg := pipeline.RunConfig{
		Input:      cfg.Input,
		Params:     cfg.Params(),
		OutputDir:  cfg.OutputDir,
		DPI:        cfg.DPI,
		SkipRender: *noRender,
		Report:     stdout,
		Logger:     logger,
	}

	_, err = pipeline.Run(ctx, runCfg)
	return err
}
