// Package main provides the check command: it verifies that a written build
// output still matches its inputs and satisfies the output invariants.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"perrons/internal/config"
	"perrons/internal/logger"
	"perrons/internal/models"
	"perrons/internal/normalizer"
	"perrons/internal/source"
)

// ErrNoMetadata is returned for output documents without provenance.
var ErrNoMetadata = errors.New("output has no metadata")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("perrons-check", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Path to YAML config (default $"+config.EnvConfig+")")
	input := fs.String("input", "", "Raw perron dataset the output was built from")
	stations := fs.String("stations", "", "Station registry file or URL")
	output := fs.String("output", "", "Output JSON to check")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *configPath == "" {
		*configPath = os.Getenv(config.EnvConfig)
	}

	cfg := config.Default()

	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "❌ %v\n", err)
			return 2
		}

		cfg = loaded
	}

	cfg.ApplyEnv()

	if *input != "" {
		cfg.Input.Path = *input
	}

	if *stations != "" {
		cfg.SetStationsSource(*stations)
	}

	if *output != "" {
		cfg.Output.Path = *output
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		fs.Usage()

		return 2
	}

	log := logger.NewLoggerWithWriter(cfg.Logging.Level, stderr)

	fmt.Fprintf(stdout, "📂 Checking: %s\n", cfg.Output.Path)

	if err := check(ctx, cfg, log); err != nil {
		fmt.Fprintf(stdout, "❌ Check failed: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "✅ Output matches its inputs and passes validation")

	return 0
}

func check(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	data, err := os.ReadFile(cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("error reading output: %w", err)
	}

	var out models.Output
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("error decoding output: %w", err)
	}

	if out.Metadata == nil {
		return ErrNoMetadata
	}

	loader := source.NewLoader(cfg, log)

	rows, err := loader.LoadRows(ctx)
	if err != nil {
		return err
	}

	registry, err := loader.LoadStations(ctx)
	if err != nil {
		return err
	}

	// 1. Provenance
	if _, err := out.Metadata.Verify(rows.Raw, registry.Raw); err != nil {
		return err
	}

	if out.Metadata.Tracks != len(out.Tracks) {
		return fmt.Errorf("metadata counts %d tracks, output has %d", out.Metadata.Tracks, len(out.Tracks))
	}

	// 2. Invariants
	index, err := normalizer.NewStationIndex(registry.Records)
	if err != nil {
		return fmt.Errorf("indexing stations: %w", err)
	}

	return normalizer.NewValidator(index, cfg.Exceptions.BrokenTrackIDs).Validate(out.Tracks)
}
