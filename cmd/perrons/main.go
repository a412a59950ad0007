// Package main provides the perron build command: it resolves the raw perron
// dataset against the station registry and writes the normalized tracks.
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
	"path/filepath"
	"syscall"

	"perrons/internal/config"
	"perrons/internal/formatter"
	"perrons/internal/logger"
	"perrons/internal/models"
	"perrons/internal/normalizer"
	"perrons/internal/source"
	"perrons/pkg/metadata"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitIntegrity = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// 1. Define Command-Line Flags
	// ---------------------------
	fs := flag.NewFlagSet("perrons", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Path to YAML config (default $"+config.EnvConfig+")")
	envFile := fs.String("env", ".env", "Optional .env file with PERRONS_* overrides")
	input := fs.String("input", "", "Raw perron dataset (.json or .csv)")
	stations := fs.String("stations", "", "Station registry file or URL (JSON array or NDJSON)")
	output := fs.String("output", "", "Output JSON path, - for stdout")
	report := fs.String("report", "", "Optional markdown report path")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	skipVerify := fs.Bool("skip-verify", false, "Skip output invariant checks")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	// 2. Resolve Configuration
	// ------------------------
	if err := config.LoadEnvFiles(*envFile); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return exitUsage
	}

	if *configPath == "" {
		*configPath = os.Getenv(config.EnvConfig)
	}

	cfg := config.Default()

	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "❌ %v\n", err)
			return exitUsage
		}

		cfg = loaded
	}

	cfg.ApplyEnv()
	applyFlags(cfg, *input, *stations, *output, *report, *logLevel)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		fs.Usage()

		return exitUsage
	}

	log := logger.NewLoggerWithWriter(cfg.Logging.Level, stderr)
	log.Debug("configuration", "config", cfg.String())

	// 3. Build
	// --------
	out, res, err := build(ctx, cfg, log, *skipVerify)
	if err != nil {
		log.Error("build failed", "error", err)

		if errors.Is(err, normalizer.ErrDataIntegrity) {
			return exitIntegrity
		}

		return exitFailure
	}

	// 4. Write Output
	// ---------------
	if err := writeOutput(cfg, out, stdout); err != nil {
		log.Error("writing output failed", "error", err)
		return exitFailure
	}

	if cfg.Output.ReportPath != "" {
		if err := writeReport(cfg, res); err != nil {
			log.Error("writing report failed", "error", err)
			return exitFailure
		}

		log.Info("report written", "path", cfg.Output.ReportPath)
	}

	log.Info("✅ build complete", "tracks", len(out.Tracks), "output", cfg.Output.Path)

	return exitOK
}

func applyFlags(cfg *config.Config, input, stations, output, report, logLevel string) {
	if input != "" {
		cfg.Input.Path = input
	}

	if stations != "" {
		cfg.SetStationsSource(stations)
	}

	if output != "" {
		cfg.Output.Path = output
	}

	if report != "" {
		cfg.Output.ReportPath = report
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
}

func build(ctx context.Context, cfg *config.Config, log *logger.Logger, skipVerify bool) (*models.Output, *normalizer.Result, error) {
	loader := source.NewLoader(cfg, log)

	rows, err := loader.LoadRows(ctx)
	if err != nil {
		return nil, nil, err
	}

	registry, err := loader.LoadStations(ctx)
	if err != nil {
		return nil, nil, err
	}

	index, err := normalizer.NewStationIndex(registry.Records)
	if err != nil {
		return nil, nil, fmt.Errorf("indexing stations: %w", err)
	}

	processor, err := normalizer.NewProcessor(index, normalizer.Options{
		Logger:                log,
		MissingStationNumbers: cfg.Exceptions.MissingStationNumbers,
		BrokenTrackIDs:        cfg.Exceptions.BrokenTrackIDs,
		Symbols:               cfg.Numbers.Symbols(),
	})
	if err != nil {
		return nil, nil, err
	}

	res, err := processor.Process(rows.Records)
	if err != nil {
		return nil, nil, err
	}

	if !skipVerify {
		v := normalizer.NewValidator(index, cfg.Exceptions.BrokenTrackIDs)
		if err := v.Validate(res.Tracks); err != nil {
			return nil, nil, fmt.Errorf("output verification failed: %w", err)
		}
	}

	if len(res.Tracks) == 0 {
		log.Warn("no tracks left after filtering and skipping", "rows", res.InputRows, "filtered", res.FilteredRows, "skipped", len(res.Skipped))
	}

	meta := metadata.New(rows.Raw, registry.Raw)
	meta.Stations = len(res.Stations)
	meta.Perrons = len(res.Perrons)
	meta.Tracks = len(res.Tracks)
	meta.SkippedRows = len(res.Skipped)

	tracks := res.Tracks
	if tracks == nil {
		tracks = []models.Track{}
	}

	return &models.Output{Metadata: meta, Tracks: tracks}, res, nil
}

func writeOutput(cfg *config.Config, out *models.Output, stdout io.Writer) error {
	var (
		data []byte
		err  error
	)

	if cfg.Output.PrettyPrint {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	data = append(data, '\n')

	if cfg.Output.Path == "-" {
		_, err = stdout.Write(data)
		return err
	}

	return writeFile(cfg.Output.Path, data)
}

func writeReport(cfg *config.Config, res *normalizer.Result) error {
	t := normalizer.NewTransformer()

	summary, err := t.Summarize(res)
	if err != nil {
		return err
	}

	md := formatter.RenderReport(formatter.Report{
		Summary:  summary,
		Stations: t.StationsByTracks(res),
		Skipped:  res.Skipped,
		Locale:   cfg.Numbers.Tag(),
	})

	return writeFile(cfg.Output.ReportPath, []byte(md))
}

// writeFile replaces path with data via a temp file in the same directory.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}
