package source

import (
	"context"
	"fmt"

	"perrons/internal/config"
	"perrons/internal/logger"
	"perrons/internal/models"
)

// Loaded is a decoded source together with the bytes it was decoded from.
type Loaded[T any] struct {
	Records []T
	Raw     []byte
}

// Loader loads the configured dataset and registry.
type Loader struct {
	cfg     *config.Config
	fetcher *Fetcher
	log     *logger.Logger
}

// NewLoader creates a loader for cfg.
func NewLoader(cfg *config.Config, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Discard()
	}

	return &Loader{
		cfg:     cfg,
		fetcher: NewFetcher(cfg.Stations.Retry, log),
		log:     log,
	}
}

// LoadRows reads and decodes the raw perron dataset.
func (l *Loader) LoadRows(ctx context.Context) (*Loaded[models.RawRow], error) {
	data, err := l.fetcher.Fetch(ctx, l.cfg.Input.Path)
	if err != nil {
		return nil, fmt.Errorf("loading rows: %w", err)
	}

	rows, err := ParseRows(data, l.cfg.InputFormat(), l.cfg.Input.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("loading rows from %s: %w", l.cfg.Input.Path, err)
	}

	l.log.Info("loaded rows", "source", l.cfg.Input.Path, "rows", len(rows))

	return &Loaded[models.RawRow]{Records: rows, Raw: data}, nil
}

// LoadStations reads and decodes the station registry.
func (l *Loader) LoadStations(ctx context.Context) (*Loaded[models.Station], error) {
	src := l.cfg.Stations.GetSource()

	data, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("loading stations: %w", err)
	}

	stations, err := ParseStations(data)
	if err != nil {
		return nil, fmt.Errorf("loading stations from %s: %w", src, err)
	}

	l.log.Info("loaded stations", "source", src, "stations", len(stations))

	return &Loaded[models.Station]{Records: stations, Raw: data}, nil
}
