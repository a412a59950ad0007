// Package normalizer turns the raw perron dataset into cross-referenced track
// and perron records keyed by canonical station ids.
package normalizer

import (
	"fmt"

	"perrons/internal/logger"
	"perrons/internal/models"
)

// DefaultMissingStationNumbers lists dataset station numbers known to have
// no registry entry.
var DefaultMissingStationNumbers = []string{
	"558",  // Berlin Schöneberg
	"7177", // Bürstadt
	"6245",
	"1950",
	"1376",
	"7790",
}

// DefaultBrokenTrackIDs lists track ids that occur twice in the dataset with
// different perrons.
var DefaultBrokenTrackIDs = []string{
	"8003059:41",
	"8003483:1",
	"8005030:1",
	"8005163:2",
}

// Options configures a Processor.
type Options struct {
	Logger                *logger.Logger
	MissingStationNumbers []string
	BrokenTrackIDs        []string
	Symbols               NumberSymbols
}

// DefaultOptions returns the exception lists and number table of the
// published perron dataset.
func DefaultOptions() Options {
	return Options{
		MissingStationNumbers: DefaultMissingStationNumbers,
		BrokenTrackIDs:        DefaultBrokenTrackIDs,
		Symbols:               GermanSymbols,
	}
}

// Result is the output of one run.
type Result struct {
	Tracks       []models.Track
	Perrons      []models.Perron
	Skipped      []Skip
	Stations     []StationStats
	InputRows    int
	FilteredRows int
}

// StationStats counts what a station group produced.
type StationStats struct {
	Station string
	Rows    int
	Perrons int
	Tracks  int
}

// Processor runs the full transform. It holds no state between runs.
type Processor struct {
	index   *StationIndex
	log     *logger.Logger
	missing StringSet
	perrons *PerronBuilder
	tracks  *TrackBuilder
}

// NewProcessor creates a processor resolving stations against index.
func NewProcessor(index *StationIndex, opts Options) (*Processor, error) {
	if index == nil {
		return nil, ErrNilIndex
	}

	if err := opts.Symbols.Validate(); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &Processor{
		index:   index,
		log:     log,
		missing: NewStringSet(opts.MissingStationNumbers...),
		perrons: NewPerronBuilder(opts.Symbols),
		tracks:  NewTrackBuilder(NewStringSet(opts.BrokenTrackIDs...)),
	}, nil
}

// Process transforms raw rows into tracks. A data integrity error aborts the
// run and no partial result is returned.
func (p *Processor) Process(rows []models.RawRow) (*Result, error) {
	// 1. Resolve station numbers
	resolved, filtered, err := p.index.ResolveAll(rows, p.missing)
	if err != nil {
		return nil, fmt.Errorf("resolving stations: %w", err)
	}

	p.log.Debug("resolved stations", "rows", len(rows), "filtered", filtered)

	// 2. Group by station
	byStation := GroupBy(resolved, func(r models.ResolvedRow) string { return r.Station })

	result := &Result{
		InputRows:    len(rows),
		FilteredRows: filtered,
		Stations:     make([]StationStats, 0, len(byStation)),
	}

	perTrack := make([][]models.Track, 0, len(byStation))
	perPerron := make([][]models.Perron, 0, len(byStation))

	// 3+4. Build perrons and tracks per station
	for _, g := range byStation {
		perrons, err := p.perrons.Build(g.Members)
		if err != nil {
			return nil, fmt.Errorf("building perrons: %w", err)
		}

		log := p.log.With("station", g.Key)

		tracks, skipped, err := p.buildTracks(log, g.Members, perrons)
		if err != nil {
			return nil, fmt.Errorf("building tracks: %w", err)
		}

		log.Debug("built station", "rows", len(g.Members), "perrons", len(perrons), "tracks", len(tracks))

		perPerron = append(perPerron, perrons)
		perTrack = append(perTrack, tracks)
		result.Skipped = append(result.Skipped, skipped...)
		result.Stations = append(result.Stations, StationStats{
			Station: g.Key,
			Rows:    len(g.Members),
			Perrons: len(perrons),
			Tracks:  len(tracks),
		})
	}

	// 5. Flatten
	result.Tracks = Flatten(perTrack)
	result.Perrons = Flatten(perPerron)

	p.log.Info("processed perron dataset",
		"stations", len(result.Stations),
		"perrons", len(result.Perrons),
		"tracks", len(result.Tracks),
		"skipped", len(result.Skipped),
	)

	return result, nil
}

func (p *Processor) buildTracks(log *logger.Logger, rows []models.ResolvedRow, perrons []models.Perron) ([]models.Track, []Skip, error) {
	var (
		tracks  []models.Track
		skipped []Skip
	)

	for _, row := range rows {
		out := p.tracks.Build(row, perrons)

		switch out.Kind {
		case OutcomeOK:
			tracks = append(tracks, out.Track)
		case OutcomeSkipped:
			log.Warn(out.Skip.Detail+", skipping",
				"id", out.Skip.ID,
				"reason", out.Skip.Reason,
			)

			skipped = append(skipped, out.Skip)
		case OutcomeFatal:
			return nil, nil, out.Err
		}
	}

	return tracks, skipped, nil
}
