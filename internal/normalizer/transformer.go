package normalizer

import (
	"errors"
	"sort"
)

// ErrNilResult is returned when there is nothing to summarize.
var ErrNilResult = errors.New("result is nil")

// Summary aggregates a run for reporting.
type Summary struct {
	SkipsByReason map[string]int `json:"skipsByReason"`
	InputRows     int            `json:"inputRows"`
	FilteredRows  int            `json:"filteredRows"`
	Stations      int            `json:"stations"`
	Perrons       int            `json:"perrons"`
	Tracks        int            `json:"tracks"`
	SkippedRows   int            `json:"skippedRows"`
	MinLength     float64        `json:"minLength"`
	MaxLength     float64        `json:"maxLength"`
	MinHeight     float64        `json:"minHeight"`
	MaxHeight     float64        `json:"maxHeight"`
}

// Transformer derives reporting views from a Result.
type Transformer struct{}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Summarize computes totals and perron dimension ranges.
func (t *Transformer) Summarize(result *Result) (*Summary, error) {
	if result == nil {
		return nil, ErrNilResult
	}

	summary := &Summary{
		SkipsByReason: make(map[string]int),
		InputRows:     result.InputRows,
		FilteredRows:  result.FilteredRows,
		Stations:      len(result.Stations),
		Perrons:       len(result.Perrons),
		Tracks:        len(result.Tracks),
		SkippedRows:   len(result.Skipped),
	}

	for _, s := range result.Skipped {
		summary.SkipsByReason[s.Reason]++
	}

	for i, p := range result.Perrons {
		if i == 0 || p.Length < summary.MinLength {
			summary.MinLength = p.Length
		}

		if i == 0 || p.Length > summary.MaxLength {
			summary.MaxLength = p.Length
		}

		if i == 0 || p.Height < summary.MinHeight {
			summary.MinHeight = p.Height
		}

		if i == 0 || p.Height > summary.MaxHeight {
			summary.MaxHeight = p.Height
		}
	}

	return summary, nil
}

// StationsByTracks returns the station stats ordered by track count, most
// first, ties broken by station id.
func (t *Transformer) StationsByTracks(result *Result) []StationStats {
	if result == nil {
		return nil
	}

	out := make([]StationStats, len(result.Stations))
	copy(out, result.Stations)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tracks != out[j].Tracks {
			return out[i].Tracks > out[j].Tracks
		}

		return out[i].Station < out[j].Station
	})

	return out
}
