package normalizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"perrons/internal/models"
)

// TrackNamePrefix is stripped from long track names.
const TrackNamePrefix = "Gleis "

// Reasons a row is skipped by the track builder.
const (
	SkipMismatchingName = "mismatching-track-name"
	SkipBrokenID        = "flagged-broken"
)

// Skip describes a row left out of the output.
type Skip struct {
	ID      string `json:"id,omitempty"`
	Station string `json:"station"`
	Reason  string `json:"reason"`
	Detail  string `json:"detail"`
}

// OutcomeKind tells how a row was handled.
type OutcomeKind int

// Outcome kinds.
const (
	OutcomeOK OutcomeKind = iota
	OutcomeSkipped
	OutcomeFatal
)

// Outcome is the result of building a track from one row: exactly one of
// Track, Skip and Err is meaningful, selected by Kind.
type Outcome struct {
	Track models.Track
	Skip  Skip
	Err   error
	Kind  OutcomeKind
}

// TrackBuilder turns rows into tracks attached to already built perrons.
type TrackBuilder struct {
	broken StringSet
}

// NewTrackBuilder creates a builder that drops the given composite ids.
func NewTrackBuilder(broken StringSet) *TrackBuilder {
	return &TrackBuilder{broken: broken}
}

// Build handles one row. perrons must hold the records of the row's station;
// the returned track points into that slice.
func (b *TrackBuilder) Build(row models.ResolvedRow, perrons []models.Perron) Outcome {
	var perron *models.Perron

	for i := range perrons {
		if perrons[i].Name == row.Perron && perrons[i].Station == row.Station {
			perron = &perrons[i]
			break
		}
	}

	name := ShortTrackName(row.TrackName)

	if !TrackNamesMatch(name, row.Track) {
		return Outcome{Kind: OutcomeSkipped, Skip: Skip{
			Station: row.Station,
			Reason:  SkipMismatchingName,
			Detail:  fmt.Sprintf("mismatching track names: %s, %s", name, row.Track),
		}}
	}

	id := models.CompositeID(row.Station, name)

	if b.broken.Has(id) {
		return Outcome{Kind: OutcomeSkipped, Skip: Skip{
			ID:      id,
			Station: row.Station,
			Reason:  SkipBrokenID,
			Detail:  "flagged as broken: " + id,
		}}
	}

	if perron == nil {
		return Outcome{Kind: OutcomeFatal, Err: &DataIntegrityError{
			Code:    CodeInconsistentPerron,
			Err:     fmt.Errorf("%w: track %q", ErrTrackPerronNotFound, id),
			Station: row.Station,
			Perron:  row.Perron,
		}}
	}

	return Outcome{Kind: OutcomeOK, Track: models.Track{
		ID:       id,
		Name:     name,
		LongName: row.TrackName,
		Station:  row.Station,
		Perron:   perron,
	}}
}

// ShortTrackName strips the first "Gleis " from a long name and trims it.
func ShortTrackName(longName string) string {
	return strings.TrimSpace(strings.Replace(longName, TrackNamePrefix, "", 1))
}

// TrackNamesMatch accepts a candidate short name that equals the trimmed
// short label, or that reads as a number which prints back to itself the way
// ECMAScript's Number-to-String conversion prints it.
func TrackNamesMatch(candidate, track string) bool {
	if candidate == strings.TrimSpace(track) {
		return true
	}

	return isCanonicalNumber(candidate)
}

func isCanonicalNumber(s string) bool {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}

	return formatNumber(v) == s
}

// formatNumber renders v like ECMAScript Number::toString: shortest
// round-trip digits, plain notation for 1e-6 <= |v| < 1e21, exponent
// notation without leading exponent zeros otherwise.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	if abs := math.Abs(v); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")

	return mantissa + "e" + sign + digits
}
