package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"perrons/internal/models"
)

// Output validation errors.
var (
	ErrTrackStationUnknown = errors.New("track station has no single registry entry")
	ErrMalformedID         = errors.New("malformed composite id")
	ErrEmptyName           = errors.New("empty name")
	ErrNonPositiveLength   = errors.New("perron length must be positive")
	ErrNonPositiveHeight   = errors.New("perron height must be positive")
	ErrDuplicateTrackID    = errors.New("duplicate track id")
	ErrConflictingPerron   = errors.New("perron id used for different perrons")
	ErrBrokenIDInOutput    = errors.New("broken track id in output")
)

// Validator checks the invariants every output of Process must satisfy.
type Validator struct {
	index  *StationIndex
	broken StringSet
}

// NewValidator creates a validator checking stations against index.
func NewValidator(index *StationIndex, brokenTrackIDs []string) *Validator {
	return &Validator{
		index:  index,
		broken: NewStringSet(brokenTrackIDs...),
	}
}

// Validate returns every violation found, joined, or nil. An empty track
// list is valid.
func (v *Validator) Validate(tracks []models.Track) error {
	var errs []error

	seenTracks := make(map[string]struct{}, len(tracks))
	seenPerrons := make(map[string]models.Perron)

	for i, track := range tracks {
		at := func(err error, format string, args ...any) {
			errs = append(errs, fmt.Errorf("%w at index %d (%s): %s", err, i, track.ID, fmt.Sprintf(format, args...)))
		}

		if v.index != nil && v.index.Count(track.Station) != 1 {
			at(ErrTrackStationUnknown, "station %q", track.Station)
		}

		if !validCompositeID(track.ID, track.Station) {
			at(ErrMalformedID, "track id")
		}

		if track.Name == "" {
			at(ErrEmptyName, "track name")
		}

		if track.LongName == "" {
			at(ErrEmptyName, "track long name")
		}

		if _, dup := seenTracks[track.ID]; dup {
			at(ErrDuplicateTrackID, "track id")
		}

		seenTracks[track.ID] = struct{}{}

		if v.broken.Has(track.ID) {
			at(ErrBrokenIDInOutput, "track id")
		}

		p := track.Perron
		if p == nil {
			at(ErrTrackPerronNotFound, "perron")
			continue
		}

		if p.Station != track.Station {
			at(ErrPerronStationMismatch, "perron station %q", p.Station)
		}

		if !validCompositeID(p.ID, p.Station) {
			at(ErrMalformedID, "perron id %q", p.ID)
		}

		if p.Name == "" {
			at(ErrEmptyName, "perron name")
		}

		if !(p.Length > 0) {
			at(ErrNonPositiveLength, "%v", p.Length)
		}

		if !(p.Height > 0) {
			at(ErrNonPositiveHeight, "%v", p.Height)
		}

		if prev, ok := seenPerrons[p.ID]; ok && prev != *p {
			at(ErrConflictingPerron, "perron id %q", p.ID)
		}

		seenPerrons[p.ID] = *p
	}

	return errors.Join(errs...)
}

func validCompositeID(id, station string) bool {
	prefix := station + models.IDSeparator
	return station != "" && strings.HasPrefix(id, prefix) && len(id) > len(prefix)
}
