package normalizer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDataIntegrity is matched by every DataIntegrityError.
var ErrDataIntegrity = errors.New("data integrity error")

// Causes wrapped by DataIntegrityError.
var (
	ErrUnknownStation          = errors.New("unknown station number")
	ErrDuplicateStationNumber  = errors.New("duplicate station number in registry")
	ErrInconsistentPerron      = errors.New("inconsistent perron data")
	ErrInvalidDimension        = errors.New("invalid perron dimension")
	ErrEmptyDecimal            = errors.New("empty decimal string")
	ErrMalformedDecimal        = errors.New("malformed decimal string")
	ErrInvalidNumberSymbols    = errors.New("decimal and group symbols must differ and decimal must be set")
	ErrMissingStationID        = errors.New("registry entry without id")
	ErrTrackPerronNotFound     = errors.New("no perron for track")
	ErrPerronStationMismatch   = errors.New("perron belongs to another station")
	ErrInconsistentStationRows = errors.New("rows of one group carry different stations")
)

// ErrNilIndex is returned when a processor is created without a station index.
var ErrNilIndex = errors.New("station index is nil")

// IntegrityCode classifies a DataIntegrityError.
type IntegrityCode string

const (
	// CodeUnknownStation means a station number has no registry entry.
	CodeUnknownStation IntegrityCode = "unknown-station"
	// CodeDuplicateStationNumber means several registry entries share a
	// number, so resolving it would be ambiguous.
	CodeDuplicateStationNumber IntegrityCode = "duplicate-station-number"
	// CodeInconsistentPerron means the rows of one perron disagree.
	CodeInconsistentPerron IntegrityCode = "inconsistent-perron"
	// CodeInvalidDimension means a perron length or height does not parse.
	CodeInvalidDimension IntegrityCode = "invalid-dimension"
	// CodeInvalidRegistry means a registry entry cannot be indexed.
	CodeInvalidRegistry IntegrityCode = "invalid-registry"
)

// DataIntegrityError aborts a whole run. It signals that the dataset and the
// station registry are out of sync.
type DataIntegrityError struct {
	Err           error
	Code          IntegrityCode
	StationNumber string
	Station       string
	Perron        string
}

func (e *DataIntegrityError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s", e.Code, e.Err)

	if e.StationNumber != "" {
		fmt.Fprintf(&b, " (stationNumber %q)", e.StationNumber)
	}

	if e.Perron != "" {
		fmt.Fprintf(&b, " (perron %q at station %q)", e.Perron, e.Station)
	} else if e.Station != "" {
		fmt.Fprintf(&b, " (station %q)", e.Station)
	}

	return b.String()
}

// Unwrap exposes both the cause and ErrDataIntegrity.
func (e *DataIntegrityError) Unwrap() []error {
	return []error{ErrDataIntegrity, e.Err}
}
