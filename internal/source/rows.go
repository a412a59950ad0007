package source

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"perrons/internal/config"
	"perrons/internal/models"
)

// Row loading errors.
var (
	ErrUnknownFormat  = errors.New("unknown input format")
	ErrMissingColumn  = errors.New("missing column")
	ErrInvalidComma   = errors.New("csv delimiter must be a single character")
	ErrEmptyCSVHeader = errors.New("csv input has no header row")
)

// Column names shared by the JSON keys and the CSV header.
const (
	ColumnStationNumber = "stationNumber"
	ColumnPerron        = "perron"
	ColumnPerronLength  = "perronLength"
	ColumnPerronHeight  = "perronHeight"
	ColumnTrackName     = "trackName"
	ColumnTrack         = "track"
)

var columns = []string{
	ColumnStationNumber,
	ColumnPerron,
	ColumnPerronLength,
	ColumnPerronHeight,
	ColumnTrackName,
	ColumnTrack,
}

type rowJSON struct {
	StationNumber models.FlexString `json:"stationNumber"`
	Perron        models.FlexString `json:"perron"`
	PerronLength  models.FlexString `json:"perronLength"`
	PerronHeight  models.FlexString `json:"perronHeight"`
	TrackName     models.FlexString `json:"trackName"`
	Track         models.FlexString `json:"track"`
}

// ParseRows decodes raw rows in the given format (config.FormatJSON or
// config.FormatCSV). Field text is kept byte for byte.
func ParseRows(data []byte, format, delimiter string) ([]models.RawRow, error) {
	switch format {
	case config.FormatJSON:
		return parseRowsJSON(data)
	case config.FormatCSV:
		return parseRowsCSV(bytes.NewReader(data), delimiter)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func parseRowsJSON(data []byte) ([]models.RawRow, error) {
	var raw []rowJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}

	rows := make([]models.RawRow, len(raw))

	for i, r := range raw {
		rows[i] = models.RawRow{
			StationNumber: r.StationNumber.String(),
			Perron:        r.Perron.String(),
			PerronLength:  r.PerronLength.String(),
			PerronHeight:  r.PerronHeight.String(),
			TrackName:     r.TrackName.String(),
			Track:         r.Track.String(),
		}
	}

	return rows, nil
}

func parseRowsCSV(r io.Reader, delimiter string) ([]models.RawRow, error) {
	if delimiter == "" {
		delimiter = ";"
	}

	comma, size := utf8.DecodeRuneInString(delimiter)
	if size != len(delimiter) || comma == utf8.RuneError {
		return nil, ErrInvalidComma
	}

	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSVHeader
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	idx := make(map[string]int, len(columns))

	for _, col := range columns {
		idx[col] = -1

		for i, h := range head {
			h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
			if strings.EqualFold(h, col) {
				idx[col] = i
				break
			}
		}

		if idx[col] < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	field := func(rec []string, col string) string {
		i := idx[col]
		if i >= len(rec) {
			return ""
		}

		return rec[i]
	}

	var rows []models.RawRow

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}

		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		rows = append(rows, models.RawRow{
			StationNumber: field(rec, ColumnStationNumber),
			Perron:        field(rec, ColumnPerron),
			PerronLength:  field(rec, ColumnPerronLength),
			PerronHeight:  field(rec, ColumnPerronHeight),
			TrackName:     field(rec, ColumnTrackName),
			Track:         field(rec, ColumnTrack),
		})
	}

	return rows, nil
}
