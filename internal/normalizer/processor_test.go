package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"perrons/internal/logger"
	"perrons/internal/models"
)

func scenarioRows() []models.RawRow {
	return []models.RawRow{
		rawRow("558", "1", "100", "0,38", "Gleis 1", "1"),
		rawRow("1866", "1", "320,5", "0,76", "Gleis 1", "1"),
		rawRow("1866", "1", "320,5", "0,76", "Gleis 2", "2"),
		rawRow("1866", "2", "400", "0,96", "Gleis 3a", "3"),
		rawRow("1071", "1", "210", "0,55", "Gleis 1", "1"),
	}
}

func TestProcessor_Process(t *testing.T) {
	p := testProcessor(t, DefaultOptions())

	res, err := p.Process(scenarioRows())
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	wantIDs := []string{"8000105:1", "8000105:2", "8011160:1"}
	if len(res.Tracks) != len(wantIDs) {
		t.Fatalf("Process() returned %d tracks, want %d", len(res.Tracks), len(wantIDs))
	}

	for i, id := range wantIDs {
		if res.Tracks[i].ID != id {
			t.Errorf("track[%d].ID = %q, want %q", i, res.Tracks[i].ID, id)
		}
	}

	first := res.Tracks[0].Perron
	if first == nil || first.ID != "8000105:1" || first.Length != 320.5 || first.Height != 0.76 {
		t.Errorf("track[0].Perron = %+v", first)
	}

	if res.InputRows != 5 || res.FilteredRows != 1 {
		t.Errorf("InputRows/FilteredRows = %d/%d, want 5/1", res.InputRows, res.FilteredRows)
	}

	if len(res.Perrons) != 3 {
		t.Errorf("Process() built %d perrons, want 3", len(res.Perrons))
	}

	if len(res.Skipped) != 1 || res.Skipped[0].Reason != SkipMismatchingName {
		t.Errorf("Skipped = %+v, want one mismatching name", res.Skipped)
	}

	wantStats := []StationStats{
		{Station: "8000105", Rows: 3, Perrons: 2, Tracks: 2},
		{Station: "8011160", Rows: 1, Perrons: 1, Tracks: 1},
	}

	if len(res.Stations) != len(wantStats) {
		t.Fatalf("Stations = %+v", res.Stations)
	}

	for i := range wantStats {
		if res.Stations[i] != wantStats[i] {
			t.Errorf("Stations[%d] = %+v, want %+v", i, res.Stations[i], wantStats[i])
		}
	}
}

func TestProcessor_Process_OutputProperties(t *testing.T) {
	p := testProcessor(t, DefaultOptions())

	rows := append(scenarioRows(),
		rawRow("3067", "1", "200", "0,76", "Gleis 41", "41"),
		rawRow("3067", "1", "200", "0,76", "Gleis 42", "42"),
	)

	res, err := p.Process(rows)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	seen := make(map[string]bool)
	broken := NewStringSet(DefaultBrokenTrackIDs...)

	for _, track := range res.Tracks {
		if seen[track.ID] {
			t.Errorf("duplicate track id %q", track.ID)
		}

		seen[track.ID] = true

		if broken.Has(track.ID) {
			t.Errorf("broken id %q in output", track.ID)
		}

		if track.Perron == nil || track.Perron.Station != track.Station {
			t.Errorf("track %q perron %+v belongs to another station", track.ID, track.Perron)
		}
	}

	if !seen["8003059:42"] {
		t.Error("expected 8003059:42 in output")
	}

	if err := NewValidator(testIndex(t), DefaultBrokenTrackIDs).Validate(res.Tracks); err != nil {
		t.Errorf("Validate(Process()) = %v", err)
	}
}

func TestProcessor_Process_Idempotent(t *testing.T) {
	p := testProcessor(t, DefaultOptions())

	encode := func() []byte {
		res, err := p.Process(scenarioRows())
		if err != nil {
			t.Fatalf("Process returned unexpected error: %v", err)
		}

		data, err := json.Marshal(res.Tracks)
		if err != nil {
			t.Fatalf("json.Marshal: %v", err)
		}

		return data
	}

	if a, b := encode(), encode(); !bytes.Equal(a, b) {
		t.Errorf("Process() output differs between runs:\n%s\n%s", a, b)
	}
}

func TestProcessor_Process_Fatal(t *testing.T) {
	tests := []struct {
		name    string
		rows    []models.RawRow
		wantErr error
	}{
		{
			name:    "Unknown station number",
			rows:    []models.RawRow{rawRow("9999", "1", "1", "1", "Gleis 1", "1")},
			wantErr: ErrUnknownStation,
		},
		{
			name: "Inconsistent height",
			rows: []models.RawRow{
				rawRow("1866", "1", "320,5", "1,50", "Gleis 1", "1"),
				rawRow("1866", "1", "320,5", "2,00", "Gleis 2", "2"),
			},
			wantErr: ErrInconsistentPerron,
		},
		{
			name:    "Invalid dimension",
			rows:    []models.RawRow{rawRow("1866", "1", "x", "0,76", "Gleis 1", "1")},
			wantErr: ErrInvalidDimension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := testProcessor(t, DefaultOptions()).Process(tt.rows)
			if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrDataIntegrity) {
				t.Fatalf("Process error = %v, want %v", err, tt.wantErr)
			}

			if res != nil {
				t.Errorf("Process returned a partial result: %+v", res)
			}
		})
	}
}

func TestProcessor_Process_EmptyExceptionLists(t *testing.T) {
	p := testProcessor(t, Options{Symbols: GermanSymbols})

	if _, err := p.Process(scenarioRows()); !errors.Is(err, ErrUnknownStation) {
		t.Errorf("Process error = %v, want %v", err, ErrUnknownStation)
	}
}

func TestProcessor_LogsSkips(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultOptions()
	opts.Logger = logger.NewLoggerWithWriter("warn", &buf)

	if _, err := testProcessor(t, opts).Process(scenarioRows()); err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"level=WARN", "mismatching track names: 3a, 3", "station=8000105", "reason=" + SkipMismatchingName} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "level=INFO") {
		t.Errorf("info record written at warn level:\n%s", out)
	}
}

func TestNewProcessor_Errors(t *testing.T) {
	if _, err := NewProcessor(nil, DefaultOptions()); !errors.Is(err, ErrNilIndex) {
		t.Errorf("NewProcessor(nil) error = %v, want %v", err, ErrNilIndex)
	}

	if _, err := NewProcessor(testIndex(t), Options{}); !errors.Is(err, ErrInvalidNumberSymbols) {
		t.Errorf("NewProcessor with empty symbols error = %v, want %v", err, ErrInvalidNumberSymbols)
	}
}

func TestProcessor_LogsPerStation(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultOptions()
	opts.Logger = logger.NewLoggerWithWriter("debug", &buf)

	if _, err := testProcessor(t, opts).Process(scenarioRows()); err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	var built []string

	for _, line := range lines {
		if strings.Contains(line, `msg="built station"`) {
			built = append(built, line)
		}
	}

	if len(built) != 2 {
		t.Fatalf("expected one record per station, got %d:\n%s", len(built), buf.String())
	}

	if !strings.Contains(built[0], "station=8000105") || !strings.Contains(built[0], "tracks=2") {
		t.Errorf("unexpected record: %s", built[0])
	}

	if !strings.Contains(built[1], "station=8011160") || !strings.Contains(built[1], "perrons=1") {
		t.Errorf("unexpected record: %s", built[1])
	}
}
