package source

import (
	"testing"
)

func TestParseStations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "JSON array",
			data: `[{"id": "8000105", "nr": 1866, "name": "Frankfurt (Main) Hbf"}, {"id": "8011160", "nr": "1071", "name": "Berlin Hbf"}]`,
		},
		{
			name: "NDJSON",
			data: "{\"id\": \"8000105\", \"nr\": 1866, \"name\": \"Frankfurt (Main) Hbf\"}\n{\"id\": \"8011160\", \"nr\": \"1071\", \"name\": \"Berlin Hbf\"}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stations, err := ParseStations([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseStations returned unexpected error: %v", err)
			}

			if len(stations) != 2 {
				t.Fatalf("ParseStations() returned %d stations, want 2", len(stations))
			}

			if stations[0].ID != "8000105" || stations[0].Nr != "1866" {
				t.Errorf("stations[0] = %+v", stations[0])
			}

			if stations[1].Nr.String() != "1071" || stations[1].Name != "Berlin Hbf" {
				t.Errorf("stations[1] = %+v", stations[1])
			}
		})
	}
}

func TestParseStations_Empty(t *testing.T) {
	stations, err := ParseStations([]byte("  \n"))
	if err != nil {
		t.Fatalf("ParseStations returned unexpected error: %v", err)
	}

	if len(stations) != 0 {
		t.Errorf("ParseStations() = %+v, want none", stations)
	}
}

func TestParseStations_Invalid(t *testing.T) {
	for _, data := range []string{`[{"id": 1,}]`, "{\"id\": \"1\"}\nnot json\n", `[{"id": "1", "nr": true}]`} {
		if _, err := ParseStations([]byte(data)); err == nil {
			t.Errorf("ParseStations(%q) accepted invalid input", data)
		}
	}
}
