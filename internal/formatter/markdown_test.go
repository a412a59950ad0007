package formatter

import (
	"strings"
	"testing"

	"golang.org/x/text/language"

	"perrons/internal/normalizer"
)

func TestFormatTable(t *testing.T) {
	tests := []struct {
		name     string
		input    [][]string
		expected string
	}{
		{
			name:  "Basic table formatting",
			input: [][]string{{"Header 1", "Header 2"}, {"val 1", "val 2"}},
			expected: `
| Header 1 | Header 2 |
| -------- | -------- |
| val 1    | val 2    |
`,
		},
		{
			name:  "Minimum separator width",
			input: [][]string{{"H1", "H2"}, {"v1", "v2"}},
			expected: `
| H1  | H2  |
| --- | --- |
| v1  | v2  |
`,
		},
		{
			name:  "Ragged rows",
			input: [][]string{{"Station", "Rows", "Tracks"}, {"8000105"}},
			expected: `
| Station | Rows | Tracks |
| ------- | ---- | ------ |
| 8000105 |      |        |
`,
		},
		{
			name:  "Umlauts and wide runes",
			input: [][]string{{"Bahnhof", "Gleis"}, {"Köln Hbf", "1"}, {"東京", "2"}},
			expected: `
| Bahnhof  | Gleis |
| -------- | ----- |
| Köln Hbf | 1     |
| 東京     | 2     |
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(FormatTable(tt.input), "\n")

			if got != strings.TrimSpace(tt.expected) {
				t.Errorf("FormatTable() = \n%v\nwant \n%v", got, tt.expected)
			}
		})
	}
}

func TestFormatTable_Empty(t *testing.T) {
	if got := FormatTable(nil); got != nil {
		t.Errorf("FormatTable(nil) = %v, want nil", got)
	}
}

func TestRenderReport(t *testing.T) {
	report := Report{
		Summary: &normalizer.Summary{
			SkipsByReason: map[string]int{
				normalizer.SkipMismatchingName: 1,
				normalizer.SkipBrokenID:        2,
			},
			InputRows:   1234,
			Stations:    2,
			Perrons:     3,
			Tracks:      5,
			SkippedRows: 3,
			MinLength:   320.5,
			MaxLength:   1200,
			MinHeight:   0.38,
			MaxHeight:   0.96,
		},
		Stations: []normalizer.StationStats{
			{Station: "8000105", Rows: 4, Perrons: 2, Tracks: 4},
		},
		Skipped: []normalizer.Skip{
			{Station: "8000105", Reason: normalizer.SkipMismatchingName, Detail: "mismatching track names: 3a, 3"},
			{ID: "8003059:41", Station: "8003059", Reason: normalizer.SkipBrokenID, Detail: "flagged as broken: 8003059:41"},
		},
		Locale: language.German,
	}

	got := RenderReport(report)

	for _, want := range []string{
		"# Perron build report",
		"## Summary",
		"| Input rows            | 1.234    |",
		"320,50",
		"1.200,00",
		"0,38",
		"| flagged-broken         | 2    |",
		"## Stations",
		"| 8000105 | 4    | 2       | 4      |",
		"## Skipped rows",
		"8003059:41",
		"mismatching track names: 3a, 3",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderReport() missing %q in\n%s", want, got)
		}
	}

	if strings.Index(got, "flagged-broken") > strings.Index(got, "mismatching-track-name") {
		t.Error("RenderReport() skip reasons not sorted")
	}
}

func TestRenderReport_English(t *testing.T) {
	got := RenderReport(Report{
		Summary: &normalizer.Summary{InputRows: 1234, MinLength: 320.5},
		Locale:  language.English,
	})

	if !strings.Contains(got, "1,234") || !strings.Contains(got, "320.50") {
		t.Errorf("RenderReport() did not use English number format:\n%s", got)
	}

	if strings.Contains(got, "## Stations") || strings.Contains(got, "## Skipped rows") {
		t.Errorf("RenderReport() rendered empty sections:\n%s", got)
	}
}
