package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"perrons/internal/models"
	"perrons/pkg/metadata"
)

func fixture(name string) string {
	return filepath.Join("..", "..", "test", "fixtures", name)
}

func writeOutput(t *testing.T, out models.Output) string {
	t.Helper()

	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("Failed to marshal output: %v", err)
	}

	path := filepath.Join(t.TempDir(), "tracks.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write output: %v", err)
	}

	return path
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(fixture(name))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}

	return data
}

func validOutput(t *testing.T) models.Output {
	t.Helper()

	meta := metadata.New(readFixture(t, "rows.csv"), readFixture(t, "stations.ndjson"))
	meta.Tracks = 1

	return models.Output{
		Metadata: meta,
		Tracks: []models.Track{{
			ID:       "8011160:1",
			Name:     "1",
			LongName: "Gleis 1",
			Station:  "8011160",
			Perron:   &models.Perron{ID: "8011160:1", Name: "1", Station: "8011160", Length: 210, Height: 0.55},
		}},
	}
}

func checkArgs(output string) []string {
	return []string{
		"-input", fixture("rows.csv"),
		"-stations", fixture("stations.ndjson"),
		"-output", output,
	}
}

func TestRun_Valid(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if code := run(context.Background(), checkArgs(writeOutput(t, validOutput(t))), &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d\n%s\n%s", code, stdout.String(), stderr.String())
	}

	if !strings.Contains(stdout.String(), "✅") {
		t.Errorf("Unexpected output:\n%s", stdout.String())
	}
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Output)
		want   string
	}{
		{
			name:   "Hash mismatch",
			mutate: func(o *models.Output) { o.Metadata.InputHash = metadata.CalculateHash([]byte("other")) },
			want:   "hash mismatch",
		},
		{
			name:   "No metadata",
			mutate: func(o *models.Output) { o.Metadata = nil },
			want:   "no metadata",
		},
		{
			name:   "Count mismatch",
			mutate: func(o *models.Output) { o.Metadata.Tracks = 2 },
			want:   "output has 1",
		},
		{
			name:   "Invariant violation",
			mutate: func(o *models.Output) { o.Tracks[0].Perron.Height = 0 },
			want:   "height must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := validOutput(t)
			tt.mutate(&out)

			var stdout, stderr bytes.Buffer

			if code := run(context.Background(), checkArgs(writeOutput(t, out)), &stdout, &stderr); code != 1 {
				t.Fatalf("run() = %d, want 1", code)
			}

			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("Expected %q in output:\n%s", tt.want, stdout.String())
			}
		})
	}
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if code := run(context.Background(), []string{"-output", "x.json"}, &stdout, &stderr); code != 2 {
		t.Errorf("run() = %d, want 2", code)
	}
}
