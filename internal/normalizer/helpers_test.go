package normalizer

import (
	"testing"

	"perrons/internal/models"
)

// testStations is a small registry in the shape of db-stations.
func testStations() []models.Station {
	return []models.Station{
		{ID: "8000105", Nr: "1866", Name: "Frankfurt (Main) Hbf"},
		{ID: "8011160", Nr: "1071", Name: "Berlin Hbf"},
		{ID: "8003059", Nr: "3067", Name: "Köln Messe/Deutz"},
		{ID: "8000001", Nr: "1", Name: "Aachen Hbf"},
	}
}

func testIndex(t *testing.T) *StationIndex {
	t.Helper()

	idx, err := NewStationIndex(testStations())
	if err != nil {
		t.Fatalf("NewStationIndex returned unexpected error: %v", err)
	}

	return idx
}

func rawRow(nr, perron, length, height, trackName, track string) models.RawRow {
	return models.RawRow{
		StationNumber: nr,
		Perron:        perron,
		PerronLength:  length,
		PerronHeight:  height,
		TrackName:     trackName,
		Track:         track,
	}
}

func resolvedRow(station, perron, length, height, trackName, track string) models.ResolvedRow {
	return models.ResolvedRow{
		Station:      station,
		Perron:       perron,
		PerronLength: length,
		PerronHeight: height,
		TrackName:    trackName,
		Track:        track,
	}
}

func testProcessor(t *testing.T, opts Options) *Processor {
	t.Helper()

	p, err := NewProcessor(testIndex(t), opts)
	if err != nil {
		t.Fatalf("NewProcessor returned unexpected error: %v", err)
	}

	return p
}
