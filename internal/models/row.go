// Package models defines the record types flowing through the perron pipeline.
package models

// RawRow is one line of the source platform dataset.
type RawRow struct {
	StationNumber string `json:"stationNumber"`
	Perron        string `json:"perron"`
	PerronLength  string `json:"perronLength"`
	PerronHeight  string `json:"perronHeight"`
	TrackName     string `json:"trackName"`
	Track         string `json:"track"`
}

// ResolvedRow is a RawRow whose legacy station number was replaced by the
// canonical station id.
type ResolvedRow struct {
	Station      string `json:"station"`
	Perron       string `json:"perron"`
	PerronLength string `json:"perronLength"`
	PerronHeight string `json:"perronHeight"`
	TrackName    string `json:"trackName"`
	Track        string `json:"track"`
}

// Resolve returns the row bound to the given station id.
func (r RawRow) Resolve(station string) ResolvedRow {
	return ResolvedRow{
		Station:      station,
		Perron:       r.Perron,
		PerronLength: r.PerronLength,
		PerronHeight: r.PerronHeight,
		TrackName:    r.TrackName,
		Track:        r.Track,
	}
}
