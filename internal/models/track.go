package models

// Track is a numbered rail path at a perron. Perron points at a record owned
// by the station group that built it.
type Track struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	LongName string  `json:"longName"`
	Station  string  `json:"station"`
	Perron   *Perron `json:"perron"`
}

// IDSeparator joins a station id and a local name into a composite id.
const IDSeparator = ":"

// CompositeID builds the id of a perron or track.
func CompositeID(station, name string) string {
	return station + IDSeparator + name
}
