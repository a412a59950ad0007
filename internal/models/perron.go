package models

// Perron is a platform of a station. Length and height are in metres.
type Perron struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Station string  `json:"station"`
	Length  float64 `json:"length"`
	Height  float64 `json:"height"`
}
