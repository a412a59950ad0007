package models

import "perrons/pkg/metadata"

// Output is the document written by a build.
type Output struct {
	Metadata *metadata.Metadata `json:"metadata"`
	Tracks   []Track            `json:"tracks"`
}
