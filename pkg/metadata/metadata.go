// Package metadata records where a build output came from.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// Provenance verification errors.
var (
	ErrNoHashFound  = errors.New("no hash found in metadata")
	ErrHashMismatch = errors.New("hash mismatch")
)

// Metadata describes the inputs of one build. It carries no timestamp so
// identical inputs yield identical output.
type Metadata struct {
	Version      string `json:"version"`
	InputHash    string `json:"inputHash"`
	RegistryHash string `json:"registryHash"`
	Stations     int    `json:"stations"`
	Perrons      int    `json:"perrons"`
	Tracks       int    `json:"tracks"`
	SkippedRows  int    `json:"skippedRows"`
}

// Version of the output format.
const Version = "1"

// New hashes the raw input and registry bytes.
func New(input, registry []byte) *Metadata {
	return &Metadata{
		Version:      Version,
		InputHash:    CalculateHash(input),
		RegistryHash: CalculateHash(registry),
	}
}

// CalculateHash computes the SHA-256 hash of the content.
func CalculateHash(content []byte) string {
	hash := sha256.Sum256(content)

	return hex.EncodeToString(hash[:])
}

// Verify checks that input and registry are the ones the metadata was built from.
func (m *Metadata) Verify(input, registry []byte) (bool, error) {
	if m.InputHash == "" || m.RegistryHash == "" {
		return false, ErrNoHashFound
	}

	if calculated := CalculateHash(input); calculated != m.InputHash {
		return false, fmt.Errorf("%w: input expected %s, got %s", ErrHashMismatch, m.InputHash, calculated)
	}

	if calculated := CalculateHash(registry); calculated != m.RegistryHash {
		return false, fmt.Errorf("%w: registry expected %s, got %s", ErrHashMismatch, m.RegistryHash, calculated)
	}

	return true, nil
}
