package normalizer

import (
	"perrons/internal/models"
)

// StationIndex maps legacy station numbers to canonical station ids. It is
// built once and never mutated, so lookups are safe from any goroutine.
type StationIndex struct {
	byNumber map[string]string
	byID     map[string]int
}

// NewStationIndex indexes the registry. Registry entries without a legacy
// number are kept for id lookups but can never be resolved to.
func NewStationIndex(stations []models.Station) (*StationIndex, error) {
	idx := &StationIndex{
		byNumber: make(map[string]string, len(stations)),
		byID:     make(map[string]int, len(stations)),
	}

	for _, st := range stations {
		if st.ID == "" {
			return nil, &DataIntegrityError{
				Code:          CodeInvalidRegistry,
				Err:           ErrMissingStationID,
				StationNumber: st.Nr.String(),
			}
		}

		idx.byID[st.ID]++

		nr := st.Nr.String()
		if nr == "" {
			continue
		}

		if prev, ok := idx.byNumber[nr]; ok {
			return nil, &DataIntegrityError{
				Code:          CodeDuplicateStationNumber,
				Err:           ErrDuplicateStationNumber,
				StationNumber: nr,
				Station:       prev,
			}
		}

		idx.byNumber[nr] = st.ID
	}

	return idx, nil
}

// Lookup returns the canonical id for a legacy number.
func (x *StationIndex) Lookup(nr string) (string, bool) {
	id, ok := x.byNumber[nr]
	return id, ok
}

// Count returns how many registry entries carry the given canonical id.
func (x *StationIndex) Count(id string) int {
	return x.byID[id]
}

// Len returns the number of resolvable legacy numbers.
func (x *StationIndex) Len() int {
	return len(x.byNumber)
}

// Resolve replaces the row's station number by the canonical station id.
func (x *StationIndex) Resolve(row models.RawRow) (models.ResolvedRow, error) {
	nr := row.StationNumber

	id, ok := x.byNumber[nr]
	if !ok {
		return models.ResolvedRow{}, &DataIntegrityError{
			Code:          CodeUnknownStation,
			Err:           ErrUnknownStation,
			StationNumber: nr,
		}
	}

	return row.Resolve(id), nil
}

// ResolveAll drops rows whose station number is in missing and resolves the
// rest. The first unresolvable row aborts the whole batch.
func (x *StationIndex) ResolveAll(rows []models.RawRow, missing StringSet) ([]models.ResolvedRow, int, error) {
	resolved := make([]models.ResolvedRow, 0, len(rows))
	filtered := 0

	for _, row := range rows {
		if missing.Has(row.StationNumber) {
			filtered++
			continue
		}

		r, err := x.Resolve(row)
		if err != nil {
			return nil, filtered, err
		}

		resolved = append(resolved, r)
	}

	return resolved, filtered, nil
}
