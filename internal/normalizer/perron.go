package normalizer

import (
	"fmt"

	"perrons/internal/models"
)

// PerronBuilder turns the rows of one station into perron records.
type PerronBuilder struct {
	symbols NumberSymbols
}

// NewPerronBuilder creates a builder parsing dimensions with the given table.
func NewPerronBuilder(symbols NumberSymbols) *PerronBuilder {
	return &PerronBuilder{symbols: symbols}
}

// Build returns one perron per distinct perron name, in first-seen order.
func (b *PerronBuilder) Build(rows []models.ResolvedRow) ([]models.Perron, error) {
	groups := GroupBy(rows, func(r models.ResolvedRow) string { return r.Perron })

	perrons := make([]models.Perron, 0, len(groups))

	for _, g := range groups {
		p, err := b.buildOne(g.Members)
		if err != nil {
			return nil, err
		}

		perrons = append(perrons, p)
	}

	return perrons, nil
}

func (b *PerronBuilder) buildOne(rows []models.ResolvedRow) (models.Perron, error) {
	first := rows[0]

	fail := func(code IntegrityCode, err error) (models.Perron, error) {
		return models.Perron{}, &DataIntegrityError{
			Code:    code,
			Err:     err,
			Station: first.Station,
			Perron:  first.Perron,
		}
	}

	length, err := ParseDecimal(first.PerronLength, b.symbols)
	if err != nil {
		return fail(CodeInvalidDimension, fmt.Errorf("%w: length: %w", ErrInvalidDimension, err))
	}

	height, err := ParseDecimal(first.PerronHeight, b.symbols)
	if err != nil {
		return fail(CodeInvalidDimension, fmt.Errorf("%w: height: %w", ErrInvalidDimension, err))
	}

	for _, r := range rows[1:] {
		if r.Station != first.Station {
			return fail(CodeInconsistentPerron, fmt.Errorf("%w: %q", ErrInconsistentStationRows, r.Station))
		}
	}

	for _, r := range rows[1:] {
		l, err := ParseDecimal(r.PerronLength, b.symbols)
		if err != nil {
			return fail(CodeInvalidDimension, fmt.Errorf("%w: length: %w", ErrInvalidDimension, err))
		}

		if l != length {
			return fail(CodeInconsistentPerron,
				fmt.Errorf("%w: length %q differs from %q", ErrInconsistentPerron, r.PerronLength, first.PerronLength))
		}
	}

	for _, r := range rows[1:] {
		h, err := ParseDecimal(r.PerronHeight, b.symbols)
		if err != nil {
			return fail(CodeInvalidDimension, fmt.Errorf("%w: height: %w", ErrInvalidDimension, err))
		}

		if h != height {
			return fail(CodeInconsistentPerron,
				fmt.Errorf("%w: height %q differs from %q", ErrInconsistentPerron, r.PerronHeight, first.PerronHeight))
		}
	}

	return models.Perron{
		ID:      models.CompositeID(first.Station, first.Perron),
		Name:    first.Perron,
		Station: first.Station,
		Length:  length,
		Height:  height,
	}, nil
}
