package normalizer

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberSymbols is the decimal-symbol table of the locale the dataset was
// exported with.
type NumberSymbols struct {
	Decimal string `yaml:"decimal"`
	Group   string `yaml:"group"`
}

// GermanSymbols is the de-DE table: decimal comma, dot as thousands separator.
var GermanSymbols = NumberSymbols{Decimal: ",", Group: "."}

// Validate checks that the table can be used for parsing.
func (s NumberSymbols) Validate() error {
	if s.Decimal == "" || s.Decimal == s.Group {
		return ErrInvalidNumberSymbols
	}

	return nil
}

// ParseDecimal parses a locale formatted decimal string such as "1.234,5".
func ParseDecimal(s string, symbols NumberSymbols) (float64, error) {
	if err := symbols.Validate(); err != nil {
		return 0, err
	}

	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, ErrEmptyDecimal
	}

	sign := ""
	if raw[0] == '-' || raw[0] == '+' {
		sign, raw = raw[:1], raw[1:]
	}

	if raw == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDecimal, s)
	}

	intPart, fracPart, hasFrac := strings.Cut(raw, symbols.Decimal)
	if hasFrac && (fracPart == "" || strings.Contains(fracPart, symbols.Decimal)) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDecimal, s)
	}

	if symbols.Group != "" {
		if hasFrac && strings.Contains(fracPart, symbols.Group) {
			return 0, fmt.Errorf("%w: %q", ErrMalformedDecimal, s)
		}

		intPart = strings.ReplaceAll(intPart, symbols.Group, "")
	}

	if intPart == "" {
		intPart = "0"
	}

	if !isDigits(intPart) || (hasFrac && !isDigits(fracPart)) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDecimal, s)
	}

	canonical := sign + intPart
	if hasFrac {
		canonical += "." + fracPart
	}

	v, err := strconv.ParseFloat(canonical, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedDecimal, s, err)
	}

	return v, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return s != ""
}
