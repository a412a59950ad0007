package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NFC returns str in Unicode normalization form C. Source exports mix
// composed and decomposed umlauts, which would otherwise split groups.
func (s *StringHelper) NFC(str string) string {
	return norm.NFC.String(str)
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateString truncates string to max display length in runes.
func (s *StringHelper) TruncateString(str string, maxLength int) string {
	r := []rune(str)
	if len(r) <= maxLength {
		return str
	}

	return string(r[:maxLength]) + "..."
}
