package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Station is an entry of the external station registry.
type Station struct {
	ID   string     `json:"id"`
	Nr   FlexString `json:"nr"`
	Name string     `json:"name,omitempty"`
}

// FlexString decodes from a JSON string or number and keeps the string form.
// Exports store legacy station numbers either way.
type FlexString string

// UnmarshalJSON accepts numbers and strings.
func (n *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("flex string: %w", err)
		}

		*n = FlexString(s)

		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}

	*n = FlexString(num.String())

	return nil
}

// String returns the number in its string form.
func (n FlexString) String() string {
	return string(n)
}
