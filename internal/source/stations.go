package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"perrons/internal/models"
	"perrons/pkg/utils"
)

// ParseStations decodes a station registry given either as a JSON array or
// as newline-delimited JSON objects.
func ParseStations(data []byte) ([]models.Station, error) {
	trimmed := bytes.TrimSpace(data)

	var stations []models.Station

	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &stations); err != nil {
			return nil, fmt.Errorf("failed to decode stations: %w", err)
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(trimmed))

		for line := 1; ; line++ {
			var st models.Station

			err := dec.Decode(&st)
			if errors.Is(err, io.EOF) {
				break
			}

			if err != nil {
				return nil, fmt.Errorf("failed to decode station %d: %w", line, err)
			}

			stations = append(stations, st)
		}
	}

	sh := utils.NewStringHelper()
	for i := range stations {
		stations[i].Name = sh.NFC(stations[i].Name)
	}

	return stations, nil
}
