package postgres

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeJSON reads a JSONB column keeping numbers as json.Number so ids
// survive the round trip as int64.
func decodeJSON(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode json column: %w", err)
	}
	return nil
}

func encodeJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return data, nil
}
