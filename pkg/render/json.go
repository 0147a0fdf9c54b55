package render

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON encodes d as indented JSON.
func WriteJSON(d *Drawing, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ToJSON returns the indented JSON encoding of d.
func ToJSON(d *Drawing) ([]byte, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return append(b, '\n'), nil
}
