package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"vspheremap/internal/domain"
)

// JSONCodec handles the collector's JSON export and normalized snapshot JSON
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a collector export from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	var raw rawExport
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return raw.toSnapshot(), nil
}

// Export writes the normalized snapshot as indented JSON
func (c *JSONCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
