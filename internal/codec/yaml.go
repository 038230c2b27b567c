package codec

import (
	"errors"
	"fmt"
	"io"

	"vspheremap/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles collector exports written as YAML, typically hand-made
// inventory fixtures
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports a collector export from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	var raw rawExport
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return raw.toSnapshot(), nil
}
