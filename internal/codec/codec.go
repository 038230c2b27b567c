// Package codec reads collector exports into inventory snapshots and writes
// snapshots back out.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"vspheremap/internal/domain"
)

// Importer parses a collector export into a snapshot
type Importer interface {
	Parse(r io.Reader) (*domain.Snapshot, error)
	Format() string
}

// Exporter writes a snapshot in its normalized form
type Exporter interface {
	Export(snap *domain.Snapshot, w io.Writer) error
	Format() string
}

// ForPath picks the importer matching the file extension
func ForPath(path string) (Importer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONCodec(), nil
	case ".yaml", ".yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", filepath.Ext(path))
	}
}
