package adapter

import (
	"context"
	"fmt"
	"os"

	"vspheremap/internal/codec"
	"vspheremap/internal/domain"

	"github.com/go-logr/logr"
)

// FileCollector reads the JSON or YAML export of an external inventory
// collector
type FileCollector struct {
	path     string
	importer codec.Importer
	log      logr.Logger
}

// NewFileCollector creates a collector for path. The format is chosen by
// file extension.
func NewFileCollector(path string, log logr.Logger) (*FileCollector, error) {
	if path == "" {
		return nil, fmt.Errorf("export path required")
	}
	importer, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}
	return &FileCollector{
		path:     path,
		importer: importer,
		log:      log.WithName("file-collector"),
	}, nil
}

// Name implements Collector
func (c *FileCollector) Name() string {
	return "file:" + c.path
}

// Type implements Collector
func (c *FileCollector) Type() CollectorType {
	return CollectorTypeFile
}

// Path returns the export file path
func (c *FileCollector) Path() string {
	return c.path
}

// Collect implements Collector
func (c *FileCollector) Collect(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	snap, err := c.importer.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.path, err)
	}
	if isEmpty(snap) {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyCollection, c.path)
	}

	c.log.V(1).Info("Read export", "path", c.path, "format", c.importer.Format(),
		"vms", len(snap.VMs), "datastores", len(snap.Datastores))
	return snap, nil
}

func isEmpty(snap *domain.Snapshot) bool {
	return snap == nil ||
		len(snap.VMs) == 0 &&
			len(snap.Infrastructure.Datacenters) == 0 &&
			len(snap.Datastores) == 0 &&
			len(snap.Networks.Standard) == 0 &&
			len(snap.Networks.Distributed) == 0
}
