package dryrun

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/airbusgeo/scene-exporter/common"
	"github.com/airbusgeo/scene-exporter/service"
	"github.com/airbusgeo/scene-exporter/service/log"
	"go.uber.org/zap"
)

// Sink implements export.Sink without exporting anything:
// each job is written as a json manifest <folder>/<file_name_prefix>.<kind>.json
type Sink struct {
	storage service.Storage
}

// NewSink creates a Sink writing the manifests in the storage
func NewSink(storage service.Storage) *Sink {
	return &Sink{storage: storage}
}

// ManifestName returns the name of the manifest of a job
func ManifestName(folder, fileNamePrefix, kind string) string {
	return path.Join(folder, fmt.Sprintf("%s.%s.json", fileNamePrefix, kind))
}

func (s *Sink) write(ctx context.Context, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("Marshal: %w", err)
	}
	uri, err := s.storage.Write(ctx, name, data)
	if err != nil {
		return err
	}
	log.Logger(ctx).Info("dry-run: manifest written", zap.String("uri", uri))
	return nil
}

// ExportImage implements export.Sink
func (s *Sink) ExportImage(ctx context.Context, job common.ImageExport) error {
	if err := s.write(ctx, ManifestName(job.Folder, job.FileNamePrefix, "image"), job); err != nil {
		return fmt.Errorf("ExportImage(DryRun).%w", err)
	}
	return nil
}

// ExportTable implements export.Sink
func (s *Sink) ExportTable(ctx context.Context, job common.TableExport) error {
	if err := s.write(ctx, ManifestName(job.Folder, job.FileNamePrefix, "table"), job); err != nil {
		return fmt.Errorf("ExportTable(DryRun).%w", err)
	}
	return nil
}
