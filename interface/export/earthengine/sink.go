package earthengine

import (
	"context"
	"fmt"
	"path"

	"github.com/airbusgeo/scene-exporter/common"
	"github.com/airbusgeo/scene-exporter/interface/shared"
	"github.com/airbusgeo/scene-exporter/service/log"
	"go.uber.org/zap"
)

// Sink implements export.Sink with Earth Engine batch exports.
// Files are written to a Google Drive folder or, if Bucket is set, under <Bucket>/<folder>/
type Sink struct {
	ee     *shared.EarthEngine
	Bucket string
}

// NewSink creates a Sink exporting to Drive (bucket == "") or to Cloud Storage
func NewSink(ee *shared.EarthEngine, bucket string) *Sink {
	return &Sink{ee: ee, Bucket: bucket}
}

func fileFormat(f common.Format) (string, error) {
	switch f {
	case common.FormatGeoTIFF:
		return "GEO_TIFF", nil
	case common.FormatGeoJSON:
		return "GEO_JSON", nil
	}
	return "", fmt.Errorf("unsupported format: %s", f)
}

func (s *Sink) options(format common.Format, folder, prefix string) (shared.FileExportOptions, error) {
	ff, err := fileFormat(format)
	if err != nil {
		return shared.FileExportOptions{}, err
	}
	opts := shared.FileExportOptions{FileFormat: ff}
	if s.Bucket != "" {
		opts.CloudStorageDestination = &shared.CloudStorageDestination{Bucket: s.Bucket, FilenamePrefix: path.Join(folder, prefix)}
	} else {
		opts.DriveDestination = &shared.DriveDestination{Folder: folder, FilenamePrefix: prefix}
	}
	return opts, nil
}

// ExportImage implements export.Sink
func (s *Sink) ExportImage(ctx context.Context, job common.ImageExport) error {
	opts, err := s.options(job.Format, job.Folder, job.FileNamePrefix)
	if err != nil {
		return fmt.Errorf("ExportImage(EarthEngine): %w", err)
	}

	image := shared.ImageLoad(job.Raster.AssetID)
	switch job.Raster.Cast {
	case common.PixelTypeUnknown:
	case common.PixelTypeFloat32:
		image = shared.ImageToFloat(image)
	default:
		return fmt.Errorf("ExportImage(EarthEngine): unsupported cast to %s", job.Raster.Cast)
	}
	image = shared.ClipToBoundsAndScale(image, shared.Polygon(job.Region), job.Scale)

	op, err := s.ee.ExportImage(ctx, shared.ExportRequest{
		Expression:        shared.NewExpression(image),
		Description:       job.Description,
		FileExportOptions: opts,
	})
	if err != nil {
		return fmt.Errorf("ExportImage(EarthEngine).%w", err)
	}
	log.Logger(ctx).Debug("image export submitted", zap.String("description", job.Description), zap.String("operation", op.Name))
	return nil
}

// ExportTable implements export.Sink
func (s *Sink) ExportTable(ctx context.Context, job common.TableExport) error {
	opts, err := s.options(job.Format, job.Folder, job.FileNamePrefix)
	if err != nil {
		return fmt.Errorf("ExportTable(EarthEngine): %w", err)
	}

	features := make([]shared.ValueNode, len(job.Features))
	for i, f := range job.Features {
		features[i] = shared.Feature(f.Properties)
	}

	op, err := s.ee.ExportTable(ctx, shared.ExportRequest{
		Expression:        shared.NewExpression(shared.FeatureCollection(features...)),
		Description:       job.Description,
		FileExportOptions: opts,
	})
	if err != nil {
		return fmt.Errorf("ExportTable(EarthEngine).%w", err)
	}
	log.Logger(ctx).Debug("table export submitted", zap.String("description", job.Description), zap.String("operation", op.Name))
	return nil
}
