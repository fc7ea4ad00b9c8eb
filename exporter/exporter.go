package exporter

import (
	"context"
	"fmt"

	"github.com/airbusgeo/scene-exporter/common"
	"github.com/airbusgeo/scene-exporter/exporter/entities"
	"github.com/airbusgeo/scene-exporter/interface/catalog"
	"github.com/airbusgeo/scene-exporter/interface/export"
	"github.com/airbusgeo/scene-exporter/service"
	"github.com/airbusgeo/scene-exporter/service/log"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Exporter is the main class of this package
type Exporter struct {
	Catalog catalog.Catalog
	Sink    export.Sink
}

// New creates an Exporter
func New(c catalog.Catalog, s export.Sink) *Exporter {
	return &Exporter{Catalog: c, Sink: s}
}

// Report summarizes a run
type Report struct {
	RunID  string   `json:"run_id"`
	Scenes []string `json:"scenes"`
}

// Run exports all the scenes of the job, one after the other.
// For each scene, a raster export and a metadata export are submitted.
// The run stops at the first error; the jobs already submitted are not cancelled.
func (e *Exporter) Run(ctx context.Context, job entities.Job) (Report, error) {
	if err := job.Validate(); err != nil {
		return Report{}, service.MakeFatal(fmt.Errorf("Run.%w", err))
	}

	report := Report{RunID: uuid.New().String(), Scenes: []string{}}
	ctx = common.WithRunID(ctx, report.RunID)
	ctx = log.With(ctx, zap.String("run_id", report.RunID), zap.String("collection", job.Collection))

	log.Logger(ctx).Sugar().Infof("Search scenes of %s from %s to %s", job.RegionLabel, job.Window.Start, job.Window.End)
	sceneIDs, err := e.Catalog.SceneIDs(ctx, job)
	if err != nil {
		return report, fmt.Errorf("Run.%w", err)
	}
	log.Logger(ctx).Sugar().Infof("%d scenes found", len(sceneIDs))

	for _, sceneID := range sceneIDs {
		if err := e.exportScene(log.With(ctx, zap.String("scene_id", sceneID)), job, sceneID); err != nil {
			log.Logger(ctx).Error("export aborted", zap.String("scene_id", sceneID), zap.String("error_class", string(service.Classify(err))), zap.Error(err))
			return report, fmt.Errorf("Run[%s].%w", sceneID, err)
		}
		report.Scenes = append(report.Scenes, sceneID)
	}

	log.Logger(ctx).Sugar().Infof("%d scenes exported to %s", len(report.Scenes), job.Folder)
	return report, nil
}

func (e *Exporter) exportScene(ctx context.Context, job entities.Job, sceneID string) error {
	scene, err := e.Catalog.Scene(ctx, job, sceneID)
	if err != nil {
		return fmt.Errorf("exportScene.%w", err)
	}
	scene.ID = sceneID

	image := ImageExport(job, scene)
	if err := e.Sink.ExportImage(ctx, image); err != nil {
		return fmt.Errorf("exportScene.%w", err)
	}
	log.Logger(ctx).Info("image export submitted", zap.String("description", image.Description))

	table := MetadataExport(job, scene)
	if err := e.Sink.ExportTable(ctx, table); err != nil {
		return fmt.Errorf("exportScene.%w", err)
	}
	log.Logger(ctx).Info("metadata export submitted", zap.String("description", table.Description))
	return nil
}

// ImageExport returns the export of the raster of the scene, cast to float
func ImageExport(job entities.Job, scene entities.Scene) common.ImageExport {
	name := common.ExportName(job.RegionLabel, scene.ID)
	return common.ImageExport{
		SceneID:        scene.ID,
		Description:    name,
		Folder:         job.Folder,
		FileNamePrefix: name,
		Region:         job.Region.Polygon,
		Scale:          job.Scale,
		Format:         common.FormatGeoTIFF,
		Raster:         scene.Raster.ToFloat(),
	}
}

// MetadataExport returns the export of the calibration properties of the scene, as a single-record table
func MetadataExport(job entities.Job, scene entities.Scene) common.TableExport {
	return common.TableExport{
		SceneID:        scene.ID,
		Description:    common.MetadataDescription(scene.ID),
		Folder:         job.Folder,
		FileNamePrefix: common.ExportName(job.RegionLabel, scene.ID),
		Format:         common.FormatGeoJSON,
		Features: []common.Feature{{
			Properties: map[string]string{common.MetadataField: MetadataText(scene, job.Properties)},
		}},
	}
}
