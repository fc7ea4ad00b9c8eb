package catalog

import (
	"context"

	"github.com/airbusgeo/scene-exporter/exporter/entities"
)

// Catalog is an imagery catalog that can be queried by region, time window and collection
type Catalog interface {
	// SceneIDs returns the ordered identifiers of all the scenes of job.Collection
	// intersecting job.Region and acquired during job.Window, in one round trip
	SceneIDs(ctx context.Context, job entities.Job) ([]string, error)
	// Scene retrieves the raster and the properties of a scene of job.Collection
	Scene(ctx context.Context, job entities.Job, sceneID string) (entities.Scene, error)
}
