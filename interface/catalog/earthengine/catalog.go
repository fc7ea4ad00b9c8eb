package earthengine

import (
	"context"
	"fmt"

	"github.com/airbusgeo/scene-exporter/common"
	"github.com/airbusgeo/scene-exporter/exporter/entities"
	"github.com/airbusgeo/scene-exporter/interface/shared"
)

// SceneIndexProperty is the property holding the identifier of a scene in its collection
const SceneIndexProperty = "system:index"

// Catalog implements catalog.Catalog on the Earth Engine data catalog
type Catalog struct {
	ee *shared.EarthEngine
}

// NewCatalog creates a Catalog
func NewCatalog(ee *shared.EarthEngine) *Catalog {
	return &Catalog{ee: ee}
}

type imageInfo struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Bands []struct {
		ID       string `json:"id"`
		DataType struct {
			Precision string `json:"precision"`
		} `json:"data_type"`
	} `json:"bands"`
	Properties map[string]interface{} `json:"properties"`
}

// SceneIDs implements catalog.Catalog
func (c *Catalog) SceneIDs(ctx context.Context, job entities.Job) ([]string, error) {
	collection := shared.ImageCollectionLoad(job.Collection)
	collection = shared.FilterBounds(collection, shared.Polygon(job.Region.Polygon))
	// Earth Engine date ranges exclude their end, the window includes it
	collection = shared.FilterDate(collection, job.Window.Start.Time, job.Window.ExclusiveEnd())

	var ids []string
	if err := c.ee.Compute(ctx, shared.AggregateArray(collection, SceneIndexProperty), &ids); err != nil {
		return nil, fmt.Errorf("SceneIDs(EarthEngine).%w", err)
	}
	return ids, nil
}

// Scene implements catalog.Catalog
func (c *Catalog) Scene(ctx context.Context, job entities.Job, sceneID string) (entities.Scene, error) {
	assetID := common.AssetID(job.Collection, sceneID)
	var info imageInfo
	if err := c.ee.Compute(ctx, shared.ImageLoad(assetID), &info); err != nil {
		return entities.Scene{}, fmt.Errorf("Scene(EarthEngine).%w", err)
	}
	if info.Type != "" && info.Type != "Image" {
		return entities.Scene{}, fmt.Errorf("Scene(EarthEngine): %s is a %s, not an Image", assetID, info.Type)
	}

	scene := entities.Scene{
		ID:         sceneID,
		Raster:     common.Raster{AssetID: assetID},
		Properties: info.Properties,
	}
	if scene.Properties == nil {
		scene.Properties = map[string]interface{}{}
	}
	for _, b := range info.Bands {
		scene.Raster.Bands = append(scene.Raster.Bands, common.Band{ID: b.ID, PixelType: pixelType(b.DataType.Precision)})
	}
	return scene, nil
}

func pixelType(precision string) common.PixelType {
	switch precision {
	case "int":
		return common.PixelTypeInt
	case "float":
		return common.PixelTypeFloat32
	case "double":
		return common.PixelTypeFloat64
	}
	return common.PixelTypeUnknown
}
