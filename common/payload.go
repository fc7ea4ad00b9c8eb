package common

import "github.com/go-spatial/geom"

// PixelType of a band
type PixelType string

const (
	PixelTypeUnknown PixelType = ""
	PixelTypeInt     PixelType = "int"
	PixelTypeFloat32 PixelType = "float32"
	PixelTypeFloat64 PixelType = "float64"
)

// Format of an exported file
type Format string

const (
	FormatGeoTIFF Format = "GeoTIFF"
	FormatGeoJSON Format = "GeoJSON"
)

// Band of a raster
type Band struct {
	ID        string    `json:"id"`
	PixelType PixelType `json:"pixel_type"`
}

// Raster is a handle on the multi-band image of a scene stored in the catalog
type Raster struct {
	AssetID string    `json:"asset_id"`
	Bands   []Band    `json:"bands"`
	Cast    PixelType `json:"cast,omitempty"` // Pixel type all the bands are cast to before export, if any
}

// ToFloat returns a copy of the raster whose bands are all cast to float32
func (r Raster) ToFloat() Raster {
	bands := make([]Band, len(r.Bands))
	for i, b := range r.Bands {
		bands[i] = Band{ID: b.ID, PixelType: PixelTypeFloat32}
	}
	return Raster{AssetID: r.AssetID, Bands: bands, Cast: PixelTypeFloat32}
}

// Feature is a feature without geometry
type Feature struct {
	Properties map[string]string `json:"properties"`
}

// ImageExport is a request to export a raster to a folder of the storage destination
type ImageExport struct {
	SceneID        string       `json:"scene_id"`
	Description    string       `json:"description"`
	Folder         string       `json:"folder"`
	FileNamePrefix string       `json:"file_name_prefix"`
	Region         geom.Polygon `json:"region"`
	Scale          float64      `json:"scale"`
	Format         Format       `json:"format"`
	Raster         Raster       `json:"raster"`
}

// TableExport is a request to export a feature collection to a folder of the storage destination
type TableExport struct {
	SceneID        string    `json:"scene_id"`
	Description    string    `json:"description"`
	Folder         string    `json:"folder"`
	FileNamePrefix string    `json:"file_name_prefix"`
	Format         Format    `json:"format"`
	Features       []Feature `json:"features"`
}
