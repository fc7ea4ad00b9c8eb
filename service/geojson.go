package service

import (
	"fmt"

	"github.com/airbusgeo/scene-exporter/service/geometry"
	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/geojson"
)

// UnmarshalGeometry decodes a GeoJSON geometry, feature or featureCollection.
// The features of a collection are merged into a multipolygon.
func UnmarshalGeometry(data []byte) (geom.Geometry, error) {
	var g geojson.Geometry
	if err := g.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	switch geo := g.Geometry.(type) {
	case geojson.FeatureCollection:
		var mp geom.MultiPolygon
		for _, f := range geo.Features {
			mergeMultiPolygons(f.Geometry.Geometry, &mp)
		}
		return mp, nil
	case geojson.Feature:
		return geo.Geometry.Geometry, nil
	default:
		return g.Geometry, nil
	}
}

// UnmarshalPolygon decodes a GeoJSON document that must describe exactly one closed polygon
func UnmarshalPolygon(data []byte) (geom.Polygon, error) {
	g, err := UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("UnmarshalPolygon: %w", err)
	}
	p, err := geometry.SinglePolygon(g)
	if err != nil {
		return nil, fmt.Errorf("UnmarshalPolygon.%w", err)
	}
	return p, nil
}

func mergeMultiPolygons(g geom.Geometry, mp *geom.MultiPolygon) {
	switch g := g.(type) {
	case geom.MultiPolygon:
		*mp = append(*mp, g.Polygons()...)
	case geom.Polygon:
		*mp = append(*mp, g.LinearRings())
	case geom.Collection:
		for _, g := range g.Geometries() {
			mergeMultiPolygons(g, mp)
		}
	}
}
