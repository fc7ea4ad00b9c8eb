package geometry

import (
	"fmt"

	"github.com/go-spatial/geom"
)

// MinRingPoints is the number of points of the smallest closed ring (triangle + closing point)
const MinRingPoints = 4

// ValidateRing checks that the ring is closed, has at least MinRingPoints points
// and that its coordinates are valid (longitude, latitude) pairs
func ValidateRing(ring [][2]float64) error {
	if len(ring) < MinRingPoints {
		return fmt.Errorf("ring must have at least %d points, got %d", MinRingPoints, len(ring))
	}
	if ring[0] != ring[len(ring)-1] {
		return fmt.Errorf("ring is not closed: %v != %v", ring[0], ring[len(ring)-1])
	}
	for i, p := range ring {
		if p[0] < -180 || p[0] > 180 || p[1] < -90 || p[1] > 90 {
			return fmt.Errorf("point %d %v is not a valid (longitude, latitude)", i, p)
		}
	}
	return nil
}

// SinglePolygon converts g to a polygon with exactly one closed ring.
// A multipolygon made of one polygon is accepted.
func SinglePolygon(g geom.Geometry) (geom.Polygon, error) {
	var p geom.Polygon
	switch g := g.(type) {
	case geom.Polygon:
		p = g
	case *geom.Polygon:
		if g == nil {
			return nil, fmt.Errorf("SinglePolygon: nil polygon")
		}
		p = *g
	case geom.MultiPolygon:
		if len(g) != 1 {
			return nil, fmt.Errorf("SinglePolygon: expecting one polygon, got %d", len(g))
		}
		p = g[0]
	default:
		return nil, fmt.Errorf("SinglePolygon: unsupported geometry %T", g)
	}
	if len(p) != 1 {
		return nil, fmt.Errorf("SinglePolygon: expecting one ring (no holes), got %d", len(p))
	}
	if err := ValidateRing(p[0]); err != nil {
		return nil, fmt.Errorf("SinglePolygon: %w", err)
	}
	return p, nil
}

// Bounds returns the extent (minLon, minLat, maxLon, maxLat) of the polygon
func Bounds(p geom.Polygon) [4]float64 {
	var points [][2]float64
	for _, ring := range p {
		points = append(points, ring...)
	}
	if len(points) == 0 {
		return [4]float64{}
	}
	e := geom.NewExtent(points...)
	return [4]float64{e.MinX(), e.MinY(), e.MaxX(), e.MaxY()}
}
