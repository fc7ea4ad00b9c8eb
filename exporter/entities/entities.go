package entities

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/airbusgeo/scene-exporter/common"
	"github.com/airbusgeo/scene-exporter/service"
	"github.com/airbusgeo/scene-exporter/service/geometry"
	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/geojson"
	"github.com/go-spatial/geom/encoding/wkt"
)

// DateFormat is the layout of the dates of a TimeWindow
const DateFormat = "2006-01-02"

// Region is a single closed polygon of (longitude, latitude) pairs
type Region struct {
	geom.Polygon
}

// NewRegion creates a region from one ring of (longitude, latitude)
func NewRegion(ring [][2]float64) (Region, error) {
	p, err := geometry.SinglePolygon(geom.Polygon{ring})
	if err != nil {
		return Region{}, fmt.Errorf("NewRegion.%w", err)
	}
	return Region{p}, nil
}

// Ring returns a copy of the outer ring of the region
func (r Region) Ring() [][2]float64 {
	if len(r.Polygon) == 0 {
		return nil
	}
	return append([][2]float64(nil), r.Polygon[0]...)
}

// WKT returns the region as Well-Known-Text
func (r Region) WKT() string {
	if len(r.Polygon) == 0 {
		return ""
	}
	return wkt.MustEncode(r.Polygon)
}

// MarshalJSON encodes the region as a GeoJSON polygon
func (r Region) MarshalJSON() ([]byte, error) {
	return json.Marshal(geojson.Geometry{Geometry: r.Polygon})
}

// UnmarshalJSON decodes a GeoJSON polygon (or a feature with one polygon)
func (r *Region) UnmarshalJSON(data []byte) error {
	p, err := service.UnmarshalPolygon(data)
	if err != nil {
		return fmt.Errorf("Region.%w", err)
	}
	r.Polygon = p
	return nil
}

// Date is a calendar date (UTC midnight)
type Date struct {
	time.Time
}

// NewDate returns the date of t, truncated to the day
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// MustParseDate parses a YYYY-MM-DD date and panics on failure
func MustParseDate(s string) Date {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return NewDate(t)
}

func (d Date) String() string {
	return d.Format(DateFormat)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("Date: %w", err)
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return fmt.Errorf("Date: %w", err)
	}
	*d = NewDate(t)
	return nil
}

// TimeWindow is an inclusive interval of dates
type TimeWindow struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// ExclusiveEnd returns the first instant after the window
func (w TimeWindow) ExclusiveEnd() time.Time {
	return w.End.AddDate(0, 0, 1)
}

func (w TimeWindow) String() string {
	return w.Start.String() + ".." + w.End.String()
}

// Job is the immutable configuration of one export run
type Job struct {
	Source      common.Source `json:"source,omitempty"`
	RegionLabel string        `json:"region_label"`
	Region      Region        `json:"region"`
	Window      TimeWindow    `json:"time_window"`
	Collection  string        `json:"collection"`
	Folder      string        `json:"folder"`
	Scale       float64       `json:"scale"`
	Properties  []string      `json:"properties"`
}

var labelRe = regexp.MustCompile("^[a-zA-Z0-9-_]+$")

// Validate checks the consistency of the job
func (j Job) Validate() error {
	if !labelRe.MatchString(j.RegionLabel) {
		return fmt.Errorf("validateJob: wrong format for region_label '%s' (must be chars, numbers and -_)", j.RegionLabel)
	}
	if _, err := geometry.SinglePolygon(j.Region.Polygon); err != nil {
		return fmt.Errorf("validateJob.region: %w", err)
	}
	if j.Window.Start.IsZero() || j.Window.End.IsZero() {
		return fmt.Errorf("validateJob: time window must have a start and an end")
	}
	if j.Window.End.Before(j.Window.Start.Time) {
		return fmt.Errorf("validateJob: time window start (%s) is after its end (%s)", j.Window.Start, j.Window.End)
	}
	if j.Collection == "" {
		return fmt.Errorf("validateJob: missing collection")
	}
	if j.Folder == "" {
		return fmt.Errorf("validateJob: missing folder")
	}
	if !(j.Scale > 0) {
		return fmt.Errorf("validateJob: scale must be positive, got %v", j.Scale)
	}
	return nil
}

// Scene is a read-only view of an image of the catalog
type Scene struct {
	ID         string
	Raster     common.Raster
	Properties map[string]interface{}
}
