package exporter

import (
	"fmt"

	"github.com/airbusgeo/scene-exporter/common"
	"github.com/airbusgeo/scene-exporter/exporter/entities"
)

// LakeChamplainLabel is the label of the default region
const LakeChamplainLabel = "Lake_Champlain"

// DefaultScale is the resolution of the exports (meters/pixel)
const DefaultScale = 30

var lakeChamplain = [][2]float64{
	{-73.69076684855565, 45.15929968667908},
	{-73.69076684855565, 43.921510726464305},
	{-72.90567292686237, 43.921510726464305},
	{-72.90567292686237, 45.15929968667908},
	{-73.69076684855565, 45.15929968667908},
}

// calibrationProperties are needed to convert the thermal band to brightness temperature
var calibrationProperties = []string{
	"RADIANCE_MULT_BAND_10",
	"RADIANCE_ADD_BAND_10",
	"K1_CONSTANT_BAND_10",
	"K2_CONSTANT_BAND_10",
}

// CalibrationProperties returns the default list of properties exported with each scene
func CalibrationProperties() []string {
	return append([]string(nil), calibrationProperties...)
}

// LakeChamplain returns the default region
func LakeChamplain() entities.Region {
	r, err := entities.NewRegion(append([][2]float64(nil), lakeChamplain...))
	if err != nil {
		panic(err)
	}
	return r
}

// Preset returns the configuration of the run of a source.
// Each call returns a new value.
func Preset(source common.Source) (entities.Job, error) {
	job := entities.Job{
		Source:      source,
		RegionLabel: LakeChamplainLabel,
		Region:      LakeChamplain(),
		Scale:       DefaultScale,
		Properties:  CalibrationProperties(),
	}
	switch source {
	case common.Landsat8:
		job.Collection = "LANDSAT/LC08/C01/T1_TOA"
		job.Window = entities.TimeWindow{Start: entities.MustParseDate("2021-08-01"), End: entities.MustParseDate("2021-10-31")}
		job.Folder = "Landsat_8_Data"
	case common.Landsat9:
		// Landsat 9 data is available from October 2021
		job.Collection = "LANDSAT/LC09/C02/T1_TOA"
		job.Window = entities.TimeWindow{Start: entities.MustParseDate("2021-10-01"), End: entities.MustParseDate("2021-12-31")}
		job.Folder = "Landsat_9_Data"
	default:
		return entities.Job{}, fmt.Errorf("Preset: no preset for source %s", source)
	}
	return job, nil
}
