package common

import (
	"regexp"
	"strings"
)

//go:generate go run github.com/dmarkham/enumer -json -type Source

// Source defines the satellite source of the scenes
type Source int

const (
	UnknownSource Source = iota
	Landsat8             // LC08_PPPRRR_YYYYMMDD
	Landsat9             // LC09_PPPRRR_YYYYMMDD
)

var landsatSceneID = regexp.MustCompile(`^L[COT]0([89])_\d{6}_\d{8}`)

// GetSourceFromString returns the source from the user input
func GetSourceFromString(input string) Source {
	switch strings.ToLower(input) {
	case "landsat8", "landsat-8", "landsat_8", "l8":
		return Landsat8
	case "landsat9", "landsat-9", "landsat_9", "l9":
		return Landsat9
	}
	return GetSourceFromSceneID(input)
}

// GetSourceFromSceneID returns the source of a scene given its catalog index
func GetSourceFromSceneID(sceneID string) Source {
	m := landsatSceneID.FindStringSubmatch(sceneID)
	if m == nil {
		return UnknownSource
	}
	if m[1] == "8" {
		return Landsat8
	}
	return Landsat9
}

// Info returns the fields encoded in a Landsat scene index (LXSS_PPPRRR_YYYYMMDD)
func Info(sceneID string) (map[string]string, error) {
	if !landsatSceneID.MatchString(sceneID) {
		return nil, errInvalidSceneID(sceneID)
	}
	return map[string]string{
		"SCENE":     sceneID,
		"SENSOR":    sceneID[1:2],
		"SATELLITE": sceneID[2:4],
		"PATH":      sceneID[5:8],
		"ROW":       sceneID[8:11],
		"DATE":      sceneID[12:20],
		"YEAR":      sceneID[12:16],
		"MONTH":     sceneID[16:18],
		"DAY":       sceneID[18:20],
		"SOURCE":    GetSourceFromSceneID(sceneID).String(),
	}, nil
}

type errInvalidSceneID string

func (e errInvalidSceneID) Error() string {
	return "invalid Landsat scene index: " + string(e)
}
