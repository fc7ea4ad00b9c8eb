package common

import (
	"context"
	"strings"
)

// MetadataField is the single field of the metadata record
const MetadataField = "metadata"

// ExportName returns the name of the exported files of a scene: <regionLabel>_<sceneID>
func ExportName(regionLabel, sceneID string) string {
	return regionLabel + "_" + sceneID
}

// MetadataDescription returns the description of the metadata export of a scene
func MetadataDescription(sceneID string) string {
	return "metadata_" + sceneID
}

// AssetID returns the catalog identifier of a scene of the collection
func AssetID(collection, sceneID string) string {
	return strings.TrimSuffix(collection, "/") + "/" + sceneID
}

type runIDKey struct{}

// WithRunID attaches the identifier of the current run to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunID returns the identifier of the current run, or ""
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
