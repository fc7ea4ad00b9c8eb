package export

import (
	"context"

	"github.com/airbusgeo/scene-exporter/common"
)

// Sink submits export jobs to a storage destination.
// Submission is one-way: a nil error means the job has been accepted, not that the file has been written.
type Sink interface {
	ExportImage(ctx context.Context, job common.ImageExport) error
	ExportTable(ctx context.Context, job common.TableExport) error
}
