package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/airbusgeo/scene-exporter/service"
	"github.com/airbusgeo/scene-exporter/service/log"
)

const (
	EarthEngineURL   = "https://earthengine.googleapis.com/v1"
	EarthEngineScope = "https://www.googleapis.com/auth/earthengine"
)

// EarthEngine is a client of the Earth Engine REST API
type EarthEngine struct {
	Client  *http.Client
	Project string
	URL     string
}

// NewEarthEngine connects to Earth Engine with the credentials file or the application default credentials.
// If project is empty, the project of the default credentials is used.
func NewEarthEngine(ctx context.Context, project, credentialsFile string) (*EarthEngine, error) {
	client, err := service.NewGoogleClient(ctx, credentialsFile, EarthEngineScope)
	if err != nil {
		return nil, fmt.Errorf("NewEarthEngine.%w", err)
	}
	if project == "" {
		if project, err = service.DefaultProject(ctx, EarthEngineScope); err != nil {
			return nil, fmt.Errorf("NewEarthEngine.%w", err)
		}
	}
	log.Logger(ctx).Sugar().Debugf("Earth Engine client for project %s", project)
	return &EarthEngine{Client: client, Project: project, URL: EarthEngineURL}, nil
}

func (ee *EarthEngine) endpoint(method string) string {
	return fmt.Sprintf("%s/projects/%s/%s", strings.TrimSuffix(ee.URL, "/"), ee.Project, method)
}

// Compute evaluates the node and decodes the result into out
func (ee *EarthEngine) Compute(ctx context.Context, node ValueNode, out interface{}) error {
	req := struct {
		Expression Expression `json:"expression"`
	}{NewExpression(node)}
	var resp struct {
		Result json.RawMessage `json:"result"`
	}
	if err := service.PostJSON(ctx, ee.Client, ee.endpoint("value:compute"), req, &resp); err != nil {
		return fmt.Errorf("Compute.%w", err)
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("Compute.Unmarshal: %w", err)
	}
	return nil
}

// DriveDestination is a folder of Google Drive
type DriveDestination struct {
	Folder         string `json:"folder,omitempty"`
	FilenamePrefix string `json:"filenamePrefix,omitempty"`
}

// CloudStorageDestination is a bucket of Google Cloud Storage
type CloudStorageDestination struct {
	Bucket         string `json:"bucket"`
	FilenamePrefix string `json:"filenamePrefix,omitempty"`
}

// FileExportOptions defines the format and the destination of an export
type FileExportOptions struct {
	FileFormat              string                   `json:"fileFormat"`
	DriveDestination        *DriveDestination        `json:"driveDestination,omitempty"`
	CloudStorageDestination *CloudStorageDestination `json:"cloudStorageDestination,omitempty"`
}

// ExportRequest is the body of image:export and table:export
type ExportRequest struct {
	Expression        Expression        `json:"expression"`
	Description       string            `json:"description,omitempty"`
	FileExportOptions FileExportOptions `json:"fileExportOptions"`
}

// Operation is the long-running operation started by an export
type Operation struct {
	Name     string                 `json:"name"`
	Done     bool                   `json:"done"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ExportImage submits an image export and returns without waiting for its completion
func (ee *EarthEngine) ExportImage(ctx context.Context, req ExportRequest) (Operation, error) {
	var op Operation
	if err := service.PostJSON(ctx, ee.Client, ee.endpoint("image:export"), req, &op); err != nil {
		return op, fmt.Errorf("ExportImage.%w", err)
	}
	return op, nil
}

// ExportTable submits a table export and returns without waiting for its completion
func (ee *EarthEngine) ExportTable(ctx context.Context, req ExportRequest) (Operation, error) {
	var op Operation
	if err := service.PostJSON(ctx, ee.Client, ee.endpoint("table:export"), req, &op); err != nil {
		return op, fmt.Errorf("ExportTable.%w", err)
	}
	return op, nil
}
