package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/airbusgeo/scene-exporter/common"
	"github.com/airbusgeo/scene-exporter/exporter"
	"github.com/airbusgeo/scene-exporter/exporter/entities"
	"github.com/airbusgeo/scene-exporter/interface/catalog/earthengine"
	"github.com/airbusgeo/scene-exporter/interface/export"
	"github.com/airbusgeo/scene-exporter/interface/export/dryrun"
	eesink "github.com/airbusgeo/scene-exporter/interface/export/earthengine"
	"github.com/airbusgeo/scene-exporter/interface/export/pubsub"
	"github.com/airbusgeo/scene-exporter/interface/shared"
	"github.com/airbusgeo/scene-exporter/service"
	"github.com/airbusgeo/scene-exporter/service/log"
	"github.com/araddon/dateparse"
	"github.com/gorilla/handlers"
	"go.uber.org/zap"
)

type config struct {
	// Job
	Source      string
	JobFile     string
	RegionLabel string
	Collection  string
	Start       string
	End         string
	Folder      string
	Scale       float64

	// Earth Engine
	Project         string
	CredentialsFile string
	GCSBucket       string

	// Alternative sinks
	DryRunURI   string
	S3          service.S3Options
	PsProject   string
	ExportTopic string

	// Server
	AppPort string
	Serve   bool
	Token   string

	Debug bool
}

func newAppConfig() (*config, error) {
	config := config{}
	flag.StringVar(&config.Source, "source", "landsat8", "satellite source of the preset job (landsat8, landsat9)")
	flag.StringVar(&config.JobFile, "area", "", "json file of the job to run (optional). Replaces the preset of the source.")
	flag.StringVar(&config.RegionLabel, "region-label", "", "label of the region, prefix of the exported files (optional)")
	flag.StringVar(&config.Collection, "collection", "", "image collection to search (optional)")
	flag.StringVar(&config.Start, "start", "", "first day of the time window (optional, any date format)")
	flag.StringVar(&config.End, "end", "", "last day of the time window, included (optional, any date format)")
	flag.StringVar(&config.Folder, "folder", "", "destination folder of the exports (optional)")
	flag.Float64Var(&config.Scale, "scale", 0, "resolution of the exported rasters in meters/pixel (optional)")

	flag.StringVar(&config.Project, "project", "", "earth engine cloud project (default: project of the application default credentials)")
	flag.StringVar(&config.CredentialsFile, "credentials", "", "service account credentials file (default: application default credentials)")
	flag.StringVar(&config.GCSBucket, "gcs-bucket", "", "export to this Google Cloud Storage bucket instead of Google Drive")

	flag.StringVar(&config.DryRunURI, "dry-run", "", "write the export requests as json manifests to this uri (local, gs or s3) instead of submitting them")
	flag.StringVar(&config.S3.Region, "s3-region", os.Getenv("AWS_REGION"), "region of the s3 bucket of the dry-run uri")
	flag.StringVar(&config.S3.AccessKeyID, "s3-access-key-id", "", "s3 access key id (default: aws default credentials)")
	flag.StringVar(&config.S3.SecretAccessKey, "s3-secret-access-key", "", "s3 secret access key")
	flag.StringVar(&config.PsProject, "ps-project", "", "pubsub project (gcp only/not required in local usage)")
	flag.StringVar(&config.ExportTopic, "export-topic", "", "publish the export requests on this pubsub topic instead of submitting them")

	flag.BoolVar(&config.Serve, "serve", false, "serve the export api instead of running one job")
	flag.StringVar(&config.AppPort, "port", "8080", "port of the export api")
	flag.StringVar(&config.Token, "token", os.Getenv("EXPORTER_TOKEN"), "comma-separated bearer tokens accepted by the export api (optional)")

	flag.BoolVar(&config.Debug, "debug", false, "debug logs")
	flag.Parse()

	if config.Serve && config.AppPort == "" {
		return nil, fmt.Errorf("missing port config flag")
	}
	if config.DryRunURI != "" && config.ExportTopic != "" {
		return nil, fmt.Errorf("dry-run and export-topic flags are mutually exclusive")
	}
	if config.Scale < 0 {
		return nil, fmt.Errorf("scale must be positive")
	}
	return &config, nil
}

// loadJob returns the job of the file or the preset of the source, overridden by the flags
func loadJob(config *config) (entities.Job, error) {
	var job entities.Job
	if config.JobFile != "" {
		data, err := os.ReadFile(config.JobFile)
		if err != nil {
			return job, fmt.Errorf("loadJob: %w", err)
		}
		if err := json.Unmarshal(data, &job); err != nil {
			return job, fmt.Errorf("loadJob[%s]: %w", config.JobFile, err)
		}
		if job.Properties == nil {
			job.Properties = exporter.CalibrationProperties()
		}
	} else {
		var err error
		if job, err = exporter.Preset(common.GetSourceFromString(config.Source)); err != nil {
			return job, fmt.Errorf("loadJob.%w", err)
		}
	}

	if config.RegionLabel != "" {
		job.RegionLabel = config.RegionLabel
	}
	if config.Collection != "" {
		job.Collection = config.Collection
	}
	if config.Folder != "" {
		job.Folder = config.Folder
	}
	if config.Scale > 0 {
		job.Scale = config.Scale
	}
	for _, d := range []struct {
		value string
		date  *entities.Date
	}{{config.Start, &job.Window.Start}, {config.End, &job.Window.End}} {
		if d.value == "" {
			continue
		}
		t, err := dateparse.ParseIn(d.value, time.UTC)
		if err != nil {
			return job, fmt.Errorf("loadJob: invalid date %s: %w", d.value, err)
		}
		*d.date = entities.NewDate(t)
	}
	return job, nil
}

func main() {
	ctx := context.Background()
	err := run(ctx)
	if err != nil && service.Fatal(err) {
		log.Logger(ctx).Error("invalid configuration", zap.Error(err))
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("error", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	config, err := newAppConfig()
	if err != nil {
		return service.MakeFatal(err)
	}
	log.SetDebug(config.Debug)

	ee, err := shared.NewEarthEngine(ctx, config.Project, config.CredentialsFile)
	if err != nil {
		return fmt.Errorf("shared.NewEarthEngine: %w", err)
	}

	// Destination of the exports
	var sink export.Sink
	var logSink string
	switch {
	case config.DryRunURI != "":
		storage, err := service.NewStorage(ctx, config.DryRunURI, config.S3)
		if err != nil {
			return fmt.Errorf("storage %s: %w", config.DryRunURI, err)
		}
		logSink = "dry-run manifests in " + config.DryRunURI
		sink = dryrun.NewSink(storage)
	case config.ExportTopic != "":
		publisher, err := pubsub.NewTopicPublisher(ctx, config.PsProject, config.ExportTopic)
		if err != nil {
			return fmt.Errorf("pubsub.NewTopicPublisher: %w", err)
		}
		defer publisher.Stop()
		logSink = fmt.Sprintf("pubsub:%s/%s", config.PsProject, config.ExportTopic)
		sink = pubsub.NewSink(publisher)
	case config.GCSBucket != "":
		logSink = "earth engine exports to gs://" + config.GCSBucket
		sink = eesink.NewSink(ee, config.GCSBucket)
	default:
		logSink = "earth engine exports to drive"
		sink = eesink.NewSink(ee, "")
	}

	exp := exporter.New(earthengine.NewCatalog(ee), sink)
	log.Logger(ctx).Debug("exporter starts with " + logSink)

	if config.Serve {
		return serve(ctx, exp, config)
	}

	job, err := loadJob(config)
	if err != nil {
		return service.MakeFatal(err)
	}
	report, err := exp.Run(ctx, job)
	if err != nil {
		return err
	}
	log.Logger(ctx).Info("done", zap.String("run_id", report.RunID), zap.Strings("scenes", report.Scenes))
	return nil
}

func serve(ctx context.Context, exp *exporter.Exporter, config *config) error {
	headersOk := handlers.AllowedHeaders([]string{"*"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})
	s := http.Server{
		Addr:    ":" + config.AppPort,
		Handler: handlers.CORS(originsOk, headersOk, methodsOk)(handlers.CombinedLoggingHandler(os.Stdout, newBearerAuth(config.Token).Middleware(exp.NewHandler()))),
	}
	log.Logger(ctx).Info("serving on :" + config.AppPort)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("ListenAndServe: %w", err)
	}
	return nil
}
