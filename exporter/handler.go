package exporter

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/airbusgeo/scene-exporter/common"
	"github.com/airbusgeo/scene-exporter/exporter/entities"
	"github.com/airbusgeo/scene-exporter/service"
	"github.com/airbusgeo/scene-exporter/service/log"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewHandler returns the routes of the exporter
func (e *Exporter) NewHandler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/export", e.ExportHandler).Methods("POST")
	r.HandleFunc("/presets", ListPresetsHandler).Methods("GET")
	r.HandleFunc("/presets/{source}", GetPresetHandler).Methods("GET")
	return r
}

// ExportHandler runs the job given in the body, or the preset of the "source" parameter
func (e *Exporter) ExportHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	var job entities.Job
	if source := req.URL.Query().Get("source"); source != "" {
		var err error
		if job, err = Preset(common.GetSourceFromString(source)); err != nil {
			w.WriteHeader(400)
			fmt.Fprintf(w, "%v", err)
			return
		}
	} else if err := json.NewDecoder(req.Body).Decode(&job); err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "invalid job: %v", err)
		return
	}

	report, err := e.Run(ctx, job)
	if err != nil {
		class := service.Classify(err)
		log.Logger(ctx).Warn("export failed", zap.String("error_class", string(class)), zap.Error(err))
		switch class {
		case service.ClassFatal:
			w.WriteHeader(400)
		case service.ClassTemporary:
			w.WriteHeader(503)
		default:
			w.WriteHeader(500)
		}
		fmt.Fprintf(w, "%v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// ListPresetsHandler returns the preset of every known source
func ListPresetsHandler(w http.ResponseWriter, req *http.Request) {
	presets := map[string]entities.Job{}
	for _, source := range common.SourceValues() {
		if job, err := Preset(source); err == nil {
			presets[source.String()] = job
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(presets)
}

// GetPresetHandler returns the preset of one source
func GetPresetHandler(w http.ResponseWriter, req *http.Request) {
	job, err := Preset(common.GetSourceFromString(mux.Vars(req)["source"]))
	if err != nil {
		w.WriteHeader(404)
		fmt.Fprintf(w, "%v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}
