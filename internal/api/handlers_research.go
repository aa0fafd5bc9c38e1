package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/researchd/internal/pipeline"
)

const maxQueryLength = 2000

type submitRequest struct {
	Query      string   `json:"query"`
	Formats    []string `json:"output_formats"`
	IncludeViz bool     `json:"include_visualization"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}
	if len(req.Query) > maxQueryLength {
		jsonError(w, "query too long", http.StatusBadRequest)
		return
	}

	if len(req.Formats) == 0 {
		req.Formats = []string{pipeline.FormatPDF}
	}
	for _, f := range req.Formats {
		if f != pipeline.FormatPDF && f != pipeline.FormatPPTX {
			jsonError(w, "unsupported format: "+f, http.StatusBadRequest)
			return
		}
	}

	job := pipeline.NewJob(req.Query, req.Formats, req.IncludeViz)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"job_id":   job.ID,
		"status":   string(pipeline.StatusQueued),
		"poll_url": "/api/research/" + job.ID + "/status",
	})
}

// handleJobs lists snapshots of every job still in the store.
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"jobs": s.orchestrator.ListJobs()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// handleReport returns the full research result, including the markdown
// report body, once the job has finished researching.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	res := job.GetResult()
	if res == nil {
		jsonError(w, "report not ready: job is "+string(snap.Status), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id": snap.ID,
		"status": snap.Status,
		"result": res,
		"files":  snap.Files,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
