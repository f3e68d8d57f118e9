package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/annolab/anchor/internal/offsets"
	"github.com/annolab/anchor/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

type resolveRequest struct {
	Document  string `json:"document"`
	Xpath     string `json:"xpath"`
	Substring string `json:"substring,omitempty"`
}

type resolveResponse struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes)

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Document == "" {
		jsonError(w, "document is required", http.StatusBadRequest)
		return
	}
	if req.Xpath == "" {
		jsonError(w, "xpath is required", http.StatusBadRequest)
		return
	}

	started := time.Now()
	span, err := offsets.Resolve(req.Document, req.Xpath, req.Substring)
	if err != nil {
		kind := offsets.ErrorKind(err)
		s.stats.RecordFailure(kind)
		code := http.StatusUnprocessableEntity
		if kind == "invalid" {
			code = http.StatusBadRequest
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{
			"error": err.Error(),
			"kind":  kind,
		})
		return
	}
	s.stats.RecordSuccess(time.Since(started).Milliseconds())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resolveResponse{Start: span.Start, End: span.End})
}

type batchResolveRequest struct {
	Document string           `json:"document"`
	DocID    string           `json:"doc_id,omitempty"`
	Queries  []pipeline.Query `json:"queries"`
}

func (s *Server) handleBatchResolve(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes)

	var req batchResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Document == "" {
		jsonError(w, "document is required", http.StatusBadRequest)
		return
	}
	if len(req.Queries) == 0 {
		jsonError(w, "at least one query is required", http.StatusBadRequest)
		return
	}
	for i, q := range req.Queries {
		if q.Xpath == "" {
			jsonError(w, fmt.Sprintf("query %d: xpath is required", i), http.StatusBadRequest)
			return
		}
	}

	docID := req.DocID
	if docID == "" {
		docID = pipeline.ContentHashHex([]byte(req.Document))[:16]
	}

	job := pipeline.NewJob(docID, req.Document, req.Queries)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"doc_id":   job.DocID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/anchors/%s/status", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"doc_id":   snap.DocID,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
		"results":  snap.Results,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
