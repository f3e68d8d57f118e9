package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListSpans lists all stored spans for a document.
func (s *Server) handleListSpans(w http.ResponseWriter, r *http.Request) {
	docID := r.URL.Query().Get("doc_id")
	if docID == "" {
		jsonError(w, "doc_id query parameter is required", http.StatusBadRequest)
		return
	}

	spans, err := s.orchestrator.StoreClient().ListByDocument(r.Context(), docID, 200)
	if err != nil {
		jsonError(w, "failed to list spans: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"spans": spans})
}

// handleDeleteSpan deletes a single stored span.
func (s *Server) handleDeleteSpan(w http.ResponseWriter, r *http.Request) {
	spanID := chi.URLParam(r, "spanID")
	if err := s.orchestrator.StoreClient().DeleteSpan(r.Context(), spanID); err != nil {
		jsonError(w, "failed to delete span: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"deleted": spanID})
}
