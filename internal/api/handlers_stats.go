package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/screenlex/internal/store"
)

// handleDocumentBuckets returns the persisted swear buckets for a source
// document, straight from Postgres.
func (s *Server) handleDocumentBuckets(w http.ResponseWriter, r *http.Request) {
	sourceID := chi.URLParam(r, "sourceID")

	records, err := s.store.ListSwearBuckets(r.Context(), sourceID)
	if err != nil {
		jsonError(w, "failed to list buckets: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []store.BucketRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"source_id": sourceID,
		"buckets":   records,
	})
}

func (s *Server) handleRunStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"runs":        s.orchestrator.RunStats().Snapshot(),
	})
}
