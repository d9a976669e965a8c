package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/screenlex/internal/config"
	"github.com/dgallion1/screenlex/internal/extract"
	"github.com/dgallion1/screenlex/internal/pipeline"
	"github.com/dgallion1/screenlex/internal/screenplay"
)

// handleAnalyze accepts a screenplay document upload and queues an analysis
// job. Optional form fields "aliases" (comma-separated) and "prefix"
// override the server-wide speaker profile for this job only.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with headroom for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !extract.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	sourceID := r.FormValue("source_id")
	if sourceID == "" {
		sourceID = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:        pipeline.ContentHashHex([]byte(fmt.Sprintf("%s-%s-%d", sourceID, filename, now.UnixNano())))[:20],
		SourceID:  sourceID,
		Status:    pipeline.StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)

	if override, ok, err := speakerOverride(r); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	} else if ok {
		job.SetProfile(override)
	}

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":    job.ID,
		"source_id": job.SourceID,
		"status":    job.Status,
		"poll_url":  fmt.Sprintf("/api/analyze/%s/status", job.ID),
	})
}

// speakerOverride builds a per-job profile from form fields, validating it
// up front so a bad override fails the request rather than the job.
func speakerOverride(r *http.Request) (config.Profile, bool, error) {
	aliasField := r.FormValue("aliases")
	prefix := r.FormValue("prefix")
	if aliasField == "" && prefix == "" {
		return config.Profile{}, false, nil
	}

	var aliases []string
	for _, a := range strings.Split(aliasField, ",") {
		if a = strings.TrimSpace(a); a != "" {
			aliases = append(aliases, a)
		}
	}

	p := config.DefaultProfile()
	p.Speaker = screenplay.SpeakerConfig{Aliases: aliases, Prefix: prefix}
	if err := p.Speaker.Validate(); err != nil {
		return config.Profile{}, false, err
	}
	return p, true, nil
}

func (s *Server) handleAnalyzeStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":    snap.ID,
		"source_id": snap.SourceID,
		"status":    snap.Status,
		"phase":     snap.Phase,
		"progress":  snap.Progress,
	})
}

// handleAnalyzeDialogue streams the filtered dialogue blocks as
// line-delimited JSON, the interchange format downstream tooling parses.
func (s *Server) handleAnalyzeDialogue(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	blocks, _, ok := job.Result()
	if !ok {
		jsonError(w, "analysis not finished", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	if err := screenplay.WriteBlocks(w, blocks); err != nil {
		s.log.Error("stream dialogue failed", "job_id", jobID, "error", err)
	}
}

func (s *Server) handleAnalyzeStats(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	_, stats, ok := job.Result()
	if !ok {
		jsonError(w, "analysis not finished", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
