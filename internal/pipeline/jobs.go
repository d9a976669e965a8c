package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/screenlex/internal/config"
	"github.com/dgallion1/screenlex/internal/lexicon"
	"github.com/dgallion1/screenlex/internal/screenplay"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusSegmenting JobStatus = "segmenting"
	StatusFiltering  JobStatus = "filtering"
	StatusAnalyzing  JobStatus = "analyzing"
	StatusStoring    JobStatus = "storing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single document analysis.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	SourceID string `json:"source_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	profile  *config.Profile
	blocks   []screenplay.DialogueBlock
	stats    lexicon.Stats
	done     bool
	errors   []string
}

// Progress tracks processing counters.
type Progress struct {
	Chunks        int      `json:"chunks"`
	TokenEstimate int      `json:"token_estimate"`
	TotalBlocks   int      `json:"total_blocks"`
	MatchedBlocks int      `json:"matched_blocks"`
	BucketsStored int      `json:"buckets_stored"`
	Errors        []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetCounts records segmentation counters.
func (j *Job) SetCounts(chunks, tokens, total, matched int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Chunks = chunks
	j.Progress.TokenEstimate = tokens
	j.Progress.TotalBlocks = total
	j.Progress.MatchedBlocks = matched
	j.UpdatedAt = time.Now()
}

// AddBucketsStored increments the persisted-bucket counter.
func (j *Job) AddBucketsStored(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.BucketsStored += n
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetProfile overrides the server-wide speaker profile for this job.
func (j *Job) SetProfile(p config.Profile) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.profile = &p
}

// Profile returns the per-job profile override, if any.
func (j *Job) Profile() (config.Profile, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.profile == nil {
		return config.Profile{}, false
	}
	return *j.profile, true
}

// SetResult stores the filtered blocks and their lexical stats.
func (j *Job) SetResult(blocks []screenplay.DialogueBlock, stats lexicon.Stats) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.blocks = blocks
	j.stats = stats
	j.done = true
	j.UpdatedAt = time.Now()
}

// Result returns the filtered blocks and stats once the analysis phase has
// run. ok is false until then.
func (j *Job) Result() (blocks []screenplay.DialogueBlock, stats lexicon.Stats, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.blocks, j.stats, j.done
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	SourceID string    `json:"source_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		SourceID: j.SourceID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Progress: Progress{
			Chunks:        j.Progress.Chunks,
			TokenEstimate: j.Progress.TokenEstimate,
			TotalBlocks:   j.Progress.TotalBlocks,
			MatchedBlocks: j.Progress.MatchedBlocks,
			BucketsStored: j.Progress.BucketsStored,
			Errors:        errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
