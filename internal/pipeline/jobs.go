package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a batch resolution job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusResolving JobStatus = "resolving"
	StatusStoring   JobStatus = "storing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
)

// Query is one XPath selection to resolve against the job's document.
type Query struct {
	Xpath        string `json:"xpath"`
	Substring    string `json:"substring,omitempty"`
	AnnotationID string `json:"annotation_id,omitempty"`
}

// QueryResult is the outcome of one query within a batch.
type QueryResult struct {
	Index        int    `json:"index"`
	AnnotationID string `json:"annotation_id,omitempty"`
	Start        int    `json:"start"`
	End          int    `json:"end"`
	Error        string `json:"error,omitempty"`
}

// Job tracks the state of a single batch resolution.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	document string
	queries  []Query
	results  []QueryResult
	errors   []string
}

// Progress tracks batch progress.
type Progress struct {
	TotalQueries    int      `json:"total_queries"`
	QueriesResolved int      `json:"queries_resolved"`
	SpansStored     int      `json:"spans_stored"`
	Errors          []string `json:"errors"`
}

// NewJob creates a queued job for a document and its queries.
func NewJob(docID, document string, queries []Query) *Job {
	now := time.Now()
	job := &Job{
		ID:        uuid.NewString(),
		DocID:     docID,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		document:  document,
		queries:   queries,
		results:   make([]QueryResult, len(queries)),
	}
	job.Progress.TotalQueries = len(queries)
	return job
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

// SetResult records the outcome of one query and bumps the resolved count.
func (j *Job) SetResult(i int, res QueryResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if i >= 0 && i < len(j.results) {
		j.results[i] = res
	}
	j.Progress.QueriesResolved++
	j.UpdatedAt = time.Now()
}

// IncrSpansStored bumps the stored-span count.
func (j *Job) IncrSpansStored() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SpansStored++
	j.UpdatedAt = time.Now()
}

// Document returns the job's HTML document.
func (j *Job) Document() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.document
}

// Queries returns the job's query list.
func (j *Job) Queries() []Query {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.queries
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string        `json:"job_id"`
	DocID    string        `json:"doc_id"`
	Status   JobStatus     `json:"status"`
	Phase    string        `json:"phase"`
	Progress Progress      `json:"progress"`
	Results  []QueryResult `json:"results"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	results := make([]QueryResult, len(j.results))
	copy(results, j.results)
	return JobSnapshot{
		ID:     j.ID,
		DocID:  j.DocID,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			TotalQueries:    j.Progress.TotalQueries,
			QueriesResolved: j.Progress.QueriesResolved,
			SpansStored:     j.Progress.SpansStored,
			Errors:          errs,
		},
		Results: results,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string. Used
// to derive document IDs when the caller supplies none.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
