package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/j-russo/chunking-visualizer/internal/chunker"
)

// JobStatus represents the state of a chunking job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusChunking  JobStatus = "chunking"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of one uploaded document being chunked.
type Job struct {
	mu sync.Mutex

	ID       string           `json:"job_id"`
	Filename string           `json:"filename"`
	Strategy chunker.Strategy `json:"strategy"`
	Params   chunker.Params   `json:"params"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Title       string    `json:"title"`
	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   *Analysis
	errors   []string
}

// NewJob creates a queued job for an uploaded file.
func NewJob(filename string, s chunker.Strategy, p chunker.Params, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Filename:  filename,
		Strategy:  s,
		Params:    p,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
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

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes jobs not updated within the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// Fail records err and marks the job failed in phase.
func (j *Job) Fail(phase string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err.Error())
	j.Status = StatusFailed
	j.Phase = phase
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Complete stores the analysis and releases the upload.
func (j *Job) Complete(title, contentHash string, a *Analysis) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Title = title
	j.ContentHash = contentHash
	j.result = a
	j.Status = StatusCompleted
	j.Phase = "done"
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string           `json:"job_id"`
	Filename    string           `json:"filename"`
	Strategy    chunker.Strategy `json:"strategy"`
	Params      chunker.Params   `json:"params"`
	Status      JobStatus        `json:"status"`
	Phase       string           `json:"phase"`
	Title       string           `json:"title,omitempty"`
	ContentHash string           `json:"content_hash,omitempty"`
	Errors      []string         `json:"errors"`
	Result      *Analysis        `json:"result,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		ID:          j.ID,
		Filename:    j.Filename,
		Strategy:    j.Strategy,
		Params:      j.Params,
		Status:      j.Status,
		Phase:       j.Phase,
		Title:       j.Title,
		ContentHash: j.ContentHash,
		Errors:      errs,
		Result:      j.result,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
