package pipeline

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/researchd/internal/agent"
)

// JobStatus represents the state of a research job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusResearching JobStatus = "researching"
	StatusRendering   JobStatus = "rendering"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Output format names accepted on submission.
const (
	FormatPDF  = "pdf"
	FormatPPTX = "pptx"
)

// Job tracks the state of a single research request.
type Job struct {
	mu sync.Mutex

	ID         string
	Query      string
	Formats    []string
	IncludeViz bool

	Status JobStatus
	Phase  string

	Result *agent.Result
	// Files maps artifact kind (pdf, pptx, visualization) to the
	// filename under the output directory.
	Files map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time

	errors []string
}

// NewJob creates a queued job with a fresh ID.
func NewJob(query string, formats []string, includeViz bool) *Job {
	now := time.Now()
	return &Job{
		ID:         uuid.NewString(),
		Query:      query,
		Formats:    formats,
		IncludeViz: includeViz,
		Status:     StatusQueued,
		Phase:      "queued",
		Files:      make(map[string]string),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// WantsFormat reports whether the job requested the given output format.
func (j *Job) WantsFormat(format string) bool {
	for _, f := range j.Formats {
		if f == format {
			return true
		}
	}
	return false
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
	j.UpdatedAt = time.Now()
}

// SetResult stores the research result.
func (j *Job) SetResult(res *agent.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Result = res
	j.UpdatedAt = time.Now()
}

// GetResult returns the research result, or nil while researching.
func (j *Job) GetResult() *agent.Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.Result
}

// AddFile records a produced artifact.
func (j *Job) AddFile(kind, filename string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Files[kind] = filename
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string            `json:"job_id"`
	Query     string            `json:"query"`
	Status    JobStatus         `json:"status"`
	Phase     string            `json:"phase"`
	Topic     string            `json:"topic,omitempty"`
	Summary   string            `json:"summary,omitempty"`
	Sources   []string          `json:"sources,omitempty"`
	ToolsUsed []string          `json:"tools_used,omitempty"`
	Files     map[string]string `json:"files"`
	Errors    []string          `json:"errors"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	snap := JobSnapshot{
		ID:        j.ID,
		Query:     j.Query,
		Status:    j.Status,
		Phase:     j.Phase,
		Files:     make(map[string]string, len(j.Files)),
		Errors:    append([]string{}, j.errors...),
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	for k, v := range j.Files {
		snap.Files[k] = v
	}
	if j.Result != nil {
		snap.Topic = j.Result.Topic
		snap.Summary = j.Result.Summary
		snap.Sources = j.Result.Sources
		snap.ToolsUsed = j.Result.ToolsUsed
	}
	return snap
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

// List returns snapshots of all stored jobs, newest first.
func (s *JobStore) List() []JobSnapshot {
	s.mu.Lock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.Unlock()

	snaps := make([]JobSnapshot, 0, len(jobs))
	for _, j := range jobs {
		snaps = append(snaps, j.Snapshot())
	}
	sort.Slice(snaps, func(i, k int) bool {
		return snaps[i].CreatedAt.After(snaps[k].CreatedAt)
	})
	return snaps
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
