package handler

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle of a batch run started over HTTP.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job keeps track of one batch run while it executes.
type Job struct {
	ID        string      `json:"id"`
	Status    JobStatus   `json:"status"`
	Result    *RunSummary `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// JobManager stores job states indexed by job ID.
type JobManager struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewJobManager() *JobManager {
	return &JobManager{
		jobs: make(map[string]*Job),
	}
}

// NewJob registers a queued job. It refuses while another job is queued or running.
func (m *JobManager) NewJob() (Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active() {
		return Job{}, false
	}

	now := time.Now()
	job := &Job{
		ID:        uuid.New().String(),
		Status:    JobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.jobs[job.ID] = job
	return *job, true
}

func (m *JobManager) active() bool {
	for _, job := range m.jobs {
		if job.Status == JobQueued || job.Status == JobRunning {
			return true
		}
	}
	return false
}

func (m *JobManager) SetRunning(jobID string) {
	m.updateJob(jobID, func(job *Job) {
		job.Status = JobRunning
	})
}

func (m *JobManager) CompleteJob(jobID string, result RunSummary) {
	m.updateJob(jobID, func(job *Job) {
		job.Status = JobCompleted
		job.Result = &result
	})
}

func (m *JobManager) FailJob(jobID string, err error) {
	m.updateJob(jobID, func(job *Job) {
		job.Status = JobFailed
		job.Error = err.Error()
	})
}

// GetJob returns a copy of the job.
func (m *JobManager) GetJob(jobID string) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (m *JobManager) updateJob(jobID string, update func(job *Job)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return
	}

	update(job)
	job.UpdatedAt = time.Now()
}
