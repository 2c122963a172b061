package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"podcaster/internal/domain"
)

// MemoryJobs is an in-memory import job queue.
type MemoryJobs struct {
	mu     sync.Mutex
	nextID int64
	jobs   map[int64]*domain.ImportJob
	// Progress records every UpdateProgress call as {step, total}.
	Progress [][2]int
	// StaleAfter lets Retry requeue running jobs started longer ago.
	StaleAfter time.Duration
}

func NewMemoryJobs() *MemoryJobs {
	return &MemoryJobs{jobs: make(map[int64]*domain.ImportJob)}
}

func (m *MemoryJobs) Enqueue(_ context.Context, job *domain.ImportJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	job.ID = m.nextID
	job.Status = domain.JobQueued
	m.jobs[job.ID] = job
	return nil
}

func (m *MemoryJobs) ClaimNext(_ context.Context, now time.Time) (*domain.ImportJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.jobs))
	for id, j := range m.jobs {
		if j.Status == domain.JobQueued {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	job := m.jobs[ids[0]]
	job.Status = domain.JobRunning
	job.StartedAt = &now
	return job, nil
}

func (m *MemoryJobs) UpdateProgress(_ context.Context, jobID int64, step, total int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	job.Step, job.Total = step, total
	m.Progress = append(m.Progress, [2]int{step, total})
	return nil
}

func (m *MemoryJobs) Finish(_ context.Context, job *domain.ImportJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; !ok {
		return domain.ErrNotFound
	}
	m.jobs[job.ID] = job
	return nil
}

func (m *MemoryJobs) Retry(_ context.Context, jobID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok || !m.retryable(job) {
		return domain.ErrNotFound
	}
	job.Status = domain.JobQueued
	job.Step, job.Total = 0, 0
	job.StartedAt, job.FinishedAt = nil, nil
	job.Stats = domain.ImportStats{}
	return nil
}

func (m *MemoryJobs) retryable(job *domain.ImportJob) bool {
	switch job.Status {
	case domain.JobFailed:
		return true
	case domain.JobRunning:
		return m.StaleAfter > 0 && job.StartedAt != nil && time.Since(*job.StartedAt) > m.StaleAfter
	}
	return false
}

func (m *MemoryJobs) Job(_ context.Context, jobID int64) (*domain.ImportJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}
