// Package scheduler runs queued import jobs one at a time on a ticker.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"podcaster/internal/domain"
	"podcaster/internal/service"
)

type JobStore interface {
	// ClaimNext marks the oldest queued job running and returns it, or
	// domain.ErrNotFound when the queue is empty.
	ClaimNext(ctx context.Context, now time.Time) (*domain.ImportJob, error)
	UpdateProgress(ctx context.Context, jobID int64, step, total int) error
	Finish(ctx context.Context, job *domain.ImportJob) error
}

type Importer interface {
	Run(ctx context.Context, job *domain.ImportJob, progress service.ProgressFunc) (*domain.ImportStats, error)
}

type Clock interface {
	Now() time.Time
}

type Config struct {
	PollInterval time.Duration
	JobTimeout   time.Duration
}

type Scheduler struct {
	jobs     JobStore
	importer Importer
	clock    Clock
	cfg      Config
	logger   *slog.Logger
}

func NewScheduler(jobs JobStore, importer Importer, clock Clock, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = time.Hour
	}
	return &Scheduler{
		jobs:     jobs,
		importer: importer,
		clock:    clock,
		cfg:      cfg,
		logger:   logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.cfg.PollInterval)

	s.Drain(ctx)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Drain(ctx)
		}
	}
}

// Drain runs queued jobs until none are left and returns how many ran.
func (s *Scheduler) Drain(ctx context.Context) int {
	ran := 0
	for ctx.Err() == nil {
		job, err := s.jobs.ClaimNext(ctx, s.clock.Now())
		if errors.Is(err, domain.ErrNotFound) {
			break
		}
		if err != nil {
			s.logger.Error("claim job failed", "error", err)
			break
		}
		s.runJob(ctx, job)
		ran++
	}
	return ran
}

func (s *Scheduler) runJob(ctx context.Context, job *domain.ImportJob) {
	logger := s.logger.With("job_id", job.ID, "podcast_id", job.PodcastID)

	jobCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	stats, err := s.importer.Run(jobCtx, job, func(step, total int) {
		job.Step, job.Total = step, total
		if err := s.jobs.UpdateProgress(ctx, job.ID, step, total); err != nil {
			logger.Warn("update progress failed", "error", err)
		}
	})

	if stats != nil {
		job.Stats = *stats
	}
	job.Status = domain.JobDone
	if err != nil {
		job.Status = domain.JobFailed
		job.Stats.Errors = append(job.Stats.Errors, err.Error())
		logger.Error("import job failed", "error", err)
	}
	finished := s.clock.Now()
	job.FinishedAt = &finished

	// The job outcome is recorded even when ctx is already cancelled.
	if err := s.jobs.Finish(context.WithoutCancel(ctx), job); err != nil {
		logger.Error("record job outcome failed", "error", err)
		return
	}
	logger.Info("import job finished",
		"status", job.Status,
		"imported", job.Stats.Imported,
		"skipped", job.Stats.Skipped,
		"failed", job.Stats.Failed,
	)
}
