package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"podcaster/internal/domain"
	"podcaster/internal/service"
	"podcaster/internal/testutil"
)

type importerFunc func(ctx context.Context, job *domain.ImportJob, progress service.ProgressFunc) (*domain.ImportStats, error)

func (f importerFunc) Run(ctx context.Context, job *domain.ImportJob, progress service.ProgressFunc) (*domain.ImportStats, error) {
	return f(ctx, job, progress)
}

type SchedulerTestSuite struct {
	suite.Suite
	jobs   *testutil.MemoryJobs
	clock  *testutil.StubClock
	logger *slog.Logger
}

func TestSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (s *SchedulerTestSuite) SetupTest() {
	s.jobs = testutil.NewMemoryJobs()
	s.clock = testutil.FixedClock()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func (s *SchedulerTestSuite) enqueue(podcastID int64) *domain.ImportJob {
	job := &domain.ImportJob{PodcastID: podcastID, Source: domain.JobSourceRSS}
	s.Require().NoError(s.jobs.Enqueue(context.Background(), job))
	return job
}

func (s *SchedulerTestSuite) TestDrain_RunsJobsInOrder() {
	first := s.enqueue(1)
	second := s.enqueue(2)

	var order []int64
	sched := NewScheduler(s.jobs, importerFunc(func(_ context.Context, job *domain.ImportJob, progress service.ProgressFunc) (*domain.ImportStats, error) {
		order = append(order, job.PodcastID)
		progress(1, 2)
		progress(2, 2)
		return &domain.ImportStats{Total: 2, Imported: 2}, nil
	}), s.clock, Config{}, s.logger)

	s.Equal(2, sched.Drain(context.Background()))
	s.Equal([]int64{1, 2}, order)
	s.Equal([][2]int{{1, 2}, {2, 2}, {1, 2}, {2, 2}}, s.jobs.Progress)

	for _, id := range []int64{first.ID, second.ID} {
		job, err := s.jobs.Job(context.Background(), id)
		s.Require().NoError(err)
		s.Equal(domain.JobDone, job.Status)
		s.Equal(2, job.Stats.Imported)
		s.Equal(2, job.Step)
		s.Require().NotNil(job.FinishedAt)
		s.Equal(s.clock.Now(), *job.FinishedAt)
	}
}

func (s *SchedulerTestSuite) TestDrain_FailedJobKeepsPartialStats() {
	job := s.enqueue(1)

	sched := NewScheduler(s.jobs, importerFunc(func(context.Context, *domain.ImportJob, service.ProgressFunc) (*domain.ImportStats, error) {
		return &domain.ImportStats{Total: 3, Imported: 1}, errors.New("import interrupted at 1 of 3: context deadline exceeded")
	}), s.clock, Config{}, s.logger)

	s.Equal(1, sched.Drain(context.Background()))

	got, err := s.jobs.Job(context.Background(), job.ID)
	s.Require().NoError(err)
	s.Equal(domain.JobFailed, got.Status)
	s.Equal(1, got.Stats.Imported)
	s.Contains(got.Stats.Errors[len(got.Stats.Errors)-1], "interrupted")

	s.Require().NoError(s.jobs.Retry(context.Background(), job.ID))
	got, err = s.jobs.Job(context.Background(), job.ID)
	s.Require().NoError(err)
	s.Equal(domain.JobQueued, got.Status)
}

func (s *SchedulerTestSuite) TestDrain_EmptyQueue() {
	sched := NewScheduler(s.jobs, importerFunc(func(context.Context, *domain.ImportJob, service.ProgressFunc) (*domain.ImportStats, error) {
		s.Fail("importer should not run")
		return nil, nil
	}), s.clock, Config{}, s.logger)

	s.Zero(sched.Drain(context.Background()))
}

func (s *SchedulerTestSuite) TestStart_StopsOnCancel() {
	s.enqueue(1)
	ran := make(chan struct{}, 1)
	sched := NewScheduler(s.jobs, importerFunc(func(context.Context, *domain.ImportJob, service.ProgressFunc) (*domain.ImportStats, error) {
		ran <- struct{}{}
		return &domain.ImportStats{}, nil
	}), s.clock, Config{PollInterval: time.Hour}, s.logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	<-ran
	cancel()
	s.ErrorIs(<-done, context.Canceled)
}
