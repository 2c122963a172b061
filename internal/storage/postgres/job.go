package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"podcaster/internal/domain"
)

// JobStore is the persistent import job queue.
type JobStore struct {
	db *sqlx.DB
	// staleAfter is how long a job may stay running before Retry treats its
	// worker as gone. Zero disables retrying running jobs.
	staleAfter time.Duration
}

func NewJobStore(db *sqlx.DB, staleAfter time.Duration) *JobStore {
	return &JobStore{db: db, staleAfter: staleAfter}
}

type jobRow struct {
	ID         int64         `db:"id"`
	PodcastID  int64         `db:"podcast_id"`
	SiteID     int64         `db:"site_id"`
	Source     string        `db:"source"`
	FeedURL    string        `db:"feed_url"`
	AssetIDs   pq.Int64Array `db:"asset_ids"`
	Limit      int           `db:"item_limit"`
	Status     string        `db:"status"`
	Step       int           `db:"step"`
	Total      int           `db:"total"`
	Stats      []byte        `db:"stats"`
	CreatedAt  time.Time     `db:"created_at"`
	StartedAt  sql.NullTime  `db:"started_at"`
	FinishedAt sql.NullTime  `db:"finished_at"`
}

const jobColumns = `id, podcast_id, site_id, source, feed_url, asset_ids, item_limit, status, step, total,
	stats, created_at, started_at, finished_at`

func (r jobRow) toDomain() (*domain.ImportJob, error) {
	job := &domain.ImportJob{
		ID:        r.ID,
		PodcastID: r.PodcastID,
		SiteID:    r.SiteID,
		Source:    domain.JobSource(r.Source),
		FeedURL:   r.FeedURL,
		AssetIDs:  r.AssetIDs,
		Limit:     r.Limit,
		Status:    domain.JobStatus(r.Status),
		Step:      r.Step,
		Total:     r.Total,
		CreatedAt: r.CreatedAt,
	}
	if r.StartedAt.Valid {
		t := r.StartedAt.Time
		job.StartedAt = &t
	}
	if r.FinishedAt.Valid {
		t := r.FinishedAt.Time
		job.FinishedAt = &t
	}
	if err := decodeJSON(r.Stats, &job.Stats); err != nil {
		return nil, fmt.Errorf("job %d stats: %w", r.ID, err)
	}
	return job, nil
}

func (s *JobStore) Enqueue(ctx context.Context, job *domain.ImportJob) error {
	query := `
		INSERT INTO import_jobs (podcast_id, site_id, source, feed_url, asset_ids, item_limit, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	assetIDs := job.AssetIDs
	if assetIDs == nil {
		assetIDs = []int64{}
	}
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		job.PodcastID,
		job.SiteID,
		job.Source,
		job.FeedURL,
		pq.Array(assetIDs),
		job.Limit,
		domain.JobQueued,
	).Scan(&job.ID, &job.CreatedAt)
	if err != nil {
		return fmt.Errorf("enqueue import job: %w", err)
	}
	job.Status = domain.JobQueued
	return nil
}

// ClaimNext moves the oldest queued job to running. Concurrent workers never
// claim the same job.
func (s *JobStore) ClaimNext(ctx context.Context, now time.Time) (*domain.ImportJob, error) {
	query := `
		UPDATE import_jobs SET status = 'running', started_at = $1
		WHERE id = (
			SELECT id FROM import_jobs
			WHERE status = 'queued'
			ORDER BY created_at, id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + jobColumns

	var row jobRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("claim import job: %w", err)
	}
	return row.toDomain()
}

func (s *JobStore) UpdateProgress(ctx context.Context, jobID int64, step, total int) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE import_jobs SET step = $2, total = $3 WHERE id = $1`, jobID, step, total)
	if err != nil {
		return fmt.Errorf("update progress of job %d: %w", jobID, err)
	}
	return nil
}

func (s *JobStore) Finish(ctx context.Context, job *domain.ImportJob) error {
	stats, err := encodeJSON(job.Stats)
	if err != nil {
		return err
	}
	query := `
		UPDATE import_jobs SET
			status = $2,
			step = $3,
			total = $4,
			stats = $5,
			finished_at = $6
		WHERE id = $1`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		job.ID, job.Status, job.Step, job.Total, stats, job.FinishedAt)
	if err != nil {
		return fmt.Errorf("finish job %d: %w", job.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish job %d: %w", job.ID, domain.ErrNotFound)
	}
	return nil
}

// Retry puts a failed job back in the queue with its progress reset. A job
// that has been running for longer than the stale limit is requeued too.
func (s *JobStore) Retry(ctx context.Context, jobID int64) error {
	query := `
		UPDATE import_jobs SET
			status = 'queued', step = 0, total = 0, stats = '{}',
			started_at = NULL, finished_at = NULL
		WHERE id = $1 AND (
			status = 'failed' OR
			($2::float8 > 0 AND status = 'running' AND started_at < now() - make_interval(secs => $2::float8))
		)`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, jobID, s.staleAfter.Seconds())
	if err != nil {
		return fmt.Errorf("retry job %d: %w", jobID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("no failed or stale job %d: %w", jobID, domain.ErrNotFound)
	}
	return nil
}

func (s *JobStore) Job(ctx context.Context, jobID int64) (*domain.ImportJob, error) {
	var row jobRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, `SELECT `+jobColumns+` FROM import_jobs WHERE id = $1`, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %d: %w", jobID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", jobID, err)
	}
	return row.toDomain()
}
