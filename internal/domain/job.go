package domain

import "time"

type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

type JobSource string

const (
	JobSourceRSS        JobSource = "rss"
	JobSourceAssetIndex JobSource = "asset_index"
)

// ImportJob is one batch import run for a podcast.
type ImportJob struct {
	ID         int64       `db:"id" json:"id"`
	PodcastID  int64       `db:"podcast_id" json:"podcastId"`
	SiteID     int64       `db:"site_id" json:"siteId"`
	Source     JobSource   `db:"source" json:"source"`
	FeedURL    string      `db:"feed_url" json:"feedUrl,omitempty"`
	AssetIDs   []int64     `db:"-" json:"assetIds,omitempty"`
	Limit      int         `db:"item_limit" json:"limit,omitempty"`
	Status     JobStatus   `db:"status" json:"status"`
	Step       int         `db:"step" json:"step"`
	Total      int         `db:"total" json:"total"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
	StartedAt  *time.Time  `db:"started_at" json:"startedAt,omitempty"`
	FinishedAt *time.Time  `db:"finished_at" json:"finishedAt,omitempty"`
	Stats      ImportStats `db:"-" json:"stats"`
}

// ImportStats holds the tally of a batch import.
type ImportStats struct {
	Total    int           `json:"total"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Errors   []string      `json:"errors,omitempty"`
	Duration time.Duration `json:"duration"`
}

// SourceRecord is one episode candidate taken from an external feed item or
// a newly indexed media asset.
type SourceRecord struct {
	GUID        string
	Title       string
	Link        string
	Explicit    *bool
	Block       *bool
	Number      *int
	Season      *int
	EpisodeType string
	Duration    string
	PubDate     *time.Time
	Summary     string
	Subtitle    string
	Description string
	Content     string
	Keywords    []string
	MediaURL    string
	MediaType   string
	MediaLength int64
	ImageURL    string
	// Set for asset index records; the media already exists as an asset.
	Asset *Asset
}
