package rss

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"podcaster/internal/domain"
)

// Fetcher performs a bounded HTTP GET.
type Fetcher interface {
	Get(ctx context.Context, url string, timeout time.Duration) (int, []byte, error)
}

type Config struct {
	Timeout time.Duration
}

// Source turns an external podcast feed into episode candidates.
type Source struct {
	fetcher Fetcher
	parser  *gofeed.Parser
	timeout time.Duration
	logger  *slog.Logger
}

func New(fetcher Fetcher, cfg Config, logger *slog.Logger) *Source {
	return &Source{
		fetcher: fetcher,
		parser:  gofeed.NewParser(),
		timeout: cfg.Timeout,
		logger:  logger.With("source", domain.JobSourceRSS),
	}
}

func (s *Source) Kind() domain.JobSource {
	return domain.JobSourceRSS
}

// Records fetches job.FeedURL and returns its items in document order.
func (s *Source) Records(ctx context.Context, job *domain.ImportJob) ([]domain.SourceRecord, error) {
	if job.FeedURL == "" {
		return nil, fmt.Errorf("rss import job %d has no feed url", job.ID)
	}

	_, body, err := s.fetcher.Get(ctx, job.FeedURL, s.timeout)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	feed, err := s.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	records := make([]domain.SourceRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		records = append(records, s.transform(item))
	}

	s.logger.Debug("parsed feed",
		"job_id", job.ID,
		"title", feed.Title,
		"items", len(records),
	)
	return records, nil
}

func (s *Source) transform(item *gofeed.Item) domain.SourceRecord {
	rec := domain.SourceRecord{
		GUID:        strings.TrimSpace(item.GUID),
		Title:       strings.TrimSpace(item.Title),
		Link:        item.Link,
		PubDate:     item.PublishedParsed,
		Description: item.Description,
		Content:     item.Content,
	}
	if rec.PubDate != nil {
		t := rec.PubDate.UTC()
		rec.PubDate = &t
	}

	if len(item.Enclosures) > 0 {
		enc := item.Enclosures[0]
		rec.MediaURL = enc.URL
		rec.MediaType = enc.Type
		rec.MediaLength, _ = strconv.ParseInt(enc.Length, 10, 64)
	}
	if item.Image != nil {
		rec.ImageURL = item.Image.URL
	}

	if it := item.ITunesExt; it != nil {
		s.applyITunes(&rec, it)
	}
	if len(rec.Keywords) == 0 {
		rec.Keywords = item.Categories
	}
	return rec
}

func (s *Source) applyITunes(rec *domain.SourceRecord, it *ext.ITunesItemExtension) {
	rec.Subtitle = it.Subtitle
	rec.Summary = it.Summary
	rec.Duration = strings.TrimSpace(it.Duration)
	rec.EpisodeType = strings.ToLower(strings.TrimSpace(it.EpisodeType))

	if it.Image != "" {
		rec.ImageURL = it.Image
	}
	if v, ok := parseFlag(it.Explicit); ok {
		rec.Explicit = &v
	}
	if v, ok := parseFlag(it.Block); ok {
		rec.Block = &v
	}
	if n, err := strconv.Atoi(strings.TrimSpace(it.Episode)); err == nil {
		rec.Number = &n
	} else if it.Episode != "" {
		s.logger.Warn("ignoring episode number", "guid", rec.GUID, "value", it.Episode)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(it.Season)); err == nil {
		rec.Season = &n
	}

	for _, kw := range strings.Split(it.Keywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			rec.Keywords = append(rec.Keywords, kw)
		}
	}
}

// parseFlag reads the yes/no style values feeds use for explicit and block.
func parseFlag(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "explicit":
		return true, true
	case "no", "false", "clean":
		return false, true
	}
	return false, false
}
