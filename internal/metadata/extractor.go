// Package metadata reads tag metadata from local or remote audio files.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"podcaster/internal/domain"
	"podcaster/internal/fetch"
)

type Downloader interface {
	Download(ctx context.Context, url string, timeout time.Duration) (*fetch.Download, error)
}

type Config struct {
	// DownloadTimeout bounds fetching a remote file before analysis.
	DownloadTimeout time.Duration
	// ProbeDuration enables the duration probe.
	ProbeDuration bool
}

type Extractor struct {
	tags       TagReader
	prober     DurationProber
	downloader Downloader
	cfg        Config
	logger     *slog.Logger
}

func NewExtractor(tags TagReader, prober DurationProber, downloader Downloader, cfg Config, logger *slog.Logger) *Extractor {
	return &Extractor{
		tags:       tags,
		prober:     prober,
		downloader: downloader,
		cfg:        cfg,
		logger:     logger.With("component", "metadata"),
	}
}

// Analyze reads what it can from the file at location. The returned metadata
// is best effort and may be partially filled even when err is non-nil; err
// always wraps domain.ErrMetadataExtractionFailed.
func (e *Extractor) Analyze(ctx context.Context, origin domain.Origin, location string) (domain.TagMetadata, error) {
	if location == "" {
		return domain.TagMetadata{}, fmt.Errorf("%w: empty location", domain.ErrMetadataExtractionFailed)
	}
	if origin == domain.OriginLocal {
		return e.analyzeFile(ctx, location)
	}

	dl, err := e.downloader.Download(ctx, location, e.cfg.DownloadTimeout)
	if err != nil {
		return domain.TagMetadata{}, fmt.Errorf("%w: download: %w", domain.ErrMetadataExtractionFailed, err)
	}
	defer func() {
		if err := dl.Remove(); err != nil {
			e.logger.Warn("failed to remove temp file", "path", dl.Path, "error", err)
		}
	}()

	return e.analyzeFile(ctx, dl.Path)
}

func (e *Extractor) analyzeFile(ctx context.Context, path string) (domain.TagMetadata, error) {
	var errs []error

	meta, err := e.tags.Read(path)
	if err != nil {
		errs = append(errs, err)
	}

	if e.cfg.ProbeDuration && e.prober != nil {
		seconds, err := e.prober.DurationSeconds(ctx, path)
		switch {
		case err != nil:
			errs = append(errs, err)
		case seconds > 0 && !math.IsNaN(seconds):
			meta.DurationSeconds = int(math.Round(seconds))
		}
	}

	e.logger.Debug("analyzed file",
		"path", path,
		"title", meta.Title,
		"duration", meta.DurationSeconds,
		"genres", len(meta.Genres),
		"has_image", meta.Image != nil,
	)

	if len(errs) > 0 {
		return meta, fmt.Errorf("%w: %w", domain.ErrMetadataExtractionFailed, errors.Join(errs...))
	}
	return meta, nil
}
