// Package assetindex turns newly indexed media assets into episode
// candidates for podcasts that opted into import on index.
package assetindex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"podcaster/internal/domain"
)

type AssetLookup interface {
	AssetByID(ctx context.Context, id int64) (*domain.Asset, error)
}

type SettingsStore interface {
	ImportSettings(ctx context.Context, podcastID int64) (domain.ImportSettings, error)
}

type Source struct {
	assets   AssetLookup
	settings SettingsStore
	logger   *slog.Logger
}

func New(assets AssetLookup, settings SettingsStore, logger *slog.Logger) *Source {
	return &Source{
		assets:   assets,
		settings: settings,
		logger:   logger.With("source", domain.JobSourceAssetIndex),
	}
}

func (s *Source) Kind() domain.JobSource {
	return domain.JobSourceAssetIndex
}

// GUID identifies the episode created from an indexed asset.
func GUID(assetID int64) string {
	return "asset-" + strconv.FormatInt(assetID, 10)
}

// Records returns one record per audio asset of the job that lives in a
// volume the podcast allows. Nothing qualifies unless import on index is on.
func (s *Source) Records(ctx context.Context, job *domain.ImportJob) ([]domain.SourceRecord, error) {
	settings, err := s.settings.ImportSettings(ctx, job.PodcastID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load import settings: %w", err)
	}
	if !settings.ImportOnIndex {
		s.logger.Debug("import on index disabled", "podcast_id", job.PodcastID)
		return nil, nil
	}

	var records []domain.SourceRecord
	for _, id := range job.AssetIDs {
		a, err := s.assets.AssetByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("indexed asset vanished", "asset_id", id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load asset %d: %w", id, err)
		}

		if a.Kind != domain.AssetAudio || !settings.VolumeAllowed(a.Volume) {
			continue
		}
		records = append(records, domain.SourceRecord{
			GUID:      GUID(a.ID),
			MediaType: a.MimeType,
			Asset:     a,
		})
	}
	return records, nil
}
