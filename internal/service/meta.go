package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"podcaster/internal/domain"
	"podcaster/internal/importer"
)

// MetaService imports tag metadata from an episode's main audio asset.
type MetaService struct {
	content   ContentStore
	settings  SettingsStore
	values    ValueResolver
	extractor MetadataExtractor
	engine    MergeEngine
	saver     Saver
	logger    *slog.Logger
}

func NewMetaService(
	content ContentStore,
	settings SettingsStore,
	values ValueResolver,
	extractor MetadataExtractor,
	engine MergeEngine,
	saver Saver,
	logger *slog.Logger,
) *MetaService {
	return &MetaService{
		content:   content,
		settings:  settings,
		values:    values,
		extractor: extractor,
		engine:    engine,
		saver:     saver,
		logger:    logger.With("component", "meta"),
	}
}

// Import reads the episode's main asset and merges its tags. With
// flags.Preview the plan is returned and nothing is written.
func (s *MetaService) Import(ctx context.Context, episodeID, siteID int64, flags domain.ImportFlags) (*importer.Plan, error) {
	episode, err := s.content.ItemByID(ctx, episodeID, siteID)
	if err != nil {
		return nil, fmt.Errorf("load episode %d: %w", episodeID, err)
	}
	if episode.Kind != domain.KindEpisode {
		return nil, fmt.Errorf("item %d is not an episode: %w", episodeID, domain.ErrNotFound)
	}

	settings, err := s.loadSettings(ctx, episode.PodcastID)
	if err != nil {
		return nil, err
	}

	meta, err := s.analyzeMainAsset(ctx, episode)
	if err != nil {
		return nil, err
	}

	plan, err := s.engine.Merge(ctx, episode, meta, settings, flags)
	if err != nil {
		return nil, fmt.Errorf("merge metadata: %w", err)
	}
	if flags.Preview {
		return plan, nil
	}

	if err := s.engine.Apply(ctx, episode, plan); err != nil {
		return nil, fmt.Errorf("apply metadata: %w", err)
	}
	if err := s.saver.Save(ctx, episode); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *MetaService) loadSettings(ctx context.Context, podcastID int64) (domain.ImportSettings, error) {
	settings, err := s.settings.ImportSettings(ctx, podcastID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ImportSettings{PodcastID: podcastID}, nil
	}
	if err != nil {
		return domain.ImportSettings{}, fmt.Errorf("load import settings: %w", err)
	}
	return settings, nil
}

// analyzeMainAsset returns whatever metadata could be read. Extraction
// problems are logged and yield partial or empty metadata.
func (s *MetaService) analyzeMainAsset(ctx context.Context, episode *domain.Item) (domain.TagMetadata, error) {
	res, err := s.values.ResolveConcept(ctx, episode, domain.ConceptMainAsset)
	if err != nil {
		return domain.TagMetadata{}, fmt.Errorf("resolve main asset: %w", err)
	}
	if res.Asset == nil {
		return domain.TagMetadata{}, fmt.Errorf("episode %d has no main asset: %w", episode.ID, domain.ErrNotFound)
	}

	origin, location := res.Asset.Location()
	meta, err := s.extractor.Analyze(ctx, origin, location)
	if err != nil {
		s.logger.Warn("metadata extraction incomplete",
			"episode_id", episode.ID,
			"origin", origin,
			"error", err,
		)
	}
	return meta, nil
}
