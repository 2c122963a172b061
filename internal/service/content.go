package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"podcaster/internal/domain"
	"podcaster/internal/importer"
)

// ContentService runs the save flow: validate, store in a transaction,
// invalidate cached feeds, publish an event.
type ContentService struct {
	store     ContentStore
	txManager TransactionManager
	cache     CacheInvalidator
	publisher Publisher
	clock     Clock
	logger    *slog.Logger
}

func NewContentService(
	store ContentStore,
	txManager TransactionManager,
	cache CacheInvalidator,
	publisher Publisher,
	clock Clock,
	logger *slog.Logger,
) *ContentService {
	return &ContentService{
		store:     store,
		txManager: txManager,
		cache:     cache,
		publisher: publisher,
		clock:     clock,
		logger:    logger.With("component", "content"),
	}
}

// Validate checks item and normalizes its duration to seconds.
func Validate(item *domain.Item) domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	if strings.TrimSpace(item.Title) == "" {
		errs.Add("title", "cannot be blank")
	}
	if item.Kind == domain.KindEpisode && item.PodcastID == 0 {
		errs.Add("podcastId", "episode must belong to a podcast")
	}
	if v, ok := item.Attr(domain.AttrDuration); ok {
		if seconds, ok := importer.NormalizeDuration(v, errs); ok {
			item.SetAttr(domain.AttrDuration, seconds)
		}
	}
	return errs
}

func (s *ContentService) Save(ctx context.Context, item *domain.Item) error {
	if errs := Validate(item); !errs.Empty() {
		return errs
	}

	isNew := item.IsNew()
	now := s.clock.Now()
	if isNew {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if isNew {
			return s.store.Create(txCtx, item)
		}
		return s.store.Update(txCtx, item)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", item.Kind, err)
	}

	if s.cache != nil {
		removed := s.cache.Invalidate(item)
		s.logger.Debug("feed cache invalidated", "item_id", item.ID, "entries", removed)
	}

	if s.publisher != nil {
		action := "update"
		if isNew {
			action = "create"
		}
		event := domain.ContentEvent{
			Action:    action,
			ItemID:    item.ID,
			Kind:      item.Kind,
			PodcastID: item.PodcastID,
			SiteID:    item.SiteID,
			Timestamp: now.UTC(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("publish content event failed", "item_id", item.ID, "error", err)
		}
	}

	s.logger.Info("item saved", "item_id", item.ID, "kind", item.Kind, "new", isNew)
	return nil
}
