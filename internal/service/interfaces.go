package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"podcaster/internal/asset"
	"podcaster/internal/domain"
	"podcaster/internal/fetch"
	"podcaster/internal/importer"
	"podcaster/internal/pathspec"
)

type ContentStore interface {
	ItemByID(ctx context.Context, id, siteID int64) (*domain.Item, error)
	EpisodeByGUID(ctx context.Context, podcastID int64, guid string) (*domain.Item, error)
	EpisodeByTitle(ctx context.Context, podcastID int64, title string) (*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
}

type SettingsStore interface {
	ImportSettings(ctx context.Context, podcastID int64) (domain.ImportSettings, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, event domain.ContentEvent) error
	Close() error
}

type CacheInvalidator interface {
	Invalidate(item *domain.Item) int
}

// Saver persists an item through the full save flow.
type Saver interface {
	Save(ctx context.Context, item *domain.Item) error
}

type RecordSource interface {
	Kind() domain.JobSource
	Records(ctx context.Context, job *domain.ImportJob) ([]domain.SourceRecord, error)
}

type Downloader interface {
	Download(ctx context.Context, url string, timeout time.Duration) (*fetch.Download, error)
}

type MetadataExtractor interface {
	Analyze(ctx context.Context, origin domain.Origin, location string) (domain.TagMetadata, error)
}

type MergeEngine interface {
	Merge(ctx context.Context, episode *domain.Item, meta domain.TagMetadata, settings domain.ImportSettings, flags domain.ImportFlags) (*importer.Plan, error)
	Apply(ctx context.Context, episode *domain.Item, plan *importer.Plan) error
}

// TermResolver maps titles to taxonomy item ids.
type TermResolver interface {
	Resolve(ctx context.Context, titles []string, kind domain.TaxonomyKind, groupID int64, allowCreate bool) ([]int64, []string, error)
}

type AssetIngestor interface {
	Ingest(ctx context.Context, src asset.Source, t asset.Target) (*domain.Asset, error)
}

type ValueResolver interface {
	Mapping(ctx context.Context, item *domain.Item, concept domain.Concept) (domain.Mapping, error)
	Field(ctx context.Context, mapping domain.Mapping) (domain.FieldDescriptor, bool, error)
	ResolveConcept(ctx context.Context, item *domain.Item, concept domain.Concept) (pathspec.Resolved, error)
	Write(ctx context.Context, item *domain.Item, mapping domain.Mapping, value any) error
}

type LayoutLookup interface {
	LayoutOf(ctx context.Context, kind domain.ItemKind, formatID int64) (domain.Layout, error)
}

type Clock interface {
	Now() time.Time
}
