// Package importer merges audio tag metadata into episodes according to the
// podcast's import settings.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"podcaster/internal/asset"
	"podcaster/internal/domain"
	"podcaster/internal/pathspec"
)

type Clock interface {
	Now() time.Time
}

type ValueResolver interface {
	Mapping(ctx context.Context, item *domain.Item, concept domain.Concept) (domain.Mapping, error)
	Field(ctx context.Context, m domain.Mapping) (domain.FieldDescriptor, bool, error)
	Resolve(ctx context.Context, item *domain.Item, m domain.Mapping) (pathspec.Resolved, error)
	Write(ctx context.Context, item *domain.Item, m domain.Mapping, value any) error
}

type GenreResolver interface {
	Resolve(ctx context.Context, titles []string, kind domain.TaxonomyKind, groupID int64, allowCreate bool) ([]int64, []string, error)
	Existing(ctx context.Context, candidates []int64, kind domain.TaxonomyKind, groupID int64) ([]int64, []string, error)
}

type LayoutLookup interface {
	LayoutOf(ctx context.Context, kind domain.ItemKind, formatID int64) (domain.Layout, error)
}

type Ingestor interface {
	Ingest(ctx context.Context, src asset.Source, t asset.Target) (*domain.Asset, error)
}

// ImageSource tells where a planned cover image comes from.
type ImageSource string

const (
	ImageFromMetadata ImageSource = "metadata"
	ImageFromDefault  ImageSource = "default"
)

type ImagePlan struct {
	Source   ImageSource `json:"source"`
	AssetIDs []int64     `json:"assetIds,omitempty"`
	MIME     string      `json:"mime,omitempty"`
	Size     int         `json:"size,omitempty"`

	data []byte
	ext  string
}

// Plan holds the values a merge decided to write. Nil fields are left alone.
type Plan struct {
	Title       *string    `json:"title,omitempty"`
	Number      *int64     `json:"number,omitempty"`
	Duration    *int64     `json:"duration,omitempty"`
	GenreIDs    []int64    `json:"genreIds,omitempty"`
	GenreLabels []string   `json:"genres,omitempty"`
	Image       *ImagePlan `json:"image,omitempty"`
	PubDate     *time.Time `json:"pubDate,omitempty"`
	Year        int        `json:"year,omitempty"`
	Warnings    []string   `json:"warnings,omitempty"`
	Preview     bool       `json:"preview"`

	genreMapping   domain.Mapping
	imageMapping   domain.Mapping
	pubDateMapping domain.Mapping
}

// Changed reports whether applying the plan would touch the item.
func (p *Plan) Changed() bool {
	return p.Title != nil || p.Number != nil || p.Duration != nil || p.GenreIDs != nil ||
		p.Image != nil || p.PubDate != nil
}

func (p *Plan) warn(format string, args ...any) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}

type Engine struct {
	values   ValueResolver
	genres   GenreResolver
	layouts  LayoutLookup
	ingestor Ingestor
	clock    Clock
	logger   *slog.Logger
}

func NewEngine(values ValueResolver, genres GenreResolver, layouts LayoutLookup, ingestor Ingestor, clock Clock, logger *slog.Logger) *Engine {
	return &Engine{
		values:   values,
		genres:   genres,
		layouts:  layouts,
		ingestor: ingestor,
		clock:    clock,
		logger:   logger.With("component", "importer"),
	}
}

// Merge decides which metadata values to write to episode. Every concept is
// evaluated on its own. The episode is not modified.
func (e *Engine) Merge(ctx context.Context, episode *domain.Item, meta domain.TagMetadata, settings domain.ImportSettings, flags domain.ImportFlags) (*Plan, error) {
	plan := &Plan{Preview: flags.Preview}

	layout, err := e.layouts.LayoutOf(ctx, domain.KindEpisode, episode.FormatID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load episode layout: %w", err)
	}

	if title := strings.TrimSpace(meta.Title); guard(flags.OverwriteTitle, episode.Title == "", settings.IfMetaValueNotEmpty, title != "") {
		plan.Title = &title
	}

	if layout.Has(domain.AttrEpisodeNumber) {
		v, _ := episode.Attr(domain.AttrEpisodeNumber)
		current, _ := domain.ToInt64(v)
		if guard(flags.OverwriteNumber, current == 0, settings.IfMetaValueNotEmpty, meta.TrackNumber > 0) {
			n := int64(meta.TrackNumber)
			plan.Number = &n
		}
	}

	if layout.Has(domain.AttrDuration) && meta.DurationSeconds > 0 {
		d := int64(meta.DurationSeconds)
		plan.Duration = &d
	}

	if err := e.mergeGenres(ctx, plan, episode, meta, settings, flags); err != nil {
		return nil, err
	}
	if err := e.mergeImage(ctx, plan, episode, meta, settings, flags); err != nil {
		return nil, err
	}
	if err := e.mergePubDate(ctx, plan, episode, meta, settings, flags); err != nil {
		return nil, err
	}

	for _, w := range plan.Warnings {
		e.logger.Warn("metadata import", "episode_id", episode.ID, "warning", w)
	}
	return plan, nil
}

// guard is the overwrite rule shared by title and number: write when allowed
// to overwrite or the slot is empty, unless empty metadata values must be
// ignored and this one is empty.
func guard(overwrite, currentEmpty, requireValue, hasValue bool) bool {
	if !overwrite && !currentEmpty {
		return false
	}
	return !requireValue || hasValue
}

func (e *Engine) mergeGenres(ctx context.Context, plan *Plan, episode *domain.Item, meta domain.TagMetadata, settings domain.ImportSettings, flags domain.ImportFlags) error {
	m, err := e.values.Mapping(ctx, episode, domain.ConceptEpisodeGenre)
	if err != nil {
		return err
	}
	field, ok, err := e.values.Field(ctx, m)
	if err != nil || !ok {
		return err
	}
	kind := field.Kind.TaxonomyKind()
	if kind == "" {
		return fmt.Errorf("%w: genre field %s is %s", domain.ErrSchemaMismatch, field.Handle, field.Kind)
	}
	plan.genreMapping = m

	allowCreate := !settings.GenreImportCheck && !flags.Preview
	fromMeta := func() ([]int64, []string, error) {
		return e.genres.Resolve(ctx, meta.Genres, kind, field.GroupID, allowCreate)
	}
	fromDefaults := func() ([]int64, []string, error) {
		return e.genres.Existing(ctx, settings.DefaultGenres, kind, field.GroupID)
	}

	var ids []int64
	var labels []string
	switch settings.GenreImportOption {
	case domain.GenreOnlyMetadata:
		ids, labels, err = fromMeta()
	case domain.GenreOnlyDefault:
		ids, labels, err = fromDefaults()
	case domain.GenreDefaultIfNotMetadata:
		ids, labels, err = fromMeta()
		if err == nil && len(ids) == 0 {
			ids, labels, err = fromDefaults()
		}
	case domain.GenreMetadataAndDefault:
		ids, labels, err = fromMeta()
		if err == nil {
			var defIDs []int64
			var defLabels []string
			defIDs, defLabels, err = fromDefaults()
			for i, id := range defIDs {
				if !slices.Contains(ids, id) {
					ids = append(ids, id)
					labels = append(labels, defLabels[i])
				}
			}
		}
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve genres: %w", err)
	}

	if len(ids) > 0 {
		plan.GenreIDs = ids
		plan.GenreLabels = labels
	}
	return nil
}

func (e *Engine) mergeImage(ctx context.Context, plan *Plan, episode *domain.Item, meta domain.TagMetadata, settings domain.ImportSettings, flags domain.ImportFlags) error {
	m, err := e.values.Mapping(ctx, episode, domain.ConceptEpisodeImage)
	if err != nil || !m.IsSet() {
		return err
	}
	current, err := e.values.Resolve(ctx, episode, m)
	if err != nil {
		return fmt.Errorf("resolve episode image: %w", err)
	}
	if !flags.OverwriteImage && len(domain.ToIDs(current.Value)) > 0 {
		return nil
	}
	plan.imageMapping = m

	useDefault := func() {
		if len(settings.DefaultImage) > 0 {
			plan.Image = &ImagePlan{Source: ImageFromDefault, AssetIDs: settings.DefaultImage}
		}
	}

	switch settings.ImageOption {
	case domain.SourceOnlyDefault:
		useDefault()
	case domain.SourceOnlyMetadata, domain.SourceDefaultIfNotMetadata:
		if img := meta.Image; img != nil && len(img.Data) > 0 {
			plan.Image = &ImagePlan{
				Source: ImageFromMetadata,
				MIME:   img.MIME,
				Size:   len(img.Data),
				data:   img.Data,
				ext:    img.Ext,
			}
		} else if settings.ImageOption == domain.SourceDefaultIfNotMetadata {
			useDefault()
		}
	}
	return nil
}

func (e *Engine) mergePubDate(ctx context.Context, plan *Plan, episode *domain.Item, meta domain.TagMetadata, settings domain.ImportSettings, flags domain.ImportFlags) error {
	m, err := e.values.Mapping(ctx, episode, domain.ConceptEpisodePubDate)
	if err != nil {
		return err
	}

	hasCurrent := episode.PostDate != nil
	if m.IsSet() {
		current, err := e.values.Resolve(ctx, episode, m)
		if err != nil {
			return fmt.Errorf("resolve episode pubdate: %w", err)
		}
		_, hasCurrent = domain.ToTime(current.Value)
	}
	if !flags.OverwritePubDate && hasCurrent {
		return nil
	}
	plan.pubDateMapping = m

	fromMeta := func() *time.Time {
		if !settings.PubDateOption.UsesMetadata() {
			return nil
		}
		year, warning, ok := ParseYear(meta.Year, e.clock.Now())
		if warning != "" {
			plan.warn("%s", warning)
		}
		if !ok {
			return nil
		}
		plan.Year = year
		t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return &t
	}

	switch settings.PubDateOption {
	case domain.SourceOnlyMetadata:
		plan.PubDate = fromMeta()
	case domain.SourceOnlyDefault:
		plan.PubDate = settings.DefaultPubDate
	case domain.SourceDefaultIfNotMetadata:
		if plan.PubDate = fromMeta(); plan.PubDate == nil {
			plan.PubDate = settings.DefaultPubDate
		}
	}
	return nil
}

// Apply writes plan to episode. Metadata images are ingested as new assets;
// an ingestion failure is logged and leaves the image unset.
func (e *Engine) Apply(ctx context.Context, episode *domain.Item, plan *Plan) error {
	if plan.Preview {
		return errors.New("apply preview plan")
	}

	if plan.Title != nil {
		episode.Title = *plan.Title
	}
	if plan.Number != nil {
		episode.SetAttr(domain.AttrEpisodeNumber, *plan.Number)
	}
	if plan.Duration != nil {
		episode.SetAttr(domain.AttrDuration, *plan.Duration)
	}

	if plan.GenreIDs != nil {
		if err := e.values.Write(ctx, episode, plan.genreMapping, plan.GenreIDs); err != nil {
			return fmt.Errorf("write genres: %w", err)
		}
	}

	if img := plan.Image; img != nil {
		switch img.Source {
		case ImageFromDefault:
			if err := e.values.Write(ctx, episode, plan.imageMapping, img.AssetIDs); err != nil {
				return fmt.Errorf("write default image: %w", err)
			}
		case ImageFromMetadata:
			a, err := e.ingestor.Ingest(ctx, asset.Source{Data: img.data, MIME: img.MIME}, asset.Target{
				Item:         episode,
				Mapping:      plan.imageMapping,
				BaseFilename: episode.Slug + "-cover",
				Extension:    img.ext,
			})
			switch {
			case errors.Is(err, domain.ErrInvalidUploadTarget):
				return fmt.Errorf("ingest cover image: %w", err)
			case err != nil:
				e.logger.Warn("cover image not attached", "episode_id", episode.ID, "error", err)
			default:
				img.AssetIDs = []int64{a.ID}
			}
		}
	}

	if plan.PubDate != nil {
		if plan.pubDateMapping.IsSet() {
			if err := e.values.Write(ctx, episode, plan.pubDateMapping, *plan.PubDate); err != nil {
				return fmt.Errorf("write pubdate: %w", err)
			}
		} else {
			t := *plan.PubDate
			episode.PostDate = &t
		}
	}
	return nil
}
