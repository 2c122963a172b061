package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"podcaster/internal/asset"
	"podcaster/internal/domain"
	"podcaster/internal/importer"
)

const maxReportedErrors = 50

type ImportConfig struct {
	MediaTimeout time.Duration
	ImageTimeout time.Duration
}

// ProgressFunc is called after every processed record.
type ProgressFunc func(step, total int)

// ImportService creates episodes from a batch of source records. Records are
// processed one at a time in source order.
type ImportService struct {
	sources    map[domain.JobSource]RecordSource
	content    ContentStore
	saver      Saver
	settings   SettingsStore
	values     ValueResolver
	layouts    LayoutLookup
	downloader Downloader
	ingestor   AssetIngestor
	extractor  MetadataExtractor
	engine     MergeEngine
	terms      TermResolver
	clock      Clock
	cfg        ImportConfig
	logger     *slog.Logger
}

func NewImportService(
	sources []RecordSource,
	content ContentStore,
	saver Saver,
	settings SettingsStore,
	values ValueResolver,
	layouts LayoutLookup,
	downloader Downloader,
	ingestor AssetIngestor,
	extractor MetadataExtractor,
	engine MergeEngine,
	terms TermResolver,
	clock Clock,
	cfg ImportConfig,
	logger *slog.Logger,
) *ImportService {
	bySource := make(map[domain.JobSource]RecordSource, len(sources))
	for _, src := range sources {
		bySource[src.Kind()] = src
	}
	return &ImportService{
		sources:    bySource,
		content:    content,
		saver:      saver,
		settings:   settings,
		values:     values,
		layouts:    layouts,
		downloader: downloader,
		ingestor:   ingestor,
		extractor:  extractor,
		engine:     engine,
		terms:      terms,
		clock:      clock,
		cfg:        cfg,
		logger:     logger.With("component", "import"),
	}
}

type outcome int

const (
	outcomeImported outcome = iota
	outcomeSkipped
)

// importRun carries what every record of one job needs.
type importRun struct {
	job      *domain.ImportJob
	podcast  *domain.Item
	layout   domain.Layout
	settings domain.ImportSettings
	logger   *slog.Logger
}

// Run imports the job's records. An error means the job could not run to the
// end: its source failed to load or ctx was cancelled. Per record failures
// are counted in the stats instead.
func (s *ImportService) Run(ctx context.Context, job *domain.ImportJob, progress ProgressFunc) (*domain.ImportStats, error) {
	start := s.clock.Now()
	logger := s.logger.With("job_id", job.ID, "podcast_id", job.PodcastID, "source", job.Source)

	run, records, err := s.prepare(ctx, job, logger)
	if err != nil {
		return nil, err
	}

	total := len(records)
	if job.Limit > 0 && job.Limit < total {
		total = job.Limit
	}
	stats := &domain.ImportStats{Total: total}
	logger.Info("starting import", "records", len(records), "limit", job.Limit)

	for step := 1; step <= total; step++ {
		if err := ctx.Err(); err != nil {
			stats.Duration = s.clock.Now().Sub(start)
			return stats, fmt.Errorf("import interrupted at %d of %d: %w", step-1, total, err)
		}

		rec := records[step-1]
		res, err := s.importRecord(ctx, run, rec)
		switch {
		case err != nil:
			stats.Failed++
			if len(stats.Errors) < maxReportedErrors {
				stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", recordLabel(rec), err))
			}
			logger.Warn("record failed", "guid", rec.GUID, "error", err)
		case res == outcomeSkipped:
			stats.Skipped++
		default:
			stats.Imported++
		}

		if progress != nil {
			progress(step, total)
		}
	}

	stats.Duration = s.clock.Now().Sub(start)
	logger.Info("import completed",
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"duration", stats.Duration,
	)
	return stats, nil
}

func (s *ImportService) prepare(ctx context.Context, job *domain.ImportJob, logger *slog.Logger) (*importRun, []domain.SourceRecord, error) {
	src, ok := s.sources[job.Source]
	if !ok {
		return nil, nil, fmt.Errorf("unknown import source %q", job.Source)
	}

	podcast, err := s.content.ItemByID(ctx, job.PodcastID, job.SiteID)
	if err != nil {
		return nil, nil, fmt.Errorf("load podcast %d: %w", job.PodcastID, err)
	}
	if podcast.Kind != domain.KindPodcast {
		return nil, nil, fmt.Errorf("item %d is not a podcast: %w", job.PodcastID, domain.ErrNotFound)
	}

	layout, err := s.layouts.LayoutOf(ctx, domain.KindEpisode, podcast.FormatID)
	if err != nil {
		return nil, nil, fmt.Errorf("load episode layout: %w", err)
	}

	settings, err := s.settings.ImportSettings(ctx, podcast.ID)
	if errors.Is(err, domain.ErrNotFound) {
		settings = domain.ImportSettings{PodcastID: podcast.ID}
	} else if err != nil {
		return nil, nil, fmt.Errorf("load import settings: %w", err)
	}

	records, err := src.Records(ctx, job)
	if err != nil {
		return nil, nil, fmt.Errorf("load records: %w", err)
	}

	if !layout.Has(domain.AttrEpisodeGUID) {
		logger.Warn("episode GUID is not enabled, matching existing episodes by title")
	}
	return &importRun{job: job, podcast: podcast, layout: layout, settings: settings, logger: logger}, records, nil
}

func (s *ImportService) importRecord(ctx context.Context, run *importRun, rec domain.SourceRecord) (outcome, error) {
	_, err := s.existing(ctx, run, rec)
	if err == nil {
		run.logger.Debug("episode exists, skipping", "guid", rec.GUID, "title", recordLabel(rec))
		return outcomeSkipped, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("check duplicate: %w", err)
	}

	ep := domain.NewEpisode(run.podcast)
	ep.Title = recordLabel(rec)
	ep.Slug = strings.ToLower(asset.CleanFilename(ep.Title))
	ep.PostDate = rec.PubDate

	s.applyNatives(ep, run, rec)
	if err := s.applyMapped(ctx, ep, rec); err != nil {
		return 0, err
	}
	if err := s.attachMedia(ctx, ep, run, rec); err != nil {
		return 0, err
	}
	if rec.ImageURL != "" {
		if err := s.attachRemote(ctx, ep, run, domain.ConceptEpisodeImage, rec.ImageURL, "", s.cfg.ImageTimeout, ep.Slug+"-cover"); err != nil {
			return 0, err
		}
	}

	if err := s.saver.Save(ctx, ep); err != nil {
		return 0, fmt.Errorf("save episode: %w", err)
	}
	run.logger.Debug("episode imported", "episode_id", ep.ID, "guid", rec.GUID)
	return outcomeImported, nil
}

// existing finds an episode already imported from rec. GUIDs are only stored
// when the layout enables them, so without one episodes are matched by title.
func (s *ImportService) existing(ctx context.Context, run *importRun, rec domain.SourceRecord) (*domain.Item, error) {
	if run.layout.Has(domain.AttrEpisodeGUID) {
		if rec.GUID == "" {
			return nil, domain.ErrNotFound
		}
		return s.content.EpisodeByGUID(ctx, run.podcast.ID, rec.GUID)
	}
	return s.content.EpisodeByTitle(ctx, run.podcast.ID, recordLabel(rec))
}

// applyNatives sets native attributes the episode layout enables.
func (s *ImportService) applyNatives(ep *domain.Item, run *importRun, rec domain.SourceRecord) {
	set := func(handle string, v any) {
		if run.layout.Has(handle) {
			ep.SetAttr(handle, v)
		}
	}

	if rec.GUID != "" {
		set(domain.AttrEpisodeGUID, rec.GUID)
	}
	if rec.Explicit != nil {
		set(domain.AttrEpisodeExplicit, *rec.Explicit)
	}
	if rec.Block != nil {
		set(domain.AttrEpisodeBlock, *rec.Block)
	}
	if rec.Number != nil {
		set(domain.AttrEpisodeNumber, int64(*rec.Number))
	}
	if rec.Season != nil {
		set(domain.AttrEpisodeSeason, int64(*rec.Season))
	}
	if rec.EpisodeType != "" {
		set(domain.AttrEpisodeType, rec.EpisodeType)
	}
	if rec.Duration != "" {
		seconds, err := importer.ParseDuration(rec.Duration)
		if err != nil {
			run.logger.Warn("ignoring duration", "guid", rec.GUID, "error", err)
		} else {
			set(domain.AttrDuration, seconds)
		}
	}
}

type conceptValue struct {
	concept domain.Concept
	value   any
	// terms are the titles written when the concept is bound to a relation field.
	terms []string
}

// applyMapped writes record values to the concepts bound for the format.
// Keywords bound to a relation field become taxonomy items, created when
// missing.
func (s *ImportService) applyMapped(ctx context.Context, ep *domain.Item, rec domain.SourceRecord) error {
	values := []conceptValue{
		{concept: domain.ConceptEpisodeSubtitle, value: rec.Subtitle},
		{concept: domain.ConceptEpisodeSummary, value: rec.Summary},
		{concept: domain.ConceptEpisodeDescription, value: rec.Description},
		{concept: domain.ConceptEpisodeContent, value: rec.Content},
		{concept: domain.ConceptEpisodeKeywords, value: strings.Join(rec.Keywords, ", "), terms: rec.Keywords},
	}
	if rec.PubDate != nil {
		values = append(values, conceptValue{concept: domain.ConceptEpisodePubDate, value: *rec.PubDate})
	}

	for _, v := range values {
		if domain.IsEmpty(v.value) {
			continue
		}
		m, err := s.values.Mapping(ctx, ep, v.concept)
		if err != nil {
			return err
		}
		field, ok, err := s.values.Field(ctx, m)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if field.Kind.IsTaxonomy() {
			if err := s.applyTerms(ctx, ep, m, field, v); err != nil {
				return err
			}
			continue
		}
		if err := s.values.Write(ctx, ep, m, v.value); err != nil {
			return fmt.Errorf("write %s: %w", v.concept, err)
		}
	}
	return nil
}

func (s *ImportService) applyTerms(ctx context.Context, ep *domain.Item, m domain.Mapping, field domain.FieldDescriptor, v conceptValue) error {
	if len(v.terms) == 0 {
		return nil
	}
	ids, _, err := s.terms.Resolve(ctx, v.terms, field.Kind.TaxonomyKind(), field.GroupID, true)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", v.concept, err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.values.Write(ctx, ep, m, ids); err != nil {
		return fmt.Errorf("write %s: %w", v.concept, err)
	}
	return nil
}

// attachMedia links the record's audio. Indexed assets are referenced as they
// are and their tags merged; remote media is downloaded and ingested.
func (s *ImportService) attachMedia(ctx context.Context, ep *domain.Item, run *importRun, rec domain.SourceRecord) error {
	if rec.Asset == nil {
		if rec.MediaURL != "" {
			return s.attachRemote(ctx, ep, run, domain.ConceptMainAsset, rec.MediaURL, rec.MediaType, s.cfg.MediaTimeout, ep.Slug)
		}
		return nil
	}

	m, err := s.values.Mapping(ctx, ep, domain.ConceptMainAsset)
	if err != nil {
		return err
	}
	if !m.IsSet() {
		return fmt.Errorf("main asset is not mapped: %w", domain.ErrSchemaMismatch)
	}
	if err := s.values.Write(ctx, ep, m, []int64{rec.Asset.ID}); err != nil {
		return fmt.Errorf("attach indexed asset: %w", err)
	}

	origin, location := rec.Asset.Location()
	meta, err := s.extractor.Analyze(ctx, origin, location)
	if err != nil {
		run.logger.Warn("metadata extraction incomplete", "asset_id", rec.Asset.ID, "error", err)
	}
	plan, err := s.engine.Merge(ctx, ep, meta, run.settings, domain.ImportFlags{})
	if err != nil {
		return fmt.Errorf("merge metadata: %w", err)
	}
	if err := s.engine.Apply(ctx, ep, plan); err != nil {
		return fmt.Errorf("apply metadata: %w", err)
	}
	return nil
}

// attachRemote downloads url and ingests it for concept. Fetch and storage
// failures are logged and leave the concept unset. An unusable upload target
// is returned.
func (s *ImportService) attachRemote(ctx context.Context, ep *domain.Item, run *importRun, concept domain.Concept, url, mimeType string, timeout time.Duration, base string) error {
	logger := run.logger.With("concept", concept, "url", url)

	m, err := s.values.Mapping(ctx, ep, concept)
	if err != nil || !m.IsSet() {
		logger.Debug("concept not mapped, skipping download", "error", err)
		return nil
	}

	dl, err := s.downloader.Download(ctx, url, timeout)
	if err != nil {
		logger.Warn("download failed", "error", err)
		return nil
	}
	defer func() {
		if err := dl.Remove(); err != nil {
			logger.Warn("failed to remove temp file", "path", dl.Path, "error", err)
		}
	}()

	if mimeType == "" {
		mimeType = dl.ContentType
	}
	a, err := s.ingestor.Ingest(ctx, asset.Source{Path: dl.Path, MIME: mimeType}, asset.Target{
		Item:         ep,
		Mapping:      m,
		BaseFilename: base,
		Extension:    extension(url, mimeType),
	})
	if errors.Is(err, domain.ErrInvalidUploadTarget) {
		return fmt.Errorf("attach %s: %w", concept, err)
	}
	if err != nil {
		logger.Warn("ingest failed", "error", err)
		return nil
	}
	logger.Debug("remote file attached", "asset_id", a.ID)
	return nil
}

func extension(rawURL, mimeType string) string {
	p := rawURL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if ext := strings.TrimPrefix(path.Ext(p), "."); ext != "" && len(ext) <= 5 {
		return ext
	}
	if mimeType != "" {
		if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
			return strings.TrimPrefix(exts[0], ".")
		}
	}
	return ""
}

func recordLabel(rec domain.SourceRecord) string {
	switch {
	case strings.TrimSpace(rec.Title) != "":
		return strings.TrimSpace(rec.Title)
	case rec.Asset != nil:
		return strings.TrimSuffix(rec.Asset.Filename, path.Ext(rec.Asset.Filename))
	case rec.GUID != "":
		return rec.GUID
	}
	return "Untitled episode"
}
