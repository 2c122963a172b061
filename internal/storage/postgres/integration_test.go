//go:build integration

package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"podcaster/internal/domain"
	"podcaster/internal/pathspec"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_content.up.sql"),
			filepath.Join(migrationsPath, "002_create_podcast_settings.up.sql"),
			filepath.Join(migrationsPath, "003_create_assets.up.sql"),
			filepath.Join(migrationsPath, "004_create_import_jobs.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := Connect(s.ctx, connStr, PoolConfig{MaxOpenConns: 5})
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	for _, table := range []string{"import_jobs", "assets", "folders", "taxonomy_terms", "import_settings", "mappings", "items", "layouts", "fields"} {
		_, err := s.db.ExecContext(s.ctx, "DELETE FROM "+table)
		s.Require().NoError(err)
	}
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) podcast(store *ContentStore) *domain.Item {
	now := time.Now().UTC().Truncate(time.Microsecond)
	p := &domain.Item{
		Kind: domain.KindPodcast, FormatID: 1, SiteID: 1, Title: "Night Sky",
		Enabled: true, SiteEnabled: true, CreatedAt: now, UpdatedAt: now,
	}
	s.Require().NoError(store.Create(s.ctx, p))
	return p
}

func (s *PostgresIntegrationSuite) TestContentStore_PodcastOwnsItself() {
	store := NewContentStore(s.db)
	p := s.podcast(store)

	s.Greater(p.ID, int64(0))
	s.Equal(p.ID, p.PodcastID)

	got, err := store.ItemByID(s.ctx, p.ID, 0)
	s.Require().NoError(err)
	s.Equal(p.ID, got.PodcastID)
	s.Equal(domain.KindPodcast, got.Kind)
}

func (s *PostgresIntegrationSuite) TestContentStore_EpisodeRoundTrip() {
	store := NewContentStore(s.db)
	p := s.podcast(store)

	posted := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	ep := domain.NewEpisode(p)
	ep.Title = "Pilot"
	ep.PostDate = &posted
	ep.CreatedAt, ep.UpdatedAt = posted, posted
	ep.SetAttr(domain.AttrDuration, int64(3723))
	ep.SetAttr(domain.AttrEpisodeGUID, "g-1")
	ep.SetAttr("audio", []int64{9007199254740993})
	ep.EnsureContainer("extras", domain.FieldBlockGrid).Blocks = []*domain.Block{
		{ID: "new:1", Type: "artwork", Fields: map[string]any{"cover": []int64{7}}},
	}
	s.Require().NoError(store.Create(s.ctx, ep))
	s.NotEqual("new:1", ep.Container("extras").Blocks[0].ID)

	got, err := store.ItemByID(s.ctx, ep.ID, 1)
	s.Require().NoError(err)
	s.Equal("Pilot", got.Title)
	s.False(got.SiteEnabled)
	s.Require().NotNil(got.PostDate)
	s.True(posted.Equal(*got.PostDate))

	duration, ok := domain.ToInt64(got.Attributes[domain.AttrDuration])
	s.True(ok)
	s.Equal(int64(3723), duration)
	s.Equal([]int64{9007199254740993}, domain.ToIDs(got.Attributes["audio"]))

	blocks := got.Container("extras").Blocks
	s.Require().Len(blocks, 1)
	s.Equal(ep.Container("extras").Blocks[0].ID, blocks[0].ID)
	s.Equal([]int64{7}, domain.ToIDs(blocks[0].Fields["cover"]))

	_, err = store.ItemByID(s.ctx, ep.ID, 2)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestContentStore_EpisodeByGUIDAndList() {
	store := NewContentStore(s.db)
	p := s.podcast(store)

	for _, guid := range []string{"a", "b"} {
		ep := domain.NewEpisode(p)
		ep.Title = guid
		ep.SetAttr(domain.AttrEpisodeGUID, guid)
		s.Require().NoError(store.Create(s.ctx, ep))
	}

	ep, err := store.EpisodeByGUID(s.ctx, p.ID, "b")
	s.Require().NoError(err)
	s.Equal("b", ep.Title)

	_, err = store.EpisodeByGUID(s.ctx, p.ID, "zzz")
	s.ErrorIs(err, domain.ErrNotFound)

	ep, err = store.EpisodeByTitle(s.ctx, p.ID, "a")
	s.Require().NoError(err)
	s.Equal("a", ep.AttrString(domain.AttrEpisodeGUID))
	_, err = store.EpisodeByTitle(s.ctx, p.ID+1, "a")
	s.ErrorIs(err, domain.ErrNotFound)

	episodes, err := store.EpisodesOf(s.ctx, p.ID, 1)
	s.Require().NoError(err)
	s.Len(episodes, 2)
}

func (s *PostgresIntegrationSuite) TestContentStore_UpdateMissing() {
	err := NewContentStore(s.db).Update(s.ctx, &domain.Item{ID: 4242, Kind: domain.KindEpisode, Title: "x"})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestSchemaStore_FieldsLayoutsMappings() {
	store := NewSchemaStore(s.db)

	grid := domain.FieldDescriptor{
		UID: "f-chapters", Handle: "chapters", Kind: domain.FieldBlockGrid,
		BlockTypes: []domain.BlockType{{Handle: "audio", Fields: []domain.FieldDescriptor{
			{UID: "f-file", Handle: "file", Kind: domain.FieldAsset, Upload: domain.Upload{Volume: "media", Subpath: "{podcast}"}},
		}}},
	}
	s.Require().NoError(store.PutField(s.ctx, grid))

	top, err := store.FieldByHandle(s.ctx, "chapters")
	s.Require().NoError(err)
	s.Equal(grid, top)

	nested, err := store.FieldByRef(s.ctx, "f-file")
	s.Require().NoError(err)
	s.Equal("media", nested.Upload.Volume)

	_, err = store.FieldByHandle(s.ctx, "file")
	s.ErrorIs(err, domain.ErrNotFound)

	layout, err := store.LayoutOf(s.ctx, domain.KindEpisode, 1)
	s.Require().NoError(err)
	s.Empty(layout.Handles)

	s.Require().NoError(store.PutLayout(s.ctx, domain.Layout{Kind: domain.KindEpisode, FormatID: 1, Handles: []string{domain.AttrDuration}}))
	layout, err = store.LayoutOf(s.ctx, domain.KindEpisode, 1)
	s.Require().NoError(err)
	s.True(layout.Has(domain.AttrDuration))

	m := domain.Mapping{Concept: domain.ConceptMainAsset, Type: domain.MappingAsset, Container: "chapters-BlockGrid|audio-BlockType", Field: "f-file"}
	s.Require().NoError(store.PutMapping(s.ctx, 1, m))

	got, err := store.Mapping(s.ctx, 1, domain.ConceptMainAsset)
	s.Require().NoError(err)
	s.Equal(m, got)

	_, err = store.Mapping(s.ctx, 2, domain.ConceptMainAsset)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestResolver_AgainstStores() {
	schema := NewSchemaStore(s.db)
	assets := NewAssetStore(s.db)
	content := NewContentStore(s.db)

	s.Require().NoError(schema.PutField(s.ctx, domain.FieldDescriptor{UID: "f-summary", Handle: "summary", Kind: domain.FieldPlainText}))
	s.Require().NoError(schema.PutMapping(s.ctx, 1, domain.Mapping{Concept: domain.ConceptEpisodeSummary, Type: domain.MappingText, Field: "f-summary"}))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	resolver := pathspec.NewResolver(schema, assets, schema, logger)
	p := s.podcast(content)
	ep := domain.NewEpisode(p)
	ep.Title = "Ep"
	s.Require().NoError(resolver.WriteConcept(s.ctx, ep, domain.ConceptEpisodeSummary, "Stored summary"))
	s.Require().NoError(content.Create(s.ctx, ep))

	loaded, err := content.ItemByID(s.ctx, ep.ID, 0)
	s.Require().NoError(err)
	res, err := resolver.ResolveConcept(s.ctx, loaded, domain.ConceptEpisodeSummary)
	s.Require().NoError(err)
	s.Equal("Stored summary", res.String())
}

func (s *PostgresIntegrationSuite) TestSettingsStore() {
	store := NewSettingsStore(s.db)

	_, err := store.ImportSettings(s.ctx, 5)
	s.ErrorIs(err, domain.ErrNotFound)

	want := domain.ImportSettings{
		PodcastID:         5,
		GenreImportOption: domain.GenreMetadataAndDefault,
		DefaultGenres:     []int64{3, 4},
		VolumesAllowed:    []string{"media"},
		ImportOnIndex:     true,
	}
	s.Require().NoError(store.PutImportSettings(s.ctx, want))

	got, err := store.ImportSettings(s.ctx, 5)
	s.Require().NoError(err)
	s.Equal(want, got)
}

func (s *PostgresIntegrationSuite) TestTaxonomyStore_CreateIsIdempotent() {
	store := NewTaxonomyStore(s.db)

	first, err := store.Create(s.ctx, domain.TaxonomyCategory, 7, "Comedy")
	s.Require().NoError(err)
	again, err := store.Create(s.ctx, domain.TaxonomyCategory, 7, "Comedy")
	s.Require().NoError(err)
	s.Equal(first.ID, again.ID)

	child, err := store.CreateChild(s.ctx, first, "Improv")
	s.Require().NoError(err)
	s.Require().NotNil(child.ParentID)
	s.Equal(first.ID, *child.ParentID)

	found, err := store.FindByID(s.ctx, domain.TaxonomyCategory, 0, child.ID)
	s.Require().NoError(err)
	s.Equal("Improv", found.Title)

	_, err = store.FindByID(s.ctx, domain.TaxonomyCategory, 8, child.ID)
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = store.FindByTitle(s.ctx, domain.TaxonomyTag, 7, "Comedy")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestAssetStore_FolderAndFilenames() {
	store := NewAssetStore(s.db)
	field := domain.FieldDescriptor{Handle: "audio", Kind: domain.FieldAsset, Upload: domain.Upload{Volume: "media", Subpath: "{podcast}/episodes"}}
	item := &domain.Item{PodcastID: 12, Slug: "pilot"}

	folder, err := store.ResolveUploadFolder(s.ctx, field, item)
	s.Require().NoError(err)
	s.Equal("12/episodes", folder.Path)

	same, err := store.ResolveUploadFolder(s.ctx, field, item)
	s.Require().NoError(err)
	s.Equal(folder.ID, same.ID)

	a := &domain.Asset{Volume: "media", FolderID: folder.ID, Filename: "pilot.mp3", Kind: domain.AssetAudio, MimeType: "audio/mpeg", Size: 10, Path: "12/episodes/pilot.mp3"}
	s.Require().NoError(store.CreateAsset(s.ctx, a))
	s.Greater(a.ID, int64(0))

	taken, err := store.FilenameTaken(s.ctx, folder.ID, "pilot.mp3")
	s.Require().NoError(err)
	s.True(taken)
	taken, err = store.FilenameTaken(s.ctx, folder.ID, "pilot_1.mp3")
	s.Require().NoError(err)
	s.False(taken)

	got, err := store.AssetByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(domain.AssetAudio, got.Kind)

	_, err = store.ResolveUploadFolder(s.ctx, domain.FieldDescriptor{Handle: "x"}, item)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestJobStore_Lifecycle() {
	store := NewJobStore(s.db, time.Hour)
	now := time.Now().UTC().Truncate(time.Microsecond)

	first := &domain.ImportJob{PodcastID: 1, Source: domain.JobSourceRSS, FeedURL: "https://example.com/a.xml", Limit: 5}
	second := &domain.ImportJob{PodcastID: 2, Source: domain.JobSourceAssetIndex, AssetIDs: []int64{4, 5}}
	s.Require().NoError(store.Enqueue(s.ctx, first))
	s.Require().NoError(store.Enqueue(s.ctx, second))

	claimed, err := store.ClaimNext(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(first.ID, claimed.ID)
	s.Equal(domain.JobRunning, claimed.Status)
	s.Equal(5, claimed.Limit)

	s.Require().NoError(store.UpdateProgress(s.ctx, claimed.ID, 2, 5))

	claimed.Status = domain.JobFailed
	claimed.Step, claimed.Total = 2, 5
	claimed.Stats = domain.ImportStats{Total: 5, Imported: 2, Errors: []string{"boom"}}
	claimed.FinishedAt = &now
	s.Require().NoError(store.Finish(s.ctx, claimed))

	got, err := store.Job(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Equal(domain.JobFailed, got.Status)
	s.Equal(2, got.Stats.Imported)
	s.Equal([]string{"boom"}, got.Stats.Errors)

	next, err := store.ClaimNext(s.ctx, now)
	s.Require().NoError(err)
	s.Equal([]int64{4, 5}, next.AssetIDs)

	_, err = store.ClaimNext(s.ctx, now)
	s.ErrorIs(err, domain.ErrNotFound)

	s.Require().NoError(store.Retry(s.ctx, first.ID))
	s.ErrorIs(store.Retry(s.ctx, first.ID), domain.ErrNotFound)

	requeued, err := store.ClaimNext(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(first.ID, requeued.ID)
	s.Zero(requeued.Step)
}

func (s *PostgresIntegrationSuite) TestJobStore_RetryStaleRunningJob() {
	store := NewJobStore(s.db, time.Hour)

	job := &domain.ImportJob{PodcastID: 1, Source: domain.JobSourceRSS, FeedURL: "https://example.com/feed.xml"}
	s.Require().NoError(store.Enqueue(s.ctx, job))

	_, err := store.ClaimNext(s.ctx, time.Now().UTC())
	s.Require().NoError(err)
	s.ErrorIs(store.Retry(s.ctx, job.ID), domain.ErrNotFound)

	_, err = s.db.ExecContext(s.ctx, `UPDATE import_jobs SET started_at = now() - interval '2 hours' WHERE id = $1`, job.ID)
	s.Require().NoError(err)
	s.Require().NoError(store.Retry(s.ctx, job.ID))

	got, err := store.Job(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(domain.JobQueued, got.Status)
	s.Nil(got.StartedAt)

	s.ErrorIs(NewJobStore(s.db, 0).Retry(s.ctx, job.ID), domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)
	store := NewContentStore(s.db)

	var id int64
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		p := &domain.Item{Kind: domain.KindPodcast, Title: "Committed"}
		if err := store.Create(ctx, p); err != nil {
			return err
		}
		id = p.ID
		return nil
	})
	s.Require().NoError(err)

	_, err = store.ItemByID(s.ctx, id, 0)
	s.NoError(err)
}

func (s *PostgresIntegrationSuite) TestTransaction_Rollback() {
	tm := NewTransactionManager(s.db)
	store := NewContentStore(s.db)
	boom := errors.New("boom")

	var id int64
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		p := &domain.Item{Kind: domain.KindPodcast, Title: "Rolled back"}
		if err := store.Create(ctx, p); err != nil {
			return err
		}
		id = p.ID
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = store.ItemByID(s.ctx, id, 0)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestTransaction_Nested() {
	tm := NewTransactionManager(s.db)
	store := NewContentStore(s.db)

	var id int64
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		outer := GetTxFromContext(ctx)
		return tm.WithTransaction(ctx, func(inner context.Context) error {
			s.Same(outer, GetTxFromContext(inner))
			p := &domain.Item{Kind: domain.KindPodcast, Title: "Nested"}
			if err := store.Create(inner, p); err != nil {
				return err
			}
			id = p.ID
			return nil
		})
	})
	s.Require().NoError(err)

	_, err = store.ItemByID(s.ctx, id, 0)
	s.NoError(err)
}
