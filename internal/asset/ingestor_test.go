package asset

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"podcaster/internal/domain"
	"podcaster/internal/pathspec"
	"podcaster/internal/testutil"
)

type IngestorTestSuite struct {
	suite.Suite
	ctx      context.Context
	schema   *testutil.MemorySchema
	assets   *testutil.MemoryAssets
	volume   *testutil.MemoryVolume
	resolver *pathspec.Resolver
	ingestor *Ingestor
}

func TestIngestorTestSuite(t *testing.T) {
	suite.Run(t, new(IngestorTestSuite))
}

func (s *IngestorTestSuite) SetupTest() {
	s.ctx = context.Background()
	upload := domain.Upload{Volume: "media", Subpath: "episodes"}
	s.schema = testutil.NewMemorySchema().
		AddField(domain.FieldDescriptor{UID: "f-image", Handle: "image", Kind: domain.FieldAsset, Upload: upload}).
		AddField(domain.FieldDescriptor{UID: "f-orphan", Handle: "orphan", Kind: domain.FieldAsset}).
		AddField(domain.FieldDescriptor{UID: "f-text", Handle: "text", Kind: domain.FieldPlainText}).
		AddField(domain.FieldDescriptor{
			UID: "f-media", Handle: "media", Kind: domain.FieldBlockGrid,
			BlockTypes: []domain.BlockType{{Handle: "audio", Fields: []domain.FieldDescriptor{
				{UID: "f-file", Handle: "file", Kind: domain.FieldAsset, Upload: upload},
				{UID: "f-caption", Handle: "caption", Kind: domain.FieldPlainText},
			}}},
		})
	s.assets = testutil.NewMemoryAssets()
	s.volume = testutil.NewMemoryVolume()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.resolver = pathspec.NewResolver(s.schema, s.assets, s.schema, logger)
	s.ingestor = NewIngestor(s.schema, s.assets, s.assets, Volumes{"media": s.volume}, s.resolver, logger)
}

func (s *IngestorTestSuite) episode() *domain.Item {
	return &domain.Item{Kind: domain.KindEpisode, FormatID: 1, Title: "Ep"}
}

func (s *IngestorTestSuite) TestIngest_Flat() {
	item := s.episode()
	m := domain.Mapping{Field: "f-image", Type: domain.MappingAsset}

	a, err := s.ingestor.Ingest(s.ctx, Source{Data: []byte("\x89PNG\r\n\x1a\n0000")}, Target{
		Item: item, Mapping: m, BaseFilename: "Cover Art!", Extension: "png",
	})
	s.Require().NoError(err)
	s.Equal("Cover-Art.png", a.Filename)
	s.Equal("episodes/Cover-Art.png", a.Path)
	s.Equal("image/png", a.MimeType)
	s.Equal(domain.AssetImage, a.Kind)
	s.Equal("https://cdn.example.com/episodes/Cover-Art.png", a.URL)
	s.Contains(s.volume.Files, "episodes/Cover-Art.png")

	got, err := s.resolver.Resolve(s.ctx, item, m)
	s.Require().NoError(err)
	s.Require().NotNil(got.Asset)
	s.Equal(a.ID, got.Asset.ID)
}

func (s *IngestorTestSuite) TestIngest_NestedSynthesizesBlock() {
	item := s.episode()
	m := domain.Mapping{Field: "f-file", Container: "media-BlockGrid|audio-BlockType", Type: domain.MappingAsset}

	a, err := s.ingestor.Ingest(s.ctx, Source{Data: []byte("ID3"), MIME: "audio/mpeg"}, Target{
		Item: item, Mapping: m, BaseFilename: "episode", Extension: "mp3",
	})
	s.Require().NoError(err)

	c := item.Container("media")
	s.Require().NotNil(c)
	s.Require().Len(c.Blocks, 1)
	s.Equal("new:1", c.Blocks[0].ID)
	s.Equal("audio", c.Blocks[0].Type)
	s.Equal([]int64{a.ID}, c.Blocks[0].Fields["file"])
}

func (s *IngestorTestSuite) TestIngest_NestedMergesIntoExistingBlock() {
	item := s.episode()
	block := &domain.Block{ID: "12", Type: "audio", Fields: map[string]any{"caption": "keep me", "file": []int64{}}}
	item.Containers = map[string]*domain.Container{
		"media": {Handle: "media", Kind: domain.FieldBlockGrid, Blocks: []*domain.Block{block}},
	}
	m := domain.Mapping{Field: "f-file", Container: "media-BlockGrid", Type: domain.MappingAsset}

	a, err := s.ingestor.Ingest(s.ctx, Source{Data: []byte("ID3"), MIME: "audio/mpeg"}, Target{
		Item: item, Mapping: m, BaseFilename: "episode", Extension: "mp3",
	})
	s.Require().NoError(err)
	s.Len(item.Containers["media"].Blocks, 1)
	s.Equal("keep me", block.Fields["caption"])
	s.Equal([]int64{a.ID}, block.Fields["file"])
}

func (s *IngestorTestSuite) TestIngest_FilenameConflicts() {
	item := s.episode()
	m := domain.Mapping{Field: "f-image", Type: domain.MappingAsset}
	target := Target{Item: item, Mapping: m, BaseFilename: "cover", Extension: "jpeg"}

	var names []string
	for range 3 {
		a, err := s.ingestor.Ingest(s.ctx, Source{Data: []byte("x"), MIME: "image/jpeg"}, target)
		s.Require().NoError(err)
		names = append(names, a.Filename)
	}
	s.Equal([]string{"cover.jpg", "cover_1.jpg", "cover_2.jpg"}, names)
}

func (s *IngestorTestSuite) TestIngest_NoFolderIsInvalidTarget() {
	item := s.episode()
	a, err := s.ingestor.Ingest(s.ctx, Source{Data: []byte("x")}, Target{
		Item: item, Mapping: domain.Mapping{Field: "f-orphan"}, BaseFilename: "x", Extension: "png",
	})
	s.Nil(a)
	s.ErrorIs(err, domain.ErrInvalidUploadTarget)
	s.Empty(s.volume.Files)
}

func (s *IngestorTestSuite) TestIngest_FolderResolverErrorIsInvalidTarget() {
	s.assets.FolderErr = errors.New("template failed")
	_, err := s.ingestor.Ingest(s.ctx, Source{Data: []byte("x")}, Target{
		Item: s.episode(), Mapping: domain.Mapping{Field: "f-image"}, BaseFilename: "x", Extension: "png",
	})
	s.ErrorIs(err, domain.ErrInvalidUploadTarget)
}

func (s *IngestorTestSuite) TestIngest_NonAssetFieldIsInvalidTarget() {
	_, err := s.ingestor.Ingest(s.ctx, Source{Data: []byte("x")}, Target{
		Item: s.episode(), Mapping: domain.Mapping{Field: "f-text"}, BaseFilename: "x", Extension: "png",
	})
	s.ErrorIs(err, domain.ErrInvalidUploadTarget)
}

func (s *IngestorTestSuite) TestIngest_UploadFailureAccumulatesError() {
	s.volume.Err = errors.New("bucket unavailable")
	item := s.episode()

	a, err := s.ingestor.Ingest(s.ctx, Source{Data: []byte("x"), MIME: "image/png"}, Target{
		Item: item, Mapping: domain.Mapping{Field: "f-image"}, BaseFilename: "x", Extension: "png",
	})
	s.Error(err)
	s.Require().NotNil(a)
	s.True(a.HasErrors())
	s.Contains(a.Errors[0], "bucket unavailable")
	s.Empty(s.assets.Assets())
	s.Nil(item.Attributes["image"])
}

func (s *IngestorTestSuite) TestIngest_FromTempFile() {
	dir := s.T().TempDir()
	p := filepath.Join(dir, "download.tmp")
	s.Require().NoError(os.WriteFile(p, []byte("ID3\x03\x00"), 0o644))

	a, err := s.ingestor.Ingest(s.ctx, Source{Path: p}, Target{
		Item: s.episode(), Mapping: domain.Mapping{Field: "f-image"}, BaseFilename: "show", Extension: "mp3",
	})
	s.Require().NoError(err)
	s.Equal(int64(5), a.Size)
	s.Equal("audio/mpeg", a.MimeType)
}

func TestCleanFilename(t *testing.T) {
	assert.Equal(t, "My-Episode-01", CleanFilename("  My Episode #01 "))
	assert.Equal(t, "été_2024", CleanFilename("été_2024"))
	assert.Len(t, CleanFilename("???"), 36)

	long := CleanFilename("a" + strings.Repeat("é", 100))
	assert.True(t, utf8.ValidString(long))
	assert.Equal(t, 119, len(long))
	assert.Equal(t, "a"+strings.Repeat("é", 59), long)
}

func TestExpandSubpath(t *testing.T) {
	item := &domain.Item{PodcastID: 12, SiteID: 3, Slug: "Pilot Episode"}
	assert.Equal(t, "12/episodes/pilot-episode", ExpandSubpath("{podcast}/episodes/{slug}", item))
	assert.Equal(t, "site-3", ExpandSubpath("/site-{site}/", item))
	assert.Equal(t, "", ExpandSubpath("", item))
	assert.Equal(t, "etc", ExpandSubpath("../../etc", item))
	assert.Equal(t, "untitled", ExpandSubpath("{slug}", &domain.Item{}))
}

func TestFileSystemVolume_Put(t *testing.T) {
	root := t.TempDir()
	vol, err := NewFileSystemVolume(root, "https://media.example.com/")
	require.NoError(t, err)

	local, url, err := vol.Put(context.Background(), "shows/a.mp3", bytesReader("abc"), 3, "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "shows", "a.mp3"), local)
	assert.Equal(t, "https://media.example.com/shows/a.mp3", url)

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	_, _, err = vol.Put(context.Background(), "shows/a.mp3", bytesReader("again"), 5, "audio/mpeg")
	assert.Error(t, err)

	_, _, err = vol.Put(context.Background(), "../escape.mp3", bytesReader("x"), 1, "")
	assert.Error(t, err)
}

func bytesReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
