package assetindex

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"podcaster/internal/domain"
	"podcaster/internal/testutil"
)

type SourceTestSuite struct {
	suite.Suite
	assets   *testutil.MemoryAssets
	settings *testutil.MemorySettings
	source   *Source
}

func TestSourceTestSuite(t *testing.T) {
	suite.Run(t, new(SourceTestSuite))
}

func (s *SourceTestSuite) SetupTest() {
	s.assets = testutil.NewMemoryAssets()
	s.settings = testutil.NewMemorySettings()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.source = New(s.assets, s.settings, logger)
}

func (s *SourceTestSuite) job(ids ...int64) *domain.ImportJob {
	return &domain.ImportJob{ID: 3, PodcastID: 8, Source: domain.JobSourceAssetIndex, AssetIDs: ids}
}

func (s *SourceTestSuite) TestRecords_FiltersQualifyingAssets() {
	s.settings.Set(domain.ImportSettings{PodcastID: 8, ImportOnIndex: true, VolumesAllowed: []string{"episodes"}})
	audio := s.assets.Add(&domain.Asset{ID: 1, Volume: "episodes", Kind: domain.AssetAudio, MimeType: "audio/mpeg", Filename: "a.mp3"})
	s.assets.Add(&domain.Asset{ID: 2, Volume: "episodes", Kind: domain.AssetImage, Filename: "a.jpg"})
	s.assets.Add(&domain.Asset{ID: 3, Volume: "scratch", Kind: domain.AssetAudio, Filename: "b.mp3"})

	records, err := s.source.Records(context.Background(), s.job(1, 2, 3, 99))
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("asset-1", records[0].GUID)
	s.Equal("audio/mpeg", records[0].MediaType)
	s.Same(audio, records[0].Asset)
}

func (s *SourceTestSuite) TestRecords_DisabledImportOnIndex() {
	s.settings.Set(domain.ImportSettings{PodcastID: 8, VolumesAllowed: []string{"episodes"}})
	s.assets.Add(&domain.Asset{ID: 1, Volume: "episodes", Kind: domain.AssetAudio})

	records, err := s.source.Records(context.Background(), s.job(1))
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *SourceTestSuite) TestRecords_NoSettings() {
	records, err := s.source.Records(context.Background(), s.job(1))
	s.Require().NoError(err)
	s.Empty(records)
}
