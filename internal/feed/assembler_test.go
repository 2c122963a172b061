package feed

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/suite"

	"podcaster/internal/domain"
	"podcaster/internal/pathspec"
	"podcaster/internal/testutil"
)

const (
	podcastFormat  = 1
	episodeFormat  = 2
	categoryGroup  = 4
	podcastID      = 1
	siteID         = 1
	feedCacheTTL   = time.Hour
	feedCacheLimit = 16
)

type AssemblerTestSuite struct {
	suite.Suite
	ctx       context.Context
	clock     *testutil.StubClock
	content   *testutil.MemoryContent
	assets    *testutil.MemoryAssets
	taxonomy  *testutil.MemoryTaxonomy
	assembler *Assembler
	podcast   *domain.Item
	audio     *domain.Asset
	nextEp    int64
}

func TestAssemblerTestSuite(t *testing.T) {
	suite.Run(t, new(AssemblerTestSuite))
}

func (s *AssemblerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = testutil.FixedClock()
	s.content = testutil.NewMemoryContent()
	s.assets = testutil.NewMemoryAssets()
	s.taxonomy = testutil.NewMemoryTaxonomy()
	s.nextEp = 10

	schema := testutil.NewMemorySchema().
		AddField(domain.FieldDescriptor{UID: "f-pdesc", Handle: "about", Kind: domain.FieldRichText}).
		AddField(domain.FieldDescriptor{UID: "f-pimage", Handle: "artwork", Kind: domain.FieldAsset}).
		AddField(domain.FieldDescriptor{UID: "f-pcat", Handle: "categories", Kind: domain.FieldCategories, GroupID: categoryGroup}).
		AddField(domain.FieldDescriptor{UID: "f-media", Handle: "media", Kind: domain.FieldAsset}).
		AddField(domain.FieldDescriptor{UID: "f-release", Handle: "release", Kind: domain.FieldDate}).
		AddField(domain.FieldDescriptor{UID: "f-kw", Handle: "keywords", Kind: domain.FieldPlainText}).
		AddField(domain.FieldDescriptor{
			UID: "f-notes", Handle: "notes", Kind: domain.FieldBlockGrid,
			BlockTypes: []domain.BlockType{{Handle: "text", Fields: []domain.FieldDescriptor{
				{UID: "f-esummary", Handle: "summary", Kind: domain.FieldRichText},
			}}},
		}).
		SetMapping(podcastFormat, domain.Mapping{Concept: domain.ConceptPodcastDescription, Type: domain.MappingText, Field: "f-pdesc"}).
		SetMapping(podcastFormat, domain.Mapping{Concept: domain.ConceptPodcastImage, Type: domain.MappingAsset, Field: "f-pimage"}).
		SetMapping(podcastFormat, domain.Mapping{Concept: domain.ConceptPodcastCategory, Type: domain.MappingTaxonomy, Field: "f-pcat"}).
		SetMapping(episodeFormat, domain.Mapping{Concept: domain.ConceptMainAsset, Type: domain.MappingAsset, Field: "f-media"}).
		SetMapping(episodeFormat, domain.Mapping{Concept: domain.ConceptEpisodePubDate, Type: domain.MappingDate, Field: "f-release"}).
		SetMapping(episodeFormat, domain.Mapping{Concept: domain.ConceptEpisodeKeywords, Type: domain.MappingText, Field: "f-kw"}).
		SetMapping(episodeFormat, domain.Mapping{Concept: domain.ConceptEpisodeSummary, Type: domain.MappingText, Container: "notes-BlockGrid|text-BlockType", Field: "f-esummary"})

	s.audio = s.assets.Add(&domain.Asset{Filename: "ep.mp3", MimeType: "audio/mpeg", Size: 4096, URL: "https://cdn.example.com/ep.mp3"})
	cover := s.assets.Add(&domain.Asset{Filename: "cover.jpg", MimeType: "image/jpeg", URL: "https://cdn.example.com/cover.jpg"})

	tech := s.taxonomy.Seed(domain.TaxonomyCategory, categoryGroup, "Technology", nil)
	podcasting := s.taxonomy.Seed(domain.TaxonomyCategory, categoryGroup, "Podcasting", &tech.ID)
	news := s.taxonomy.Seed(domain.TaxonomyCategory, categoryGroup, "News", nil)

	s.podcast = s.content.Put(&domain.Item{
		ID: podcastID, Kind: domain.KindPodcast, FormatID: podcastFormat, SiteID: siteID,
		Title: "The Show", Enabled: true, SiteEnabled: true,
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Attributes: map[string]any{
			domain.AttrAuthorName:      "Jo",
			domain.AttrOwnerName:       "Jo",
			domain.AttrOwnerEmail:      "jo@example.com",
			domain.AttrPodcastExplicit: false,
			domain.AttrLanguage:        "en",
			domain.AttrLink:            "https://show.example.com",
			"about":                    "<p>All about <em>things</em></p>",
			"artwork":                  []int64{cover.ID},
			"categories":               []int64{podcasting.ID, news.ID},
		},
	})

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	values := pathspec.NewResolver(schema, s.assets, schema, logger)
	cache, err := NewCache[*Document](feedCacheLimit, feedCacheTTL, s.clock)
	s.Require().NoError(err)
	s.assembler = NewAssembler(s.content, values, s.taxonomy, cache, s.clock, Config{BaseURL: "https://feeds.example.com"}, logger)
}

func (s *AssemblerTestSuite) addEpisode(title string, release time.Time, mutate ...func(*domain.Item)) *domain.Item {
	s.nextEp++
	ep := &domain.Item{
		ID: s.nextEp, Kind: domain.KindEpisode, FormatID: episodeFormat, PodcastID: podcastID, SiteID: siteID,
		Title: title, Enabled: true, SiteEnabled: true,
		UpdatedAt: release,
		Attributes: map[string]any{
			"media":   []int64{s.audio.ID},
			"release": release,
		},
	}
	for _, m := range mutate {
		m(ep)
	}
	return s.content.Put(ep)
}

func (s *AssemblerTestSuite) parse() *gofeed.Feed {
	res, err := s.assembler.Feed(s.ctx, Request{PodcastID: podcastID, SiteID: siteID})
	s.Require().NoError(err)
	s.Require().NotNil(res.Document)
	f, err := gofeed.NewParser().ParseString(string(res.Document.Body))
	s.Require().NoError(err)
	return f
}

func titles(f *gofeed.Feed) []string {
	out := make([]string, 0, len(f.Items))
	for _, it := range f.Items {
		out = append(out, it.Title)
	}
	return out
}

func (s *AssemblerTestSuite) TestChannel() {
	s.addEpisode("One", time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC))
	f := s.parse()

	s.Equal("The Show", f.Title)
	s.Equal("https://show.example.com", f.Link)
	s.Equal("en", f.Language)
	s.Equal("<p>All about <em>things</em></p>", f.Description)
	s.Require().NotNil(f.ITunesExt)
	s.Equal("Jo", f.ITunesExt.Author)
	s.Equal("All about things", f.ITunesExt.Summary)
	s.Equal("false", f.ITunesExt.Explicit)
	s.Equal("https://cdn.example.com/cover.jpg", f.ITunesExt.Image)
	s.Require().NotNil(f.ITunesExt.Owner)
	s.Equal("jo@example.com", f.ITunesExt.Owner.Email)

	s.Require().Len(f.ITunesExt.Categories, 2)
	s.Equal("Technology", f.ITunesExt.Categories[0].Text)
	s.Require().NotNil(f.ITunesExt.Categories[0].Subcategory)
	s.Equal("Podcasting", f.ITunesExt.Categories[0].Subcategory.Text)
	s.Equal("News", f.ITunesExt.Categories[1].Text)
}

func (s *AssemblerTestSuite) TestItems() {
	s.addEpisode("One", time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC), func(ep *domain.Item) {
		ep.SetAttr(domain.AttrEpisodeGUID, "urn:one")
		ep.SetAttr(domain.AttrDuration, int64(125))
		ep.SetAttr(domain.AttrEpisodeNumber, int64(1))
		ep.SetAttr(domain.AttrEpisodeExplicit, true)
		ep.SetAttr("keywords", "tech, news")
		ep.Containers = map[string]*domain.Container{"notes": {
			Handle: "notes", Kind: domain.FieldBlockGrid,
			Blocks: []*domain.Block{{ID: "7", Type: "text", Fields: map[string]any{"summary": "<p>Hello</p><p><b>world</b></p>"}}},
		}}
	})
	s.addEpisode("Two", time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC))

	f := s.parse()
	s.Equal([]string{"Two", "One"}, titles(f))

	one := f.Items[1]
	s.Equal("urn:one", one.GUID)
	s.Require().Len(one.Enclosures, 1)
	s.Equal("https://cdn.example.com/ep.mp3", one.Enclosures[0].URL)
	s.Equal("4096", one.Enclosures[0].Length)
	s.Equal("audio/mpeg", one.Enclosures[0].Type)
	s.Require().NotNil(one.ITunesExt)
	s.Equal("125", one.ITunesExt.Duration)
	s.Equal("1", one.ITunesExt.Episode)
	s.Equal("true", one.ITunesExt.Explicit)
	s.Equal("Hello world", one.ITunesExt.Summary)
	s.Equal("tech, news", one.ITunesExt.Keywords)

	two := f.Items[0]
	s.Equal("1-12", two.GUID)
	s.Nil(two.ITunesExt)
}

func (s *AssemblerTestSuite) TestLastBuildDate() {
	s.addEpisode("One", time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC))
	s.addEpisode("Two", time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC))

	res, err := s.assembler.Feed(s.ctx, Request{PodcastID: podcastID, SiteID: siteID})
	s.Require().NoError(err)
	s.Equal(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC), res.Document.LastBuild)
	s.Contains(string(res.Document.Body), "<lastBuildDate>Wed, 10 Jan 2024 08:00:00 +0000</lastBuildDate>")
}

func (s *AssemblerTestSuite) TestExcludesDisabledEpisodes() {
	s.addEpisode("Live", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	s.addEpisode("Draft", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), func(ep *domain.Item) { ep.SiteEnabled = false })
	s.addEpisode("Off", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), func(ep *domain.Item) { ep.Enabled = false })

	s.Equal([]string{"Live"}, titles(s.parse()))
}

func (s *AssemblerTestSuite) TestFutureEpisodeAppearsOnceReleased() {
	s.addEpisode("Now", s.clock.Now().Add(-time.Hour))
	s.addEpisode("Later", s.clock.Now().Add(10*time.Minute))

	s.Equal([]string{"Now"}, titles(s.parse()))

	s.clock.Advance(11 * time.Minute)
	s.Equal([]string{"Later", "Now"}, titles(s.parse()))
}

func (s *AssemblerTestSuite) TestPostDateFallback() {
	s.addEpisode("Scheduled", time.Time{}, func(ep *domain.Item) {
		delete(ep.Attributes, "release")
		ep.PostDate = testutil.Ptr(s.clock.Now().Add(24 * time.Hour))
	})
	s.Empty(s.parse().Items)
}

func (s *AssemblerTestSuite) TestCacheInvalidation() {
	s.addEpisode("One", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	s.Equal([]string{"One"}, titles(s.parse()))

	ep := s.addEpisode("Two", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	s.Equal([]string{"One"}, titles(s.parse()), "served from cache")

	s.Equal(1, s.assembler.Invalidate(ep))
	s.Equal([]string{"Two", "One"}, titles(s.parse()))
}

func (s *AssemblerTestSuite) TestPodcastSaveInvalidates() {
	s.parse()
	s.podcast.Title = "Renamed"
	s.assembler.Invalidate(s.podcast)
	s.Equal("Renamed", s.parse().Title)
}

func (s *AssemblerTestSuite) TestRedirect() {
	s.podcast.SetAttr(domain.AttrPodcastRedirect, "https://new.example.com/feed")

	res, err := s.assembler.Feed(s.ctx, Request{PodcastID: podcastID, SiteID: siteID})
	s.Require().NoError(err)
	s.Nil(res.Document)
	s.Equal("https://new.example.com/feed", res.RedirectTo)
}

func (s *AssemblerTestSuite) TestNewFeedURLIsAnnounced() {
	s.podcast.SetAttr(domain.AttrPodcastRedirect, "https://new.example.com/feed")
	s.podcast.SetAttr(domain.AttrPodcastNewFeed, true)

	f := s.parse()
	s.Equal("https://new.example.com/feed", f.ITunesExt.NewFeedURL)
}

func (s *AssemblerTestSuite) TestAccess() {
	s.podcast.SetAttr(domain.AttrPublishOnRSS, false)

	_, err := s.assembler.Feed(s.ctx, Request{PodcastID: podcastID, SiteID: siteID})
	s.ErrorIs(err, ErrAccessDenied)

	res, err := s.assembler.Feed(s.ctx, Request{PodcastID: podcastID, SiteID: siteID, Privileged: true})
	s.Require().NoError(err)
	s.NotNil(res.Document)

	s.podcast.SetAttr(domain.AttrPublishOnRSS, true)
	s.podcast.SiteEnabled = false
	_, err = s.assembler.Feed(s.ctx, Request{PodcastID: podcastID, SiteID: siteID})
	s.ErrorIs(err, ErrAccessDenied)
}

func (s *AssemblerTestSuite) TestNotFound() {
	_, err := s.assembler.Feed(s.ctx, Request{PodcastID: 99, SiteID: siteID})
	s.ErrorIs(err, domain.ErrNotFound)

	ep := s.addEpisode("One", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	_, err = s.assembler.Feed(s.ctx, Request{PodcastID: ep.ID, SiteID: siteID})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *AssemblerTestSuite) TestOptionalElementsOmitted() {
	s.podcast.Attributes = map[string]any{}
	res, err := s.assembler.Feed(s.ctx, Request{PodcastID: podcastID, SiteID: siteID})
	s.Require().NoError(err)

	body := string(res.Document.Body)
	for _, tag := range []string{"<description>", "<itunes:image", "<itunes:category", "<itunes:owner>", "<itunes:explicit>", "<itunes:block>", "<language>"} {
		s.False(strings.Contains(body, tag), tag)
	}
	s.Contains(body, `<atom:link href="https://feeds.example.com/podcasts/rss?podcastId=1&amp;site=1" rel="self" type="application/rss+xml"></atom:link>`)
}
