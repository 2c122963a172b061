package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"podcaster/internal/domain"
	"podcaster/internal/feed"
	"podcaster/internal/importer"
	"podcaster/internal/testutil"
)

type feedStub struct {
	result feed.Result
	err    error
	got    feed.Request
}

func (f *feedStub) Feed(_ context.Context, req feed.Request) (feed.Result, error) {
	f.got = req
	return f.result, f.err
}

type metaStub struct {
	plan      *importer.Plan
	err       error
	episodeID int64
	flags     domain.ImportFlags
}

func (m *metaStub) Import(_ context.Context, episodeID, _ int64, flags domain.ImportFlags) (*importer.Plan, error) {
	m.episodeID, m.flags = episodeID, flags
	return m.plan, m.err
}

type ServerTestSuite struct {
	suite.Suite
	feeds   *feedStub
	meta    *metaStub
	jobs    *testutil.MemoryJobs
	handler http.Handler
}

const adminToken = "s3cret"

func (s *ServerTestSuite) SetupTest() {
	s.feeds = &feedStub{}
	s.meta = &metaStub{}
	s.jobs = testutil.NewMemoryJobs()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.handler = New(s.feeds, s.meta, s.jobs, Config{AdminToken: adminToken}, logger).Handler()
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) do(method, target string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if admin {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) TestFeed_ServesDocument() {
	built := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.feeds.result = feed.Result{Document: &feed.Document{Body: []byte("<rss/>"), LastBuild: built}}

	w := s.do(http.MethodGet, "/podcasts/rss?podcastId=4&site=2", false)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("application/xml; charset=utf-8", w.Header().Get("Content-Type"))
	s.Equal(built.Format(http.TimeFormat), w.Header().Get("Last-Modified"))
	s.Equal("<rss/>", w.Body.String())
	s.Equal(feed.Request{PodcastID: 4, SiteID: 2}, s.feeds.got)
}

func (s *ServerTestSuite) TestFeed_AdminTokenIsPrivileged() {
	s.feeds.result = feed.Result{Document: &feed.Document{Body: []byte("<rss/>")}}

	w := s.do(http.MethodGet, "/podcasts/rss?podcastId=4", true)

	s.Equal(http.StatusOK, w.Code)
	s.True(s.feeds.got.Privileged)
	s.Empty(w.Header().Get("Last-Modified"))
}

func (s *ServerTestSuite) TestFeed_Redirect() {
	s.feeds.result = feed.Result{RedirectTo: "https://new.example.com/feed.xml"}

	w := s.do(http.MethodGet, "/podcasts/rss?podcastId=4", false)

	s.Equal(http.StatusMovedPermanently, w.Code)
	s.Equal("https://new.example.com/feed.xml", w.Header().Get("Location"))
}

func (s *ServerTestSuite) TestFeed_ErrorStatuses() {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"missing id", "/podcasts/rss", nil, http.StatusBadRequest},
		{"bad id", "/podcasts/rss?podcastId=abc", nil, http.StatusBadRequest},
		{"bad site", "/podcasts/rss?podcastId=1&site=-1", nil, http.StatusBadRequest},
		{"restricted", "/podcasts/rss?podcastId=1", feed.ErrAccessDenied, http.StatusForbidden},
		{"unknown", "/podcasts/rss?podcastId=1", fmt.Errorf("load podcast 1: %w", domain.ErrNotFound), http.StatusNotFound},
		{"broken", "/podcasts/rss?podcastId=1", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.feeds.err = tt.err
			w := s.do(http.MethodGet, tt.target, false)
			s.Equal(tt.want, w.Code)
			s.Contains(w.Body.String(), `"error"`)
		})
	}
}

func (s *ServerTestSuite) TestFeed_WrongTokenIsNotPrivileged() {
	s.feeds.err = feed.ErrAccessDenied
	req := httptest.NewRequest(http.MethodGet, "/podcasts/rss?podcastId=1", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()

	s.handler.ServeHTTP(w, req)

	s.Equal(http.StatusForbidden, w.Code)
	s.False(s.feeds.got.Privileged)
}

func (s *ServerTestSuite) TestMetadata_RequiresToken() {
	w := s.do(http.MethodGet, "/podcasts/episodes/metadata?episodeId=9", false)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Zero(s.meta.episodeID)
}

func (s *ServerTestSuite) TestMetadata_ReturnsPreview() {
	title := "Pilot"
	s.meta.plan = &importer.Plan{Title: &title, GenreLabels: []string{"Comedy"}, Preview: true}

	w := s.do(http.MethodGet, "/podcasts/episodes/metadata?episodeId=9&overwriteTitle=true", true)

	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(int64(9), s.meta.episodeID)
	s.True(s.meta.flags.Preview)
	s.True(s.meta.flags.OverwriteTitle)
	s.False(s.meta.flags.OverwriteImage)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("Pilot", body["title"])
	s.Equal([]any{"Comedy"}, body["genres"])
}

func (s *ServerTestSuite) TestMetadata_Errors() {
	s.meta.err = fmt.Errorf("resolve: %w", domain.ErrSchemaMismatch)
	w := s.do(http.MethodGet, "/podcasts/episodes/metadata?episodeId=9", true)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	s.meta.err = domain.ErrNotFound
	w = s.do(http.MethodGet, "/podcasts/episodes/metadata?episodeId=9", true)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ServerTestSuite) TestImport_EnqueuesJob() {
	w := s.do(http.MethodPost, "/podcasts/import?podcastId=3&site=1&feedUrl=https%3A%2F%2Fexample.com%2Ffeed.xml&limit=10", true)

	s.Require().Equal(http.StatusAccepted, w.Code)
	job, err := s.jobs.Job(context.Background(), 1)
	s.Require().NoError(err)
	s.Equal(int64(3), job.PodcastID)
	s.Equal(int64(1), job.SiteID)
	s.Equal(domain.JobSourceRSS, job.Source)
	s.Equal("https://example.com/feed.xml", job.FeedURL)
	s.Equal(10, job.Limit)
	s.Equal(domain.JobQueued, job.Status)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(float64(1), body["id"])
	s.Equal("queued", body["status"])
}

func (s *ServerTestSuite) TestImport_Validation() {
	tests := []struct {
		name   string
		target string
	}{
		{"missing podcast", "/podcasts/import?feedUrl=https%3A%2F%2Fexample.com"},
		{"missing feed", "/podcasts/import?podcastId=3"},
		{"relative feed", "/podcasts/import?podcastId=3&feedUrl=feed.xml"},
		{"ftp feed", "/podcasts/import?podcastId=3&feedUrl=ftp%3A%2F%2Fexample.com%2Ff"},
		{"bad limit", "/podcasts/import?podcastId=3&feedUrl=https%3A%2F%2Fexample.com&limit=-2"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, tt.target, true)
			s.Equal(http.StatusBadRequest, w.Code)
		})
	}
	_, err := s.jobs.Job(context.Background(), 1)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *ServerTestSuite) TestImport_MethodNotAllowed() {
	w := s.do(http.MethodGet, "/podcasts/import?podcastId=3", true)
	s.Equal(http.StatusMethodNotAllowed, w.Code)
}

func (s *ServerTestSuite) TestJobStatusAndRetry() {
	ctx := context.Background()
	job := &domain.ImportJob{PodcastID: 3, Source: domain.JobSourceRSS, FeedURL: "https://example.com/f"}
	s.Require().NoError(s.jobs.Enqueue(ctx, job))

	w := s.do(http.MethodGet, fmt.Sprintf("/podcasts/import/jobs/%d", job.ID), true)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/podcasts/import/jobs/%d/retry", job.ID), true)
	s.Equal(http.StatusConflict, w.Code)

	claimed, err := s.jobs.ClaimNext(ctx, time.Now())
	s.Require().NoError(err)
	claimed.Status = domain.JobFailed
	s.Require().NoError(s.jobs.Finish(ctx, claimed))

	w = s.do(http.MethodPost, fmt.Sprintf("/podcasts/import/jobs/%d/retry", job.ID), true)
	s.Equal(http.StatusAccepted, w.Code)
	got, err := s.jobs.Job(ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(domain.JobQueued, got.Status)

	w = s.do(http.MethodGet, "/podcasts/import/jobs/999", true)
	s.Equal(http.StatusNotFound, w.Code)
	w = s.do(http.MethodGet, "/podcasts/import/jobs/x", true)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestRetryStaleRunningJob() {
	ctx := context.Background()
	s.jobs.StaleAfter = time.Hour
	job := &domain.ImportJob{PodcastID: 3, Source: domain.JobSourceRSS, FeedURL: "https://example.com/f"}
	s.Require().NoError(s.jobs.Enqueue(ctx, job))

	_, err := s.jobs.ClaimNext(ctx, time.Now().Add(-10*time.Minute))
	s.Require().NoError(err)
	w := s.do(http.MethodPost, fmt.Sprintf("/podcasts/import/jobs/%d/retry", job.ID), true)
	s.Equal(http.StatusConflict, w.Code)

	abandoned, err := s.jobs.Job(ctx, job.ID)
	s.Require().NoError(err)
	started := time.Now().Add(-2 * time.Hour)
	abandoned.StartedAt = &started
	s.Require().NoError(s.jobs.Finish(ctx, abandoned))

	w = s.do(http.MethodPost, fmt.Sprintf("/podcasts/import/jobs/%d/retry", job.ID), true)
	s.Equal(http.StatusAccepted, w.Code)
	got, err := s.jobs.Job(ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(domain.JobQueued, got.Status)
}

func TestAdminOpenWithoutToken(t *testing.T) {
	feeds := &feedStub{err: feed.ErrAccessDenied}
	meta := &metaStub{plan: &importer.Plan{Preview: true}}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	h := New(feeds, meta, testutil.NewMemoryJobs(), Config{}, logger).Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/podcasts/episodes/metadata?episodeId=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 without configured token, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/podcasts/rss?podcastId=1", nil)
	req.Header.Set("Authorization", "Bearer ")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for restricted feed, got %d", w.Code)
	}
	if feeds.got.Privileged {
		t.Fatal("request must not be privileged without a configured token")
	}
}
