// Package server exposes the feed endpoint and the admin import surface.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"podcaster/internal/domain"
	"podcaster/internal/feed"
	"podcaster/internal/importer"
)

type FeedSource interface {
	Feed(ctx context.Context, req feed.Request) (feed.Result, error)
}

type MetaImporter interface {
	Import(ctx context.Context, episodeID, siteID int64, flags domain.ImportFlags) (*importer.Plan, error)
}

type JobQueue interface {
	Enqueue(ctx context.Context, job *domain.ImportJob) error
	Job(ctx context.Context, jobID int64) (*domain.ImportJob, error)
	Retry(ctx context.Context, jobID int64) error
}

type Config struct {
	Addr         string
	AdminToken   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	feeds  FeedSource
	meta   MetaImporter
	jobs   JobQueue
	cfg    Config
	logger *slog.Logger
}

func New(feeds FeedSource, meta MetaImporter, jobs JobQueue, cfg Config, logger *slog.Logger) *Server {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	return &Server{
		feeds:  feeds,
		meta:   meta,
		jobs:   jobs,
		cfg:    cfg,
		logger: logger.With("component", "http"),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /podcasts/rss", s.handleFeed)
	mux.HandleFunc("GET /podcasts/episodes/metadata", s.admin(s.handleMetadata))
	mux.HandleFunc("POST /podcasts/import", s.admin(s.handleImport))
	mux.HandleFunc("GET /podcasts/import/jobs/{id}", s.admin(s.handleJob))
	mux.HandleFunc("POST /podcasts/import/jobs/{id}/retry", s.admin(s.handleRetry))
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	s.logger.Info("http server listening", "addr", listener.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	podcastID, err := requiredID(q, "podcastId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	siteID, err := optionalID(q, "site")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.feeds.Feed(r.Context(), feed.Request{
		PodcastID:  podcastID,
		SiteID:     siteID,
		Privileged: s.privileged(r),
	})
	switch {
	case errors.Is(err, feed.ErrAccessDenied):
		s.writeError(w, http.StatusForbidden, "feed is not public")
		return
	case errors.Is(err, domain.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "podcast not found")
		return
	case err != nil:
		s.logger.Error("render feed", "podcast_id", podcastID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "feed unavailable")
		return
	}

	if res.RedirectTo != "" {
		http.Redirect(w, r, res.RedirectTo, http.StatusMovedPermanently)
		return
	}

	doc := res.Document
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if !doc.LastBuild.IsZero() {
		w.Header().Set("Last-Modified", doc.LastBuild.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		s.logger.Debug("write feed", "podcast_id", podcastID, "error", err)
	}
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	episodeID, err := requiredID(q, "episodeId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	siteID, err := optionalID(q, "site")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flags := domain.ImportFlags{
		OverwriteTitle:   flag(q, "overwriteTitle"),
		OverwriteNumber:  flag(q, "overwriteNumber"),
		OverwriteImage:   flag(q, "overwriteImage"),
		OverwritePubDate: flag(q, "overwritePubDate"),
		Preview:          true,
	}

	plan, err := s.meta.Import(r.Context(), episodeID, siteID, flags)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	case isConfigError(err):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.logger.Error("metadata preview", "episode_id", episodeID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "metadata preview failed")
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	podcastID, err := requiredID(q, "podcastId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	siteID, err := optionalID(q, "site")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	feedURL := strings.TrimSpace(q.Get("feedUrl"))
	if u, err := url.Parse(feedURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		s.writeError(w, http.StatusBadRequest, "feedUrl must be an absolute http(s) url")
		return
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}

	job := &domain.ImportJob{
		PodcastID: podcastID,
		SiteID:    siteID,
		Source:    domain.JobSourceRSS,
		FeedURL:   feedURL,
		Limit:     limit,
	}
	if err := s.jobs.Enqueue(r.Context(), job); err != nil {
		s.logger.Error("enqueue import", "podcast_id", podcastID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not queue import")
		return
	}
	s.logger.Info("import queued", "job_id", job.ID, "podcast_id", podcastID, "feed_url", feedURL)
	s.writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	job, err := s.jobs.Job(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	switch err := s.jobs.Retry(r.Context(), id); {
	case errors.Is(err, domain.ErrNotFound):
		s.writeError(w, http.StatusConflict, "no failed or stale job with that id")
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]int64{"id": id})
}

// admin rejects requests without the admin bearer token. An empty token
// leaves the admin endpoints open.
func (s *Server) admin(next http.HandlerFunc) http.HandlerFunc {
	if s.cfg.AdminToken == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.privileged(r) {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// privileged reports whether r carries the admin token. Restricted feeds are
// never served when no token is configured.
func (s *Server) privileged(r *http.Request) bool {
	if s.cfg.AdminToken == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AdminToken)) == 1
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func requiredID(q url.Values, name string) (int64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

func optionalID(q url.Values, name string) (int64, error) {
	if q.Get(name) == "" {
		return 0, nil
	}
	return requiredID(q, name)
}

func flag(q url.Values, name string) bool {
	v, _ := strconv.ParseBool(q.Get(name))
	return v
}

func isConfigError(err error) bool {
	return errors.Is(err, domain.ErrSchemaMismatch) ||
		errors.Is(err, domain.ErrUnsupportedContainerKind) ||
		errors.Is(err, domain.ErrInvalidUploadTarget) ||
		errors.Is(err, domain.ErrMalformedPath)
}
