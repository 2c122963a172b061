// Package feed builds the RSS/iTunes document of a podcast.
package feed

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"podcaster/internal/domain"
	"podcaster/internal/pathspec"
)

// ErrAccessDenied is returned for restricted feeds requested without
// privileges.
var ErrAccessDenied = errors.New("feed access denied")

type ContentStore interface {
	ItemByID(ctx context.Context, id, siteID int64) (*domain.Item, error)
	EpisodesOf(ctx context.Context, podcastID, siteID int64) ([]*domain.Item, error)
}

type ValueResolver interface {
	ResolveConcept(ctx context.Context, item *domain.Item, concept domain.Concept) (pathspec.Resolved, error)
}

type TermLookup interface {
	FindByID(ctx context.Context, kind domain.TaxonomyKind, groupID int64, id int64) (*domain.Term, error)
}

type Config struct {
	// BaseURL is the public origin used for the atom:link self reference.
	BaseURL string
}

// Document is a rendered feed.
type Document struct {
	Body        []byte
	Items       int
	LastBuild   time.Time
	GeneratedAt time.Time
}

type Request struct {
	PodcastID  int64
	SiteID     int64
	Privileged bool
}

// Result carries either a document or a permanent redirect target.
type Result struct {
	Document   *Document
	RedirectTo string
}

type Assembler struct {
	store  ContentStore
	values ValueResolver
	terms  TermLookup
	cache  *Cache[*Document]
	clock  Clock
	cfg    Config
	logger *slog.Logger
}

func NewAssembler(store ContentStore, values ValueResolver, terms TermLookup, cache *Cache[*Document], clock Clock, cfg Config, logger *slog.Logger) *Assembler {
	return &Assembler{
		store:  store,
		values: values,
		terms:  terms,
		cache:  cache,
		clock:  clock,
		cfg:    cfg,
		logger: logger.With("component", "feed"),
	}
}

func PodcastTag(podcastID int64) string {
	return "podcast:" + strconv.FormatInt(podcastID, 10)
}

func EpisodesTag(podcastID int64) string {
	return "episodes:" + strconv.FormatInt(podcastID, 10)
}

// Tags returns the invalidation tags touched by saving item.
func Tags(item *domain.Item) []string {
	if item.Kind == domain.KindPodcast {
		return []string{PodcastTag(item.ID)}
	}
	return []string{EpisodesTag(item.PodcastID)}
}

func cacheKey(podcastID, siteID int64) string {
	return fmt.Sprintf("feed:%d:%d", podcastID, siteID)
}

// Feed loads the podcast, checks access and either signals a redirect or
// returns the cached document.
func (a *Assembler) Feed(ctx context.Context, req Request) (Result, error) {
	podcast, err := a.store.ItemByID(ctx, req.PodcastID, req.SiteID)
	if err != nil {
		return Result{}, fmt.Errorf("load podcast %d: %w", req.PodcastID, err)
	}
	if podcast.Kind != domain.KindPodcast {
		return Result{}, fmt.Errorf("item %d is not a podcast: %w", req.PodcastID, domain.ErrNotFound)
	}

	if restricted(podcast) && !req.Privileged {
		return Result{}, ErrAccessDenied
	}

	if target := podcast.AttrString(domain.AttrPodcastRedirect); target != "" && !podcast.AttrBool(domain.AttrPodcastNewFeed) {
		return Result{RedirectTo: target}, nil
	}

	doc, err := a.Build(ctx, podcast)
	if err != nil {
		return Result{}, err
	}
	return Result{Document: doc}, nil
}

func restricted(podcast *domain.Item) bool {
	if !podcast.Enabled || !podcast.SiteEnabled {
		return true
	}
	v, ok := podcast.Attr(domain.AttrPublishOnRSS)
	return ok && v != nil && !domain.ToBool(v)
}

// Build renders the feed of podcast through the cache.
func (a *Assembler) Build(ctx context.Context, podcast *domain.Item) (*Document, error) {
	tags := []string{PodcastTag(podcast.ID), EpisodesTag(podcast.ID)}
	return a.cache.GetOrCompute(ctx, cacheKey(podcast.ID, podcast.SiteID), tags, func(ctx context.Context) (*Document, time.Time, error) {
		return a.render(ctx, podcast)
	})
}

// Invalidate drops cached feeds affected by saving item.
func (a *Assembler) Invalidate(item *domain.Item) int {
	return a.cache.Invalidate(Tags(item)...)
}

type datedItem struct {
	id      int64
	pubDate time.Time
	item    item
}

// render builds the document. The returned expiry is the earliest publish
// date of a scheduled episode, after which the document is stale.
func (a *Assembler) render(ctx context.Context, podcast *domain.Item) (*Document, time.Time, error) {
	now := a.clock.Now()

	ch, err := a.channel(ctx, podcast)
	if err != nil {
		return nil, time.Time{}, err
	}

	episodes, err := a.store.EpisodesOf(ctx, podcast.ID, podcast.SiteID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load episodes of %d: %w", podcast.ID, err)
	}

	lastBuild := podcast.UpdatedAt
	var nextRelease time.Time
	dated := make([]datedItem, 0, len(episodes))
	for _, ep := range episodes {
		if !ep.Enabled || !ep.SiteEnabled {
			continue
		}
		pubDate, err := a.pubDate(ctx, ep)
		if err != nil {
			return nil, time.Time{}, err
		}
		if pubDate.After(now) {
			if nextRelease.IsZero() || pubDate.Before(nextRelease) {
				nextRelease = pubDate
			}
			continue
		}

		it, err := a.item(ctx, podcast, ep, pubDate)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("episode %d: %w", ep.ID, err)
		}
		dated = append(dated, datedItem{id: ep.ID, pubDate: pubDate, item: it})
		if ep.UpdatedAt.After(lastBuild) {
			lastBuild = ep.UpdatedAt
		}
	}

	sort.SliceStable(dated, func(i, j int) bool {
		if dated[i].pubDate.Equal(dated[j].pubDate) {
			return dated[i].id > dated[j].id
		}
		return dated[i].pubDate.After(dated[j].pubDate)
	})
	for _, d := range dated {
		ch.Items = append(ch.Items, d.item)
	}
	if !lastBuild.IsZero() {
		ch.LastBuildDate = lastBuild.UTC().Format(time.RFC1123Z)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	err = enc.Encode(rssDocument{
		Version:   "2.0",
		ITunesNS:  nsITunes,
		ContentNS: nsContent,
		AtomNS:    nsAtom,
		Channel:   ch,
	})
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("encode feed: %w", err)
	}

	a.logger.Debug("feed rendered", "podcast_id", podcast.ID, "site_id", podcast.SiteID, "items", len(dated))
	return &Document{
		Body:        buf.Bytes(),
		Items:       len(dated),
		LastBuild:   lastBuild,
		GeneratedAt: now,
	}, nextRelease, nil
}

func (a *Assembler) channel(ctx context.Context, p *domain.Item) (channel, error) {
	ch := channel{
		Title:     p.Title,
		Link:      p.AttrString(domain.AttrLink),
		Language:  p.AttrString(domain.AttrLanguage),
		Copyright: p.AttrString(domain.AttrCopyright),
		Author:    p.AttrString(domain.AttrAuthorName),
		Type:      p.AttrString(domain.AttrPodcastType),
		Explicit:  explicitFlag(p, domain.AttrPodcastExplicit),
		Block:     yesFlag(p, domain.AttrPodcastBlock),
		Complete:  yesFlag(p, domain.AttrPodcastComplete),
	}
	if a.cfg.BaseURL != "" {
		q := url.Values{}
		q.Set("podcastId", strconv.FormatInt(p.ID, 10))
		q.Set("site", strconv.FormatInt(p.SiteID, 10))
		ch.AtomLink = &atomLink{
			Href: strings.TrimRight(a.cfg.BaseURL, "/") + "/podcasts/rss?" + q.Encode(),
			Rel:  "self",
			Type: "application/rss+xml",
		}
	}
	if p.AttrBool(domain.AttrPodcastNewFeed) {
		ch.NewFeedURL = p.AttrString(domain.AttrPodcastRedirect)
	}

	name, email := p.AttrString(domain.AttrOwnerName), p.AttrString(domain.AttrOwnerEmail)
	if name != "" || email != "" {
		ch.Owner = &owner{Name: name, Email: email}
	}

	description, err := a.text(ctx, p, domain.ConceptPodcastDescription)
	if err != nil {
		return channel{}, err
	}
	ch.Description = optionalCDATA(description)
	ch.Summary = PlainText(description)

	subtitle, err := a.text(ctx, p, domain.ConceptPodcastSubtitle)
	if err != nil {
		return channel{}, err
	}
	ch.Subtitle = PlainText(subtitle)

	if ch.Keywords, err = a.keywords(ctx, p, domain.ConceptPodcastKeywords); err != nil {
		return channel{}, err
	}
	if ch.Image, err = a.image(ctx, p, domain.ConceptPodcastImage); err != nil {
		return channel{}, err
	}
	if ch.Categories, err = a.categories(ctx, p); err != nil {
		return channel{}, err
	}
	return ch, nil
}

func (a *Assembler) item(ctx context.Context, p, ep *domain.Item, pubDate time.Time) (item, error) {
	guidValue := ep.AttrString(domain.AttrEpisodeGUID)
	if guidValue == "" {
		guidValue = fmt.Sprintf("%d-%d", p.ID, ep.ID)
	}

	it := item{
		Title:       ep.Title,
		GUID:        guid{IsPermaLink: "false", Value: guidValue},
		PubDate:     pubDate.UTC().Format(time.RFC1123Z),
		Duration:    ep.AttrString(domain.AttrDuration),
		Explicit:    explicitFlag(ep, domain.AttrEpisodeExplicit),
		EpisodeType: ep.AttrString(domain.AttrEpisodeType),
		Season:      positive(ep, domain.AttrEpisodeSeason),
		Episode:     positive(ep, domain.AttrEpisodeNumber),
		Block:       yesFlag(ep, domain.AttrEpisodeBlock),
	}

	media, err := a.values.ResolveConcept(ctx, ep, domain.ConceptMainAsset)
	if err != nil {
		return item{}, err
	}
	if media.Asset != nil && media.Asset.URL != "" {
		it.Enclosure = &enclosure{URL: media.Asset.URL, Length: media.Asset.Size, Type: media.Asset.MimeType}
	}

	if it.Image, err = a.image(ctx, ep, domain.ConceptEpisodeImage); err != nil {
		return item{}, err
	}
	if it.Keywords, err = a.keywords(ctx, ep, domain.ConceptEpisodeKeywords); err != nil {
		return item{}, err
	}

	texts := map[domain.Concept]string{}
	for _, c := range []domain.Concept{
		domain.ConceptEpisodeSubtitle,
		domain.ConceptEpisodeSummary,
		domain.ConceptEpisodeDescription,
		domain.ConceptEpisodeContent,
	} {
		if texts[c], err = a.text(ctx, ep, c); err != nil {
			return item{}, err
		}
	}
	it.Subtitle = PlainText(texts[domain.ConceptEpisodeSubtitle])
	it.Summary = PlainText(texts[domain.ConceptEpisodeSummary])
	it.Description = optionalCDATA(texts[domain.ConceptEpisodeDescription])
	it.Content = optionalCDATA(texts[domain.ConceptEpisodeContent])
	return it, nil
}

// pubDate prefers the mapped publish date and falls back to the post date.
func (a *Assembler) pubDate(ctx context.Context, ep *domain.Item) (time.Time, error) {
	res, err := a.values.ResolveConcept(ctx, ep, domain.ConceptEpisodePubDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("episode %d pubdate: %w", ep.ID, err)
	}
	if t, ok := domain.ToTime(res.Value); ok {
		return t, nil
	}
	if ep.PostDate != nil {
		return *ep.PostDate, nil
	}
	return ep.CreatedAt, nil
}

func (a *Assembler) text(ctx context.Context, it *domain.Item, concept domain.Concept) (string, error) {
	res, err := a.values.ResolveConcept(ctx, it, concept)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.String()), nil
}

func (a *Assembler) image(ctx context.Context, it *domain.Item, concept domain.Concept) (*image, error) {
	res, err := a.values.ResolveConcept(ctx, it, concept)
	if err != nil {
		return nil, err
	}
	if res.Asset == nil || res.Asset.URL == "" {
		return nil, nil
	}
	return &image{Href: res.Asset.URL}, nil
}

func (a *Assembler) keywords(ctx context.Context, it *domain.Item, concept domain.Concept) (string, error) {
	res, err := a.values.ResolveConcept(ctx, it, concept)
	if err != nil || res.Empty() {
		return "", err
	}
	kind := res.Field.Kind.TaxonomyKind()
	if kind == "" {
		return PlainText(res.String()), nil
	}

	var titles []string
	for _, id := range domain.ToIDs(res.Value) {
		term, err := a.terms.FindByID(ctx, kind, res.Field.GroupID, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("load term %d: %w", id, err)
		}
		titles = append(titles, term.Title)
	}
	return strings.Join(titles, ","), nil
}

// categories nests selected sub categories under their parent, one level
// deep. A parent that was not selected itself is still emitted.
func (a *Assembler) categories(ctx context.Context, p *domain.Item) ([]category, error) {
	res, err := a.values.ResolveConcept(ctx, p, domain.ConceptPodcastCategory)
	if err != nil || res.Empty() {
		return nil, err
	}
	kind := res.Field.Kind.TaxonomyKind()
	if kind == "" {
		return []category{{Text: PlainText(res.String())}}, nil
	}

	var out []category
	position := make(map[int64]int)
	top := func(t *domain.Term) int {
		if i, ok := position[t.ID]; ok {
			return i
		}
		position[t.ID] = len(out)
		out = append(out, category{Text: t.Title})
		return len(out) - 1
	}

	for _, id := range domain.ToIDs(res.Value) {
		term, err := a.lookupTerm(ctx, kind, res.Field.GroupID, id)
		if err != nil {
			return nil, err
		}
		if term == nil {
			continue
		}
		if term.ParentID == nil {
			top(term)
			continue
		}
		parent, err := a.lookupTerm(ctx, kind, res.Field.GroupID, *term.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			top(term)
			continue
		}
		i := top(parent)
		if !hasCategory(out[i].Sub, term.Title) {
			out[i].Sub = append(out[i].Sub, category{Text: term.Title})
		}
	}
	return out, nil
}

func (a *Assembler) lookupTerm(ctx context.Context, kind domain.TaxonomyKind, groupID, id int64) (*domain.Term, error) {
	term, err := a.terms.FindByID(ctx, kind, groupID, id)
	if errors.Is(err, domain.ErrNotFound) {
		a.logger.Warn("category no longer exists", "term_id", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load term %d: %w", id, err)
	}
	return term, nil
}

func hasCategory(list []category, text string) bool {
	for _, c := range list {
		if c.Text == text {
			return true
		}
	}
	return false
}

func explicitFlag(it *domain.Item, handle string) string {
	v, ok := it.Attr(handle)
	if !ok || v == nil {
		return ""
	}
	if domain.ToBool(v) {
		return "true"
	}
	return "false"
}

func yesFlag(it *domain.Item, handle string) string {
	if it.AttrBool(handle) {
		return "Yes"
	}
	return ""
}

func positive(it *domain.Item, handle string) string {
	v, _ := it.Attr(handle)
	if n, ok := domain.ToInt64(v); ok && n > 0 {
		return strconv.FormatInt(n, 10)
	}
	return ""
}
