package domain

import (
	"strings"
	"time"
)

type ItemKind string

const (
	KindPodcast ItemKind = "podcast"
	KindEpisode ItemKind = "episode"
)

// Native episode attributes.
const (
	AttrDuration        = "duration"
	AttrEpisodeNumber   = "episodeNumber"
	AttrEpisodeSeason   = "episodeSeason"
	AttrEpisodeType     = "episodeType"
	AttrEpisodeExplicit = "episodeExplicit"
	AttrEpisodeBlock    = "episodeBlock"
	AttrEpisodeGUID     = "episodeGUID"
)

// Native podcast attributes.
const (
	AttrAuthorName      = "authorName"
	AttrOwnerName       = "ownerName"
	AttrOwnerEmail      = "ownerEmail"
	AttrPodcastType     = "podcastType"
	AttrPodcastExplicit = "podcastExplicit"
	AttrPodcastBlock    = "podcastBlock"
	AttrPodcastComplete = "podcastComplete"
	AttrPodcastRedirect = "podcastRedirectTo"
	AttrPodcastNewFeed  = "podcastIsNewFeedURL"
	AttrCopyright       = "copyright"
	AttrLanguage        = "language"
	AttrLink            = "link"
	AttrPublishOnRSS    = "publishOnRSS"
)

// Item is a podcast or episode instance. Flat attributes live in Attributes,
// block containers in Containers keyed by the container field handle.
type Item struct {
	ID          int64
	Kind        ItemKind
	FormatID    int64 // podcast format whose mappings and layout apply
	PodcastID   int64 // owning podcast; equals ID for podcasts
	SiteID      int64
	Title       string
	Slug        string
	Enabled     bool
	SiteEnabled bool
	PostDate    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Attributes  map[string]any
	Containers  map[string]*Container
}

// NewEpisode returns an unsaved episode owned by podcast. Imported episodes
// start disabled for the site so they are reviewed before going public.
func NewEpisode(podcast *Item) *Item {
	return &Item{
		Kind:        KindEpisode,
		FormatID:    podcast.FormatID,
		PodcastID:   podcast.ID,
		SiteID:      podcast.SiteID,
		Enabled:     true,
		SiteEnabled: false,
		Attributes:  make(map[string]any),
		Containers:  make(map[string]*Container),
	}
}

func (i *Item) IsNew() bool {
	return i.ID == 0
}

func (i *Item) Attr(handle string) (any, bool) {
	if i.Attributes == nil {
		return nil, false
	}
	v, ok := i.Attributes[handle]
	return v, ok
}

func (i *Item) SetAttr(handle string, value any) {
	if i.Attributes == nil {
		i.Attributes = make(map[string]any)
	}
	i.Attributes[handle] = value
}

func (i *Item) AttrString(handle string) string {
	v, _ := i.Attr(handle)
	return ToString(v)
}

func (i *Item) AttrBool(handle string) bool {
	v, _ := i.Attr(handle)
	return ToBool(v)
}

func (i *Item) Container(handle string) *Container {
	if i.Containers == nil {
		return nil
	}
	return i.Containers[handle]
}

// EnsureContainer returns the container for handle, creating an empty one.
func (i *Item) EnsureContainer(handle string, kind FieldKind) *Container {
	if i.Containers == nil {
		i.Containers = make(map[string]*Container)
	}
	c, ok := i.Containers[handle]
	if !ok {
		c = &Container{Handle: handle, Kind: kind}
		i.Containers[handle] = c
	}
	return c
}

// Container is one block container instance on an item.
type Container struct {
	Handle string    `json:"handle"`
	Kind   FieldKind `json:"kind"`
	Blocks []*Block  `json:"blocks"`
}

// Block is a single repetition inside a container. Unsaved blocks carry a
// transient id of the form "new:N".
type Block struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Fields map[string]any `json:"fields"`
}

func (b *Block) Has(handle string) bool {
	if b.Fields == nil {
		return false
	}
	_, ok := b.Fields[handle]
	return ok
}

// TransientBlockPrefix marks block ids assigned before the first save.
const TransientBlockPrefix = "new:"

func (b *Block) IsTransient() bool {
	return strings.HasPrefix(b.ID, TransientBlockPrefix)
}
