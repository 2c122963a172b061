package testutil

import (
	"context"
	"sort"
	"sync"

	"podcaster/internal/domain"
)

// MemoryContent stores items by pointer. Callers share the stored instances.
type MemoryContent struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]*domain.Item
	// SaveErr makes Create and Update fail when set.
	SaveErr error
	Saved   int
}

func NewMemoryContent() *MemoryContent {
	return &MemoryContent{items: make(map[int64]*domain.Item)}
}

// Put stores item as is, assigning an id when it has none.
func (m *MemoryContent) Put(item *domain.Item) *domain.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == 0 {
		m.nextID++
		item.ID = m.nextID
	} else if item.ID > m.nextID {
		m.nextID = item.ID
	}
	m.items[item.ID] = item
	return item
}

func (m *MemoryContent) ItemByID(_ context.Context, id, siteID int64) (*domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	if !ok || (siteID != 0 && it.SiteID != siteID) {
		return nil, domain.ErrNotFound
	}
	return it, nil
}

func (m *MemoryContent) EpisodesOf(_ context.Context, podcastID, siteID int64) ([]*domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Item
	for _, it := range m.items {
		if it.Kind == domain.KindEpisode && it.PodcastID == podcastID && (siteID == 0 || it.SiteID == siteID) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryContent) EpisodeByGUID(_ context.Context, podcastID int64, guid string) (*domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items {
		if it.Kind == domain.KindEpisode && it.PodcastID == podcastID && it.AttrString(domain.AttrEpisodeGUID) == guid {
			return it, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MemoryContent) EpisodeByTitle(_ context.Context, podcastID int64, title string) (*domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items {
		if it.Kind == domain.KindEpisode && it.PodcastID == podcastID && it.Title == title {
			return it, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MemoryContent) Create(_ context.Context, item *domain.Item) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Put(item)
	m.mu.Lock()
	m.Saved++
	m.mu.Unlock()
	return nil
}

func (m *MemoryContent) Update(_ context.Context, item *domain.Item) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	m.items[item.ID] = item
	m.Saved++
	return nil
}

func (m *MemoryContent) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
