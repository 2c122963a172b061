package testutil

import (
	"context"
	"sync"

	"podcaster/internal/domain"
)

type MemorySettings struct {
	mu       sync.RWMutex
	settings map[int64]domain.ImportSettings
}

func NewMemorySettings() *MemorySettings {
	return &MemorySettings{settings: make(map[int64]domain.ImportSettings)}
}

func (m *MemorySettings) Set(s domain.ImportSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[s.PodcastID] = s
}

func (m *MemorySettings) ImportSettings(_ context.Context, podcastID int64) (domain.ImportSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.settings[podcastID]
	if !ok {
		return domain.ImportSettings{}, domain.ErrNotFound
	}
	return s, nil
}
