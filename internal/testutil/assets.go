package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"podcaster/internal/domain"
)

// MemoryAssets stores assets and folders in memory.
type MemoryAssets struct {
	mu      sync.RWMutex
	nextID  int64
	assets  map[int64]*domain.Asset
	folders map[string]*domain.Folder
	// FolderErr makes folder resolution fail when set.
	FolderErr error
}

func NewMemoryAssets() *MemoryAssets {
	return &MemoryAssets{
		assets:  make(map[int64]*domain.Asset),
		folders: make(map[string]*domain.Folder),
	}
}

func (m *MemoryAssets) Add(a *domain.Asset) *domain.Asset {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == 0 {
		m.nextID++
		a.ID = m.nextID + 1000
	}
	m.assets[a.ID] = a
	return a
}

func (m *MemoryAssets) AssetByID(_ context.Context, id int64) (*domain.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (m *MemoryAssets) Assets() []*domain.Asset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		out = append(out, a)
	}
	return out
}

func (m *MemoryAssets) FilenameTaken(_ context.Context, folderID int64, filename string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.assets {
		if a.FolderID == folderID && a.Filename == filename {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryAssets) CreateAsset(_ context.Context, a *domain.Asset) error {
	m.Add(a)
	return nil
}

func (m *MemoryAssets) ResolveUploadFolder(_ context.Context, field domain.FieldDescriptor, item *domain.Item) (*domain.Folder, error) {
	if m.FolderErr != nil {
		return nil, m.FolderErr
	}
	if field.Upload.Volume == "" {
		return nil, domain.ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := field.Upload.Volume + "/" + field.Upload.Subpath
	f, ok := m.folders[key]
	if !ok {
		f = &domain.Folder{ID: int64(len(m.folders) + 1), Volume: field.Upload.Volume, Path: field.Upload.Subpath}
		m.folders[key] = f
	}
	return f, nil
}

// MemoryVolume keeps uploaded files in memory.
type MemoryVolume struct {
	mu    sync.Mutex
	Files map[string][]byte
	Err   error
}

func NewMemoryVolume() *MemoryVolume {
	return &MemoryVolume{Files: make(map[string][]byte)}
}

func (v *MemoryVolume) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, string, error) {
	if v.Err != nil {
		return "", "", v.Err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", "", fmt.Errorf("read upload: %w", err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Files[key] = buf.Bytes()
	return "", "https://cdn.example.com/" + key, nil
}
