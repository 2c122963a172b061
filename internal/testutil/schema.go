package testutil

import (
	"context"
	"strconv"
	"sync"

	"podcaster/internal/domain"
)

// MemorySchema is an in-memory schema, mapping and layout store.
type MemorySchema struct {
	mu       sync.RWMutex
	byUID    map[string]domain.FieldDescriptor
	topLevel map[string]domain.FieldDescriptor
	mappings map[int64]map[domain.Concept]domain.Mapping
	layouts  map[string]domain.Layout
}

func NewMemorySchema() *MemorySchema {
	return &MemorySchema{
		byUID:    make(map[string]domain.FieldDescriptor),
		topLevel: make(map[string]domain.FieldDescriptor),
		mappings: make(map[int64]map[domain.Concept]domain.Mapping),
		layouts:  make(map[string]domain.Layout),
	}
}

// AddField registers a top level field and every field nested in its block
// types.
func (s *MemorySchema) AddField(f domain.FieldDescriptor) *MemorySchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topLevel[f.Handle] = f
	s.index(f)
	return s
}

func (s *MemorySchema) index(f domain.FieldDescriptor) {
	if f.UID != "" {
		s.byUID[f.UID] = f
	}
	for _, bt := range f.BlockTypes {
		for _, nested := range bt.Fields {
			s.index(nested)
		}
	}
}

func (s *MemorySchema) SetMapping(formatID int64, m domain.Mapping) *MemorySchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mappings[formatID] == nil {
		s.mappings[formatID] = make(map[domain.Concept]domain.Mapping)
	}
	s.mappings[formatID][m.Concept] = m
	return s
}

func (s *MemorySchema) SetLayout(l domain.Layout) *MemorySchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts[layoutKey(l.Kind, l.FormatID)] = l
	return s
}

func (s *MemorySchema) FieldByRef(_ context.Context, ref string) (domain.FieldDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.byUID[ref]
	if !ok {
		return domain.FieldDescriptor{}, domain.ErrNotFound
	}
	return f, nil
}

func (s *MemorySchema) FieldByHandle(_ context.Context, handle string) (domain.FieldDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.topLevel[handle]
	if !ok {
		return domain.FieldDescriptor{}, domain.ErrNotFound
	}
	return f, nil
}

func (s *MemorySchema) Mapping(_ context.Context, formatID int64, concept domain.Concept) (domain.Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mappings[formatID][concept]
	if !ok {
		return domain.Mapping{}, domain.ErrNotFound
	}
	return m, nil
}

func (s *MemorySchema) LayoutOf(_ context.Context, kind domain.ItemKind, formatID int64) (domain.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.layouts[layoutKey(kind, formatID)]
	if !ok {
		return domain.Layout{Kind: kind, FormatID: formatID}, nil
	}
	return l, nil
}

func layoutKey(kind domain.ItemKind, formatID int64) string {
	return string(kind) + "/" + strconv.FormatInt(formatID, 10)
}
