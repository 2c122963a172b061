package testutil

import (
	"context"
	"sync"

	"podcaster/internal/domain"
)

// MemoryTaxonomy is an in-memory taxonomy store.
type MemoryTaxonomy struct {
	mu      sync.Mutex
	nextID  int64
	terms   []*domain.Term
	Created int
}

func NewMemoryTaxonomy() *MemoryTaxonomy {
	return &MemoryTaxonomy{nextID: 100}
}

func (m *MemoryTaxonomy) Seed(kind domain.TaxonomyKind, groupID int64, title string, parentID *int64) *domain.Term {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.add(kind, groupID, title, parentID)
}

func (m *MemoryTaxonomy) add(kind domain.TaxonomyKind, groupID int64, title string, parentID *int64) *domain.Term {
	m.nextID++
	t := &domain.Term{ID: m.nextID, Kind: kind, GroupID: groupID, Title: title, ParentID: parentID}
	m.terms = append(m.terms, t)
	return t
}

func (m *MemoryTaxonomy) FindByTitle(_ context.Context, kind domain.TaxonomyKind, groupID int64, title string) (*domain.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.terms {
		if t.Kind == kind && t.GroupID == groupID && t.Title == title {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MemoryTaxonomy) Create(_ context.Context, kind domain.TaxonomyKind, groupID int64, title string) (*domain.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created++
	return m.add(kind, groupID, title, nil), nil
}

func (m *MemoryTaxonomy) FindByID(_ context.Context, kind domain.TaxonomyKind, groupID int64, id int64) (*domain.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.terms {
		if t.ID == id && t.Kind == kind && (groupID == 0 || t.GroupID == groupID) {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MemoryTaxonomy) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.terms)
}
