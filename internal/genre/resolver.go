// Package genre turns genre strings and configured defaults into taxonomy
// item ids.
package genre

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"podcaster/internal/domain"
)

type TaxonomyStore interface {
	FindByTitle(ctx context.Context, kind domain.TaxonomyKind, groupID int64, title string) (*domain.Term, error)
	Create(ctx context.Context, kind domain.TaxonomyKind, groupID int64, title string) (*domain.Term, error)
	FindByID(ctx context.Context, kind domain.TaxonomyKind, groupID int64, id int64) (*domain.Term, error)
}

type Resolver struct {
	store  TaxonomyStore
	logger *slog.Logger
}

func NewResolver(store TaxonomyStore, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger.With("component", "genre")}
}

// Resolve looks every title up in groupID by exact, case-sensitive match.
// Missing titles are created when allowCreate is set and skipped otherwise.
// ids and labels are parallel and free of duplicates.
func (r *Resolver) Resolve(ctx context.Context, titles []string, kind domain.TaxonomyKind, groupID int64, allowCreate bool) ([]int64, []string, error) {
	ids := make([]int64, 0, len(titles))
	labels := make([]string, 0, len(titles))
	seen := make(map[int64]bool, len(titles))

	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}

		term, err := r.store.FindByTitle(ctx, kind, groupID, title)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("find %s %q: %w", kind, title, err)
		}
		if term == nil {
			if !allowCreate {
				r.logger.Debug("skipping unknown genre", "title", title, "group_id", groupID)
				continue
			}
			term, err = r.store.Create(ctx, kind, groupID, title)
			if err != nil {
				return nil, nil, fmt.Errorf("create %s %q: %w", kind, title, err)
			}
			r.logger.Info("created taxonomy item", "kind", kind, "title", title, "id", term.ID)
		}

		if seen[term.ID] {
			continue
		}
		seen[term.ID] = true
		ids = append(ids, term.ID)
		labels = append(labels, term.Title)
	}
	return ids, labels, nil
}

// Existing re-validates configured ids, dropping those deleted since the
// configuration was saved, and returns their labels.
func (r *Resolver) Existing(ctx context.Context, candidates []int64, kind domain.TaxonomyKind, groupID int64) ([]int64, []string, error) {
	ids := make([]int64, 0, len(candidates))
	labels := make([]string, 0, len(candidates))
	seen := make(map[int64]bool, len(candidates))

	for _, id := range candidates {
		if seen[id] {
			continue
		}
		term, err := r.store.FindByID(ctx, kind, groupID, id)
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn("default taxonomy item no longer exists", "kind", kind, "id", id)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("find %s %d: %w", kind, id, err)
		}
		seen[id] = true
		ids = append(ids, term.ID)
		labels = append(labels, term.Title)
	}
	return ids, labels, nil
}
