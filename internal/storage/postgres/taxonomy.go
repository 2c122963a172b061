package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"podcaster/internal/domain"
)

type TaxonomyStore struct {
	db *sqlx.DB
}

func NewTaxonomyStore(db *sqlx.DB) *TaxonomyStore {
	return &TaxonomyStore{db: db}
}

const termColumns = `id, kind, group_id, title, parent_id`

func (s *TaxonomyStore) FindByTitle(ctx context.Context, kind domain.TaxonomyKind, groupID int64, title string) (*domain.Term, error) {
	query := `SELECT ` + termColumns + ` FROM taxonomy_terms WHERE kind = $1 AND group_id = $2 AND title = $3`
	return s.get(ctx, query, kind, groupID, title)
}

// FindByID looks a term up within its group. groupID 0 matches any group.
func (s *TaxonomyStore) FindByID(ctx context.Context, kind domain.TaxonomyKind, groupID int64, id int64) (*domain.Term, error) {
	query := `SELECT ` + termColumns + ` FROM taxonomy_terms
		WHERE id = $1 AND kind = $2 AND ($3::bigint = 0 OR group_id = $3::bigint)`
	return s.get(ctx, query, id, kind, groupID)
}

// Create adds a term. Creating a title that already exists returns the
// existing term.
func (s *TaxonomyStore) Create(ctx context.Context, kind domain.TaxonomyKind, groupID int64, title string) (*domain.Term, error) {
	query := `
		INSERT INTO taxonomy_terms (kind, group_id, title)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, group_id, title) DO NOTHING
		RETURNING ` + termColumns

	var t domain.Term
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &t, query, kind, groupID, title)
	if errors.Is(err, sql.ErrNoRows) {
		return s.FindByTitle(ctx, kind, groupID, title)
	}
	if err != nil {
		return nil, fmt.Errorf("create term %q: %w", title, err)
	}
	return &t, nil
}

// CreateChild adds a term nested under parent.
func (s *TaxonomyStore) CreateChild(ctx context.Context, parent *domain.Term, title string) (*domain.Term, error) {
	query := `
		INSERT INTO taxonomy_terms (kind, group_id, title, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + termColumns

	var t domain.Term
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &t, query, parent.Kind, parent.GroupID, title, parent.ID); err != nil {
		return nil, fmt.Errorf("create term %q under %d: %w", title, parent.ID, err)
	}
	return &t, nil
}

func (s *TaxonomyStore) get(ctx context.Context, query string, args ...any) (*domain.Term, error) {
	var t domain.Term
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &t, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get term: %w", err)
	}
	return &t, nil
}
