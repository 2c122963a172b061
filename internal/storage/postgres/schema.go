package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"podcaster/internal/domain"
)

// SchemaStore serves field descriptors, layouts and concept mappings.
type SchemaStore struct {
	db *sqlx.DB
}

func NewSchemaStore(db *sqlx.DB) *SchemaStore {
	return &SchemaStore{db: db}
}

func (s *SchemaStore) FieldByRef(ctx context.Context, ref string) (domain.FieldDescriptor, error) {
	return s.field(ctx, `SELECT descriptor FROM fields WHERE uid = $1`, ref)
}

func (s *SchemaStore) FieldByHandle(ctx context.Context, handle string) (domain.FieldDescriptor, error) {
	return s.field(ctx, `SELECT descriptor FROM fields WHERE handle = $1 AND top_level`, handle)
}

func (s *SchemaStore) field(ctx context.Context, query, arg string) (domain.FieldDescriptor, error) {
	var raw []byte
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &raw, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.FieldDescriptor{}, fmt.Errorf("field %q: %w", arg, domain.ErrNotFound)
	}
	if err != nil {
		return domain.FieldDescriptor{}, fmt.Errorf("get field %q: %w", arg, err)
	}

	var f domain.FieldDescriptor
	if err := decodeJSON(raw, &f); err != nil {
		return domain.FieldDescriptor{}, err
	}
	return f, nil
}

// PutField stores a top level field together with every field nested in its
// block types so each can be looked up by uid.
func (s *SchemaStore) PutField(ctx context.Context, f domain.FieldDescriptor) error {
	exec := GetExecutor(ctx, s.db)
	if err := putField(ctx, exec, f, true); err != nil {
		return err
	}
	for _, bt := range f.BlockTypes {
		for _, nested := range bt.Fields {
			if err := putField(ctx, exec, nested, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func putField(ctx context.Context, exec sqlx.ExtContext, f domain.FieldDescriptor, topLevel bool) error {
	descriptor, err := encodeJSON(f)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO fields (uid, handle, top_level, descriptor)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (uid) DO UPDATE SET
			handle = EXCLUDED.handle,
			top_level = EXCLUDED.top_level,
			descriptor = EXCLUDED.descriptor`

	if _, err := exec.ExecContext(ctx, query, f.UID, f.Handle, topLevel, descriptor); err != nil {
		return fmt.Errorf("put field %q: %w", f.UID, err)
	}
	return nil
}

// LayoutOf returns the enabled attribute handles. A format without a stored
// layout enables nothing.
func (s *SchemaStore) LayoutOf(ctx context.Context, kind domain.ItemKind, formatID int64) (domain.Layout, error) {
	layout := domain.Layout{Kind: kind, FormatID: formatID}

	var handles pq.StringArray
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &handles,
		`SELECT handles FROM layouts WHERE kind = $1 AND format_id = $2`, kind, formatID)
	if errors.Is(err, sql.ErrNoRows) {
		return layout, nil
	}
	if err != nil {
		return layout, fmt.Errorf("get layout %s/%d: %w", kind, formatID, err)
	}
	layout.Handles = handles
	return layout, nil
}

func (s *SchemaStore) PutLayout(ctx context.Context, l domain.Layout) error {
	query := `
		INSERT INTO layouts (kind, format_id, handles)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, format_id) DO UPDATE SET handles = EXCLUDED.handles`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, l.Kind, l.FormatID, pq.Array(l.Handles))
	if err != nil {
		return fmt.Errorf("put layout %s/%d: %w", l.Kind, l.FormatID, err)
	}
	return nil
}

func (s *SchemaStore) Mapping(ctx context.Context, formatID int64, concept domain.Concept) (domain.Mapping, error) {
	query := `SELECT concept, type, container, field FROM mappings WHERE format_id = $1 AND concept = $2`

	var m domain.Mapping
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &m, query, formatID, concept)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Mapping{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Mapping{}, fmt.Errorf("get mapping %s: %w", concept, err)
	}
	return m, nil
}

func (s *SchemaStore) Mappings(ctx context.Context, formatID int64) ([]domain.Mapping, error) {
	query := `SELECT concept, type, container, field FROM mappings WHERE format_id = $1 ORDER BY concept`

	var out []domain.Mapping
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &out, query, formatID); err != nil {
		return nil, fmt.Errorf("list mappings of format %d: %w", formatID, err)
	}
	return out, nil
}

func (s *SchemaStore) PutMapping(ctx context.Context, formatID int64, m domain.Mapping) error {
	query := `
		INSERT INTO mappings (format_id, concept, type, container, field)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (format_id, concept) DO UPDATE SET
			type = EXCLUDED.type,
			container = EXCLUDED.container,
			field = EXCLUDED.field`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, formatID, m.Concept, m.Type, m.Container, m.Field)
	if err != nil {
		return fmt.Errorf("put mapping %s: %w", m.Concept, err)
	}
	return nil
}
