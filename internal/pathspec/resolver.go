package pathspec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"podcaster/internal/domain"
)

// SchemaLookup resolves field references against the administrator schema.
type SchemaLookup interface {
	FieldByRef(ctx context.Context, ref string) (domain.FieldDescriptor, error)
	FieldByHandle(ctx context.Context, handle string) (domain.FieldDescriptor, error)
}

type AssetLookup interface {
	AssetByID(ctx context.Context, id int64) (*domain.Asset, error)
}

type MappingLookup interface {
	Mapping(ctx context.Context, formatID int64, concept domain.Concept) (domain.Mapping, error)
}

// Resolved is the outcome of reading a mapping on an item.
type Resolved struct {
	Found   bool
	Value   any
	Field   domain.FieldDescriptor
	Asset   *domain.Asset // first referenced asset for asset fields
	BlockID string        // owning block when the value lives in a container
}

// Empty reports whether nothing usable was found.
func (r Resolved) Empty() bool {
	return !r.Found || domain.IsEmpty(r.Value)
}

func (r Resolved) String() string {
	return domain.ToString(r.Value)
}

// Resolver reads and writes mapped values wherever they live in an item.
type Resolver struct {
	schema   SchemaLookup
	assets   AssetLookup
	mappings MappingLookup
	logger   *slog.Logger
}

func NewResolver(schema SchemaLookup, assets AssetLookup, mappings MappingLookup, logger *slog.Logger) *Resolver {
	return &Resolver{
		schema:   schema,
		assets:   assets,
		mappings: mappings,
		logger:   logger.With("component", "resolver"),
	}
}

// Mapping returns the descriptor bound to concept for the item's format. An
// unbound concept yields a zero mapping and no error.
func (r *Resolver) Mapping(ctx context.Context, item *domain.Item, concept domain.Concept) (domain.Mapping, error) {
	m, err := r.mappings.Mapping(ctx, item.FormatID, concept)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Mapping{Concept: concept}, nil
	}
	if err != nil {
		return domain.Mapping{}, fmt.Errorf("lookup mapping %s: %w", concept, err)
	}
	m.Concept = concept
	return m, nil
}

// Field returns the descriptor a mapping points at.
func (r *Resolver) Field(ctx context.Context, m domain.Mapping) (domain.FieldDescriptor, bool, error) {
	if !m.IsSet() {
		return domain.FieldDescriptor{}, false, nil
	}
	field, err := r.schema.FieldByRef(ctx, m.Field)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.FieldDescriptor{}, false, nil
	}
	if err != nil {
		return domain.FieldDescriptor{}, false, fmt.Errorf("lookup field %s: %w", m.Field, err)
	}
	return field, true, nil
}

func (r *Resolver) ResolveConcept(ctx context.Context, item *domain.Item, concept domain.Concept) (Resolved, error) {
	m, err := r.Mapping(ctx, item, concept)
	if err != nil {
		return Resolved{}, err
	}
	return r.Resolve(ctx, item, m)
}

func (r *Resolver) WriteConcept(ctx context.Context, item *domain.Item, concept domain.Concept, value any) error {
	m, err := r.Mapping(ctx, item, concept)
	if err != nil {
		return err
	}
	return r.Write(ctx, item, m, value)
}

// target is a mapping checked against the schema.
type target struct {
	spec      PathSpec
	field     domain.FieldDescriptor
	column    string
	container domain.FieldDescriptor
	// blockType restricts matching to one block type when the path names it.
	blockType string
	// newBlockType is the type of a block synthesized by a write.
	newBlockType string
}

// prepare parses and validates a mapping. ok is false when the schema chain
// does not exist, which readers treat as "not found".
func (r *Resolver) prepare(ctx context.Context, m domain.Mapping) (target, bool, error) {
	spec, err := Parse(m.Container)
	if err != nil {
		return target{}, false, err
	}
	field, ok, err := r.Field(ctx, m)
	if err != nil || !ok {
		return target{}, false, err
	}

	t := target{spec: spec, field: field}
	if col, ok := spec.Column(); ok {
		if field.Kind != domain.FieldTable {
			return target{}, false, fmt.Errorf("%w: %s addresses column %q but %s is %s",
				domain.ErrSchemaMismatch, m.Concept, col.Handle, field.Handle, field.Kind)
		}
		if len(field.Columns) > 0 && !contains(field.Columns, col.Handle) {
			return target{}, false, fmt.Errorf("%w: table %s has no column %q",
				domain.ErrSchemaMismatch, field.Handle, col.Handle)
		}
		t.column = col.Handle
	} else if m.Type != "" && !m.Type.Accepts(field.Kind) {
		return target{}, false, fmt.Errorf("%w: %s expects %s but %s is %s",
			domain.ErrSchemaMismatch, m.Concept, m.Type, field.Handle, field.Kind)
	}

	seg, nested := spec.Container()
	if !nested {
		return t, true, nil
	}

	container, err := r.schema.FieldByHandle(ctx, seg.Handle)
	if errors.Is(err, domain.ErrNotFound) {
		return target{}, false, nil
	}
	if err != nil {
		return target{}, false, fmt.Errorf("lookup container %s: %w", seg.Handle, err)
	}
	if !container.Kind.IsContainer() {
		return target{}, false, fmt.Errorf("%w: %s is %s", domain.ErrUnsupportedContainerKind, seg.Handle, container.Kind)
	}
	if container.Kind != seg.Kind.FieldKind() {
		return target{}, false, fmt.Errorf("%w: path says %s but %s is %s",
			domain.ErrSchemaMismatch, seg.Kind, seg.Handle, container.Kind)
	}
	t.container = container

	if bt, ok := spec.BlockType(); ok {
		blockType, exists := container.BlockType(bt.Handle)
		if !exists {
			return target{}, false, nil
		}
		if _, has := blockType.Field(field.Handle); !has {
			return target{}, false, nil
		}
		t.blockType = bt.Handle
		t.newBlockType = bt.Handle
		return t, true, nil
	}

	// Without a block type segment any block carrying the field matches. The
	// first block type defining the field is used for new blocks.
	for _, blockType := range container.BlockTypes {
		if _, has := blockType.Field(field.Handle); has {
			t.newBlockType = blockType.Handle
			return t, true, nil
		}
	}
	return target{}, false, nil
}

// Resolve reads the value mapped by m. Blocks are scanned in declared order
// and the first one carrying the field wins.
func (r *Resolver) Resolve(ctx context.Context, item *domain.Item, m domain.Mapping) (Resolved, error) {
	t, ok, err := r.prepare(ctx, m)
	if err != nil {
		return Resolved{}, err
	}
	if !ok {
		return Resolved{}, nil
	}

	seg, nested := t.spec.Container()
	if !nested {
		v, found := t.read(item.Attributes)
		if !found {
			return Resolved{Field: t.field}, nil
		}
		return r.extract(ctx, t.field, v, "")
	}

	container := item.Container(seg.Handle)
	if container == nil {
		return Resolved{Field: t.field}, nil
	}
	if block := t.firstBlock(container); block != nil {
		v, _ := t.read(block.Fields)
		return r.extract(ctx, t.field, v, block.ID)
	}
	return Resolved{Field: t.field}, nil
}

// Write stores value at the location mapped by m. An existing block carrying
// the field only has that slot replaced; otherwise a new block is appended.
func (r *Resolver) Write(ctx context.Context, item *domain.Item, m domain.Mapping, value any) error {
	t, ok, err := r.prepare(ctx, m)
	if err != nil {
		return fmt.Errorf("write %s: %w", m.Concept, err)
	}
	if !ok {
		return fmt.Errorf("write %s: field %q at %q: %w", m.Concept, m.Field, m.Container, domain.ErrNotFound)
	}

	seg, nested := t.spec.Container()
	if !nested {
		if item.Attributes == nil {
			item.Attributes = make(map[string]any)
		}
		t.write(item.Attributes, value)
		return nil
	}

	container := item.EnsureContainer(seg.Handle, t.container.Kind)
	if block := t.firstBlock(container); block != nil {
		t.write(block.Fields, value)
		return nil
	}

	block := &domain.Block{
		ID:     nextTransientID(container),
		Type:   t.newBlockType,
		Fields: make(map[string]any),
	}
	t.write(block.Fields, value)
	container.Blocks = append(container.Blocks, block)

	r.logger.Debug("appended block",
		"concept", m.Concept,
		"container", seg.Handle,
		"block_type", t.newBlockType,
		"block_id", block.ID,
	)
	return nil
}

func (t target) firstBlock(c *domain.Container) *domain.Block {
	for _, block := range c.Blocks {
		if block == nil || (t.blockType != "" && block.Type != t.blockType) {
			continue
		}
		if _, ok := t.read(block.Fields); ok {
			return block
		}
	}
	return nil
}

// read reports whether fields carries the target slot.
func (t target) read(fields map[string]any) (any, bool) {
	v, ok := fields[t.field.Handle]
	if !ok {
		return nil, false
	}
	if t.column == "" {
		return v, true
	}
	for _, row := range domain.ToRows(v) {
		if cell, ok := row[t.column]; ok {
			return cell, true
		}
	}
	return nil, false
}

func (t target) write(fields map[string]any, value any) {
	if t.column == "" {
		fields[t.field.Handle] = value
		return
	}
	rows := domain.ToRows(fields[t.field.Handle])
	for _, row := range rows {
		if _, ok := row[t.column]; ok {
			row[t.column] = value
			fields[t.field.Handle] = rows
			return
		}
	}
	if len(rows) > 0 {
		rows[0][t.column] = value
	} else {
		rows = domain.TableRows{{t.column: value}}
	}
	fields[t.field.Handle] = rows
}

func (r *Resolver) extract(ctx context.Context, field domain.FieldDescriptor, v any, blockID string) (Resolved, error) {
	res := Resolved{Found: true, Value: v, Field: field, BlockID: blockID}
	if field.Kind != domain.FieldAsset {
		return res, nil
	}
	ids := domain.ToIDs(v)
	if len(ids) == 0 {
		return res, nil
	}
	asset, err := r.assets.AssetByID(ctx, ids[0])
	if errors.Is(err, domain.ErrNotFound) {
		r.logger.Warn("mapped asset is missing", "field", field.Handle, "asset_id", ids[0])
		return res, nil
	}
	if err != nil {
		return Resolved{}, fmt.Errorf("load asset %d: %w", ids[0], err)
	}
	res.Asset = asset
	return res, nil
}

func nextTransientID(c *domain.Container) string {
	n := 0
	for _, b := range c.Blocks {
		if b == nil || !b.IsTransient() {
			continue
		}
		if k, err := strconv.Atoi(strings.TrimPrefix(b.ID, domain.TransientBlockPrefix)); err == nil && k > n {
			n = k
		}
	}
	return domain.TransientBlockPrefix + strconv.Itoa(n+1)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
