// Package pathspec addresses attributes inside nested block containers.
//
// A path is written as up to three pipe separated "handle-Kind" segments:
//
//	chapters-BlockGrid|audio-BlockType|file-Table
//
// Segment 0 names a block container on the item (BlockGrid or BlockTable),
// segment 1 an optional block type within it, and a Table segment names the
// column of the mapped table field. A Table segment is always last and may
// also appear on its own to address a column of a top level table.
package pathspec

import (
	"fmt"
	"strings"

	"podcaster/internal/domain"
)

type SegmentKind string

const (
	KindBlockGrid  SegmentKind = "BlockGrid"
	KindBlockTable SegmentKind = "BlockTable"
	KindBlockType  SegmentKind = "BlockType"
	KindTable      SegmentKind = "Table"
)

// FieldKind returns the schema kind a container segment must match.
func (k SegmentKind) FieldKind() domain.FieldKind {
	switch k {
	case KindBlockGrid:
		return domain.FieldBlockGrid
	case KindBlockTable:
		return domain.FieldBlockTable
	case KindTable:
		return domain.FieldTable
	}
	return ""
}

type Segment struct {
	Handle string
	Kind   SegmentKind
}

func (s Segment) String() string {
	return s.Handle + "-" + string(s.Kind)
}

// PathSpec is a parsed container path. The zero value addresses the item's
// own attributes.
type PathSpec struct {
	Segments []Segment
}

const maxSegments = 3

// Parse turns a container path string into a PathSpec. An empty string
// yields an empty spec.
func Parse(raw string) (PathSpec, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, "|")
	for len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return PathSpec{}, nil
	}
	if len(parts) > maxSegments {
		return PathSpec{}, fmt.Errorf("%w: %q has %d segments", domain.ErrMalformedPath, raw, len(parts))
	}

	spec := PathSpec{Segments: make([]Segment, 0, len(parts))}
	for i, part := range parts {
		seg, err := parseSegment(strings.TrimSpace(part))
		if err != nil {
			return PathSpec{}, fmt.Errorf("segment %d of %q: %w", i, raw, err)
		}
		if err := checkPosition(i, len(parts), seg); err != nil {
			return PathSpec{}, fmt.Errorf("segment %d of %q: %w", i, raw, err)
		}
		spec.Segments = append(spec.Segments, seg)
	}
	return spec, nil
}

// MustParse is Parse for static paths in tests and defaults.
func MustParse(raw string) PathSpec {
	spec, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return spec
}

func parseSegment(part string) (Segment, error) {
	idx := strings.LastIndex(part, "-")
	if idx <= 0 || idx == len(part)-1 {
		return Segment{}, fmt.Errorf("%w: %q is not handle-Kind", domain.ErrMalformedPath, part)
	}
	kind := SegmentKind(part[idx+1:])
	switch kind {
	case KindBlockGrid, KindBlockTable, KindBlockType, KindTable:
	default:
		return Segment{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedContainerKind, kind)
	}
	return Segment{Handle: part[:idx], Kind: kind}, nil
}

func checkPosition(i, n int, seg Segment) error {
	if seg.Kind == KindTable {
		if i != n-1 {
			return fmt.Errorf("%w: Table segment must be last", domain.ErrUnsupportedContainerKind)
		}
		return nil
	}
	switch i {
	case 0:
		if seg.Kind != KindBlockGrid && seg.Kind != KindBlockTable {
			return fmt.Errorf("%w: %s cannot start a path", domain.ErrUnsupportedContainerKind, seg.Kind)
		}
	case 1:
		if seg.Kind != KindBlockType {
			return fmt.Errorf("%w: %s cannot follow a container", domain.ErrUnsupportedContainerKind, seg.Kind)
		}
	default:
		return fmt.Errorf("%w: only a Table segment may follow a block type", domain.ErrUnsupportedContainerKind)
	}
	return nil
}

func (p PathSpec) IsEmpty() bool {
	return len(p.Segments) == 0
}

// Container returns the top level container segment, if any.
func (p PathSpec) Container() (Segment, bool) {
	if len(p.Segments) == 0 || p.Segments[0].Kind == KindTable {
		return Segment{}, false
	}
	return p.Segments[0], true
}

func (p PathSpec) BlockType() (Segment, bool) {
	if len(p.Segments) > 1 && p.Segments[1].Kind == KindBlockType {
		return p.Segments[1], true
	}
	return Segment{}, false
}

// Column returns the table column segment, if the path ends in one.
func (p PathSpec) Column() (Segment, bool) {
	if len(p.Segments) == 0 {
		return Segment{}, false
	}
	last := p.Segments[len(p.Segments)-1]
	return last, last.Kind == KindTable
}

func (p PathSpec) String() string {
	parts := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		parts[i] = s.String()
	}
	return strings.Join(parts, "|")
}
