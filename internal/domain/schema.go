package domain

// FieldKind is the closed set of attribute kinds the schema can describe.
type FieldKind string

const (
	FieldAsset      FieldKind = "asset"
	FieldPlainText  FieldKind = "plainText"
	FieldRichText   FieldKind = "richText"
	FieldDate       FieldKind = "date"
	FieldNumber     FieldKind = "number"
	FieldToggle     FieldKind = "toggle"
	FieldDropdown   FieldKind = "dropdown"
	FieldCategories FieldKind = "categories"
	FieldTags       FieldKind = "tags"
	FieldEntries    FieldKind = "entries"
	FieldTable      FieldKind = "table"
	FieldBlockGrid  FieldKind = "blockGrid"
	FieldBlockTable FieldKind = "blockTable"
)

func (k FieldKind) IsContainer() bool {
	return k == FieldBlockGrid || k == FieldBlockTable
}

func (k FieldKind) IsTaxonomy() bool {
	return k == FieldCategories || k == FieldTags || k == FieldEntries
}

func (k FieldKind) IsText() bool {
	return k == FieldPlainText || k == FieldRichText || k == FieldDropdown
}

// TaxonomyKind returns the taxonomy a relation field points at.
func (k FieldKind) TaxonomyKind() TaxonomyKind {
	switch k {
	case FieldCategories:
		return TaxonomyCategory
	case FieldTags:
		return TaxonomyTag
	case FieldEntries:
		return TaxonomyEntry
	}
	return ""
}

// FieldDescriptor describes one attribute, top level or nested in a block type.
type FieldDescriptor struct {
	UID        string      `json:"uid"`
	Handle     string      `json:"handle"`
	Kind       FieldKind   `json:"kind"`
	Columns    []string    `json:"columns,omitempty"`
	BlockTypes []BlockType `json:"blockTypes,omitempty"`
	GroupID    int64       `json:"groupId,omitempty"`
	Upload     Upload      `json:"upload,omitempty"`
}

// Upload is the default upload location of an asset field. Subpath may use
// the {podcast}, {slug} and {site} placeholders.
type Upload struct {
	Volume  string `json:"volume,omitempty"`
	Subpath string `json:"subpath,omitempty"`
}

type BlockType struct {
	Handle string            `json:"handle"`
	Fields []FieldDescriptor `json:"fields"`
}

func (f FieldDescriptor) BlockType(handle string) (BlockType, bool) {
	for _, bt := range f.BlockTypes {
		if bt.Handle == handle {
			return bt, true
		}
	}
	return BlockType{}, false
}

func (b BlockType) Field(handle string) (FieldDescriptor, bool) {
	for _, f := range b.Fields {
		if f.Handle == handle {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Layout lists the attribute handles enabled for an item kind within a format.
type Layout struct {
	Kind     ItemKind
	FormatID int64
	Handles  []string
}

func (l Layout) Has(handle string) bool {
	for _, h := range l.Handles {
		if h == handle {
			return true
		}
	}
	return false
}
