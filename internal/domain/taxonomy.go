package domain

type TaxonomyKind string

const (
	TaxonomyCategory TaxonomyKind = "category"
	TaxonomyTag      TaxonomyKind = "tag"
	TaxonomyEntry    TaxonomyKind = "entry"
)

// Term is a taxonomy item usable as a genre, keyword or category.
type Term struct {
	ID       int64        `db:"id"`
	Kind     TaxonomyKind `db:"kind"`
	GroupID  int64        `db:"group_id"`
	Title    string       `db:"title"`
	ParentID *int64       `db:"parent_id"`
}
