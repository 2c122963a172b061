package domain

// Concept names a logical podcast concept that can be bound to any attribute.
type Concept string

const (
	ConceptMainAsset          Concept = "mainAsset"
	ConceptEpisodeImage       Concept = "episodeImage"
	ConceptEpisodeGenre       Concept = "episodeGenre"
	ConceptEpisodeKeywords    Concept = "episodeKeywords"
	ConceptEpisodePubDate     Concept = "episodePubDate"
	ConceptEpisodeSubtitle    Concept = "episodeSubtitle"
	ConceptEpisodeSummary     Concept = "episodeSummary"
	ConceptEpisodeDescription Concept = "episodeDescription"
	ConceptEpisodeContent     Concept = "episodeContent"

	ConceptPodcastImage       Concept = "podcastImage"
	ConceptPodcastCategory    Concept = "podcastCategory"
	ConceptPodcastSubtitle    Concept = "podcastSubtitle"
	ConceptPodcastDescription Concept = "podcastDescription"
	ConceptPodcastKeywords    Concept = "podcastKeywords"
)

// MappingType constrains which field kinds a concept may be bound to.
type MappingType string

const (
	MappingAsset    MappingType = "asset"
	MappingText     MappingType = "text"
	MappingDate     MappingType = "date"
	MappingTaxonomy MappingType = "taxonomy"
	MappingNumber   MappingType = "number"
)

func (t MappingType) Accepts(kind FieldKind) bool {
	switch t {
	case MappingAsset:
		return kind == FieldAsset
	case MappingText:
		return kind.IsText() || kind == FieldTable
	case MappingDate:
		return kind == FieldDate
	case MappingTaxonomy:
		return kind.IsTaxonomy() || kind.IsText()
	case MappingNumber:
		return kind == FieldNumber || kind == FieldPlainText
	}
	return false
}

// Mapping binds a concept to a field, optionally nested in a container path
// such as "chapters-BlockGrid|audio-BlockType|files-Table".
type Mapping struct {
	Concept   Concept     `json:"concept" db:"concept"`
	Type      MappingType `json:"type" db:"type"`
	Container string      `json:"container" db:"container"`
	Field     string      `json:"field" db:"field"`
}

func (m Mapping) IsSet() bool {
	return m.Field != ""
}
