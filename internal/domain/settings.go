package domain

import "time"

type GenreOption string

const (
	GenreOnlyMetadata         GenreOption = "only-metadata"
	GenreOnlyDefault          GenreOption = "only-default"
	GenreDefaultIfNotMetadata GenreOption = "default-if-not-metadata"
	GenreMetadataAndDefault   GenreOption = "metadata-and-default"
)

// SourceOption selects where image and publish date values come from.
type SourceOption string

const (
	SourceOnlyMetadata         SourceOption = "only-metadata"
	SourceOnlyDefault          SourceOption = "only-default"
	SourceDefaultIfNotMetadata SourceOption = "default-if-not-metadata"
)

func (o SourceOption) UsesMetadata() bool {
	return o == SourceOnlyMetadata || o == SourceDefaultIfNotMetadata
}

// ImportSettings are the per-podcast metadata import policies.
type ImportSettings struct {
	PodcastID           int64        `json:"podcastId"`
	IfMetaValueNotEmpty bool         `json:"ifMetaValueNotEmpty"`
	GenreImportOption   GenreOption  `json:"genreImportOption"`
	GenreImportCheck    bool         `json:"genreImportCheck"` // only existing genres may be used
	DefaultGenres       []int64      `json:"defaultGenres"`
	ImageOption         SourceOption `json:"imageOption"`
	DefaultImage        []int64      `json:"defaultImage"`
	PubDateOption       SourceOption `json:"pubDateOption"`
	DefaultPubDate      *time.Time   `json:"defaultPubDate"`
	VolumesAllowed      []string     `json:"volumesAllowed"`
	ImportOnIndex       bool         `json:"importOnIndex"`
}

func (s ImportSettings) VolumeAllowed(handle string) bool {
	for _, v := range s.VolumesAllowed {
		if v == handle {
			return true
		}
	}
	return false
}

// ImportFlags are supplied per import run by the operator.
type ImportFlags struct {
	OverwriteTitle   bool `json:"overwriteTitle"`
	OverwriteNumber  bool `json:"overwriteNumber"`
	OverwriteImage   bool `json:"overwriteImage"`
	OverwritePubDate bool `json:"overwritePubDate"`
	Preview          bool `json:"preview"`
}
