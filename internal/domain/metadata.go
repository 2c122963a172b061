package domain

// Origin tells the metadata extractor how to reach a media file.
type Origin int

const (
	OriginLocal Origin = iota
	OriginRemote
)

func (o Origin) String() string {
	if o == OriginRemote {
		return "remote"
	}
	return "local"
}

// TagMetadata is what could be read from one media file. Every field is
// optional; zero values mean the tag was absent.
type TagMetadata struct {
	DurationSeconds int
	Title           string
	TrackNumber     int
	Genres          []string
	Image           *EmbeddedImage
	Year            string
}

type EmbeddedImage struct {
	Data []byte
	MIME string
	Ext  string
}

func (m TagMetadata) IsEmpty() bool {
	return m.DurationSeconds == 0 && m.Title == "" && m.TrackNumber == 0 &&
		len(m.Genres) == 0 && m.Image == nil && m.Year == ""
}
