package metadata

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dhowden/tag"

	"podcaster/internal/domain"
)

// TagReader reads embedded tags from a seekable local file.
type TagReader interface {
	Read(path string) (domain.TagMetadata, error)
}

// FileTagReader reads ID3, MP4, FLAC and Ogg tags.
type FileTagReader struct{}

// yearKeys are raw tag names that may hold a release year, most specific first.
var yearKeys = []string{"TYER", "TDRC", "TYE", "TDA", "\xa9day", "date", "year", "DATE", "YEAR"}

func (FileTagReader) Read(path string) (domain.TagMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.TagMetadata{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return domain.TagMetadata{}, fmt.Errorf("read tags: %w", err)
	}

	meta := domain.TagMetadata{
		Title:  strings.TrimSpace(m.Title()),
		Genres: SplitGenres(m.Genre()),
		Year:   rawYear(m),
	}
	if track, _ := m.Track(); track > 0 {
		meta.TrackNumber = track
	}
	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		meta.Image = &domain.EmbeddedImage{Data: pic.Data, MIME: pic.MIMEType, Ext: pic.Ext}
	}
	return meta, nil
}

func rawYear(m tag.Metadata) string {
	raw := m.Raw()
	for _, key := range yearKeys {
		if v, ok := raw[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if y := m.Year(); y > 0 {
		return strconv.Itoa(y)
	}
	return ""
}

// SplitGenres breaks a genre tag holding several values into trimmed,
// de-duplicated names, keeping their order.
func SplitGenres(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || r == 0
	})
	seen := make(map[string]bool, len(fields))
	genres := make([]string, 0, len(fields))
	for _, g := range fields {
		g = strings.TrimSpace(g)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		genres = append(genres, g)
	}
	return genres
}
