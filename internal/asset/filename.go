package asset

import (
	"path"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"podcaster/internal/domain"
)

const maxFilenameBytes = 120

// CleanFilename reduces base to a safe file name stem.
func CleanFilename(base string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.TrimSpace(base) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.':
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteRune('-')
			lastDash = true
		}
	}
	name := strings.Trim(b.String(), "-.")
	if name == "" {
		return uuid.NewString()
	}
	if len(name) > maxFilenameBytes {
		n := maxFilenameBytes
		for n > 0 && !utf8.RuneStart(name[n]) {
			n--
		}
		name = name[:n]
	}
	return name
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

// ExpandSubpath fills the {podcast}, {site} and {slug} placeholders of an
// upload subpath template for item. The result has no leading or trailing
// slash and never climbs out of the volume root.
func ExpandSubpath(template string, item *domain.Item) string {
	slug := strings.ToLower(CleanFilename(item.Slug))
	if item.Slug == "" {
		slug = "untitled"
	}
	r := strings.NewReplacer(
		"{podcast}", strconv.FormatInt(item.PodcastID, 10),
		"{site}", strconv.FormatInt(item.SiteID, 10),
		"{slug}", slug,
	)
	p := path.Clean("/" + r.Replace(template))
	return strings.Trim(p, "/")
}
