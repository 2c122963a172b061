package domain

import (
	"fmt"
	"time"
)

type AssetKind string

const (
	AssetAudio AssetKind = "audio"
	AssetVideo AssetKind = "video"
	AssetImage AssetKind = "image"
	AssetOther AssetKind = "other"
)

// Asset is a stored binary file. LocalPath is set for filesystem volumes,
// URL for volumes with a public base URL.
type Asset struct {
	ID        int64     `db:"id"`
	Volume    string    `db:"volume"`
	FolderID  int64     `db:"folder_id"`
	Filename  string    `db:"filename"`
	Kind      AssetKind `db:"kind"`
	MimeType  string    `db:"mime_type"`
	Size      int64     `db:"size"`
	Path      string    `db:"path"`
	URL       string    `db:"url"`
	LocalPath string    `db:"local_path"`
	CreatedAt time.Time `db:"created_at"`

	Errors []string `db:"-"`
}

func (a *Asset) AddError(format string, args ...any) {
	a.Errors = append(a.Errors, fmt.Sprintf(format, args...))
}

func (a *Asset) HasErrors() bool {
	return len(a.Errors) > 0
}

// Location returns where the binary can be read from, preferring local access.
func (a *Asset) Location() (Origin, string) {
	if a.LocalPath != "" {
		return OriginLocal, a.LocalPath
	}
	return OriginRemote, a.URL
}

type Folder struct {
	ID     int64  `db:"id"`
	Volume string `db:"volume"`
	Path   string `db:"path"`
}

// KindFromMIME maps a MIME type to an asset kind.
func KindFromMIME(mime string) AssetKind {
	switch {
	case len(mime) >= 6 && mime[:6] == "audio/":
		return AssetAudio
	case len(mime) >= 6 && mime[:6] == "video/":
		return AssetVideo
	case len(mime) >= 6 && mime[:6] == "image/":
		return AssetImage
	}
	return AssetOther
}
