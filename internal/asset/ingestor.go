// Package asset turns downloaded or embedded binaries into stored assets and
// attaches them to content items.
package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"

	"podcaster/internal/domain"
)

type SchemaLookup interface {
	FieldByRef(ctx context.Context, ref string) (domain.FieldDescriptor, error)
}

type FolderResolver interface {
	ResolveUploadFolder(ctx context.Context, field domain.FieldDescriptor, item *domain.Item) (*domain.Folder, error)
}

type AssetStore interface {
	FilenameTaken(ctx context.Context, folderID int64, filename string) (bool, error)
	CreateAsset(ctx context.Context, a *domain.Asset) error
}

// Writer stores a value at a mapped location on an item.
type Writer interface {
	Write(ctx context.Context, item *domain.Item, m domain.Mapping, value any) error
}

// Source is the binary to ingest. Data takes precedence over Path.
type Source struct {
	Data []byte
	Path string
	MIME string
}

type Target struct {
	Item         *domain.Item
	Mapping      domain.Mapping
	BaseFilename string
	Extension    string
}

const maxFilenameAttempts = 100

type Ingestor struct {
	schema  SchemaLookup
	folders FolderResolver
	assets  AssetStore
	volumes Volumes
	writer  Writer
	logger  *slog.Logger
}

func NewIngestor(schema SchemaLookup, folders FolderResolver, assets AssetStore, volumes Volumes, writer Writer, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		schema:  schema,
		folders: folders,
		assets:  assets,
		volumes: volumes,
		writer:  writer,
		logger:  logger.With("component", "asset_ingestor"),
	}
}

// Ingest stores src as a new asset and writes its id to the target mapping.
//
// Failing to find an upload folder is returned as ErrInvalidUploadTarget with a
// nil asset. Storage failures return the asset with its Errors populated so the
// caller can continue without it.
func (i *Ingestor) Ingest(ctx context.Context, src Source, t Target) (*domain.Asset, error) {
	field, err := i.schema.FieldByRef(ctx, t.Mapping.Field)
	if err != nil {
		return nil, fmt.Errorf("%w: field %q: %v", domain.ErrInvalidUploadTarget, t.Mapping.Field, err)
	}
	if field.Kind != domain.FieldAsset {
		return nil, fmt.Errorf("%w: field %q is %s", domain.ErrInvalidUploadTarget, field.Handle, field.Kind)
	}

	folder, err := i.folders.ResolveUploadFolder(ctx, field, t.Item)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve folder for %q: %v", domain.ErrInvalidUploadTarget, field.Handle, err)
	}
	vol, ok := i.volumes.Volume(folder.Volume)
	if !ok {
		return nil, fmt.Errorf("%w: unknown volume %q", domain.ErrInvalidUploadTarget, folder.Volume)
	}

	ext := normalizeExt(t.Extension)
	filename, err := i.uniqueFilename(ctx, folder.ID, CleanFilename(t.BaseFilename), ext)
	if err != nil {
		return nil, fmt.Errorf("pick filename: %w", err)
	}

	a := &domain.Asset{
		Volume:   folder.Volume,
		FolderID: folder.ID,
		Filename: filename,
		Path:     path.Join(folder.Path, filename),
	}

	body, size, contentType, err := open(src, ext)
	if err != nil {
		a.AddError("read source: %v", err)
		return a, fmt.Errorf("open asset source: %w", err)
	}
	defer body.Close()
	a.MimeType = contentType
	a.Kind = domain.KindFromMIME(contentType)
	a.Size = size

	localPath, url, err := vol.Put(ctx, a.Path, body, size, contentType)
	if err != nil {
		a.AddError("upload to %s: %v", folder.Volume, err)
		i.logger.Warn("asset upload failed", "volume", folder.Volume, "path", a.Path, "error", err)
		return a, fmt.Errorf("upload asset: %w", err)
	}
	a.LocalPath = localPath
	a.URL = url

	if err := i.assets.CreateAsset(ctx, a); err != nil {
		a.AddError("save asset: %v", err)
		return a, fmt.Errorf("create asset: %w", err)
	}

	if err := i.writer.Write(ctx, t.Item, t.Mapping, []int64{a.ID}); err != nil {
		return a, fmt.Errorf("attach asset %d: %w", a.ID, err)
	}

	i.logger.Debug("asset ingested", "asset_id", a.ID, "path", a.Path, "size", a.Size)
	return a, nil
}

func (i *Ingestor) uniqueFilename(ctx context.Context, folderID int64, base, ext string) (string, error) {
	for n := 0; n < maxFilenameAttempts; n++ {
		name := base
		if n > 0 {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		if ext != "" {
			name += "." + ext
		}
		taken, err := i.assets.FilenameTaken(ctx, folderID, name)
		if err != nil {
			return "", err
		}
		if !taken {
			return name, nil
		}
	}
	return "", errors.New("no free filename for " + base)
}

func open(src Source, ext string) (io.ReadCloser, int64, string, error) {
	var (
		body  io.ReadCloser
		size  int64
		sniff []byte
	)
	switch {
	case src.Data != nil:
		body = io.NopCloser(bytes.NewReader(src.Data))
		size = int64(len(src.Data))
		sniff = src.Data
	case src.Path != "":
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, 0, "", err
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, 0, "", err
		}
		head := make([]byte, 512)
		n, _ := io.ReadFull(f, head)
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			f.Close()
			return nil, 0, "", err
		}
		body, size, sniff = f, info.Size(), head[:n]
	default:
		return nil, 0, "", errors.New("empty source")
	}

	contentType := src.MIME
	if contentType == "" && ext != "" {
		contentType = mime.TypeByExtension("." + ext)
	}
	if contentType == "" {
		contentType = http.DetectContentType(sniff)
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}
	return body, size, contentType, nil
}
