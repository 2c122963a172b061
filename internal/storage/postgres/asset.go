package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"podcaster/internal/asset"
	"podcaster/internal/domain"
)

type AssetStore struct {
	db *sqlx.DB
}

func NewAssetStore(db *sqlx.DB) *AssetStore {
	return &AssetStore{db: db}
}

const assetColumns = `id, volume, folder_id, filename, kind, mime_type, size, path, url, local_path, created_at`

func (s *AssetStore) AssetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	var a domain.Asset
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &a, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("asset %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get asset %d: %w", id, err)
	}
	return &a, nil
}

func (s *AssetStore) FilenameTaken(ctx context.Context, folderID int64, filename string) (bool, error) {
	var taken bool
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &taken,
		`SELECT EXISTS (SELECT 1 FROM assets WHERE folder_id = $1 AND filename = $2)`, folderID, filename)
	if err != nil {
		return false, fmt.Errorf("check filename %q: %w", filename, err)
	}
	return taken, nil
}

func (s *AssetStore) CreateAsset(ctx context.Context, a *domain.Asset) error {
	query := `
		INSERT INTO assets (volume, folder_id, filename, kind, mime_type, size, path, url, local_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		a.Volume,
		a.FolderID,
		a.Filename,
		a.Kind,
		a.MimeType,
		a.Size,
		a.Path,
		a.URL,
		a.LocalPath,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert asset %q: %w", a.Filename, err)
	}
	return nil
}

// ResolveUploadFolder returns the folder an asset field uploads into for
// item, creating the folder row on first use.
func (s *AssetStore) ResolveUploadFolder(ctx context.Context, field domain.FieldDescriptor, item *domain.Item) (*domain.Folder, error) {
	if field.Upload.Volume == "" {
		return nil, fmt.Errorf("field %q has no upload volume: %w", field.Handle, domain.ErrNotFound)
	}

	query := `
		INSERT INTO folders (volume, path)
		VALUES ($1, $2)
		ON CONFLICT (volume, path) DO UPDATE SET volume = EXCLUDED.volume
		RETURNING id, volume, path`

	var f domain.Folder
	p := asset.ExpandSubpath(field.Upload.Subpath, item)
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &f, query, field.Upload.Volume, p); err != nil {
		return nil, fmt.Errorf("resolve folder %s/%s: %w", field.Upload.Volume, p, err)
	}
	return &f, nil
}
