package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"podcaster/internal/domain"
)

type SettingsStore struct {
	db *sqlx.DB
}

func NewSettingsStore(db *sqlx.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) ImportSettings(ctx context.Context, podcastID int64) (domain.ImportSettings, error) {
	var raw []byte
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &raw,
		`SELECT settings FROM import_settings WHERE podcast_id = $1`, podcastID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ImportSettings{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ImportSettings{}, fmt.Errorf("get import settings of %d: %w", podcastID, err)
	}

	var settings domain.ImportSettings
	if err := decodeJSON(raw, &settings); err != nil {
		return domain.ImportSettings{}, err
	}
	settings.PodcastID = podcastID
	return settings, nil
}

func (s *SettingsStore) PutImportSettings(ctx context.Context, settings domain.ImportSettings) error {
	raw, err := encodeJSON(settings)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO import_settings (podcast_id, settings, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (podcast_id) DO UPDATE SET
			settings = EXCLUDED.settings,
			updated_at = EXCLUDED.updated_at`

	if _, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, settings.PodcastID, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("put import settings of %d: %w", settings.PodcastID, err)
	}
	return nil
}
