package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"podcaster/internal/domain"
)

// ContentStore keeps podcasts and episodes in the items table. Flat
// attributes and block containers are stored as JSONB documents.
type ContentStore struct {
	db *sqlx.DB
}

func NewContentStore(db *sqlx.DB) *ContentStore {
	return &ContentStore{db: db}
}

type itemRow struct {
	ID          int64        `db:"id"`
	Kind        string       `db:"kind"`
	FormatID    int64        `db:"format_id"`
	PodcastID   int64        `db:"podcast_id"`
	SiteID      int64        `db:"site_id"`
	Title       string       `db:"title"`
	Slug        string       `db:"slug"`
	Enabled     bool         `db:"enabled"`
	SiteEnabled bool         `db:"site_enabled"`
	PostDate    sql.NullTime `db:"post_date"`
	Attributes  []byte       `db:"attributes"`
	Containers  []byte       `db:"containers"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

const itemColumns = `id, kind, format_id, podcast_id, site_id, title, slug, enabled, site_enabled,
	post_date, attributes, containers, created_at, updated_at`

func (r itemRow) toDomain() (*domain.Item, error) {
	item := &domain.Item{
		ID:          r.ID,
		Kind:        domain.ItemKind(r.Kind),
		FormatID:    r.FormatID,
		PodcastID:   r.PodcastID,
		SiteID:      r.SiteID,
		Title:       r.Title,
		Slug:        r.Slug,
		Enabled:     r.Enabled,
		SiteEnabled: r.SiteEnabled,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Attributes:  make(map[string]any),
		Containers:  make(map[string]*domain.Container),
	}
	if r.PostDate.Valid {
		t := r.PostDate.Time
		item.PostDate = &t
	}
	if err := decodeJSON(r.Attributes, &item.Attributes); err != nil {
		return nil, fmt.Errorf("item %d attributes: %w", r.ID, err)
	}
	if err := decodeJSON(r.Containers, &item.Containers); err != nil {
		return nil, fmt.Errorf("item %d containers: %w", r.ID, err)
	}
	return item, nil
}

// ItemByID loads an item. siteID 0 matches any site.
func (s *ContentStore) ItemByID(ctx context.Context, id, siteID int64) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND ($2::bigint = 0 OR site_id = $2::bigint)`

	var row itemRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, id, siteID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return row.toDomain()
}

func (s *ContentStore) EpisodesOf(ctx context.Context, podcastID, siteID int64) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE kind = 'episode' AND podcast_id = $1 AND ($2::bigint = 0 OR site_id = $2::bigint)
		ORDER BY id`

	var rows []itemRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, podcastID, siteID); err != nil {
		return nil, fmt.Errorf("list episodes of %d: %w", podcastID, err)
	}

	items := make([]*domain.Item, 0, len(rows))
	for _, r := range rows {
		item, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *ContentStore) EpisodeByGUID(ctx context.Context, podcastID int64, guid string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE kind = 'episode' AND podcast_id = $1 AND attributes ->> 'episodeGUID' = $2
		ORDER BY id
		LIMIT 1`

	var row itemRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, podcastID, guid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find episode by guid: %w", err)
	}
	return row.toDomain()
}

// EpisodeByTitle returns the oldest episode of podcastID with exactly title.
func (s *ContentStore) EpisodeByTitle(ctx context.Context, podcastID int64, title string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE kind = 'episode' AND podcast_id = $1 AND title = $2
		ORDER BY id
		LIMIT 1`

	var row itemRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, podcastID, title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find episode by title: %w", err)
	}
	return row.toDomain()
}

// Create inserts item and sets its id. A podcast owns itself.
func (s *ContentStore) Create(ctx context.Context, item *domain.Item) error {
	attrs, containers, err := encodeDocuments(item)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO items (
			kind, format_id, podcast_id, site_id, title, slug, enabled, site_enabled,
			post_date, attributes, containers, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		RETURNING id`

	exec := GetExecutor(ctx, s.db)
	err = exec.QueryRowxContext(ctx, query,
		item.Kind,
		item.FormatID,
		item.PodcastID,
		item.SiteID,
		item.Title,
		item.Slug,
		item.Enabled,
		item.SiteEnabled,
		item.PostDate,
		attrs,
		containers,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	if item.Kind == domain.KindPodcast && item.PodcastID == 0 {
		if _, err := exec.ExecContext(ctx, `UPDATE items SET podcast_id = id WHERE id = $1`, item.ID); err != nil {
			return fmt.Errorf("set podcast owner: %w", err)
		}
		item.PodcastID = item.ID
	}
	return nil
}

func (s *ContentStore) Update(ctx context.Context, item *domain.Item) error {
	attrs, containers, err := encodeDocuments(item)
	if err != nil {
		return err
	}

	query := `
		UPDATE items SET
			format_id = $2,
			podcast_id = $3,
			site_id = $4,
			title = $5,
			slug = $6,
			enabled = $7,
			site_enabled = $8,
			post_date = $9,
			attributes = $10,
			containers = $11,
			updated_at = $12
		WHERE id = $1`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		item.ID,
		item.FormatID,
		item.PodcastID,
		item.SiteID,
		item.Title,
		item.Slug,
		item.Enabled,
		item.SiteEnabled,
		item.PostDate,
		attrs,
		containers,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update item %d: %w", item.ID, domain.ErrNotFound)
	}
	return nil
}

// encodeDocuments serializes the attribute and container documents. Blocks
// still carrying a transient id get a permanent one.
func encodeDocuments(item *domain.Item) ([]byte, []byte, error) {
	attributes := item.Attributes
	if attributes == nil {
		attributes = map[string]any{}
	}
	attrs, err := encodeJSON(attributes)
	if err != nil {
		return nil, nil, err
	}

	blocks := item.Containers
	if blocks == nil {
		blocks = map[string]*domain.Container{}
	}
	for _, c := range blocks {
		for _, b := range c.Blocks {
			if b != nil && b.IsTransient() {
				b.ID = uuid.NewString()
			}
		}
	}
	containers, err := encodeJSON(blocks)
	if err != nil {
		return nil, nil, err
	}
	return attrs, containers, nil
}
