package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pulsegram/internal/model"
)

type hashtagRepository struct {
	db *sqlx.DB
}

func NewHashtagRepository(db *sqlx.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

// Upsert inserts the canonical tag or fetches the existing row in one
// statement. The DO UPDATE no-op makes RETURNING yield the row in both
// cases, so concurrent posts racing on a new tag converge on a single
// id without a separate read.
func (r *hashtagRepository) Upsert(ctx context.Context, tag string) (*model.Hashtag, error) {
	query := `
		INSERT INTO hashtags (tag)
		VALUES ($1)
		ON CONFLICT (tag) DO UPDATE SET tag = EXCLUDED.tag
		RETURNING id, tag, post_count
	`
	var h model.Hashtag
	err := r.db.GetContext(ctx, &h, query, tag)
	if err != nil {
		return nil, fmt.Errorf("upsert hashtag: %w", err)
	}
	return &h, nil
}

func (r *hashtagRepository) GetByTag(ctx context.Context, tag string) (*model.Hashtag, error) {
	var h model.Hashtag
	err := r.db.GetContext(ctx, &h, `SELECT id, tag, post_count FROM hashtags WHERE tag = $1`, tag)
	if err == sql.ErrNoRows {
		return nil, model.ErrHashtagNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get hashtag: %w", err)
	}
	return &h, nil
}

// Link creates the post<->tag join row. Returns false when the pair
// already existed.
func (r *hashtagRepository) Link(ctx context.Context, postID, hashtagID int64) (bool, error) {
	query := `
		INSERT INTO post_hashtags (post_id, hashtag_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, hashtag_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, postID, hashtagID)
	if err != nil {
		return false, fmt.Errorf("link hashtag: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

// AdjustPostCount atomically updates the tag's post_count.
func (r *hashtagRepository) AdjustPostCount(ctx context.Context, hashtagID int64, delta int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE hashtags SET post_count = post_count + $1 WHERE id = $2`, delta, hashtagID)
	if err != nil {
		return fmt.Errorf("adjust hashtag post count: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrHashtagNotFound
	}
	return nil
}

func (r *hashtagRepository) SetPostCount(ctx context.Context, hashtagID int64, count int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE hashtags SET post_count = $1 WHERE id = $2`, count, hashtagID)
	if err != nil {
		return fmt.Errorf("set hashtag post count: %w", err)
	}
	return nil
}

// CountLinks recomputes the true usage count from the join table.
func (r *hashtagRepository) CountLinks(ctx context.Context, hashtagID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM post_hashtags WHERE hashtag_id = $1`, hashtagID)
	if err != nil {
		return 0, fmt.Errorf("count hashtag links: %w", err)
	}
	return count, nil
}

// Search finds tags by prefix, case-insensitively, most used first.
func (r *hashtagRepository) Search(ctx context.Context, prefix string, limit int) ([]model.Hashtag, error) {
	query := `
		SELECT id, tag, post_count
		FROM hashtags
		WHERE tag ILIKE $1
		ORDER BY post_count DESC
		LIMIT $2
	`
	var tags []model.Hashtag
	err := r.db.SelectContext(ctx, &tags, query, prefix+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search hashtags: %w", err)
	}
	return tags, nil
}
