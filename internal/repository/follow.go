package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pulsegram/internal/model"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the follow edge. The unique constraint on
// (follower_id, followee_id) is the safety net for concurrent inserts:
// ON CONFLICT DO NOTHING resolves the race at the store, and a zero
// RowsAffected tells the caller the edge already existed.
func (r *followRepository) Create(ctx context.Context, followerID, followeeID int64) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("failed to create follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID int64) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`
	result, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotFollowing
	}

	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

// GetFollowers returns users who follow the specified user, newest
// edge first, offset-paged.
func (r *followRepository) GetFollowers(ctx context.Context, userID int64, offset, limit int) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.display_name, u.avatar_url, u.is_verified
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC
		OFFSET $2 LIMIT $3
	`
	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, query, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	return users, nil
}

// GetFollowing returns users the specified user follows, newest edge
// first, offset-paged.
func (r *followRepository) GetFollowing(ctx context.Context, userID int64, offset, limit int) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.display_name, u.avatar_url, u.is_verified
		FROM follows f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		OFFSET $2 LIMIT $3
	`
	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, query, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}
	return users, nil
}

// CheckFollows batch-checks which of the given users the follower
// follows. One query with ANY($2), not N+1.
func (r *followRepository) CheckFollows(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error) {
	if len(followeeIDs) == 0 {
		return make(map[int64]bool), nil
	}

	query := `SELECT followee_id FROM follows WHERE follower_id = $1 AND followee_id = ANY($2)`
	var followedIDs []int64
	err := r.db.SelectContext(ctx, &followedIDs, query, followerID, pq.Array(followeeIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check follows: %w", err)
	}

	result := make(map[int64]bool)
	for _, id := range followeeIDs {
		result[id] = false
	}
	for _, id := range followedIDs {
		result[id] = true
	}

	return result, nil
}

// CountFollowers recomputes the true follower count from the edge
// table. Used by the reconciler to heal counter drift.
func (r *followRepository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM follows WHERE followee_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count following: %w", err)
	}
	return count, nil
}
