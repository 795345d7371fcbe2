package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pulsegram/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post and returns the stored row.
func (r *postRepository) Create(ctx context.Context, userID int64, content string, mediaURL, mediaType *string) (*model.Post, error) {
	query := `
		INSERT INTO posts (user_id, content, media_url, media_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, content, media_url, media_type, like_count, comment_count, created_at
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, userID, content, mediaURL, mediaType)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return &post, nil
}

// GetByID retrieves a single post.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `
		SELECT id, user_id, content, media_url, media_type, like_count, comment_count, created_at
		FROM posts
		WHERE id = $1
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// Delete removes the post row. Likes, comments and hashtag links are
// removed by ON DELETE CASCADE; hashtag post_count is left untouched.
func (r *postRepository) Delete(ctx context.Context, postID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// Exists checks if a post exists.
func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID)
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return exists, nil
}

// GetFeedPage returns one page of posts newest-first, with the author
// projection joined in the same query. Offset paging has no stability
// guarantee across concurrent inserts; accepted as a documented
// limitation of the feed contract.
func (r *postRepository) GetFeedPage(ctx context.Context, offset, limit int) ([]model.FeedPost, error) {
	query := `
		SELECT p.id, p.user_id, p.content, p.media_url, p.media_type,
		       p.like_count, p.comment_count, p.created_at,
		       u.id as "author.id", u.username as "author.username",
		       u.display_name as "author.display_name", u.avatar_url as "author.avatar_url",
		       u.is_verified as "author.is_verified"
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
		OFFSET $1 LIMIT $2
	`

	type feedRow struct {
		model.Post
		AuthorID       int64   `db:"author.id"`
		AuthorUsername string  `db:"author.username"`
		AuthorDisplay  *string `db:"author.display_name"`
		AuthorAvatar   *string `db:"author.avatar_url"`
		AuthorVerified bool    `db:"author.is_verified"`
	}

	var rows []feedRow
	err := r.db.SelectContext(ctx, &rows, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("get feed page: %w", err)
	}

	posts := make([]model.FeedPost, len(rows))
	for i, row := range rows {
		posts[i] = model.FeedPost{
			Post: row.Post,
			Author: model.UserSummary{
				ID:          row.AuthorID,
				Username:    row.AuthorUsername,
				DisplayName: row.AuthorDisplay,
				AvatarURL:   row.AuthorAvatar,
				IsVerified:  row.AuthorVerified,
			},
		}
	}

	return posts, nil
}

// GetUserPosts returns one page of a user's posts newest-first.
func (r *postRepository) GetUserPosts(ctx context.Context, userID int64, offset, limit int) ([]model.Post, error) {
	query := `
		SELECT id, user_id, content, media_url, media_type, like_count, comment_count, created_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3
	`
	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("get user posts: %w", err)
	}
	return posts, nil
}

// LikeExists checks for the (post, user) like edge.
func (r *postRepository) LikeExists(ctx context.Context, postID, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("check like exists: %w", err)
	}
	return exists, nil
}

// InsertLike inserts the like edge. Returns false when the edge
// already existed (the unique pair constraint resolves races).
func (r *postRepository) InsertLike(ctx context.Context, postID, userID int64) (bool, error) {
	query := `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

// DeleteLike deletes the like edge. Returns ErrNotLiked if absent.
func (r *postRepository) DeleteLike(ctx context.Context, postID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotLiked
	}
	return nil
}

// GetLikers returns users who liked a post, newest like first.
func (r *postRepository) GetLikers(ctx context.Context, postID int64, offset, limit int) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.display_name, u.avatar_url, u.is_verified
		FROM post_likes pl
		JOIN users u ON u.id = pl.user_id
		WHERE pl.post_id = $1
		ORDER BY pl.created_at DESC
		OFFSET $2 LIMIT $3
	`
	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, query, postID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("get post likers: %w", err)
	}
	return users, nil
}

// AdjustLikeCount atomically updates the like_count on a post.
func (r *postRepository) AdjustLikeCount(ctx context.Context, postID int64, delta int) error {
	query := `UPDATE posts SET like_count = like_count + $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, delta, postID)
	if err != nil {
		return fmt.Errorf("adjust like count: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// AdjustCommentCount atomically updates the comment_count on a post.
func (r *postRepository) AdjustCommentCount(ctx context.Context, postID int64, delta int) error {
	query := `UPDATE posts SET comment_count = comment_count + $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, delta, postID)
	if err != nil {
		return fmt.Errorf("adjust comment count: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *postRepository) SetLikeCount(ctx context.Context, postID int64, count int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE posts SET like_count = $1 WHERE id = $2`, count, postID)
	if err != nil {
		return fmt.Errorf("set like count: %w", err)
	}
	return nil
}

func (r *postRepository) SetCommentCount(ctx context.Context, postID int64, count int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE posts SET comment_count = $1 WHERE id = $2`, count, postID)
	if err != nil {
		return fmt.Errorf("set comment count: %w", err)
	}
	return nil
}

// CountLikes recomputes the true like count from the edge table.
func (r *postRepository) CountLikes(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

func (r *postRepository) CountComments(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM post_comments WHERE post_id = $1`, postID)
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}

// CountLikesReceived sums cached like counts across a user's posts.
func (r *postRepository) CountLikesReceived(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COALESCE(SUM(like_count), 0) FROM posts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("count likes received: %w", err)
	}
	return count, nil
}
