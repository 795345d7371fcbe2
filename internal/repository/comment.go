package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"pulsegram/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment and returns the stored row.
func (r *commentRepository) Create(ctx context.Context, postID, userID int64, content string) (*model.Comment, error) {
	query := `
		INSERT INTO post_comments (post_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, post_id, user_id, content, created_at
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, postID, userID, content)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

// GetByID retrieves a single comment.
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, post_id, user_id, content, created_at
		FROM post_comments
		WHERE id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// Delete removes the comment row. post.comment_count is deliberately
// not reconciled on deletion; callers own that decision.
func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// GetByPostID returns one page of comments for a post, newest first,
// with the author projection joined in.
func (r *commentRepository) GetByPostID(ctx context.Context, postID int64, offset, limit int) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       u.id as "author.id", u.username as "author.username",
		       u.display_name as "author.display_name", u.avatar_url as "author.avatar_url",
		       u.is_verified as "author.is_verified"
		FROM post_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.id DESC
		OFFSET $2 LIMIT $3
	`

	type commentRow struct {
		ID             int64     `db:"id"`
		PostID         int64     `db:"post_id"`
		UserID         int64     `db:"user_id"`
		Content        string    `db:"content"`
		CreatedAt      time.Time `db:"created_at"`
		AuthorID       int64     `db:"author.id"`
		AuthorUsername string    `db:"author.username"`
		AuthorDisplay  *string   `db:"author.display_name"`
		AuthorAvatar   *string   `db:"author.avatar_url"`
		AuthorVerified bool      `db:"author.is_verified"`
	}

	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, query, postID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = model.Comment{
			ID:        row.ID,
			PostID:    row.PostID,
			UserID:    row.UserID,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
			Author: &model.UserSummary{
				ID:          row.AuthorID,
				Username:    row.AuthorUsername,
				DisplayName: row.AuthorDisplay,
				AvatarURL:   row.AuthorAvatar,
				IsVerified:  row.AuthorVerified,
			},
		}
	}

	return comments, nil
}
