package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a post. Its creation increments
// post.comment_count; deletion intentionally leaves the counter alone.
type Comment struct {
	ID        int64        `db:"id" json:"id"`
	PostID    int64        `db:"post_id" json:"post_id"`
	UserID    int64        `db:"user_id" json:"-"`
	Content   string       `db:"content" json:"content"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	Author    *UserSummary `json:"author,omitempty"` // Joined field
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CommentListResponse is the paginated comment list response.
type CommentListResponse struct {
	Comments []Comment `json:"comments"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	HasMore  bool      `json:"has_more"`
}

const (
	MaxCommentLength = 2200
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment")
	ErrContentRequired = errors.New("comment content is required")
	ErrCommentTooLong  = errors.New("comment content too long")
)
