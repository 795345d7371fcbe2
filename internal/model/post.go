package model

import (
	"errors"
	"time"
)

// Media types supported for post attachments.
const (
	MediaTypeImage = "image"
	MediaTypeAudio = "audio"
)

// Post represents a user's post. like_count and comment_count are
// derived caches of post_likes/post_comments rows.
type Post struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Content      string    `db:"content" json:"content"`
	MediaURL     *string   `db:"media_url" json:"media_url"`
	MediaType    *string   `db:"media_type" json:"media_type"`
	LikeCount    int       `db:"like_count" json:"like_count"`
	CommentCount int       `db:"comment_count" json:"comment_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	// Joined fields (not in posts table)
	Author  *UserSummary `json:"author,omitempty"`
	IsLiked bool         `json:"is_liked"`
}

// FeedPost is a post enriched for feed display: author projection plus
// the viewer's like state.
type FeedPost struct {
	Post
	Author UserSummary `json:"author"`
}

// FeedResponse is the page-numbered feed response.
type FeedResponse struct {
	Posts    []FeedPost `json:"posts"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	HasMore  bool       `json:"has_more"`
}

// PostListResponse is the paginated list of a user's own posts.
type PostListResponse struct {
	Posts    []Post `json:"posts"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	HasMore  bool   `json:"has_more"`
}

// LikersListResponse is the paginated list of users who liked a post.
type LikersListResponse struct {
	Users    []UserSummary `json:"users"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	HasMore  bool          `json:"has_more"`
}

// CreatePostRequest is the request body for creating a post. Content
// may be empty when media is attached.
type CreatePostRequest struct {
	Content   string  `json:"content"`
	MediaURL  *string `json:"media_url"`
	MediaType *string `json:"media_type"`
}

// LikeResponse reports the post's like state after a toggle.
type LikeResponse struct {
	Liked bool `json:"liked"`
}

const (
	MaxPostContentLength = 2200
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrNotPostOwner     = errors.New("not the owner of this post")
	ErrEmptyPost        = errors.New("post needs content or media")
	ErrContentTooLong   = errors.New("post content too long")
	ErrInvalidMediaType = errors.New("media type must be image or audio")
	ErrNotLiked         = errors.New("post is not liked")
)
