package model

import (
	"errors"
	"time"
)

// Follow is the directed edge (follower -> followee). Its existence is
// the source of truth for follower_count/following_count on users.
type Follow struct {
	FollowerID int64     `db:"follower_id" json:"follower_id"`
	FolloweeID int64     `db:"followee_id" json:"followee_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FollowListResponse is the paginated follower/following list response.
type FollowListResponse struct {
	Users    []UserSummary `json:"users"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	HasMore  bool          `json:"has_more"`
}

var (
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)
