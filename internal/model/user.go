package model

import (
	"errors"
	"time"
)

// User represents a profile in the system. follower_count and
// following_count are derived caches of the follows table; the edge
// rows remain the source of truth.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	DisplayName    *string   `db:"display_name" json:"display_name"`
	AvatarURL      *string   `db:"avatar_url" json:"avatar_url"`
	CoverURL       *string   `db:"cover_url" json:"cover_url"`
	Bio            *string   `db:"bio" json:"bio"`
	IsVerified     bool      `db:"is_verified" json:"is_verified"`
	IsAdmin        bool      `db:"is_admin" json:"-"`
	FollowerCount  int       `db:"follower_count" json:"follower_count"`
	FollowingCount int       `db:"following_count" json:"following_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the public projection attached to posts, comments and
// follow lists.
type UserSummary struct {
	ID          int64   `db:"id" json:"id"`
	Username    string  `db:"username" json:"username"`
	DisplayName *string `db:"display_name" json:"display_name"`
	AvatarURL   *string `db:"avatar_url" json:"avatar_url"`
	IsVerified  bool    `db:"is_verified" json:"is_verified"`
	IsFollowing bool    `json:"is_following"`
}

// Summary returns the public projection of a user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		IsVerified:  u.IsVerified,
	}
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the mutable profile fields. Nil fields
// are left untouched.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	CoverURL    *string `json:"cover_url"`
}

// ProfileResponse is a user profile enriched with the viewer's follow
// state and the total likes received across the user's posts.
type ProfileResponse struct {
	User          *User `json:"user"`
	IsFollowing   bool  `json:"is_following"`
	LikesReceived int   `json:"likes_received"`
}

const (
	MaxUsernameLength    = 30
	MaxDisplayNameLength = 80
	MaxBioLength         = 500
)

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotModerator is returned when a caller attempts a moderator-only action
	ErrNotModerator = errors.New("moderator privileges required")
)
