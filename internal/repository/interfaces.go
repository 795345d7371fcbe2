package repository

import (
	"context"
	"time"

	"pulsegram/internal/model"
)

// The repositories are the typed access layer over the relational
// store. They perform no business validation; callers own the
// invariants. Counter mutations go through the Adjust*/Set* methods,
// which are atomic server-side delta updates so concurrent adjustments
// never lose writes to each other.

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error)
	Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error)
	SetVerified(ctx context.Context, userID int64, verified bool) error
	AdjustFollowerCount(ctx context.Context, userID int64, delta int) error
	AdjustFollowingCount(ctx context.Context, userID int64, delta int) error
	SetFollowerCount(ctx context.Context, userID int64, count int) error
	SetFollowingCount(ctx context.Context, userID int64, count int) error
}

type FollowRepository interface {
	// Create inserts the edge; returns false when it already existed.
	Create(ctx context.Context, followerID, followeeID int64) (bool, error)
	Delete(ctx context.Context, followerID, followeeID int64) error
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	GetFollowers(ctx context.Context, userID int64, offset, limit int) ([]model.UserSummary, error)
	GetFollowing(ctx context.Context, userID int64, offset, limit int) ([]model.UserSummary, error)
	CheckFollows(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error)
	CountFollowers(ctx context.Context, userID int64) (int, error)
	CountFollowing(ctx context.Context, userID int64) (int, error)
}

type PostRepository interface {
	Create(ctx context.Context, userID int64, content string, mediaURL, mediaType *string) (*model.Post, error)
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	// Delete hard-deletes the post; likes, comments and hashtag links
	// go with it via ON DELETE CASCADE.
	Delete(ctx context.Context, postID int64) error
	Exists(ctx context.Context, postID int64) (bool, error)
	// GetFeedPage returns posts newest-first with the author projection
	// joined at the store.
	GetFeedPage(ctx context.Context, offset, limit int) ([]model.FeedPost, error)
	GetUserPosts(ctx context.Context, userID int64, offset, limit int) ([]model.Post, error)
	// Like edge operations
	LikeExists(ctx context.Context, postID, userID int64) (bool, error)
	InsertLike(ctx context.Context, postID, userID int64) (bool, error)
	DeleteLike(ctx context.Context, postID, userID int64) error
	GetLikers(ctx context.Context, postID int64, offset, limit int) ([]model.UserSummary, error)
	AdjustLikeCount(ctx context.Context, postID int64, delta int) error
	AdjustCommentCount(ctx context.Context, postID int64, delta int) error
	SetLikeCount(ctx context.Context, postID int64, count int) error
	SetCommentCount(ctx context.Context, postID int64, count int) error
	CountLikes(ctx context.Context, postID int64) (int, error)
	CountComments(ctx context.Context, postID int64) (int, error)
	// CountLikesReceived sums like_count over a user's posts (profile stat).
	CountLikesReceived(ctx context.Context, userID int64) (int, error)
}

type CommentRepository interface {
	Create(ctx context.Context, postID, userID int64, content string) (*model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	Delete(ctx context.Context, commentID int64) error
	GetByPostID(ctx context.Context, postID int64, offset, limit int) ([]model.Comment, error)
}

type HashtagRepository interface {
	// Upsert atomically inserts the canonical tag or fetches the
	// existing row, so concurrent posts never create duplicate tags.
	Upsert(ctx context.Context, tag string) (*model.Hashtag, error)
	GetByTag(ctx context.Context, tag string) (*model.Hashtag, error)
	// Link creates the post<->tag row; returns false if it already existed.
	Link(ctx context.Context, postID, hashtagID int64) (bool, error)
	AdjustPostCount(ctx context.Context, hashtagID int64, delta int) error
	SetPostCount(ctx context.Context, hashtagID int64, count int) error
	CountLinks(ctx context.Context, hashtagID int64) (int, error)
	Search(ctx context.Context, prefix string, limit int) ([]model.Hashtag, error)
}

type VerificationRepository interface {
	Create(ctx context.Context, userID int64) (*model.VerificationRequest, error)
	GetByID(ctx context.Context, requestID int64) (*model.VerificationRequest, error)
	// GetLatestForUser returns the most recent request by created_at,
	// or ErrVerificationNotFound when none exists.
	GetLatestForUser(ctx context.Context, userID int64) (*model.VerificationRequest, error)
	// GetActiveForUser returns the request with status pending or
	// approved, or ErrVerificationNotFound.
	GetActiveForUser(ctx context.Context, userID int64) (*model.VerificationRequest, error)
	// Decide moves a pending request to approved/rejected and stamps
	// reviewed_at. Returns the subject user ID.
	Decide(ctx context.Context, requestID int64, status string) (int64, error)
	ListPending(ctx context.Context, offset, limit int) ([]model.VerificationRequest, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}
