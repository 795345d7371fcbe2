package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"pulsegram/internal/queue"
)

// FollowCounters counts follow edges; the follows table is the source
// of truth the user counters are recomputed from.
type FollowCounters interface {
	CountFollowers(ctx context.Context, userID int64) (int, error)
	CountFollowing(ctx context.Context, userID int64) (int, error)
}

// UserCounters writes the cached counters on the user rows.
type UserCounters interface {
	SetFollowerCount(ctx context.Context, userID int64, count int) error
	SetFollowingCount(ctx context.Context, userID int64, count int) error
}

// PostCounters abstracts the post rows the reconciler repairs.
type PostCounters interface {
	CountLikes(ctx context.Context, postID int64) (int, error)
	CountComments(ctx context.Context, postID int64) (int, error)
	SetLikeCount(ctx context.Context, postID int64, count int) error
	SetCommentCount(ctx context.Context, postID int64, count int) error
}

// HashtagCounters abstracts the hashtag rows the reconciler repairs.
type HashtagCounters interface {
	CountLinks(ctx context.Context, hashtagID int64) (int, error)
	SetPostCount(ctx context.Context, hashtagID int64, count int) error
}

// Handler repairs drifted counters. For each event it recomputes the
// true value from the edge table and overwrites the cached counter,
// so the repair is idempotent regardless of how many deltas were lost.
type Handler struct {
	follows  FollowCounters
	users    UserCounters
	posts    PostCounters
	hashtags HashtagCounters
}

// NewHandler creates a new drift event handler.
func NewHandler(follows FollowCounters, users UserCounters, posts PostCounters, hashtags HashtagCounters) *Handler {
	return &Handler{
		follows:  follows,
		users:    users,
		posts:    posts,
		hashtags: hashtags,
	}
}

// HandleEvent routes a drift event to the matching counter repair.
func (h *Handler) HandleEvent(ctx context.Context, event queue.DriftEvent) error {
	startTime := time.Now()
	var err error

	switch event.Counter {
	case queue.CounterFollowers:
		err = h.reconcileFollowers(ctx, event.EntityID)
	case queue.CounterFollowing:
		err = h.reconcileFollowing(ctx, event.EntityID)
	case queue.CounterLikes:
		err = h.reconcileLikes(ctx, event.EntityID)
	case queue.CounterComments:
		err = h.reconcileComments(ctx, event.EntityID)
	case queue.CounterHashtagPosts:
		err = h.reconcileHashtag(ctx, event.EntityID)
	default:
		log.Printf("[Worker] Unknown counter kind: %s", event.Counter)
		return fmt.Errorf("unknown counter kind: %s", event.Counter)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: counter=%s entity=%d duration=%v err=%v",
			event.Counter, event.EntityID, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: counter=%s entity=%d reason=%s duration=%v",
		event.Counter, event.EntityID, event.Reason, time.Since(startTime))
	return nil
}

func (h *Handler) reconcileFollowers(ctx context.Context, userID int64) error {
	count, err := h.follows.CountFollowers(ctx, userID)
	if err != nil {
		return fmt.Errorf("count followers: %w", err)
	}
	if err := h.users.SetFollowerCount(ctx, userID, count); err != nil {
		return fmt.Errorf("set follower count: %w", err)
	}
	log.Printf("[Worker] Reconciled follower_count: user=%d count=%d", userID, count)
	return nil
}

func (h *Handler) reconcileFollowing(ctx context.Context, userID int64) error {
	count, err := h.follows.CountFollowing(ctx, userID)
	if err != nil {
		return fmt.Errorf("count following: %w", err)
	}
	if err := h.users.SetFollowingCount(ctx, userID, count); err != nil {
		return fmt.Errorf("set following count: %w", err)
	}
	log.Printf("[Worker] Reconciled following_count: user=%d count=%d", userID, count)
	return nil
}

func (h *Handler) reconcileLikes(ctx context.Context, postID int64) error {
	count, err := h.posts.CountLikes(ctx, postID)
	if err != nil {
		return fmt.Errorf("count likes: %w", err)
	}
	if err := h.posts.SetLikeCount(ctx, postID, count); err != nil {
		return fmt.Errorf("set like count: %w", err)
	}
	log.Printf("[Worker] Reconciled like_count: post=%d count=%d", postID, count)
	return nil
}

func (h *Handler) reconcileComments(ctx context.Context, postID int64) error {
	count, err := h.posts.CountComments(ctx, postID)
	if err != nil {
		return fmt.Errorf("count comments: %w", err)
	}
	if err := h.posts.SetCommentCount(ctx, postID, count); err != nil {
		return fmt.Errorf("set comment count: %w", err)
	}
	log.Printf("[Worker] Reconciled comment_count: post=%d count=%d", postID, count)
	return nil
}

func (h *Handler) reconcileHashtag(ctx context.Context, hashtagID int64) error {
	count, err := h.hashtags.CountLinks(ctx, hashtagID)
	if err != nil {
		return fmt.Errorf("count hashtag links: %w", err)
	}
	if err := h.hashtags.SetPostCount(ctx, hashtagID, count); err != nil {
		return fmt.Errorf("set hashtag post count: %w", err)
	}
	log.Printf("[Worker] Reconciled post_count: hashtag=%d count=%d", hashtagID, count)
	return nil
}
