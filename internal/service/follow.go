package service

import (
	"context"

	"pulsegram/internal/model"
	"pulsegram/internal/queue"
	"pulsegram/internal/repository"
)

// FollowService owns the follow graph. The edge write and the two
// counter adjustments are deliberately independent statements: the
// edge is committed first and the call succeeds even if a counter
// update then fails. Such failures are surfaced as drift events and
// repaired by the reconciler.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	publisher  queue.Publisher
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		publisher:  publisher,
	}
}

// Follow creates the follower -> followee edge and bumps both cached
// counters. Counters are adjusted only when the edge was actually
// inserted, so retries and races cannot double-count.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return model.ErrCannotFollowSelf
	}

	_, err := s.userRepo.GetByID(ctx, followeeID)
	if err != nil {
		return err
	}

	inserted, err := s.followRepo.Create(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if !inserted {
		return model.ErrAlreadyFollowing
	}

	if err := s.userRepo.AdjustFollowerCount(ctx, followeeID, 1); err != nil {
		reportDrift(ctx, s.publisher, queue.CounterFollowers, followeeID, 1, "follow", err)
	}
	if err := s.userRepo.AdjustFollowingCount(ctx, followerID, 1); err != nil {
		reportDrift(ctx, s.publisher, queue.CounterFollowing, followerID, 1, "follow", err)
	}

	return nil
}

// Unfollow removes the edge and decrements both cached counters.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return model.ErrCannotFollowSelf
	}

	if err := s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
		return err
	}

	if err := s.userRepo.AdjustFollowerCount(ctx, followeeID, -1); err != nil {
		reportDrift(ctx, s.publisher, queue.CounterFollowers, followeeID, -1, "unfollow", err)
	}
	if err := s.userRepo.AdjustFollowingCount(ctx, followerID, -1); err != nil {
		reportDrift(ctx, s.publisher, queue.CounterFollowing, followerID, -1, "unfollow", err)
	}

	return nil
}

// IsFollowing reports whether follower follows followee.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followeeID)
}

// GetFollowers returns one page of a user's followers. When viewerID
// is non-zero, each entry is annotated with the viewer's follow state.
func (s *FollowService) GetFollowers(ctx context.Context, userID, viewerID int64, page, pageSize int) (*model.FollowListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	users, err := s.followRepo.GetFollowers(ctx, userID, offset, pageSize+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(users) > pageSize
	if hasMore {
		users = users[:pageSize]
	}

	if err := s.annotateFollowing(ctx, viewerID, users); err != nil {
		return nil, err
	}

	return &model.FollowListResponse{
		Users:    users,
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
	}, nil
}

// GetFollowing returns one page of users the given user follows.
func (s *FollowService) GetFollowing(ctx context.Context, userID, viewerID int64, page, pageSize int) (*model.FollowListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	users, err := s.followRepo.GetFollowing(ctx, userID, offset, pageSize+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(users) > pageSize
	if hasMore {
		users = users[:pageSize]
	}

	if err := s.annotateFollowing(ctx, viewerID, users); err != nil {
		return nil, err
	}

	return &model.FollowListResponse{
		Users:    users,
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
	}, nil
}

func (s *FollowService) annotateFollowing(ctx context.Context, viewerID int64, users []model.UserSummary) error {
	if viewerID == 0 || len(users) == 0 {
		return nil
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	follows, err := s.followRepo.CheckFollows(ctx, viewerID, ids)
	if err != nil {
		return err
	}

	for i := range users {
		users[i].IsFollowing = follows[users[i].ID]
	}
	return nil
}
