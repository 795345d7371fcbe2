package service

import (
	"context"
	"errors"
	"testing"

	"pulsegram/internal/model"
)

func TestFollowService_Follow_AdjustsBothCounters(t *testing.T) {
	followerDeltas := map[int64]int{}
	followingDeltas := map[int64]int{}

	userRepo := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
		adjustFollowerCountFn: func(ctx context.Context, userID int64, delta int) error {
			followerDeltas[userID] += delta
			return nil
		},
		adjustFollowingCntFn: func(ctx context.Context, userID int64, delta int) error {
			followingDeltas[userID] += delta
			return nil
		},
	}
	followRepo := &mockFollowRepo{}

	svc := NewFollowService(followRepo, userRepo, nil)

	if err := svc.Follow(context.Background(), 1, 2); err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}

	if followerDeltas[2] != 1 {
		t.Errorf("followee follower_count delta = %d, want 1", followerDeltas[2])
	}
	if followingDeltas[1] != 1 {
		t.Errorf("follower following_count delta = %d, want 1", followingDeltas[1])
	}
}

func TestFollowService_Follow_Duplicate(t *testing.T) {
	var adjusted bool
	userRepo := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
		adjustFollowerCountFn: func(ctx context.Context, userID int64, delta int) error {
			adjusted = true
			return nil
		},
	}
	followRepo := &mockFollowRepo{
		createFn: func(ctx context.Context, followerID, followeeID int64) (bool, error) {
			return false, nil // edge already existed
		},
	}

	svc := NewFollowService(followRepo, userRepo, nil)

	err := svc.Follow(context.Background(), 1, 2)
	if !errors.Is(err, model.ErrAlreadyFollowing) {
		t.Fatalf("expected ErrAlreadyFollowing, got %v", err)
	}
	if adjusted {
		t.Error("counters must not move when the edge already existed")
	}
}

func TestFollowService_Follow_Self(t *testing.T) {
	svc := NewFollowService(&mockFollowRepo{}, &mockUserRepo{}, nil)

	err := svc.Follow(context.Background(), 7, 7)
	if !errors.Is(err, model.ErrCannotFollowSelf) {
		t.Fatalf("expected ErrCannotFollowSelf, got %v", err)
	}
}

func TestFollowService_Follow_UnknownFollowee(t *testing.T) {
	svc := NewFollowService(&mockFollowRepo{}, &mockUserRepo{}, nil)

	err := svc.Follow(context.Background(), 1, 99)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// A counter failure after the edge write must not fail the call: the
// edge is the source of truth and the counter drifts until reconciled.
func TestFollowService_Follow_CounterFailureStillSucceeds(t *testing.T) {
	userRepo := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
		adjustFollowerCountFn: func(ctx context.Context, userID int64, delta int) error {
			return errors.New("db timeout")
		},
	}

	svc := NewFollowService(&mockFollowRepo{}, userRepo, nil)

	if err := svc.Follow(context.Background(), 1, 2); err != nil {
		t.Fatalf("Follow must succeed despite counter failure, got %v", err)
	}
}

func TestFollowService_Unfollow_NotFollowing(t *testing.T) {
	followRepo := &mockFollowRepo{
		deleteFn: func(ctx context.Context, followerID, followeeID int64) error {
			return model.ErrNotFollowing
		},
	}

	svc := NewFollowService(followRepo, &mockUserRepo{}, nil)

	err := svc.Unfollow(context.Background(), 1, 2)
	if !errors.Is(err, model.ErrNotFollowing) {
		t.Fatalf("expected ErrNotFollowing, got %v", err)
	}
}

func TestFollowService_Unfollow_ThenFollowAgain(t *testing.T) {
	edges := map[[2]int64]bool{}

	followRepo := &mockFollowRepo{
		createFn: func(ctx context.Context, followerID, followeeID int64) (bool, error) {
			key := [2]int64{followerID, followeeID}
			if edges[key] {
				return false, nil
			}
			edges[key] = true
			return true, nil
		},
		deleteFn: func(ctx context.Context, followerID, followeeID int64) error {
			key := [2]int64{followerID, followeeID}
			if !edges[key] {
				return model.ErrNotFollowing
			}
			delete(edges, key)
			return nil
		},
	}
	userRepo := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
	}

	svc := NewFollowService(followRepo, userRepo, nil)
	ctx := context.Background()

	if err := svc.Follow(ctx, 1, 2); err != nil {
		t.Fatalf("first follow: %v", err)
	}
	if err := svc.Unfollow(ctx, 1, 2); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if err := svc.Follow(ctx, 1, 2); err != nil {
		t.Fatalf("re-follow after unfollow must succeed, got %v", err)
	}
}

func TestFollowService_GetFollowers_AnnotatesViewer(t *testing.T) {
	followRepo := &mockFollowRepo{
		getFollowersFn: func(ctx context.Context, userID int64, offset, limit int) ([]model.UserSummary, error) {
			return []model.UserSummary{{ID: 10}, {ID: 11}, {ID: 12}}, nil
		},
		checkFollowsFn: func(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error) {
			return map[int64]bool{11: true}, nil
		},
	}

	svc := NewFollowService(followRepo, &mockUserRepo{}, nil)

	result, err := svc.GetFollowers(context.Background(), 1, 99, 1, 20)
	if err != nil {
		t.Fatalf("GetFollowers returned error: %v", err)
	}

	if len(result.Users) != 3 {
		t.Fatalf("got %d users, want 3", len(result.Users))
	}
	if result.Users[0].IsFollowing || !result.Users[1].IsFollowing || result.Users[2].IsFollowing {
		t.Errorf("is_following flags wrong: %+v", result.Users)
	}
	if result.HasMore {
		t.Error("HasMore should be false for a short page")
	}
}
