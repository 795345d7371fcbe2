package service

import (
	"context"
	"errors"
	"testing"

	"pulsegram/internal/model"
)

func moderatorUserRepo(t *testing.T) *mockUserRepo {
	t.Helper()
	return &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			// user 100 is the moderator in these tests
			return &model.User{ID: id, IsAdmin: id == 100}, nil
		},
	}
}

func TestVerificationService_Submit_FirstRequest(t *testing.T) {
	repo := &mockVerificationRepo{}
	svc := NewVerificationService(repo, moderatorUserRepo(t))

	req, err := svc.Submit(context.Background(), 1)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req.Status != model.VerificationStatusPending {
		t.Errorf("status = %q, want pending", req.Status)
	}
}

func TestVerificationService_Submit_WhilePending(t *testing.T) {
	repo := &mockVerificationRepo{
		getActiveForUserFn: func(ctx context.Context, userID int64) (*model.VerificationRequest, error) {
			return &model.VerificationRequest{ID: 1, UserID: userID, Status: model.VerificationStatusPending}, nil
		},
	}
	svc := NewVerificationService(repo, moderatorUserRepo(t))

	_, err := svc.Submit(context.Background(), 1)
	if !errors.Is(err, model.ErrVerificationPending) {
		t.Fatalf("expected ErrVerificationPending, got %v", err)
	}
}

func TestVerificationService_Submit_WhenApproved(t *testing.T) {
	repo := &mockVerificationRepo{
		getActiveForUserFn: func(ctx context.Context, userID int64) (*model.VerificationRequest, error) {
			return &model.VerificationRequest{ID: 1, UserID: userID, Status: model.VerificationStatusApproved}, nil
		},
	}
	svc := NewVerificationService(repo, moderatorUserRepo(t))

	_, err := svc.Submit(context.Background(), 1)
	if !errors.Is(err, model.ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
}

// Rejection is not terminal for the user: a fresh request is allowed.
func TestVerificationService_Submit_AfterRejection(t *testing.T) {
	repo := &mockVerificationRepo{
		// rejected requests are not "active"
		getActiveForUserFn: func(ctx context.Context, userID int64) (*model.VerificationRequest, error) {
			return nil, model.ErrVerificationNotFound
		},
	}
	svc := NewVerificationService(repo, moderatorUserRepo(t))

	req, err := svc.Submit(context.Background(), 1)
	if err != nil {
		t.Fatalf("resubmit after rejection: %v", err)
	}
	if req.Status != model.VerificationStatusPending {
		t.Errorf("status = %q, want pending", req.Status)
	}
}

func TestVerificationService_Status_None(t *testing.T) {
	svc := NewVerificationService(&mockVerificationRepo{}, moderatorUserRepo(t))

	status, err := svc.Status(context.Background(), 1)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Status != model.VerificationStatusNone || status.Request != nil {
		t.Errorf("status = %+v, want none with no request", status)
	}
}

func TestVerificationService_Approve_SetsBadge(t *testing.T) {
	var verifiedUser int64
	userRepo := moderatorUserRepo(t)
	userRepo.setVerifiedFn = func(ctx context.Context, userID int64, verified bool) error {
		if !verified {
			t.Error("approve must set verified=true")
		}
		verifiedUser = userID
		return nil
	}

	repo := &mockVerificationRepo{
		decideFn: func(ctx context.Context, requestID int64, status string) (int64, error) {
			if status != model.VerificationStatusApproved {
				t.Errorf("decide status = %q, want approved", status)
			}
			return 7, nil
		},
	}
	svc := NewVerificationService(repo, userRepo)

	if err := svc.Approve(context.Background(), 1, 100); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if verifiedUser != 7 {
		t.Errorf("verified user = %d, want 7", verifiedUser)
	}
}

// The decision stands even when the profile badge write fails; the
// badge catches up later.
func TestVerificationService_Approve_BadgeWriteFailure(t *testing.T) {
	userRepo := moderatorUserRepo(t)
	userRepo.setVerifiedFn = func(ctx context.Context, userID int64, verified bool) error {
		return errors.New("db timeout")
	}

	repo := &mockVerificationRepo{
		decideFn: func(ctx context.Context, requestID int64, status string) (int64, error) {
			return 7, nil
		},
	}
	svc := NewVerificationService(repo, userRepo)

	if err := svc.Approve(context.Background(), 1, 100); err != nil {
		t.Fatalf("Approve must succeed despite badge write failure, got %v", err)
	}
}

func TestVerificationService_Reject_LeavesBadgeAlone(t *testing.T) {
	userRepo := moderatorUserRepo(t)
	userRepo.setVerifiedFn = func(ctx context.Context, userID int64, verified bool) error {
		t.Error("reject must not touch the verified badge")
		return nil
	}

	repo := &mockVerificationRepo{
		decideFn: func(ctx context.Context, requestID int64, status string) (int64, error) {
			if status != model.VerificationStatusRejected {
				t.Errorf("decide status = %q, want rejected", status)
			}
			return 7, nil
		},
	}
	svc := NewVerificationService(repo, userRepo)

	if err := svc.Reject(context.Background(), 1, 100); err != nil {
		t.Fatalf("Reject: %v", err)
	}
}

func TestVerificationService_Decide_RequiresModerator(t *testing.T) {
	svc := NewVerificationService(&mockVerificationRepo{}, moderatorUserRepo(t))

	if err := svc.Approve(context.Background(), 1, 2); !errors.Is(err, model.ErrNotModerator) {
		t.Errorf("non-moderator approve: got %v, want ErrNotModerator", err)
	}
	if err := svc.Reject(context.Background(), 1, 2); !errors.Is(err, model.ErrNotModerator) {
		t.Errorf("non-moderator reject: got %v, want ErrNotModerator", err)
	}
	if _, err := svc.ListPending(context.Background(), 2, 1, 20); !errors.Is(err, model.ErrNotModerator) {
		t.Errorf("non-moderator list: got %v, want ErrNotModerator", err)
	}
}

func TestVerificationService_Decide_AlreadyProcessed(t *testing.T) {
	repo := &mockVerificationRepo{
		decideFn: func(ctx context.Context, requestID int64, status string) (int64, error) {
			return 0, model.ErrVerificationProcessed
		},
	}
	svc := NewVerificationService(repo, moderatorUserRepo(t))

	if err := svc.Approve(context.Background(), 1, 100); !errors.Is(err, model.ErrVerificationProcessed) {
		t.Fatalf("expected ErrVerificationProcessed, got %v", err)
	}
}
