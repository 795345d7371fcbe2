package service

import (
	"context"
	"log"

	"pulsegram/internal/model"
	"pulsegram/internal/repository"
)

// VerificationService runs the verified-badge workflow. Requests move
// none -> pending -> approved|rejected; the terminal states never
// transition again. The profile's is_verified flag is written after
// the decision and is not atomic with it; a failed flag write is
// logged and the decision stands.
type VerificationService struct {
	verificationRepo repository.VerificationRepository
	userRepo         repository.UserRepository
}

func NewVerificationService(
	verificationRepo repository.VerificationRepository,
	userRepo repository.UserRepository,
) *VerificationService {
	return &VerificationService{
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
	}
}

// Submit creates a pending request for the caller. Rejected users may
// submit again; a pending or approved request blocks a new one.
func (s *VerificationService) Submit(ctx context.Context, userID int64) (*model.VerificationRequest, error) {
	active, err := s.verificationRepo.GetActiveForUser(ctx, userID)
	if err != nil && err != model.ErrVerificationNotFound {
		return nil, err
	}
	if active != nil {
		if active.Status == model.VerificationStatusApproved {
			return nil, model.ErrAlreadyVerified
		}
		return nil, model.ErrVerificationPending
	}

	// The partial unique index backstops concurrent submissions.
	return s.verificationRepo.Create(ctx, userID)
}

// Status reports the caller's latest request, or "none".
func (s *VerificationService) Status(ctx context.Context, userID int64) (*model.VerificationStatusResponse, error) {
	req, err := s.verificationRepo.GetLatestForUser(ctx, userID)
	if err == model.ErrVerificationNotFound {
		return &model.VerificationStatusResponse{Status: model.VerificationStatusNone}, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.VerificationStatusResponse{Status: req.Status, Request: req}, nil
}

// Approve moves a pending request to approved and sets the subject's
// verified badge.
func (s *VerificationService) Approve(ctx context.Context, requestID, reviewerID int64) error {
	if err := s.requireModerator(ctx, reviewerID); err != nil {
		return err
	}

	userID, err := s.verificationRepo.Decide(ctx, requestID, model.VerificationStatusApproved)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetVerified(ctx, userID, true); err != nil {
		log.Printf("[VerificationService] set verified failed: user=%d request=%d err=%v",
			userID, requestID, err)
	}

	return nil
}

// Reject moves a pending request to rejected. The badge is untouched.
func (s *VerificationService) Reject(ctx context.Context, requestID, reviewerID int64) error {
	if err := s.requireModerator(ctx, reviewerID); err != nil {
		return err
	}

	_, err := s.verificationRepo.Decide(ctx, requestID, model.VerificationStatusRejected)
	return err
}

// ListPending returns one page of pending requests, oldest first.
func (s *VerificationService) ListPending(ctx context.Context, reviewerID int64, page, pageSize int) ([]model.VerificationRequest, error) {
	if err := s.requireModerator(ctx, reviewerID); err != nil {
		return nil, err
	}

	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	reqs, err := s.verificationRepo.ListPending(ctx, offset, pageSize)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []model.VerificationRequest{}
	}
	return reqs, nil
}

func (s *VerificationService) requireModerator(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsAdmin {
		return model.ErrNotModerator
	}
	return nil
}
