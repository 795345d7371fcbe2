package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pulsegram/internal/model"
)

type verificationRepository struct {
	db *sqlx.DB
}

func NewVerificationRepository(db *sqlx.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

// Create inserts a new pending request. A partial unique index on
// (user_id) WHERE status = 'pending' is the safety net against two
// concurrent submissions; the resulting 23505 maps to the pending
// conflict.
func (r *verificationRepository) Create(ctx context.Context, userID int64) (*model.VerificationRequest, error) {
	query := `
		INSERT INTO verification_requests (user_id, status)
		VALUES ($1, 'pending')
		RETURNING id, user_id, status, created_at, reviewed_at
	`
	var req model.VerificationRequest
	err := r.db.GetContext(ctx, &req, query, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, model.ErrVerificationPending
		}
		return nil, fmt.Errorf("insert verification request: %w", err)
	}
	return &req, nil
}

func (r *verificationRepository) GetByID(ctx context.Context, requestID int64) (*model.VerificationRequest, error) {
	query := `
		SELECT id, user_id, status, created_at, reviewed_at
		FROM verification_requests
		WHERE id = $1
	`
	var req model.VerificationRequest
	err := r.db.GetContext(ctx, &req, query, requestID)
	if err == sql.ErrNoRows {
		return nil, model.ErrVerificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get verification request: %w", err)
	}
	return &req, nil
}

// GetLatestForUser returns the most recent request for the subject,
// ties broken by created_at descending.
func (r *verificationRepository) GetLatestForUser(ctx context.Context, userID int64) (*model.VerificationRequest, error) {
	query := `
		SELECT id, user_id, status, created_at, reviewed_at
		FROM verification_requests
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var req model.VerificationRequest
	err := r.db.GetContext(ctx, &req, query, userID)
	if err == sql.ErrNoRows {
		return nil, model.ErrVerificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest verification request: %w", err)
	}
	return &req, nil
}

// GetActiveForUser returns the pending or approved request, if any.
func (r *verificationRepository) GetActiveForUser(ctx context.Context, userID int64) (*model.VerificationRequest, error) {
	query := `
		SELECT id, user_id, status, created_at, reviewed_at
		FROM verification_requests
		WHERE user_id = $1 AND status IN ('pending', 'approved')
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var req model.VerificationRequest
	err := r.db.GetContext(ctx, &req, query, userID)
	if err == sql.ErrNoRows {
		return nil, model.ErrVerificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get active verification request: %w", err)
	}
	return &req, nil
}

// Decide transitions a pending request to the given terminal status
// and stamps reviewed_at. The WHERE status = 'pending' guard makes the
// transition race-safe: a request already decided matches zero rows,
// and the follow-up read discriminates processed from missing.
func (r *verificationRepository) Decide(ctx context.Context, requestID int64, status string) (int64, error) {
	query := `
		UPDATE verification_requests
		SET status = $1, reviewed_at = NOW()
		WHERE id = $2 AND status = 'pending'
		RETURNING user_id
	`
	var userID int64
	err := r.db.GetContext(ctx, &userID, query, status, requestID)
	if err == sql.ErrNoRows {
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM verification_requests WHERE id = $1)`, requestID); err != nil {
			return 0, fmt.Errorf("check verification request: %w", err)
		}
		if exists {
			return 0, model.ErrVerificationProcessed
		}
		return 0, model.ErrVerificationNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("decide verification request: %w", err)
	}
	return userID, nil
}

// ListPending returns pending requests oldest-first for review.
func (r *verificationRepository) ListPending(ctx context.Context, offset, limit int) ([]model.VerificationRequest, error) {
	query := `
		SELECT id, user_id, status, created_at, reviewed_at
		FROM verification_requests
		WHERE status = 'pending'
		ORDER BY created_at ASC
		OFFSET $1 LIMIT $2
	`
	var reqs []model.VerificationRequest
	err := r.db.SelectContext(ctx, &reqs, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending verification requests: %w", err)
	}
	return reqs, nil
}
