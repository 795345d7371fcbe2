package model

import (
	"errors"
	"time"
)

// Verification request statuses. A request starts pending and moves to
// exactly one of approved/rejected; both are terminal. At most one
// request per user may be pending or approved at any time.
const (
	VerificationStatusNone     = "none" // sentinel: no request exists
	VerificationStatusPending  = "pending"
	VerificationStatusApproved = "approved"
	VerificationStatusRejected = "rejected"
)

// VerificationRequest is a user's request for the verified badge.
// reviewed_at is set only on the transition out of pending.
type VerificationRequest struct {
	ID         int64      `db:"id" json:"id"`
	UserID     int64      `db:"user_id" json:"user_id"`
	Status     string     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ReviewedAt *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// VerificationStatusResponse reports the latest request for a user, or
// status "none" when no request exists.
type VerificationStatusResponse struct {
	Status  string               `json:"status"`
	Request *VerificationRequest `json:"request,omitempty"`
}

var (
	ErrVerificationNotFound  = errors.New("verification request not found")
	ErrVerificationPending   = errors.New("verification request already pending")
	ErrAlreadyVerified       = errors.New("user is already verified")
	ErrVerificationProcessed = errors.New("verification request already processed")
)
