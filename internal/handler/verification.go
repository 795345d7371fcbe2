package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"pulsegram/internal/httputil"
	"pulsegram/internal/model"
	"pulsegram/internal/service"
	"pulsegram/internal/transport/http/middleware"
)

type VerificationHandler struct {
	verificationService *service.VerificationService
}

func NewVerificationHandler(verificationService *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// Submit creates a pending verification request for the caller
// POST /verification/requests
func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	req, err := h.verificationService.Submit(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrVerificationPending):
			httputil.WriteConflict(w, "A verification request is already pending")
		case errors.Is(err, model.ErrAlreadyVerified):
			httputil.WriteConflict(w, "User is already verified")
		default:
			log.Printf("[ERROR] SubmitVerification handler: %v", err)
			httputil.WriteInternalError(w, "Failed to submit verification request")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, req)
}

// Status reports the caller's latest verification request
// GET /verification/status
func (h *VerificationHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	status, err := h.verificationService.Status(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] VerificationStatus handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch verification status")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, status)
}

// ListPending lists pending requests for review (moderator only)
// GET /verification/requests
func (h *VerificationHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	page, pageSize := pageParams(r)

	reqs, err := h.verificationService.ListPending(r.Context(), userID, page, pageSize)
	if err != nil {
		if errors.Is(err, model.ErrNotModerator) {
			httputil.WriteForbidden(w, "Moderator privileges required")
			return
		}
		log.Printf("[ERROR] ListPendingVerifications handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch verification requests")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"requests": reqs})
}

// Approve approves a pending request (moderator only)
// POST /verification/requests/{id}/approve
func (h *VerificationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.verificationService.Approve, "approved")
}

// Reject rejects a pending request (moderator only)
// POST /verification/requests/{id}/reject
func (h *VerificationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.verificationService.Reject, "rejected")
}

func (h *VerificationHandler) decide(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, requestID, reviewerID int64) error,
	verb string,
) {
	reviewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	requestID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid request ID")
		return
	}

	if err := fn(r.Context(), requestID, reviewerID); err != nil {
		switch {
		case errors.Is(err, model.ErrNotModerator):
			httputil.WriteForbidden(w, "Moderator privileges required")
		case errors.Is(err, model.ErrVerificationNotFound):
			httputil.WriteNotFound(w, "Verification request not found")
		case errors.Is(err, model.ErrVerificationProcessed):
			httputil.WriteConflict(w, "Verification request already processed")
		default:
			log.Printf("[ERROR] DecideVerification handler: %v", err)
			httputil.WriteInternalError(w, "Failed to process verification request")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Verification request " + verb,
	})
}
