package handler

import (
	"errors"
	"log"
	"net/http"

	"pulsegram/internal/httputil"
	"pulsegram/internal/model"
	"pulsegram/internal/service"
	"pulsegram/internal/transport/http/middleware"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// Follow creates the follow edge
// POST /users/{id}/follow
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	followeeID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	if err := h.followService.Follow(r.Context(), followerID, followeeID); err != nil {
		switch {
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrAlreadyFollowing):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Follow handler: %v", err)
			httputil.WriteInternalError(w, "Failed to follow user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully followed user",
	})
}

// Unfollow removes the follow edge
// DELETE /users/{id}/follow
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	followeeID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	if err := h.followService.Unfollow(r.Context(), followerID, followeeID); err != nil {
		switch {
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrNotFollowing):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Unfollow handler: %v", err)
			httputil.WriteInternalError(w, "Failed to unfollow user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully unfollowed user",
	})
}

// GetFollowers lists a user's followers
// GET /users/{id}/followers
func (h *FollowHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	viewerID, _ := middleware.GetUserIDFromContext(r.Context())
	page, pageSize := pageParams(r)

	result, err := h.followService.GetFollowers(r.Context(), userID, viewerID, page, pageSize)
	if err != nil {
		log.Printf("[ERROR] GetFollowers handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch followers")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetFollowing lists the users a user follows
// GET /users/{id}/following
func (h *FollowHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	viewerID, _ := middleware.GetUserIDFromContext(r.Context())
	page, pageSize := pageParams(r)

	result, err := h.followService.GetFollowing(r.Context(), userID, viewerID, page, pageSize)
	if err != nil {
		log.Printf("[ERROR] GetFollowing handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch following")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
