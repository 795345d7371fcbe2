package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"pulsegram/internal/httputil"
	"pulsegram/internal/model"
	"pulsegram/internal/service"
	"pulsegram/internal/transport/http/middleware"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile returns a user's profile with the viewer's follow state
// GET /users/{id}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	viewerID, _ := middleware.GetUserIDFromContext(r.Context())

	profile, err := h.userService.GetProfile(r.Context(), userID, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] GetProfile handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UpdateProfile applies partial updates to the caller's profile
// PATCH /me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] UpdateProfile handler: %v", err)
		httputil.WriteInternalError(w, "Failed to update profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Search finds users by username prefix
// GET /users/search?q=
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.WriteBadRequest(w, "Query parameter 'q' is required")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		var err error
		if limit, err = parsePositive(v); err != nil {
			httputil.WriteBadRequest(w, "Invalid limit")
			return
		}
	}

	users, err := h.userService.Search(r.Context(), query, limit)
	if err != nil {
		log.Printf("[ERROR] Search handler: %v", err)
		httputil.WriteInternalError(w, "Failed to search users")
		return
	}
	if users == nil {
		users = []model.UserSummary{}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
