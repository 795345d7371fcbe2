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

type PostHandler struct {
	postService *service.PostService
	userService *service.UserService
}

func NewPostHandler(postService *service.PostService, userService *service.UserService) *PostHandler {
	return &PostHandler{
		postService: postService,
		userService: userService,
	}
}

// Create stores a new post
// POST /posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyPost),
			errors.Is(err, model.ErrContentTooLong),
			errors.Is(err, model.ErrInvalidMediaType):
			httputil.WriteBadRequest(w, err.Error())
		default:
			log.Printf("[ERROR] CreatePost handler: %v", err)
			httputil.WriteInternalError(w, "Failed to create post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// GetByID returns a single post
// GET /posts/{id}
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	postID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	viewerID, _ := middleware.GetUserIDFromContext(r.Context())

	post, err := h.postService.GetByID(r.Context(), postID, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] GetPost handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Delete removes a post (owner or moderator)
// DELETE /posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	isModerator := h.callerIsModerator(r, userID)

	if err := h.postService.Delete(r.Context(), postID, userID, isModerator); err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "You cannot delete this post")
		default:
			log.Printf("[ERROR] DeletePost handler: %v", err)
			httputil.WriteInternalError(w, "Failed to delete post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}

// ToggleLike flips the caller's like on a post
// POST /posts/{id}/like
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	result, err := h.postService.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] ToggleLike handler: %v", err)
		httputil.WriteInternalError(w, "Failed to toggle like")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetLikers lists users who liked a post
// GET /posts/{id}/likes
func (h *PostHandler) GetLikers(w http.ResponseWriter, r *http.Request) {
	postID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	page, pageSize := pageParams(r)

	result, err := h.postService.GetLikers(r.Context(), postID, page, pageSize)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] GetLikers handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch likers")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetUserPosts lists a user's posts
// GET /users/{id}/posts
func (h *PostHandler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	page, pageSize := pageParams(r)

	result, err := h.postService.GetUserPosts(r.Context(), userID, page, pageSize)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] GetUserPosts handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *PostHandler) callerIsModerator(r *http.Request, userID int64) bool {
	profile, err := h.userService.GetProfile(r.Context(), userID, 0)
	if err != nil {
		return false
	}
	return profile.User.IsAdmin
}
