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

type CommentHandler struct {
	commentService *service.CommentService
	userService    *service.UserService
}

func NewCommentHandler(commentService *service.CommentService, userService *service.UserService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		userService:    userService,
	}
}

// Create adds a comment to a post
// POST /posts/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(r.Context(), postID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrContentRequired),
			errors.Is(err, model.ErrCommentTooLong):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		default:
			log.Printf("[ERROR] CreateComment handler: %v", err)
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// Delete removes a comment (author, post owner or moderator)
// DELETE /comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	isModerator := false
	if profile, err := h.userService.GetProfile(r.Context(), userID, 0); err == nil {
		isModerator = profile.User.IsAdmin
	}

	if err := h.commentService.Delete(r.Context(), commentID, userID, isModerator); err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "You cannot delete this comment")
		default:
			log.Printf("[ERROR] DeleteComment handler: %v", err)
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}

// List returns one page of a post's comments
// GET /posts/{id}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	page, pageSize := pageParams(r)

	result, err := h.commentService.GetByPostID(r.Context(), postID, page, pageSize)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] ListComments handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
