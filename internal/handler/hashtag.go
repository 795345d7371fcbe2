package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulsegram/internal/httputil"
	"pulsegram/internal/model"
	"pulsegram/internal/service"
)

type HashtagHandler struct {
	hashtagService *service.HashtagService
}

func NewHashtagHandler(hashtagService *service.HashtagService) *HashtagHandler {
	return &HashtagHandler{hashtagService: hashtagService}
}

// Search finds hashtags by prefix
// GET /hashtags/search?q=
func (h *HashtagHandler) Search(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.hashtagService.Search(r.Context(), query, limit)
	if err != nil {
		log.Printf("[ERROR] SearchHashtags handler: %v", err)
		httputil.WriteInternalError(w, "Failed to search hashtags")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetByTag returns a single hashtag with its post count
// GET /hashtags/{tag}
func (h *HashtagHandler) GetByTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	if tag == "" {
		httputil.WriteBadRequest(w, "Tag is required")
		return
	}

	hashtag, err := h.hashtagService.GetByTag(r.Context(), tag)
	if err != nil {
		if errors.Is(err, model.ErrHashtagNotFound) {
			httputil.WriteNotFound(w, "Hashtag not found")
			return
		}
		log.Printf("[ERROR] GetHashtag handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch hashtag")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, hashtag)
}

// Trending returns the current top tags
// GET /hashtags/trending
func (h *HashtagHandler) Trending(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		var err error
		if limit, err = parsePositive(v); err != nil {
			httputil.WriteBadRequest(w, "Invalid limit")
			return
		}
	}

	result, err := h.hashtagService.Trending(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] Trending handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch trending tags")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
