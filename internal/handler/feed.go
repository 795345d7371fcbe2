package handler

import (
	"log"
	"net/http"

	"pulsegram/internal/httputil"
	"pulsegram/internal/service"
	"pulsegram/internal/transport/http/middleware"
)

type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// GetFeed returns one page of the global feed
// GET /feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.GetUserIDFromContext(r.Context())
	page, pageSize := pageParams(r)

	result, err := h.feedService.GetFeed(r.Context(), viewerID, page, pageSize)
	if err != nil {
		log.Printf("[ERROR] GetFeed handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
