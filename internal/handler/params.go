package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// pageParams reads page/page_size query parameters. Values that are
// missing or malformed come back as zero; the service layer normalizes.
func pageParams(r *http.Request) (page, pageSize int) {
	if v := r.URL.Query().Get("page"); v != "" {
		page, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		pageSize, _ = strconv.Atoi(v)
	}
	return page, pageSize
}

// parsePositive parses a positive integer query value.
func parsePositive(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// idParam parses a numeric URL parameter.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
