package model

import "errors"

// Hashtag is a canonical (lower-cased) tag. post_count is a derived
// cache of post_hashtags link rows; links are created once per
// (post, tag) pair at post-creation time only.
type Hashtag struct {
	ID        int64  `db:"id" json:"id"`
	Tag       string `db:"tag" json:"tag"`
	PostCount int    `db:"post_count" json:"post_count"`
}

// TrendingTag is a tag with its recent usage score from the trending cache.
type TrendingTag struct {
	Tag   string  `json:"tag"`
	Score float64 `json:"score"`
}

// HashtagListResponse is the hashtag search response.
type HashtagListResponse struct {
	Hashtags []Hashtag `json:"hashtags"`
}

// TrendingResponse is the trending tags response.
type TrendingResponse struct {
	Tags []TrendingTag `json:"tags"`
}

var (
	ErrHashtagNotFound = errors.New("hashtag not found")
)
