package service

import (
	"context"
	"log"
	"regexp"
	"strings"

	"pulsegram/internal/cache"
	"pulsegram/internal/model"
	"pulsegram/internal/queue"
	"pulsegram/internal/repository"
)

// tagPattern matches a '#' followed by word characters. Matching stops
// at the first non-word rune, so "#go!" yields "go".
var tagPattern = regexp.MustCompile(`#(\w+)`)

// HashtagService extracts tags from post content and maintains the
// hashtag index and trending scores.
type HashtagService struct {
	hashtagRepo repository.HashtagRepository
	trending    cache.TrendingCache
	publisher   queue.Publisher
}

func NewHashtagService(
	hashtagRepo repository.HashtagRepository,
	trending cache.TrendingCache,
	publisher queue.Publisher,
) *HashtagService {
	return &HashtagService{
		hashtagRepo: hashtagRepo,
		trending:    trending,
		publisher:   publisher,
	}
}

// ExtractTags returns the canonical (lower-cased, '#'-stripped) tags
// found in content, deduplicated case-insensitively with the first
// occurrence winning the order.
func ExtractTags(content string) []string {
	matches := tagPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// IndexPost extracts tags from content and links them to the post.
// Indexing is best effort per tag: a failure on one tag is logged and
// the rest still get indexed, and post creation is never failed for
// indexing problems. post_count is bumped only when the link row was
// actually inserted.
func (s *HashtagService) IndexPost(ctx context.Context, postID int64, content string) {
	for _, tag := range ExtractTags(content) {
		hashtag, err := s.hashtagRepo.Upsert(ctx, tag)
		if err != nil {
			log.Printf("[HashtagService] upsert failed: tag=%s post=%d err=%v", tag, postID, err)
			continue
		}

		linked, err := s.hashtagRepo.Link(ctx, postID, hashtag.ID)
		if err != nil {
			log.Printf("[HashtagService] link failed: tag=%s post=%d err=%v", tag, postID, err)
			continue
		}
		if !linked {
			continue
		}

		if err := s.hashtagRepo.AdjustPostCount(ctx, hashtag.ID, 1); err != nil {
			reportDrift(ctx, s.publisher, queue.CounterHashtagPosts, hashtag.ID, 1, "index", err)
		}

		if s.trending != nil {
			if err := s.trending.Bump(ctx, tag); err != nil {
				log.Printf("[HashtagService] trending bump failed: tag=%s err=%v", tag, err)
			}
		}
	}
}

// Search finds hashtags by prefix, most used first. A leading '#' on
// the query is tolerated.
func (s *HashtagService) Search(ctx context.Context, query string, limit int) (*model.HashtagListResponse, error) {
	query = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(query), "#"))
	if query == "" {
		return &model.HashtagListResponse{Hashtags: []model.Hashtag{}}, nil
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	tags, err := s.hashtagRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []model.Hashtag{}
	}
	return &model.HashtagListResponse{Hashtags: tags}, nil
}

// GetByTag returns a single hashtag with its post count.
func (s *HashtagService) GetByTag(ctx context.Context, tag string) (*model.Hashtag, error) {
	tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	return s.hashtagRepo.GetByTag(ctx, tag)
}

// Trending returns the current top tags from the trending cache.
func (s *HashtagService) Trending(ctx context.Context, limit int) (*model.TrendingResponse, error) {
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	tags, err := s.trending.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []model.TrendingTag{}
	}
	return &model.TrendingResponse{Tags: tags}, nil
}
