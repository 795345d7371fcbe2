package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"pulsegram/internal/model"
	"pulsegram/internal/repository"
)

// maxLikeCheckConcurrency bounds the per-post like lookups fanned out
// for one feed page.
const maxLikeCheckConcurrency = 10

// FeedService assembles the global reverse-chronological feed. Paging
// is offset-based; a post created between two page fetches shifts the
// window, so an item can appear twice or be skipped across pages. That
// instability is part of the feed contract.
type FeedService struct {
	postRepo repository.PostRepository
}

func NewFeedService(postRepo repository.PostRepository) *FeedService {
	return &FeedService{postRepo: postRepo}
}

// GetFeed returns one page of the feed. When viewerID is non-zero,
// each post is annotated with the viewer's like state; the per-post
// existence checks run concurrently, each writing its own slot, and
// any failure fails the page.
func (s *FeedService) GetFeed(ctx context.Context, viewerID int64, page, pageSize int) (*model.FeedResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	posts, err := s.postRepo.GetFeedPage(ctx, offset, pageSize+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(posts) > pageSize
	if hasMore {
		posts = posts[:pageSize]
	}

	if viewerID != 0 && len(posts) > 0 {
		if err := s.annotateLikes(ctx, viewerID, posts); err != nil {
			return nil, err
		}
	}

	return &model.FeedResponse{
		Posts:    posts,
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
	}, nil
}

func (s *FeedService) annotateLikes(ctx context.Context, viewerID int64, posts []model.FeedPost) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLikeCheckConcurrency)

	for i := range posts {
		i := i
		g.Go(func() error {
			liked, err := s.postRepo.LikeExists(gctx, posts[i].ID, viewerID)
			if err != nil {
				return err
			}
			posts[i].IsLiked = liked
			return nil
		})
	}

	return g.Wait()
}
