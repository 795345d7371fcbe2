package service

import (
	"context"
	"strings"

	"pulsegram/internal/model"
	"pulsegram/internal/queue"
	"pulsegram/internal/repository"
)

// PostService owns posts and the like edge. Like counters follow the
// same independent-write contract as the follow graph: the edge row is
// authoritative and counter failures become drift events.
type PostService struct {
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
	hashtagSvc *HashtagService
	publisher  queue.Publisher
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	hashtagSvc *HashtagService,
	publisher queue.Publisher,
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		userRepo:   userRepo,
		hashtagSvc: hashtagSvc,
		publisher:  publisher,
	}
}

// Create validates and stores a new post, then indexes its hashtags.
// Indexing failures never fail the post.
func (s *PostService) Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
	content := strings.TrimSpace(req.Content)

	if content == "" && req.MediaURL == nil {
		return nil, model.ErrEmptyPost
	}
	if len(content) > model.MaxPostContentLength {
		return nil, model.ErrContentTooLong
	}
	if req.MediaURL != nil {
		if req.MediaType == nil {
			return nil, model.ErrInvalidMediaType
		}
		switch *req.MediaType {
		case model.MediaTypeImage, model.MediaTypeAudio:
		default:
			return nil, model.ErrInvalidMediaType
		}
	}

	post, err := s.postRepo.Create(ctx, userID, content, req.MediaURL, req.MediaType)
	if err != nil {
		return nil, err
	}

	if s.hashtagSvc != nil {
		s.hashtagSvc.IndexPost(ctx, post.ID, content)
	}

	return post, nil
}

// GetByID returns a post with the author projection and the viewer's
// like state attached.
func (s *PostService) GetByID(ctx context.Context, postID, viewerID int64) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, post.UserID)
	if err == nil {
		summary := author.Summary()
		post.Author = &summary
	}

	if viewerID != 0 {
		liked, err := s.postRepo.LikeExists(ctx, postID, viewerID)
		if err != nil {
			return nil, err
		}
		post.IsLiked = liked
	}

	return post, nil
}

// Delete removes a post. Only the owner or a moderator may delete.
// Dependent rows cascade at the store; hashtag post_count is left as
// is and converges through reconciliation.
func (s *PostService) Delete(ctx context.Context, postID, callerID int64, isModerator bool) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != callerID && !isModerator {
		return model.ErrNotPostOwner
	}

	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike flips the caller's like on a post and returns the new
// state. The read-then-write pair is not atomic; the unique edge
// constraint resolves races, and the counter only moves when the edge
// actually changed.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID int64) (*model.LikeResponse, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	liked, err := s.postRepo.LikeExists(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if liked {
		if err := s.postRepo.DeleteLike(ctx, postID, userID); err != nil {
			if err == model.ErrNotLiked {
				// Lost the race to another unlike; already in the target state
				return &model.LikeResponse{Liked: false}, nil
			}
			return nil, err
		}
		if err := s.postRepo.AdjustLikeCount(ctx, postID, -1); err != nil {
			reportDrift(ctx, s.publisher, queue.CounterLikes, postID, -1, "unlike", err)
		}
		return &model.LikeResponse{Liked: false}, nil
	}

	inserted, err := s.postRepo.InsertLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if inserted {
		if err := s.postRepo.AdjustLikeCount(ctx, postID, 1); err != nil {
			reportDrift(ctx, s.publisher, queue.CounterLikes, postID, 1, "like", err)
		}
	}
	return &model.LikeResponse{Liked: true}, nil
}

// GetLikers returns one page of users who liked a post.
func (s *PostService) GetLikers(ctx context.Context, postID int64, page, pageSize int) (*model.LikersListResponse, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	users, err := s.postRepo.GetLikers(ctx, postID, offset, pageSize+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(users) > pageSize
	if hasMore {
		users = users[:pageSize]
	}

	return &model.LikersListResponse{
		Users:    users,
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
	}, nil
}

// GetUserPosts returns one page of a user's posts, newest first.
func (s *PostService) GetUserPosts(ctx context.Context, userID int64, page, pageSize int) (*model.PostListResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	posts, err := s.postRepo.GetUserPosts(ctx, userID, offset, pageSize+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(posts) > pageSize
	if hasMore {
		posts = posts[:pageSize]
	}

	return &model.PostListResponse{
		Posts:    posts,
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
	}, nil
}
