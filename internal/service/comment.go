package service

import (
	"context"
	"strings"

	"pulsegram/internal/model"
	"pulsegram/internal/queue"
	"pulsegram/internal/repository"
)

// CommentService owns post comments. comment_count only ever moves up:
// creation increments it (with drift on failure), deletion leaves it
// alone, so the counter reads as "comments ever made" rather than
// "comments visible".
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	publisher   queue.Publisher
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	publisher queue.Publisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		publisher:   publisher,
	}
}

// Create validates and stores a comment, then bumps the post's
// comment_count independently.
func (s *CommentService) Create(ctx context.Context, postID, userID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return nil, model.ErrCommentTooLong
	}

	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	comment, err := s.commentRepo.Create(ctx, postID, userID, content)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.AdjustCommentCount(ctx, postID, 1); err != nil {
		reportDrift(ctx, s.publisher, queue.CounterComments, postID, 1, "comment", err)
	}

	return comment, nil
}

// Delete removes a comment. The comment author, the post owner and
// moderators may delete. comment_count is intentionally not
// decremented.
func (s *CommentService) Delete(ctx context.Context, commentID, callerID int64, isModerator bool) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != callerID && !isModerator {
		post, err := s.postRepo.GetByID(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post.UserID != callerID {
			return model.ErrNotCommentOwner
		}
	}

	return s.commentRepo.Delete(ctx, commentID)
}

// GetByPostID returns one page of a post's comments, newest first.
func (s *CommentService) GetByPostID(ctx context.Context, postID int64, page, pageSize int) (*model.CommentListResponse, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	comments, err := s.commentRepo.GetByPostID(ctx, postID, offset, pageSize+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(comments) > pageSize
	if hasMore {
		comments = comments[:pageSize]
	}

	return &model.CommentListResponse{
		Comments: comments,
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
	}, nil
}
