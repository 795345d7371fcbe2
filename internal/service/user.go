package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pulsegram/internal/model"
	"pulsegram/internal/repository"
)

// UserService handles registration, login and profile management.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	postRepo   repository.PostRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	postRepo repository.PostRepository,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		postRepo:   postRepo,
	}
}

// Register creates a new account. Username uniqueness is enforced by
// the database; a race between the pre-check and the insert still
// resolves to ErrUsernameExists.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(strings.ToLower(req.Username))
	if username == "" || len(username) > model.MaxUsernameLength {
		return nil, model.ErrInvalidCredentials
	}
	if len(req.Password) < 8 {
		return nil, model.ErrInvalidCredentials
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:       username,
		PasswordHashed: string(hashed),
	}
	if name := strings.TrimSpace(req.DisplayName); name != "" {
		user.DisplayName = &name
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and returns the user.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	username := strings.TrimSpace(strings.ToLower(req.Username))

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if err == model.ErrUserNotFound {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetProfile returns a user's profile with the viewer's follow state.
// viewerID of 0 means an unauthenticated or self view.
func (s *UserService) GetProfile(ctx context.Context, userID, viewerID int64) (*model.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	likes, err := s.postRepo.CountLikesReceived(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &model.ProfileResponse{User: user, LikesReceived: likes}

	if viewerID != 0 && viewerID != userID {
		following, err := s.followRepo.Exists(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
		resp.IsFollowing = following
	}

	return resp, nil
}

// GetProfileByUsername resolves the username first, then delegates.
func (s *UserService) GetProfileByUsername(ctx context.Context, username string, viewerID int64) (*model.ProfileResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, user.ID, viewerID)
}

// UpdateProfile applies the non-nil fields of req to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error) {
	if req.DisplayName != nil && len(*req.DisplayName) > model.MaxDisplayNameLength {
		trimmed := (*req.DisplayName)[:model.MaxDisplayNameLength]
		req.DisplayName = &trimmed
	}
	if req.Bio != nil && len(*req.Bio) > model.MaxBioLength {
		trimmed := (*req.Bio)[:model.MaxBioLength]
		req.Bio = &trimmed
	}

	return s.userRepo.UpdateProfile(ctx, userID, req)
}

// Search finds users by username prefix, most followed first.
func (s *UserService) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return []model.UserSummary{}, nil
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return s.userRepo.Search(ctx, query, limit)
}
