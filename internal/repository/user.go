package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pulsegram/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, password_hashed, display_name, avatar_url, cover_url, bio,
       is_verified, is_admin, follower_count, following_count, created_at, updated_at`

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, password_hashed, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, is_verified, is_admin, follower_count, following_count, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query, u.Username, u.PasswordHashed, u.DisplayName)
	err := row.Scan(
		&u.ID,
		&u.IsVerified,
		&u.IsAdmin,
		&u.FollowerCount,
		&u.FollowingCount,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrUsernameExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// ExistsByUsername checks if a username is already taken
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// UpdateProfile applies the non-nil fields and returns the fresh row.
func (r *userRepository) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error) {
	query := `
		UPDATE users SET
			display_name = COALESCE($1, display_name),
			bio          = COALESCE($2, bio),
			avatar_url   = COALESCE($3, avatar_url),
			cover_url    = COALESCE($4, cover_url),
			updated_at   = NOW()
		WHERE id = $5
		RETURNING ` + userColumns + `
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, req.DisplayName, req.Bio, req.AvatarURL, req.CoverURL, userID)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &u, nil
}

// Search finds users by username prefix, case-insensitively, most
// followed first.
func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	searchQuery := `
		SELECT id, username, display_name, avatar_url, is_verified
		FROM users
		WHERE username ILIKE $1
		ORDER BY follower_count DESC
		LIMIT $2
	`

	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, searchQuery, query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}

// SetVerified flips the verified badge. Mutated only by the
// verification workflow on approval.
func (r *userRepository) SetVerified(ctx context.Context, userID int64, verified bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_verified = $1, updated_at = NOW() WHERE id = $2`, verified, userID)
	if err != nil {
		return fmt.Errorf("failed to set verified flag: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) AdjustFollowerCount(ctx context.Context, userID int64, delta int) error {
	query := `UPDATE users SET follower_count = follower_count + $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust follower count: %w", err)
	}
	return nil
}

func (r *userRepository) AdjustFollowingCount(ctx context.Context, userID int64, delta int) error {
	query := `UPDATE users SET following_count = following_count + $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust following count: %w", err)
	}
	return nil
}

func (r *userRepository) SetFollowerCount(ctx context.Context, userID int64, count int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET follower_count = $1 WHERE id = $2`, count, userID)
	if err != nil {
		return fmt.Errorf("failed to set follower count: %w", err)
	}
	return nil
}

func (r *userRepository) SetFollowingCount(ctx context.Context, userID int64, count int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET following_count = $1 WHERE id = $2`, count, userID)
	if err != nil {
		return fmt.Errorf("failed to set following count: %w", err)
	}
	return nil
}
