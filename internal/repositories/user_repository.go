package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"chat-api/internal/apperrors"
	"chat-api/internal/models"
)

var (
	ErrUserNotFound = fmt.Errorf("user %w", apperrors.ErrNotFound)
	ErrUserExists   = fmt.Errorf("username or email already registered: %w", apperrors.ErrConflict)
	ErrEmailTaken   = fmt.Errorf("email already registered: %w", apperrors.ErrConflict)
)

const userColumns = `id, username, email, full_name, hashed_password, profile_picture, is_active, created_at, updated_at`

// UserRepository abstracts user persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, username, email, fullName, hashedPassword string) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, fullName, email, profilePicture *string) (models.User, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser inserts a new active user.
func (r *UserRepo) CreateUser(ctx context.Context, username, email, fullName, hashedPassword string) (models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (id, username, email, full_name, hashed_password) VALUES ($1, $2, $3, $4, $5) RETURNING `+userColumns,
		uuid.NewString(), username, email, fullName, hashedPassword).StructScan(&user)
	if isUniqueViolation(err) {
		return models.User{}, ErrUserExists
	}
	return user, err
}

// GetUser fetches a user by id.
func (r *UserRepo) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetUserByUsername fetches a user by username.
func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// ListUsers returns a skip/limit window of users ordered by creation time.
func (r *UserRepo) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC OFFSET $1 LIMIT $2`, skip, limit)
	return users, err
}

// UpdateProfile applies the given optional fields to the user. A nil field is
// left untouched.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, fullName, email, profilePicture *string) (models.User, error) {
	if email != nil {
		var taken bool
		if err := r.db.GetContext(ctx, &taken,
			`SELECT EXISTS(SELECT 1 FROM users WHERE email=$1 AND id<>$2)`, *email, id); err != nil {
			return models.User{}, err
		}
		if taken {
			return models.User{}, ErrEmailTaken
		}
	}

	var user models.User
	err := r.db.QueryRowxContext(ctx,
		`UPDATE users SET
            full_name = COALESCE($2, full_name),
            email = COALESCE($3, email),
            profile_picture = COALESCE($4, profile_picture),
            updated_at = NOW()
        WHERE id=$1 RETURNING `+userColumns,
		id, fullName, email, profilePicture).StructScan(&user)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
