package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"chatter-service/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository stores profiles created on first login.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// Upsert creates the user on first login and refreshes name and
	// picture on subsequent logins.
	Upsert(ctx context.Context, user models.User) (models.User, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, email, name, profile_picture, google_user, created_at`

// FindByEmail fetches a user by email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// Upsert inserts or refreshes the profile row keyed by email.
func (r *UserRepo) Upsert(ctx context.Context, user models.User) (models.User, error) {
	var saved models.User
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users (email, name, profile_picture, google_user)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, profile_picture = EXCLUDED.profile_picture
        RETURNING `+userColumns, user.Email, user.Name, user.ProfilePicture, user.GoogleUser).
		StructScan(&saved)
	return saved, err
}
