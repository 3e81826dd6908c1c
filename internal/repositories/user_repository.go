package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"whisper-service/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// UserRepository abstracts user persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, username, password string) (models.User, error)
	GetUser(ctx context.Context, id int) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser inserts a user. The conflict-free insert returns no row when the
// username is taken, which surfaces as ErrUsernameTaken.
func (r *UserRepo) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	var u models.User
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users (username, password) VALUES ($1, $2)
        ON CONFLICT (username) DO NOTHING
        RETURNING id, username, password`, username, password).
		StructScan(&u)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUsernameTaken
	}
	return u, err
}

// GetUser fetches a user by id.
func (r *UserRepo) GetUser(ctx context.Context, id int) (models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT id, username, password FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

// GetUserByUsername fetches a user by username.
func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT id, username, password FROM users WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}
