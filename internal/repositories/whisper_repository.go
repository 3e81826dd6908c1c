package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"whisper-service/internal/models"
)

var ErrWhisperNotFound = errors.New("whisper not found")

const whisperColumns = `id, content, category, created_at, viewed, author_id, is_shared, shared_at, original_author_id`

// WhisperRepository abstracts whisper persistence.
type WhisperRepository interface {
	CreateWhisper(ctx context.Context, content, category string) (models.Whisper, error)
	GetWhisper(ctx context.Context, id int) (models.Whisper, error)
	ListWhispers(ctx context.Context) ([]models.Whisper, error)
	ListSharedWhispers(ctx context.Context) ([]models.Whisper, error)
	MarkViewed(ctx context.Context, id int) (models.Whisper, error)
	MarkShared(ctx context.Context, id int, sharedAt time.Time) (models.Whisper, error)
}

// WhisperRepo is a sqlx implementation of WhisperRepository.
type WhisperRepo struct {
	db *sqlx.DB
}

// NewWhisperRepo constructs a WhisperRepo.
func NewWhisperRepo(db *sqlx.DB) *WhisperRepo {
	return &WhisperRepo{db: db}
}

// CreateWhisper inserts a whisper in its initial state.
func (r *WhisperRepo) CreateWhisper(ctx context.Context, content, category string) (models.Whisper, error) {
	var w models.Whisper
	err := r.db.QueryRowxContext(ctx, `INSERT INTO whispers (content, category) VALUES ($1, $2) RETURNING `+whisperColumns, content, category).
		StructScan(&w)
	return w, err
}

// GetWhisper fetches a whisper by id.
func (r *WhisperRepo) GetWhisper(ctx context.Context, id int) (models.Whisper, error) {
	var w models.Whisper
	err := r.db.GetContext(ctx, &w, `SELECT `+whisperColumns+` FROM whispers WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Whisper{}, ErrWhisperNotFound
	}
	return w, err
}

// ListWhispers returns every whisper in creation order.
func (r *WhisperRepo) ListWhispers(ctx context.Context) ([]models.Whisper, error) {
	var whispers []models.Whisper
	err := r.db.SelectContext(ctx, &whispers, `SELECT `+whisperColumns+` FROM whispers ORDER BY id ASC`)
	return whispers, err
}

// ListSharedWhispers returns whispers that went through at least one share,
// in creation order.
func (r *WhisperRepo) ListSharedWhispers(ctx context.Context) ([]models.Whisper, error) {
	var whispers []models.Whisper
	err := r.db.SelectContext(ctx, &whispers, `SELECT `+whisperColumns+` FROM whispers WHERE is_shared = TRUE ORDER BY id ASC`)
	return whispers, err
}

// MarkViewed sets the viewed flag. The flag is monotonic, so repeating the
// call leaves the whisper in the same terminal state.
func (r *WhisperRepo) MarkViewed(ctx context.Context, id int) (models.Whisper, error) {
	var w models.Whisper
	err := r.db.QueryRowxContext(ctx, `UPDATE whispers SET viewed = TRUE WHERE id=$1 RETURNING `+whisperColumns, id).
		StructScan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Whisper{}, ErrWhisperNotFound
	}
	return w, err
}

// MarkShared flips is_shared and snapshots shared_at/original_author_id.
// The snapshot fields keep their first-share values on reshares.
func (r *WhisperRepo) MarkShared(ctx context.Context, id int, sharedAt time.Time) (models.Whisper, error) {
	var w models.Whisper
	err := r.db.QueryRowxContext(ctx, `UPDATE whispers
        SET is_shared = TRUE,
            shared_at = COALESCE(shared_at, $2),
            original_author_id = COALESCE(original_author_id, author_id)
        WHERE id=$1
        RETURNING `+whisperColumns, id, sharedAt).
		StructScan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Whisper{}, ErrWhisperNotFound
	}
	return w, err
}
