package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"whisper-service/internal/models"
)

var ErrShareNotFound = errors.New("share not found")

const shareColumns = `id, whisper_id, shared_by_user_id, shared_to_user_id, share_code, consumed_at, expires_at, created_at`

// ShareRepository abstracts share persistence.
type ShareRepository interface {
	CreateShare(ctx context.Context, whisperID, sharedByUserID int, sharedToUserID *int, shareCode string, expiresAt time.Time) (models.Share, error)
	GetShareByCode(ctx context.Context, code string) (models.Share, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ConsumeShareByCode(ctx context.Context, code string, now time.Time) (models.Share, error)
	ListShares(ctx context.Context) ([]models.Share, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// ShareRepo is a sqlx implementation of ShareRepository.
type ShareRepo struct {
	db *sqlx.DB
}

// NewShareRepo constructs a ShareRepo.
func NewShareRepo(db *sqlx.DB) *ShareRepo {
	return &ShareRepo{db: db}
}

// CreateShare inserts a share record for an existing whisper.
func (r *ShareRepo) CreateShare(ctx context.Context, whisperID, sharedByUserID int, sharedToUserID *int, shareCode string, expiresAt time.Time) (models.Share, error) {
	var s models.Share
	err := r.db.QueryRowxContext(ctx, `INSERT INTO whisper_shares (whisper_id, shared_by_user_id, shared_to_user_id, share_code, expires_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING `+shareColumns,
		whisperID, sharedByUserID, sharedToUserID, shareCode, expiresAt).
		StructScan(&s)
	return s, err
}

// GetShareByCode fetches a share by its code regardless of expiry.
func (r *ShareRepo) GetShareByCode(ctx context.Context, code string) (models.Share, error) {
	var s models.Share
	err := r.db.GetContext(ctx, &s, `SELECT `+shareColumns+` FROM whisper_shares WHERE share_code=$1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Share{}, ErrShareNotFound
	}
	return s, err
}

// CodeExists reports whether a share code was ever issued.
func (r *ShareRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM whisper_shares WHERE share_code=$1)`, code)
	return exists, err
}

// ConsumeShareByCode atomically claims an unconsumed, unexpired share. The
// conditional update makes concurrent resolutions race-free: exactly one
// caller gets the row, everyone else gets ErrShareNotFound.
func (r *ShareRepo) ConsumeShareByCode(ctx context.Context, code string, now time.Time) (models.Share, error) {
	var s models.Share
	err := r.db.QueryRowxContext(ctx, `UPDATE whisper_shares SET consumed_at=$2
        WHERE share_code=$1 AND consumed_at IS NULL AND expires_at > $2
        RETURNING `+shareColumns, code, now).
		StructScan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Share{}, ErrShareNotFound
	}
	return s, err
}

// ListShares returns every share in creation order.
func (r *ShareRepo) ListShares(ctx context.Context) ([]models.Share, error) {
	var shares []models.Share
	err := r.db.SelectContext(ctx, &shares, `SELECT `+shareColumns+` FROM whisper_shares ORDER BY id ASC`)
	return shares, err
}

// DeleteExpiredBefore removes shares whose expiry lies before the cutoff and
// reports how many rows went away. Read-time expiry does not depend on this;
// it only bounds storage growth.
func (r *ShareRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM whisper_shares WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	count, err := res.RowsAffected()
	return int(count), err
}
