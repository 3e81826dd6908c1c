package models

import "time"

// Share records a single distribution event for a whisper. A whisper may
// accumulate several shares over time; shares never change after creation
// except through consumption in single-use mode.
type Share struct {
	ID             int        `db:"id" json:"id"`
	WhisperID      int        `db:"whisper_id" json:"whisperId"`
	SharedByUserID int        `db:"shared_by_user_id" json:"sharedByUserId"`
	SharedToUserID *int       `db:"shared_to_user_id" json:"sharedToUserId"`
	ShareCode      string     `db:"share_code" json:"shareCode"`
	ConsumedAt     *time.Time `db:"consumed_at" json:"consumedAt,omitempty"`
	ExpiresAt      time.Time  `db:"expires_at" json:"expiresAt"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// Community reports whether the share is addressed to the community at large
// rather than to a specific user.
func (s Share) Community() bool {
	return s.SharedToUserID == nil
}
