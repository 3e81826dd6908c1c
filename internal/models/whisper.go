package models

import "time"

// Whisper is a short anonymous text entry assigned to one of the fixed categories.
type Whisper struct {
	ID               int        `db:"id" json:"id"`
	Content          string     `db:"content" json:"content"`
	Category         string     `db:"category" json:"category"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	Viewed           bool       `db:"viewed" json:"viewed"`
	AuthorID         *int       `db:"author_id" json:"authorId"`
	IsShared         bool       `db:"is_shared" json:"isShared"`
	SharedAt         *time.Time `db:"shared_at" json:"sharedAt"`
	OriginalAuthorID *int       `db:"original_author_id" json:"originalAuthorId"`
}

// Categories is the closed set of whisper categories.
var Categories = []string{"frustration", "regrets", "thoughts", "memories", "open"}

// ValidCategory reports whether category belongs to the fixed set.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// WhisperEvent is broadcasted through websockets when a whisper is created or shared.
type WhisperEvent struct {
	Type    string   `json:"type"`
	Whisper *Whisper `json:"whisper,omitempty"`
	Share   *Share   `json:"share,omitempty"`
}
