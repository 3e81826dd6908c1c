package memstore

import (
	"context"
	"sync"
	"time"

	"whisper-service/internal/models"
	"whisper-service/internal/repositories"
)

// Store is an in-memory implementation of the repository interfaces. A single
// mutex serializes every mutation so concurrent requests never observe torn
// state or duplicate ids. It backs tests and DB-less deployments.
type Store struct {
	mu sync.Mutex

	users    map[int]models.User
	whispers map[int]models.Whisper
	shares   map[int]models.Share

	whisperOrder []int
	shareOrder   []int

	nextUserID    int
	nextWhisperID int
	nextShareID   int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:         make(map[int]models.User),
		whispers:      make(map[int]models.Whisper),
		shares:        make(map[int]models.Share),
		nextUserID:    1,
		nextWhisperID: 1,
		nextShareID:   1,
	}
}

// interface conformance
var (
	_ repositories.UserRepository    = (*Store)(nil)
	_ repositories.WhisperRepository = (*Store)(nil)
	_ repositories.ShareRepository   = (*Store)(nil)
)

// CreateUser assigns the next id, rejecting duplicate usernames.
func (s *Store) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return models.User{}, repositories.ErrUsernameTaken
		}
	}

	user := models.User{ID: s.nextUserID, Username: username, Password: password}
	s.nextUserID++
	s.users[user.ID] = user
	return user, nil
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id int) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrUserNotFound
	}
	return user, nil
}

// GetUserByUsername fetches a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrUserNotFound
}

// CreateWhisper inserts a whisper in its initial state.
func (s *Store) CreateWhisper(ctx context.Context, content, category string) (models.Whisper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := models.Whisper{
		ID:        s.nextWhisperID,
		Content:   content,
		Category:  category,
		CreatedAt: time.Now(),
	}
	s.nextWhisperID++
	s.whispers[w.ID] = w
	s.whisperOrder = append(s.whisperOrder, w.ID)
	return w, nil
}

// GetWhisper fetches a whisper by id.
func (s *Store) GetWhisper(ctx context.Context, id int) (models.Whisper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.whispers[id]
	if !ok {
		return models.Whisper{}, repositories.ErrWhisperNotFound
	}
	return w, nil
}

// ListWhispers returns every whisper in insertion order.
func (s *Store) ListWhispers(ctx context.Context) ([]models.Whisper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Whisper, 0, len(s.whisperOrder))
	for _, id := range s.whisperOrder {
		out = append(out, s.whispers[id])
	}
	return out, nil
}

// ListSharedWhispers returns whispers with at least one share event.
func (s *Store) ListSharedWhispers(ctx context.Context) ([]models.Whisper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Whisper
	for _, id := range s.whisperOrder {
		if w := s.whispers[id]; w.IsShared {
			out = append(out, w)
		}
	}
	return out, nil
}

// MarkViewed sets the monotonic viewed flag. Repeat calls land in the same
// terminal state; unknown ids never create a record.
func (s *Store) MarkViewed(ctx context.Context, id int) (models.Whisper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.whispers[id]
	if !ok {
		return models.Whisper{}, repositories.ErrWhisperNotFound
	}
	w.Viewed = true
	s.whispers[id] = w
	return w, nil
}

// MarkShared flips is_shared, keeping the first-share snapshot on reshares.
func (s *Store) MarkShared(ctx context.Context, id int, sharedAt time.Time) (models.Whisper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.whispers[id]
	if !ok {
		return models.Whisper{}, repositories.ErrWhisperNotFound
	}
	w.IsShared = true
	if w.SharedAt == nil {
		t := sharedAt
		w.SharedAt = &t
		w.OriginalAuthorID = w.AuthorID
	}
	s.whispers[id] = w
	return w, nil
}

// CreateShare inserts a share record for an existing whisper.
func (s *Store) CreateShare(ctx context.Context, whisperID, sharedByUserID int, sharedToUserID *int, shareCode string, expiresAt time.Time) (models.Share, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.whispers[whisperID]; !ok {
		return models.Share{}, repositories.ErrWhisperNotFound
	}

	share := models.Share{
		ID:             s.nextShareID,
		WhisperID:      whisperID,
		SharedByUserID: sharedByUserID,
		SharedToUserID: sharedToUserID,
		ShareCode:      shareCode,
		ExpiresAt:      expiresAt,
		CreatedAt:      time.Now(),
	}
	s.nextShareID++
	s.shares[share.ID] = share
	s.shareOrder = append(s.shareOrder, share.ID)
	return share, nil
}

// GetShareByCode fetches a share by its code regardless of expiry.
func (s *Store) GetShareByCode(ctx context.Context, code string) (models.Share, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.shareOrder {
		if s.shares[id].ShareCode == code {
			return s.shares[id], nil
		}
	}
	return models.Share{}, repositories.ErrShareNotFound
}

// CodeExists reports whether a share code was ever issued.
func (s *Store) CodeExists(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, share := range s.shares {
		if share.ShareCode == code {
			return true, nil
		}
	}
	return false, nil
}

// ConsumeShareByCode claims an unconsumed, unexpired share under the store
// lock, so exactly one concurrent caller wins.
func (s *Store) ConsumeShareByCode(ctx context.Context, code string, now time.Time) (models.Share, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.shareOrder {
		share := s.shares[id]
		if share.ShareCode != code {
			continue
		}
		if share.ConsumedAt != nil || !now.Before(share.ExpiresAt) {
			return models.Share{}, repositories.ErrShareNotFound
		}
		t := now
		share.ConsumedAt = &t
		s.shares[id] = share
		return share, nil
	}
	return models.Share{}, repositories.ErrShareNotFound
}

// ListShares returns every share in insertion order.
func (s *Store) ListShares(ctx context.Context) ([]models.Share, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Share, 0, len(s.shareOrder))
	for _, id := range s.shareOrder {
		out = append(out, s.shares[id])
	}
	return out, nil
}

// DeleteExpiredBefore removes shares whose expiry lies before the cutoff.
// Share ids are never reused afterwards.
func (s *Store) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []int
	removed := 0
	for _, id := range s.shareOrder {
		if s.shares[id].ExpiresAt.Before(cutoff) {
			delete(s.shares, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.shareOrder = kept
	return removed, nil
}
