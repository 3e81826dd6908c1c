package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"whisper-service/internal/models"
	"whisper-service/internal/repositories"
)

var (
	ErrEmptyContent    = errors.New("whisper content is empty")
	ErrUnknownCategory = errors.New("unknown whisper category")
)

// DefaultShareTTL is how long a share stays resolvable.
const DefaultShareTTL = 7 * 24 * time.Hour

// CodeGenerator mints unique share codes.
type CodeGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// Options tune lifecycle behavior.
type Options struct {
	// ShareTTL is the share validity window; zero means DefaultShareTTL.
	ShareTTL time.Duration
	// SingleUse makes the first successful resolution consume the share.
	SingleUse bool
}

// Manager enforces the whisper state machine: creation, share transitions,
// monotonic viewing, and time-based share expiry evaluated at read time.
type Manager struct {
	whispers repositories.WhisperRepository
	shares   repositories.ShareRepository
	codes    CodeGenerator
	ttl      time.Duration
	single   bool
	now      func() time.Time
}

// NewManager constructs a Manager.
func NewManager(whispers repositories.WhisperRepository, shares repositories.ShareRepository, codes CodeGenerator, opts Options) *Manager {
	ttl := opts.ShareTTL
	if ttl <= 0 {
		ttl = DefaultShareTTL
	}
	return &Manager{
		whispers: whispers,
		shares:   shares,
		codes:    codes,
		ttl:      ttl,
		single:   opts.SingleUse,
		now:      time.Now,
	}
}

// CreateWhisper validates input and persists a whisper in its initial state.
func (m *Manager) CreateWhisper(ctx context.Context, content, category string) (models.Whisper, error) {
	if strings.TrimSpace(content) == "" {
		return models.Whisper{}, ErrEmptyContent
	}
	if !models.ValidCategory(category) {
		return models.Whisper{}, ErrUnknownCategory
	}
	return m.whispers.CreateWhisper(ctx, content, category)
}

// MarkViewed sets the terminal viewed flag. Idempotent: any number of calls
// leaves viewed=true; unknown ids return ErrWhisperNotFound.
func (m *Manager) MarkViewed(ctx context.Context, id int) (models.Whisper, error) {
	return m.whispers.MarkViewed(ctx, id)
}

// ShareWhisper mints a code and records a share event for an existing
// whisper. Every call creates a new Share record; the whisper's
// sharedAt/originalAuthorId snapshot is taken by the first share only.
func (m *Manager) ShareWhisper(ctx context.Context, whisperID, sharedByUserID int, sharedToUserID *int) (models.Share, error) {
	if _, err := m.whispers.GetWhisper(ctx, whisperID); err != nil {
		return models.Share{}, err
	}

	code, err := m.codes.Generate(ctx)
	if err != nil {
		return models.Share{}, err
	}

	now := m.now()
	share, err := m.shares.CreateShare(ctx, whisperID, sharedByUserID, sharedToUserID, code, now.Add(m.ttl))
	if err != nil {
		return models.Share{}, err
	}

	if _, err := m.whispers.MarkShared(ctx, whisperID, now); err != nil {
		return models.Share{}, err
	}
	return share, nil
}

// ResolveShareCode returns the whisper behind a code, or ErrShareNotFound
// for unknown, expired (the expiry instant itself counts as expired) or,
// in single-use mode, already-consumed codes. Resolution never marks the
// whisper viewed; that stays a separate caller-driven transition.
func (m *Manager) ResolveShareCode(ctx context.Context, code string) (models.Whisper, error) {
	now := m.now()

	var share models.Share
	var err error
	if m.single {
		share, err = m.shares.ConsumeShareByCode(ctx, code, now)
	} else {
		share, err = m.shares.GetShareByCode(ctx, code)
		if err == nil && !now.Before(share.ExpiresAt) {
			err = repositories.ErrShareNotFound
		}
	}
	if err != nil {
		return models.Whisper{}, err
	}

	return m.whispers.GetWhisper(ctx, share.WhisperID)
}
