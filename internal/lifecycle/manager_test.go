package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisper-service/internal/memstore"
	"whisper-service/internal/repositories"
	"whisper-service/internal/sharecode"
)

func newTestManager(t *testing.T, opts Options) (*Manager, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	codes := sharecode.NewGenerator(store.CodeExists)
	return NewManager(store, store, codes, opts), store
}

func TestCreateWhisperInitialState(t *testing.T) {
	m, _ := newTestManager(t, Options{})

	w, err := m.CreateWhisper(context.Background(), "test", "thoughts")
	require.NoError(t, err)
	assert.Equal(t, "test", w.Content)
	assert.Equal(t, "thoughts", w.Category)
	assert.False(t, w.Viewed)
	assert.False(t, w.IsShared)
	assert.Nil(t, w.SharedAt)
	assert.Nil(t, w.OriginalAuthorID)
}

func TestCreateWhisperValidation(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	ctx := context.Background()

	_, err := m.CreateWhisper(ctx, "   ", "thoughts")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = m.CreateWhisper(ctx, "something", "confessions")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestShareWhisperRoundTrip(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	ctx := context.Background()

	w, err := m.CreateWhisper(ctx, "round trip", "memories")
	require.NoError(t, err)

	share, err := m.ShareWhisper(ctx, w.ID, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, w.ID, share.WhisperID)
	assert.Equal(t, 1, share.SharedByUserID)
	assert.Nil(t, share.SharedToUserID)
	assert.NotEmpty(t, share.ShareCode)

	resolved, err := m.ResolveShareCode(ctx, share.ShareCode)
	require.NoError(t, err)
	assert.Equal(t, w.ID, resolved.ID)
	assert.Equal(t, w.Content, resolved.Content)
	assert.True(t, resolved.IsShared)
}

func TestShareWhisperExpirySevenDays(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	w, err := m.CreateWhisper(context.Background(), "ttl", "open")
	require.NoError(t, err)
	share, err := m.ShareWhisper(context.Background(), w.ID, 7, nil)
	require.NoError(t, err)

	assert.True(t, share.ExpiresAt.Equal(base.Add(7*24*time.Hour)))
}

func TestShareWhisperUnknownWhisper(t *testing.T) {
	m, store := newTestManager(t, Options{})
	ctx := context.Background()

	_, err := m.ShareWhisper(ctx, 123, 1, nil)
	assert.ErrorIs(t, err, repositories.ErrWhisperNotFound)

	shares, err := store.ListShares(ctx)
	require.NoError(t, err)
	assert.Empty(t, shares, "failed share must not leave a record behind")
}

func TestReshareCreatesNewShareKeepsSnapshot(t *testing.T) {
	m, store := newTestManager(t, Options{})
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := base
	m.now = func() time.Time { return now }
	ctx := context.Background()

	w, err := m.CreateWhisper(ctx, "reshare", "frustration")
	require.NoError(t, err)

	first, err := m.ShareWhisper(ctx, w.ID, 1, nil)
	require.NoError(t, err)

	now = base.Add(24 * time.Hour)
	second, err := m.ShareWhisper(ctx, w.ID, 2, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ShareCode, second.ShareCode)

	shares, err := store.ListShares(ctx)
	require.NoError(t, err)
	assert.Len(t, shares, 2)

	updated, err := store.GetWhisper(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.SharedAt)
	assert.True(t, updated.SharedAt.Equal(base), "first share timestamp survives reshares")
}

func TestResolveShareCodeUnknown(t *testing.T) {
	m, _ := newTestManager(t, Options{})

	_, err := m.ResolveShareCode(context.Background(), "doesnotexist123")
	assert.ErrorIs(t, err, repositories.ErrShareNotFound)
}

func TestResolveShareCodeExpiryBoundary(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := base
	m.now = func() time.Time { return now }
	ctx := context.Background()

	w, err := m.CreateWhisper(ctx, "boundary", "thoughts")
	require.NoError(t, err)
	share, err := m.ShareWhisper(ctx, w.ID, 1, nil)
	require.NoError(t, err)

	// one instant before expiry still resolves
	now = share.ExpiresAt.Add(-time.Nanosecond)
	_, err = m.ResolveShareCode(ctx, share.ShareCode)
	require.NoError(t, err)

	// exactly at expiry counts as expired
	now = share.ExpiresAt
	_, err = m.ResolveShareCode(ctx, share.ShareCode)
	assert.ErrorIs(t, err, repositories.ErrShareNotFound)
}

func TestResolveShareCodeMultiUseByDefault(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	ctx := context.Background()

	w, err := m.CreateWhisper(ctx, "again and again", "open")
	require.NoError(t, err)
	share, err := m.ShareWhisper(ctx, w.ID, 1, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		resolved, err := m.ResolveShareCode(ctx, share.ShareCode)
		require.NoError(t, err)
		assert.Equal(t, w.ID, resolved.ID)
	}
}

func TestResolveShareCodeSingleUse(t *testing.T) {
	m, _ := newTestManager(t, Options{SingleUse: true})
	ctx := context.Background()

	w, err := m.CreateWhisper(ctx, "only once", "regrets")
	require.NoError(t, err)
	share, err := m.ShareWhisper(ctx, w.ID, 1, nil)
	require.NoError(t, err)

	resolved, err := m.ResolveShareCode(ctx, share.ShareCode)
	require.NoError(t, err)
	assert.Equal(t, w.ID, resolved.ID)

	_, err = m.ResolveShareCode(ctx, share.ShareCode)
	assert.ErrorIs(t, err, repositories.ErrShareNotFound)
}

func TestResolveDoesNotMarkViewed(t *testing.T) {
	m, store := newTestManager(t, Options{})
	ctx := context.Background()

	w, err := m.CreateWhisper(ctx, "still unviewed", "memories")
	require.NoError(t, err)
	share, err := m.ShareWhisper(ctx, w.ID, 1, nil)
	require.NoError(t, err)

	_, err = m.ResolveShareCode(ctx, share.ShareCode)
	require.NoError(t, err)

	current, err := store.GetWhisper(ctx, w.ID)
	require.NoError(t, err)
	assert.False(t, current.Viewed, "resolution and viewing are separate transitions")
}

func TestMarkViewedIdempotent(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	ctx := context.Background()

	w, err := m.CreateWhisper(ctx, "view me", "thoughts")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		updated, err := m.MarkViewed(ctx, w.ID)
		require.NoError(t, err)
		assert.True(t, updated.Viewed)
	}

	_, err = m.MarkViewed(ctx, 999)
	assert.ErrorIs(t, err, repositories.ErrWhisperNotFound)
}

func TestShareCodesUniqueAcrossShares(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	ctx := context.Background()

	w, err := m.CreateWhisper(ctx, "many shares", "open")
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		share, err := m.ShareWhisper(ctx, w.ID, 1, nil)
		require.NoError(t, err)
		assert.False(t, seen[share.ShareCode])
		seen[share.ShareCode] = true
	}
}
