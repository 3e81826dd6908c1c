package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"whisper-service/internal/handlers"
	"whisper-service/internal/models"
	"whisper-service/internal/repositories"
)

type WhisperRepositoryMock struct {
	mock.Mock
}

func (m *WhisperRepositoryMock) CreateWhisper(ctx context.Context, content, category string) (models.Whisper, error) {
	args := m.Called(ctx, content, category)
	var w models.Whisper
	if val := args.Get(0); val != nil {
		w = val.(models.Whisper)
	}
	return w, args.Error(1)
}

func (m *WhisperRepositoryMock) GetWhisper(ctx context.Context, id int) (models.Whisper, error) {
	args := m.Called(ctx, id)
	var w models.Whisper
	if val := args.Get(0); val != nil {
		w = val.(models.Whisper)
	}
	return w, args.Error(1)
}

func (m *WhisperRepositoryMock) ListWhispers(ctx context.Context) ([]models.Whisper, error) {
	args := m.Called(ctx)
	var list []models.Whisper
	if val := args.Get(0); val != nil {
		list = val.([]models.Whisper)
	}
	return list, args.Error(1)
}

func (m *WhisperRepositoryMock) ListSharedWhispers(ctx context.Context) ([]models.Whisper, error) {
	args := m.Called(ctx)
	var list []models.Whisper
	if val := args.Get(0); val != nil {
		list = val.([]models.Whisper)
	}
	return list, args.Error(1)
}

func (m *WhisperRepositoryMock) MarkViewed(ctx context.Context, id int) (models.Whisper, error) {
	args := m.Called(ctx, id)
	var w models.Whisper
	if val := args.Get(0); val != nil {
		w = val.(models.Whisper)
	}
	return w, args.Error(1)
}

func (m *WhisperRepositoryMock) MarkShared(ctx context.Context, id int, sharedAt time.Time) (models.Whisper, error) {
	args := m.Called(ctx, id, sharedAt)
	var w models.Whisper
	if val := args.Get(0); val != nil {
		w = val.(models.Whisper)
	}
	return w, args.Error(1)
}

type ShareRepositoryMock struct {
	mock.Mock
}

func (m *ShareRepositoryMock) CreateShare(ctx context.Context, whisperID, sharedByUserID int, sharedToUserID *int, shareCode string, expiresAt time.Time) (models.Share, error) {
	args := m.Called(ctx, whisperID, sharedByUserID, sharedToUserID, shareCode, expiresAt)
	var s models.Share
	if val := args.Get(0); val != nil {
		s = val.(models.Share)
	}
	return s, args.Error(1)
}

func (m *ShareRepositoryMock) GetShareByCode(ctx context.Context, code string) (models.Share, error) {
	args := m.Called(ctx, code)
	var s models.Share
	if val := args.Get(0); val != nil {
		s = val.(models.Share)
	}
	return s, args.Error(1)
}

func (m *ShareRepositoryMock) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *ShareRepositoryMock) ConsumeShareByCode(ctx context.Context, code string, now time.Time) (models.Share, error) {
	args := m.Called(ctx, code, now)
	var s models.Share
	if val := args.Get(0); val != nil {
		s = val.(models.Share)
	}
	return s, args.Error(1)
}

func (m *ShareRepositoryMock) ListShares(ctx context.Context) ([]models.Share, error) {
	args := m.Called(ctx)
	var list []models.Share
	if val := args.Get(0); val != nil {
		list = val.([]models.Share)
	}
	return list, args.Error(1)
}

func (m *ShareRepositoryMock) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	args := m.Called(ctx, username, password)
	var u models.User
	if val := args.Get(0); val != nil {
		u = val.(models.User)
	}
	return u, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, id int) (models.User, error) {
	args := m.Called(ctx, id)
	var u models.User
	if val := args.Get(0); val != nil {
		u = val.(models.User)
	}
	return u, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var u models.User
	if val := args.Get(0); val != nil {
		u = val.(models.User)
	}
	return u, args.Error(1)
}

type LifecycleMock struct {
	mock.Mock
}

func (m *LifecycleMock) CreateWhisper(ctx context.Context, content, category string) (models.Whisper, error) {
	args := m.Called(ctx, content, category)
	var w models.Whisper
	if val := args.Get(0); val != nil {
		w = val.(models.Whisper)
	}
	return w, args.Error(1)
}

func (m *LifecycleMock) MarkViewed(ctx context.Context, id int) (models.Whisper, error) {
	args := m.Called(ctx, id)
	var w models.Whisper
	if val := args.Get(0); val != nil {
		w = val.(models.Whisper)
	}
	return w, args.Error(1)
}

func (m *LifecycleMock) ShareWhisper(ctx context.Context, whisperID, sharedByUserID int, sharedToUserID *int) (models.Share, error) {
	args := m.Called(ctx, whisperID, sharedByUserID, sharedToUserID)
	var s models.Share
	if val := args.Get(0); val != nil {
		s = val.(models.Share)
	}
	return s, args.Error(1)
}

func (m *LifecycleMock) ResolveShareCode(ctx context.Context, code string) (models.Whisper, error) {
	args := m.Called(ctx, code)
	var w models.Whisper
	if val := args.Get(0); val != nil {
		w = val.(models.Whisper)
	}
	return w, args.Error(1)
}

type QueriesMock struct {
	mock.Mock
}

func (m *QueriesMock) ListWhispers(ctx context.Context) ([]models.Whisper, error) {
	args := m.Called(ctx)
	var list []models.Whisper
	if val := args.Get(0); val != nil {
		list = val.([]models.Whisper)
	}
	return list, args.Error(1)
}

func (m *QueriesMock) ListSharedWhispers(ctx context.Context, requestingUserID *int) ([]models.Whisper, error) {
	args := m.Called(ctx, requestingUserID)
	var list []models.Whisper
	if val := args.Get(0); val != nil {
		list = val.([]models.Whisper)
	}
	return list, args.Error(1)
}

var _ repositories.WhisperRepository = (*WhisperRepositoryMock)(nil)
var _ repositories.ShareRepository = (*ShareRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ handlers.Lifecycle = (*LifecycleMock)(nil)
var _ handlers.Queries = (*QueriesMock)(nil)
