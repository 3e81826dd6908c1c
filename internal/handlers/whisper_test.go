package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"whisper-service/internal/handlers"
	"whisper-service/internal/lifecycle"
	"whisper-service/internal/mocks"
	"whisper-service/internal/models"
	"whisper-service/internal/repositories"
	"whisper-service/internal/sharecode"
	"whisper-service/internal/ws"
)

func setupWhisperRouter(handler *handlers.WhisperHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/whispers", handler.ListWhispers)
	r.POST("/api/whispers", handler.CreateWhisper)
	r.PATCH("/api/whispers/:id/viewed", handler.MarkViewed)
	r.GET("/api/whispers/shared", handler.ListSharedWhispers)
	r.POST("/api/whispers/:id/share", handler.ShareWhisper)
	r.GET("/api/share/:shareCode", handler.ResolveShare)
	return r
}

func newWhisperHandler(lc handlers.Lifecycle, queries handlers.Queries) *handlers.WhisperHandler {
	return handlers.NewWhisperHandler(lc, queries, ws.NewHub(), nil)
}

func TestListWhispersSuccess(t *testing.T) {
	queries := new(mocks.QueriesMock)
	handler := newWhisperHandler(new(mocks.LifecycleMock), queries)
	router := setupWhisperRouter(handler)

	queries.On("ListWhispers", mock.Anything).Return([]models.Whisper{{ID: 1, Content: "hello", Category: "thoughts"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/whispers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []models.Whisper
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "hello", resp[0].Content)
	queries.AssertExpectations(t)
}

func TestListWhispersEmptyBodyIsArray(t *testing.T) {
	queries := new(mocks.QueriesMock)
	handler := newWhisperHandler(new(mocks.LifecycleMock), queries)
	router := setupWhisperRouter(handler)

	queries.On("ListWhispers", mock.Anything).Return(([]models.Whisper)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/whispers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestListWhispersRepoError(t *testing.T) {
	queries := new(mocks.QueriesMock)
	handler := newWhisperHandler(new(mocks.LifecycleMock), queries)
	router := setupWhisperRouter(handler)

	queries.On("ListWhispers", mock.Anything).Return(([]models.Whisper)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/whispers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	queries.AssertExpectations(t)
}

func TestCreateWhisperSuccess(t *testing.T) {
	lc := new(mocks.LifecycleMock)
	handler := newWhisperHandler(lc, new(mocks.QueriesMock))
	router := setupWhisperRouter(handler)

	lc.On("CreateWhisper", mock.Anything, "test", "thoughts").
		Return(models.Whisper{ID: 1, Content: "test", Category: "thoughts"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/whispers", bytes.NewBufferString(`{"content":"test","category":"thoughts"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.Whisper
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Viewed)
	assert.False(t, resp.IsShared)
	lc.AssertExpectations(t)
}

func TestCreateWhisperMissingFields(t *testing.T) {
	handler := newWhisperHandler(new(mocks.LifecycleMock), new(mocks.QueriesMock))
	router := setupWhisperRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/whispers", bytes.NewBufferString(`{"content":"test"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateWhisperUnknownCategory(t *testing.T) {
	lc := new(mocks.LifecycleMock)
	handler := newWhisperHandler(lc, new(mocks.QueriesMock))
	router := setupWhisperRouter(handler)

	lc.On("CreateWhisper", mock.Anything, "test", "nonsense").
		Return(models.Whisper{}, lifecycle.ErrUnknownCategory).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/whispers", bytes.NewBufferString(`{"content":"test","category":"nonsense"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	lc.AssertExpectations(t)
}

func TestMarkViewedSuccess(t *testing.T) {
	lc := new(mocks.LifecycleMock)
	handler := newWhisperHandler(lc, new(mocks.QueriesMock))
	router := setupWhisperRouter(handler)

	lc.On("MarkViewed", mock.Anything, 5).Return(models.Whisper{ID: 5, Viewed: true}, nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/api/whispers/5/viewed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.Whisper
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Viewed)
	lc.AssertExpectations(t)
}

func TestMarkViewedNotFound(t *testing.T) {
	lc := new(mocks.LifecycleMock)
	handler := newWhisperHandler(lc, new(mocks.QueriesMock))
	router := setupWhisperRouter(handler)

	lc.On("MarkViewed", mock.Anything, 99).Return(models.Whisper{}, repositories.ErrWhisperNotFound).Once()

	req := httptest.NewRequest(http.MethodPatch, "/api/whispers/99/viewed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	lc.AssertExpectations(t)
}

func TestMarkViewedInvalidID(t *testing.T) {
	handler := newWhisperHandler(new(mocks.LifecycleMock), new(mocks.QueriesMock))
	router := setupWhisperRouter(handler)

	req := httptest.NewRequest(http.MethodPatch, "/api/whispers/abc/viewed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSharedWhispersWithUserID(t *testing.T) {
	queries := new(mocks.QueriesMock)
	handler := newWhisperHandler(new(mocks.LifecycleMock), queries)
	router := setupWhisperRouter(handler)

	userID := 3
	queries.On("ListSharedWhispers", mock.Anything, &userID).
		Return([]models.Whisper{{ID: 2, IsShared: true}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/whispers/shared?userId=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	queries.AssertExpectations(t)
}

func TestListSharedWhispersInvalidUserID(t *testing.T) {
	handler := newWhisperHandler(new(mocks.LifecycleMock), new(mocks.QueriesMock))
	router := setupWhisperRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/whispers/shared?userId=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShareWhisperSuccess(t *testing.T) {
	lc := new(mocks.LifecycleMock)
	handler := newWhisperHandler(lc, new(mocks.QueriesMock))
	router := setupWhisperRouter(handler)

	expires := time.Now().Add(7 * 24 * time.Hour)
	lc.On("ShareWhisper", mock.Anything, 4, 1, (*int)(nil)).
		Return(models.Share{ID: 1, WhisperID: 4, SharedByUserID: 1, ShareCode: "abc123", ExpiresAt: expires}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/whispers/4/share", bytes.NewBufferString(`{"sharedByUserId":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.Share
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "abc123", resp.ShareCode)
	assert.WithinDuration(t, expires, resp.ExpiresAt, time.Second)
	lc.AssertExpectations(t)
}

func TestShareWhisperMissingSharedBy(t *testing.T) {
	handler := newWhisperHandler(new(mocks.LifecycleMock), new(mocks.QueriesMock))
	router := setupWhisperRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/whispers/4/share", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShareWhisperNotFound(t *testing.T) {
	lc := new(mocks.LifecycleMock)
	handler := newWhisperHandler(lc, new(mocks.QueriesMock))
	router := setupWhisperRouter(handler)

	lc.On("ShareWhisper", mock.Anything, 77, 1, (*int)(nil)).
		Return(models.Share{}, repositories.ErrWhisperNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/whispers/77/share", bytes.NewBufferString(`{"sharedByUserId":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	lc.AssertExpectations(t)
}

func TestShareWhisperCodeExhausted(t *testing.T) {
	lc := new(mocks.LifecycleMock)
	handler := newWhisperHandler(lc, new(mocks.QueriesMock))
	router := setupWhisperRouter(handler)

	lc.On("ShareWhisper", mock.Anything, 4, 1, (*int)(nil)).
		Return(models.Share{}, sharecode.ErrExhausted).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/whispers/4/share", bytes.NewBufferString(`{"sharedByUserId":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	lc.AssertExpectations(t)
}

func TestResolveShareSuccess(t *testing.T) {
	lc := new(mocks.LifecycleMock)
	handler := newWhisperHandler(lc, new(mocks.QueriesMock))
	router := setupWhisperRouter(handler)

	lc.On("ResolveShareCode", mock.Anything, "goodcode").
		Return(models.Whisper{ID: 4, Content: "test", IsShared: true}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/share/goodcode", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.Whisper
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "test", resp.Content)
	lc.AssertExpectations(t)
}

func TestResolveShareNotFound(t *testing.T) {
	lc := new(mocks.LifecycleMock)
	handler := newWhisperHandler(lc, new(mocks.QueriesMock))
	router := setupWhisperRouter(handler)

	lc.On("ResolveShareCode", mock.Anything, "doesnotexist123").
		Return(models.Whisper{}, repositories.ErrShareNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/share/doesnotexist123", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp["error"], "not found or expired")
	lc.AssertExpectations(t)
}
