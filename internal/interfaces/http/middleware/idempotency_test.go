package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/cache"
	"github.com/propdesk/backend/internal/interfaces/http/dto"
)

func newIdempotentRouter(store shared.IdempotencyStore, status *int, calls *int) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.Use(func(c *gin.Context) {
		c.Set(OfficeIDKey, "office-1")
		c.Next()
	})
	r.POST("/api/v1/onboarding", Idempotency(store, time.Hour), func(c *gin.Context) {
		*calls++
		c.Status(*status)
	})
	return r
}

func postOnboarding(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding", nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_ReplayRejected(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	status, calls := http.StatusCreated, 0
	r := newIdempotentRouter(store, &status, &calls)

	first := postOnboarding(r, "onboard-42")
	assert.Equal(t, http.StatusCreated, first.Code)

	replay := postOnboarding(r, "onboard-42")
	assert.Equal(t, http.StatusConflict, replay.Code)
	assert.Equal(t, dto.ErrCodeDuplicateRequest, decodeError(t, replay).Code)
	assert.Equal(t, 1, calls)

	other := postOnboarding(r, "onboard-43")
	assert.Equal(t, http.StatusCreated, other.Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	status, calls := http.StatusCreated, 0
	r := newIdempotentRouter(store, &status, &calls)

	postOnboarding(r, "")
	postOnboarding(r, "")
	assert.Equal(t, 2, calls)
	assert.Zero(t, store.Size())
}

func TestIdempotency_FailedRequestReleasesKey(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	status, calls := http.StatusConflict, 0
	r := newIdempotentRouter(store, &status, &calls)

	assert.Equal(t, http.StatusConflict, postOnboarding(r, "retry-me").Code)

	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, postOnboarding(r, "retry-me").Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotency_KeyTooLong(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	status, calls := http.StatusCreated, 0
	r := newIdempotentRouter(store, &status, &calls)

	long := make([]byte, maxIdempotencyKeyLength+1)
	for i := range long {
		long[i] = 'k'
	}
	rec := postOnboarding(r, string(long))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, calls)
}

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockIdempotencyStore) Close() error {
	return nil
}

func TestIdempotency_StoreErrorFailsOpen(t *testing.T) {
	store := new(mockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, "office-1:POST:/api/v1/onboarding:k1", time.Hour).
		Return(false, errors.New("redis: connection refused"))

	status, calls := http.StatusCreated, 0
	r := newIdempotentRouter(store, &status, &calls)

	rec := postOnboarding(r, "k1")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, calls)
	store.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}
