package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/interfaces/http/dto"
	"github.com/propdesk/backend/internal/interfaces/http/middleware"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
		details int
	}{
		{"not found", shared.NewNotFoundError("unit"), http.StatusNotFound, dto.ErrCodeNotFound, "unit not found", 0},
		{"wrapped not found", fmt.Errorf("lookup: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound, "Resource not found", 0},
		{"validation with fields", shared.NewRequiredFieldsError("first_name", "phone"), http.StatusBadRequest, dto.ErrCodeValidation, "missing required fields: first_name, phone", 2},
		{"unit occupied", shared.NewDomainError(shared.CodeUnitOccupied, "unit A-101 already has an active contract"), http.StatusConflict, dto.ErrCodeUnitOccupied, "unit A-101 already has an active contract", 0},
		{"partial failure", shared.NewPartialFailureError("onboarding failed", errors.New("disk full")), http.StatusInternalServerError, dto.ErrCodePartialFailure, "onboarding failed", 0},
		{"aggregation", shared.NewAggregationError("search failed for units", errors.New("timeout")), http.StatusBadGateway, dto.ErrCodeAggregation, "search failed for units", 0},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "The request timed out, please retry", 0},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.RequestID())
			h := &BaseHandler{}
			r.GET("/", func(c *gin.Context) { h.HandleError(c, tt.err) })

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rec.Code)
			var env envelope
			require.NoError(t, jsonUnmarshal(rec, &env))
			require.NotNil(t, env.Error)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Equal(t, tt.message, env.Error.Message)
			assert.Len(t, env.Error.Details, tt.details)
			assert.Equal(t, rec.Header().Get(middleware.RequestIDHeader), env.Error.RequestID)
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestBaseHandler_MissingOffice(t *testing.T) {
	r := gin.New()
	h := NewOwnerHandler(nil)
	r.GET("/owners", h.List)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/owners", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var env envelope
	require.NoError(t, jsonUnmarshal(rec, &env))
	assert.Equal(t, dto.ErrCodeUnauthorized, env.Error.Code)
}

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestHealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		db := new(mockPinger)
		db.On("Ping", mock.Anything).Return(nil).Once()
		r := gin.New()
		r.GET("/health", NewHealthHandler(db, "1.2.3").Health)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"version":"1.2.3"`)
		assert.Contains(t, rec.Body.String(), `"database":"up"`)
		db.AssertExpectations(t)
	})

	t.Run("database down", func(t *testing.T) {
		db := new(mockPinger)
		db.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()
		r := gin.New()
		r.GET("/health", NewHealthHandler(db, "1.2.3").Health)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var env envelope
		require.NoError(t, jsonUnmarshal(rec, &env))
		assert.Equal(t, dto.ErrCodeUnavailable, env.Error.Code)
		db.AssertExpectations(t)
	})
}
