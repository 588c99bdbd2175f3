package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/backend/internal/infrastructure/auth"
	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars!",
		Issuer:                "propdesk-test",
		AccessTokenExpiration: expiration,
		Enabled:               true,
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, officeID, userID uuid.UUID) string {
	t.Helper()
	token, _, err := svc.IssueAccessToken(auth.TokenInput{
		OfficeID: officeID,
		UserID:   userID,
		Email:    "agent@office.sa",
		Role:     "agent",
	})
	require.NoError(t, err)
	return token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var body dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	return *body.Error
}

func newAuthRouter(svc *auth.JWTService, handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.Use(Auth(AuthConfig{Validator: svc, SkipPaths: []string{"/health"}}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/units", handler)
	return r
}

func TestAuth_ValidTokenScopesRequest(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	officeID, userID := uuid.New(), uuid.New()

	var (
		gotOffice    uuid.UUID
		gotUser      *uuid.UUID
		gotCtxOffice string
		gotClaims    *auth.Claims
	)
	r := newAuthRouter(svc, func(c *gin.Context) {
		var ok bool
		gotOffice, ok = GetOfficeID(c)
		assert.True(t, ok)
		gotUser = GetUserID(c)
		gotClaims = GetClaims(c)
		gotCtxOffice = logger.GetOfficeID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/units", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, svc, officeID, userID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, officeID, gotOffice)
	require.NotNil(t, gotUser)
	assert.Equal(t, userID, *gotUser)
	assert.Equal(t, officeID.String(), gotCtxOffice)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "agent", gotClaims.Role)
}

func TestAuth_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	expired := issueToken(t, newTestJWTService(-time.Minute), uuid.New(), uuid.New())
	foreign := issueToken(t, auth.NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-at-least-32-chars",
		Issuer:                "propdesk-test",
		AccessTokenExpiration: time.Minute,
	}), uuid.New(), uuid.New())

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", dto.ErrCodeUnauthorized},
		{"empty bearer", "Bearer   ", dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer not-a-jwt", dto.ErrCodeTokenInvalid},
		{"expired token", "Bearer " + expired, dto.ErrCodeTokenExpired},
		{"foreign signature", "Bearer " + foreign, dto.ErrCodeTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			r := newAuthRouter(svc, func(c *gin.Context) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/api/v1/units", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			info := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.Equal(t, rec.Header().Get(RequestIDHeader), info.RequestID)
		})
	}
}

func TestAuth_SkipPaths(t *testing.T) {
	r := newAuthRouter(newTestJWTService(time.Minute), func(c *gin.Context) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetOfficeID_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetOfficeID(c)
	assert.False(t, ok)
	assert.Nil(t, GetUserID(c))
	assert.Nil(t, GetClaims(c))

	c.Set(OfficeIDKey, "not-a-uuid")
	_, ok = GetOfficeID(c)
	assert.False(t, ok)
}

func TestStaticOffice(t *testing.T) {
	officeID := uuid.New()
	r := gin.New()
	r.Use(StaticOffice(officeID))

	var got uuid.UUID
	r.GET("/x", func(c *gin.Context) {
		got, _ = GetOfficeID(c)
		c.Status(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, officeID, got)
}
