package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propdesk/backend/internal/infrastructure/auth"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/interfaces/http/dto"
)

// Gin context keys set by the middleware in this package
const (
	RequestIDKey = "request_id"
	ClaimsKey    = "jwt_claims"
	OfficeIDKey  = "office_id"
	UserIDKey    = "user_id"
)

// TokenValidator verifies a bearer token
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// AuthConfig configures the authentication middleware
type AuthConfig struct {
	Validator TokenValidator
	// SkipPaths are matched by prefix and pass through unauthenticated
	SkipPaths []string
}

// Auth verifies the bearer token and binds the request to the office in its
// claims. Every handler behind it can rely on OfficeIDKey being set.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortAuth(c, dto.ErrCodeUnauthorized, "Authorization header with a bearer token is required")
			return
		}

		claims, err := cfg.Validator.ValidateAccessToken(token)
		if err != nil {
			handleAuthError(c, err)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(OfficeIDKey, claims.OfficeID)
		c.Set(UserIDKey, claims.UserID)

		ctx := logger.WithOfficeID(c.Request.Context(), claims.OfficeID)
		ctx = logger.WithUserID(ctx, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func handleAuthError(c *gin.Context, err error) {
	logger.GetGinLogger(c).Debug("Access token rejected", zap.Error(err))

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abortAuth(c, dto.ErrCodeTokenExpired, "Access token has expired")
	case errors.Is(err, auth.ErrMissingOfficeID):
		abortAuth(c, dto.ErrCodeTokenInvalid, "Access token is not bound to an office")
	case errors.Is(err, auth.ErrTokenNotYetValid):
		abortAuth(c, dto.ErrCodeTokenInvalid, "Access token is not valid yet")
	default:
		abortAuth(c, dto.ErrCodeTokenInvalid, "Invalid access token")
	}
}

func abortAuth(c *gin.Context, code, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="propdesk"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message, c.GetString(RequestIDKey)))
}

// GetClaims returns the verified claims, or nil outside the auth middleware
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetOfficeID returns the office the request is scoped to
func GetOfficeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(OfficeIDKey))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetUserID returns the acting user, or nil when unknown
func GetUserID(c *gin.Context) *uuid.UUID {
	id, err := uuid.Parse(c.GetString(UserIDKey))
	if err != nil || id == uuid.Nil {
		return nil
	}
	return &id
}

// StaticOffice binds every request to one office. It replaces Auth when
// token verification is disabled in development.
func StaticOffice(officeID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(OfficeIDKey, officeID.String())
		c.Request = c.Request.WithContext(logger.WithOfficeID(c.Request.Context(), officeID.String()))
		c.Next()
	}
}
