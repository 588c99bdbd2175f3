package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the optional client supplied request key
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 200

// Idempotency claims the Idempotency-Key of a request before the handler
// runs. A key that is already claimed in the same office and route gets 409
// DUPLICATE_REQUEST. Claims of requests that did not succeed are released so
// the client can retry with the same key. Requests without the header pass.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		requestID := c.GetString(RequestIDKey)
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", requestID))
			return
		}

		log := logger.GetGinLogger(c)
		claimKey := c.GetString(OfficeIDKey) + ":" + c.Request.Method + ":" + c.FullPath() + ":" + key

		claimed, err := store.MarkProcessed(c.Request.Context(), claimKey, ttl)
		if err != nil {
			log.Warn("Idempotency store unavailable, processing request without a claim", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			log.Info("Duplicate request rejected", zap.String("idempotency_key", key))
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				dto.ErrCodeDuplicateRequest,
				"A request with this Idempotency-Key was already processed",
				requestID,
			))
			return
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			// the request context is cancelled once the client has gone
			if err := store.Release(context.WithoutCancel(c.Request.Context()), claimKey); err != nil {
				log.Warn("Failed to release idempotency claim", zap.String("idempotency_key", key), zap.Error(err))
			}
		}
	}
}
