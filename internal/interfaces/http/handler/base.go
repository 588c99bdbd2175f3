// Package handler contains the gin handlers of the PropDesk API.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/interfaces/http/dto"
	"github.com/propdesk/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// officeID returns the office of the request. Routes are mounted behind the
// auth middleware, so a missing office is answered with 401.
func (h *BaseHandler) officeID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetOfficeID(c)
	if !ok {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Request is not bound to an office")
		return uuid.Nil, false
	}
	return id, true
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// respondPage sends one page of a list with its pagination metadata
func respondPage[T any](c *gin.Context, page *shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// Error sends an error envelope with an explicit status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message, getRequestID(c)))
}

// BadRequest sends a 400 BAD_REQUEST response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// HandleError converts an error into the API envelope. Domain errors keep
// their code and message; anything else becomes a generic 500 so internal
// details never reach the client.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		status := dto.GetHTTPStatus(code)
		if status >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Error("Request failed", zap.String("code", code), zap.Error(err))
		}

		if code == dto.ErrCodeValidation && len(domainErr.Fields) > 0 {
			details := make([]dto.ValidationDetail, 0, len(domainErr.Fields))
			for _, f := range domainErr.Fields {
				details = append(details, dto.ValidationDetail{Field: f, Message: domainErr.Message})
			}
			c.AbortWithStatusJSON(status, dto.NewValidationErrorResponse(domainErr.Message, requestID, details))
			return
		}
		c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, domainErr.Message, requestID))
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		logger.GetGinLogger(c).Warn("Request timed out", zap.Error(err))
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "The request timed out, please retry")
		return
	}

	logger.GetGinLogger(c).Error("Unexpected error", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// bindJSON binds and validates the body, answering 400 on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// pathID parses a UUID path parameter, answering 400 on failure
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// listFilter reads paging, ordering and search from the query string
func (h *BaseHandler) listFilter(c *gin.Context) (shared.Filter, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return shared.Filter{}, false
	}
	return req.Filter(), true
}

// uuidFilter copies a UUID query parameter into the filter
func (h *BaseHandler) uuidFilter(c *gin.Context, filter *shared.Filter, key string) bool {
	raw := c.Query(key)
	if raw == "" {
		return true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, "Invalid "+key+": must be a UUID")
		return false
	}
	*filter = filter.WithFilter(key, id)
	return true
}

// enumFilter copies a query parameter into the filter when it is one of allowed
func (h *BaseHandler) enumFilter(c *gin.Context, filter *shared.Filter, key string, allowed ...string) bool {
	raw := c.Query(key)
	if raw == "" {
		return true
	}
	for _, a := range allowed {
		if raw == a {
			*filter = filter.WithFilter(key, raw)
			return true
		}
	}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid "+key+" filter")
	return false
}
