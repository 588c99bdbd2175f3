package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/propdesk/backend/internal/application/dashboard"
	"github.com/propdesk/backend/internal/interfaces/http/dto"
)

// DashboardHandler serves the office overview counters
type DashboardHandler struct {
	BaseHandler
	service *dashboard.Service
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats handles GET /dashboard
func (h *DashboardHandler) Stats(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), officeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness checks
type HealthHandler struct {
	BaseHandler
	db      Pinger
	version string
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version, timeout: 2 * time.Second}
}

// Health handles GET /health. It is mounted outside authentication.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		_ = c.Error(err)
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Database is unreachable")
		return
	}
	h.Success(c, gin.H{
		"status":   "healthy",
		"version":  h.version,
		"database": "up",
	})
}
