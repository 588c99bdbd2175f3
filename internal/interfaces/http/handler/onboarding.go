package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appleasing "github.com/propdesk/backend/internal/application/leasing"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/interfaces/http/middleware"
)

// OnboardingHandler registers new tenants on vacant units
type OnboardingHandler struct {
	BaseHandler
	service *appleasing.OnboardingService
}

// NewOnboardingHandler creates a new OnboardingHandler
func NewOnboardingHandler(service *appleasing.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

// Onboard creates the tenant, the lease contract and occupies the unit.
// The three writes succeed together or the request fails.
//
//	POST /api/v1/onboarding
func (h *OnboardingHandler) Onboard(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}

	var req appleasing.OnboardTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.service.Onboard(c.Request.Context(), officeID, middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	logger.GetGinLogger(c).Info("Tenant onboarded",
		zap.String("tenant_id", result.Tenant.ID.String()),
		zap.String("contract_id", result.Contract.ID.String()),
		zap.String("unit_id", result.Unit.ID.String()),
	)
	h.Created(c, result)
}
