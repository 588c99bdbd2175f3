package handler

import (
	"github.com/gin-gonic/gin"

	appproperty "github.com/propdesk/backend/internal/application/property"
	"github.com/propdesk/backend/internal/interfaces/http/middleware"
)

// OwnerHandler handles owner endpoints
type OwnerHandler struct {
	BaseHandler
	service *appproperty.OwnerService
}

// NewOwnerHandler creates a new OwnerHandler
func NewOwnerHandler(service *appproperty.OwnerService) *OwnerHandler {
	return &OwnerHandler{service: service}
}

// Create handles POST /owners
func (h *OwnerHandler) Create(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	var req appproperty.OwnerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	owner, err := h.service.Create(c.Request.Context(), officeID, middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, owner)
}

// GetByID handles GET /owners/:id
func (h *OwnerHandler) GetByID(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	owner, err := h.service.GetByID(c.Request.Context(), officeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, owner)
}

// List handles GET /owners
func (h *OwnerHandler) List(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.service.List(c.Request.Context(), officeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Update handles PUT /owners/:id
func (h *OwnerHandler) Update(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appproperty.OwnerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	owner, err := h.service.Update(c.Request.Context(), officeID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, owner)
}

// Delete handles DELETE /owners/:id. Owners with buildings are kept.
func (h *OwnerHandler) Delete(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), officeID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BuildingHandler handles building endpoints
type BuildingHandler struct {
	BaseHandler
	service *appproperty.BuildingService
}

// NewBuildingHandler creates a new BuildingHandler
func NewBuildingHandler(service *appproperty.BuildingService) *BuildingHandler {
	return &BuildingHandler{service: service}
}

// Create handles POST /buildings
func (h *BuildingHandler) Create(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	var req appproperty.BuildingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	building, err := h.service.Create(c.Request.Context(), officeID, middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, building)
}

// GetByID handles GET /buildings/:id
func (h *BuildingHandler) GetByID(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	building, err := h.service.GetByID(c.Request.Context(), officeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, building)
}

// List handles GET /buildings?owner_id=&building_type=&city=
func (h *BuildingHandler) List(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	if !h.uuidFilter(c, &filter, "owner_id") ||
		!h.enumFilter(c, &filter, "building_type", "residential", "commercial", "mixed") {
		return
	}
	if city := c.Query("city"); city != "" {
		filter = filter.WithFilter("city", city)
	}
	page, err := h.service.List(c.Request.Context(), officeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Update handles PUT /buildings/:id
func (h *BuildingHandler) Update(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appproperty.BuildingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	building, err := h.service.Update(c.Request.Context(), officeID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, building)
}

// Delete handles DELETE /buildings/:id. Buildings with units are kept.
func (h *BuildingHandler) Delete(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), officeID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UnitHandler handles unit endpoints
type UnitHandler struct {
	BaseHandler
	service *appproperty.UnitService
}

// NewUnitHandler creates a new UnitHandler
func NewUnitHandler(service *appproperty.UnitService) *UnitHandler {
	return &UnitHandler{service: service}
}

// Create handles POST /units
func (h *UnitHandler) Create(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	var req appproperty.UnitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	unit, err := h.service.Create(c.Request.Context(), officeID, middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, unit)
}

// GetByID handles GET /units/:id
func (h *UnitHandler) GetByID(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	unit, err := h.service.GetByID(c.Request.Context(), officeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// List handles GET /units?building_id=&status=&unit_type=
func (h *UnitHandler) List(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	if !h.uuidFilter(c, &filter, "building_id") ||
		!h.enumFilter(c, &filter, "status", "vacant", "occupied", "maintenance") ||
		!h.enumFilter(c, &filter, "unit_type", "apartment", "office", "shop", "warehouse") {
		return
	}
	page, err := h.service.List(c.Request.Context(), officeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Update handles PUT /units/:id
func (h *UnitHandler) Update(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appproperty.UnitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	unit, err := h.service.Update(c.Request.Context(), officeID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// SetStatus handles PATCH /units/:id/status. Units become occupied only
// through onboarding.
func (h *UnitHandler) SetStatus(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appproperty.UpdateUnitStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	unit, err := h.service.SetStatus(c.Request.Context(), officeID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// UpdateListing handles PATCH /units/:id/listing
func (h *UnitHandler) UpdateListing(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appproperty.UpdateListingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	unit, err := h.service.UpdateListing(c.Request.Context(), officeID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}
