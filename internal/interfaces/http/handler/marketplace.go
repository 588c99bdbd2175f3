package handler

import (
	"github.com/gin-gonic/gin"

	appproperty "github.com/propdesk/backend/internal/application/property"
	"github.com/propdesk/backend/internal/interfaces/http/middleware"
)

// MarketplaceHandler serves the listed vacant units of the office
type MarketplaceHandler struct {
	BaseHandler
	service *appproperty.MarketplaceService
}

// NewMarketplaceHandler creates a new MarketplaceHandler
func NewMarketplaceHandler(service *appproperty.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{service: service}
}

// List handles GET /marketplace/listings?city=&unit_type=&min_price=&max_price=&min_size=&max_size=&bedrooms=&bathrooms=&amenities=
func (h *MarketplaceHandler) List(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	page, ok := h.listFilter(c)
	if !ok {
		return
	}
	var query appproperty.ListingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	result, err := h.service.List(c.Request.Context(), officeID, query, page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, result)
}

// GetByID handles GET /marketplace/listings/:id
func (h *MarketplaceHandler) GetByID(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	listing, err := h.service.GetByID(c.Request.Context(), officeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, listing)
}

// Cities handles GET /marketplace/cities
func (h *MarketplaceHandler) Cities(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	cities, err := h.service.Cities(c.Request.Context(), officeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cities)
}

// PriceRange handles GET /marketplace/price-ranges
func (h *MarketplaceHandler) PriceRange(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	prices, err := h.service.PriceRange(c.Request.Context(), officeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prices)
}
