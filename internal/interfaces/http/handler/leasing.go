package handler

import (
	"github.com/gin-gonic/gin"

	appleasing "github.com/propdesk/backend/internal/application/leasing"
	"github.com/propdesk/backend/internal/interfaces/http/middleware"
)

// TenantHandler handles tenant endpoints. Tenants are created by onboarding.
type TenantHandler struct {
	BaseHandler
	service *appleasing.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(service *appleasing.TenantService) *TenantHandler {
	return &TenantHandler{service: service}
}

// GetByID handles GET /tenants/:id
func (h *TenantHandler) GetByID(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	tenant, err := h.service.GetByID(c.Request.Context(), officeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// List handles GET /tenants?status=
func (h *TenantHandler) List(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	if !h.enumFilter(c, &filter, "status", "active", "inactive", "blacklisted") {
		return
	}
	page, err := h.service.List(c.Request.Context(), officeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// UpdateContact handles PUT /tenants/:id
func (h *TenantHandler) UpdateContact(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appleasing.UpdateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenant, err := h.service.UpdateContact(c.Request.Context(), officeID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// ChangeStatus handles PATCH /tenants/:id/status
func (h *TenantHandler) ChangeStatus(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appleasing.ChangeTenantStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenant, err := h.service.ChangeStatus(c.Request.Context(), officeID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// ContractHandler handles contract endpoints. Contracts are created by onboarding.
type ContractHandler struct {
	BaseHandler
	service *appleasing.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(service *appleasing.ContractService) *ContractHandler {
	return &ContractHandler{service: service}
}

// GetByID handles GET /contracts/:id
func (h *ContractHandler) GetByID(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	contract, err := h.service.GetByID(c.Request.Context(), officeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// List handles GET /contracts?status=&unit_id=&tenant_id=
func (h *ContractHandler) List(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	if !h.enumFilter(c, &filter, "status", "draft", "active", "expired", "terminated") ||
		!h.uuidFilter(c, &filter, "unit_id") ||
		!h.uuidFilter(c, &filter, "tenant_id") {
		return
	}
	page, err := h.service.List(c.Request.Context(), officeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Update handles PUT /contracts/:id. Activating a contract on a unit that
// already has an active one answers 409 UNIT_OCCUPIED.
func (h *ContractHandler) Update(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appleasing.UpdateContractRequest
	if !h.bindJSON(c, &req) {
		return
	}
	contract, err := h.service.Update(c.Request.Context(), officeID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// Terminate handles POST /contracts/:id/terminate. The unit becomes vacant
// in the same transaction.
func (h *ContractHandler) Terminate(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appleasing.TerminateContractRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	contract, err := h.service.Terminate(c.Request.Context(), officeID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// PayableHandler handles receivable and payable endpoints
type PayableHandler struct {
	BaseHandler
	service *appleasing.PayableService
}

// NewPayableHandler creates a new PayableHandler
func NewPayableHandler(service *appleasing.PayableService) *PayableHandler {
	return &PayableHandler{service: service}
}

// Create handles POST /payables
func (h *PayableHandler) Create(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	var req appleasing.CreatePayableRequest
	if !h.bindJSON(c, &req) {
		return
	}
	payable, err := h.service.Create(c.Request.Context(), officeID, middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payable)
}

// GetByID handles GET /payables/:id
func (h *PayableHandler) GetByID(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	payable, err := h.service.GetByID(c.Request.Context(), officeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}

// List handles GET /payables?status=&type=&category=&contract_id=
func (h *PayableHandler) List(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	if !h.enumFilter(c, &filter, "status", "pending", "paid", "overdue", "cancelled") ||
		!h.enumFilter(c, &filter, "type", "incoming", "outgoing") ||
		!h.enumFilter(c, &filter, "category", "rent", "insurance_fee", "deposit_fee", "maintenance_fee", "management_fee", "other") ||
		!h.uuidFilter(c, &filter, "contract_id") {
		return
	}
	page, err := h.service.List(c.Request.Context(), officeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Update handles PUT /payables/:id
func (h *PayableHandler) Update(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appleasing.UpdatePayableRequest
	if !h.bindJSON(c, &req) {
		return
	}
	payable, err := h.service.Update(c.Request.Context(), officeID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}

// MarkPaid handles POST /payables/:id/pay
func (h *PayableHandler) MarkPaid(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appleasing.PayPayableRequest
	if !h.bindJSON(c, &req) {
		return
	}
	payable, err := h.service.MarkPaid(c.Request.Context(), officeID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}

// Cancel handles POST /payables/:id/cancel
func (h *PayableHandler) Cancel(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appleasing.CancelPayableRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	payable, err := h.service.Cancel(c.Request.Context(), officeID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}
