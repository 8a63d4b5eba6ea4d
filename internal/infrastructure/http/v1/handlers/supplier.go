package handlers

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/domain/catalogs/supplier"
	"stockledger/internal/infrastructure/http/v1/dto"
)

// SupplierHandler handles supplier catalog requests.
type SupplierHandler struct {
	*BaseHandler
	service *supplier.Service
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(service *supplier.Service) *SupplierHandler {
	return &SupplierHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Create handles POST /suppliers.
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), s); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, s.Code)
}

// Update handles PUT /suppliers/:code.
func (h *SupplierHandler) Update(c *gin.Context) {
	var req dto.UpdateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(s)

	if err := h.service.Update(c.Request.Context(), s); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

// Get handles GET /suppliers/:code.
func (h *SupplierHandler) Get(c *gin.Context) {
	s, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

// List handles GET /suppliers.
func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.service.List(c.Request.Context(), h.BoolQuery(c, "activeOnly"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: suppliers, Total: len(suppliers)})
}
