package handlers

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/domain/catalogs/warehouse"
	"stockledger/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler handles warehouse catalog requests.
type WarehouseHandler struct {
	*BaseHandler
	service *warehouse.Service
}

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(service *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Create handles POST /warehouses.
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req dto.CreateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	w := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), w); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, w.Code)
}

// Update handles PUT /warehouses/:code.
func (h *WarehouseHandler) Update(c *gin.Context) {
	var req dto.UpdateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	w, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(w)

	if err := h.service.Update(c.Request.Context(), w); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, w)
}

// Get handles GET /warehouses/:code.
func (h *WarehouseHandler) Get(c *gin.Context) {
	w, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, w)
}

// List handles GET /warehouses.
func (h *WarehouseHandler) List(c *gin.Context) {
	warehouses, err := h.service.List(c.Request.Context(), h.BoolQuery(c, "activeOnly"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: warehouses, Total: len(warehouses)})
}
