package handlers

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/domain/stock"
	"stockledger/internal/infrastructure/http/v1/dto"
)

// StockHandler serves stock balance reads.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// GetBalance handles GET /stock/:warehouse/:article.
func (h *StockHandler) GetBalance(c *gin.Context) {
	balance, err := h.service.GetBalance(c.Request.Context(), c.Param("warehouse"), c.Param("article"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, balance)
}

// ListByWarehouse handles GET /stock/:warehouse.
func (h *StockHandler) ListByWarehouse(c *gin.Context) {
	balances, err := h.service.ListByWarehouse(c.Request.Context(), c.Param("warehouse"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: balances, Total: len(balances)})
}
