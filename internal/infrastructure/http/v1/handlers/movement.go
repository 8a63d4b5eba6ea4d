package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockledger/internal/domain/movement"
	"stockledger/internal/infrastructure/http/v1/dto"
)

// MovementHandler handles movement registration.
type MovementHandler struct {
	*BaseHandler
	service *movement.Service
}

// NewMovementHandler creates a new movement handler.
func NewMovementHandler(service *movement.Service) *MovementHandler {
	return &MovementHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Register handles POST /movements.
func (h *MovementHandler) Register(c *gin.Context) {
	var req dto.RegisterMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Register(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromRegisterResult(result))
}
