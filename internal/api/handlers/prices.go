package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PhilipFalla/pokecollect-gui/internal/models"
	"github.com/PhilipFalla/pokecollect-gui/internal/services"
)

type PriceHandler struct {
	priceService *services.PriceService
}

func NewPriceHandler(priceService *services.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

// UpsertPrice creates or replaces a catalog price
func (h *PriceHandler) UpsertPrice(c *gin.Context) {
	var req models.UpsertPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "card_name is required")
		return
	}

	price, err := h.priceService.Upsert(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPrice) || errors.Is(err, services.ErrUnknownCondition) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to update price")
		return
	}

	c.JSON(http.StatusOK, price)
}
