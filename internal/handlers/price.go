// internal/handlers/price.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillset/skillset-backend/internal/services"
)

type PriceHandler struct {
	priceService *services.PriceService
}

func NewPriceHandler(priceService *services.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// GET /api/skill-price
//
// Lookup failures never fail the caller; the price is simply null.
func (h *PriceHandler) SkillPrice(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"price": h.priceService.SkillPrice()})
}
