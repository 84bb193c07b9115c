package handler

import (
	"net/http"

	"freightdesk/internal/service"
	"freightdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct {
	pricingService service.PricingService
}

func NewPricingHandler(pricingService service.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// RegisterRoutes mounts the pricing endpoint behind the given middleware (rate limiting).
func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup, mw ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.DetectPricing)
	router.POST("/api/detect-pricing", handlers...)
}

// DetectPricing classifies a shipment into Path A, B or C and prices it
// @Summary      Detect pricing pathway
// @Description  Resolves the client, picks contract / quotation / general pricing and returns the price with its audit trail
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        payload  body      service.DetectPricingRequest  true  "Shipment"
// @Success      200      {object}  pricing.Result
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/detect-pricing [post]
func (h *PricingHandler) DetectPricing(c *gin.Context) {
	var req service.DetectPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	res, err := h.pricingService.DetectPricing(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, res)
}
