package handler

import (
	"net/http"
	"strconv"

	"freightdesk/internal/service"
	"freightdesk/pkg/pagination"
	"freightdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type QuotationHandler struct {
	quotationService service.QuotationService
}

func NewQuotationHandler(quotationService service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

func (h *QuotationHandler) RegisterRoutes(router *gin.RouterGroup) {
	quotations := router.Group("/api/quotations")
	{
		quotations.GET("", h.ListQuotations)
		quotations.POST("", h.CreateQuotation)
		quotations.PUT("/:id/confirm", h.ConfirmQuotation)
	}
}

// ListQuotations returns paginated quotations, newest first
// @Summary      List quotations
// @Tags         quotations
// @Produce      json
// @Param        page    query     int     false  "Page number (default: 1)"
// @Param        limit   query     int     false  "Items per page (default: 20)"
// @Param        status  query     string  false  "Filter by status: pending, confirmed, expired"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Router       /api/quotations [get]
func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	p := pagination.Parse(c)

	quotations, total, err := h.quotationService.GetQuotations(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, quotations, p.Page, p.Limit, total))
}

// CreateQuotation stores a quoted price so a later shipment can honor it
// @Summary      Create quotation
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateQuotationRequest  true  "Quotation payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/quotations [post]
func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	var req service.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	quotation, err := h.quotationService.CreateQuotation(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, quotation))
}

// ConfirmQuotation marks a pending quotation as used by an accepted shipment
// @Summary      Confirm quotation
// @Tags         quotations
// @Produce      json
// @Param        id   path      int  true  "Quotation ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/quotations/{id}/confirm [put]
func (h *QuotationHandler) ConfirmQuotation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid quotation id"))
		return
	}

	quotation, err := h.quotationService.ConfirmQuotation(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, quotation))
}
