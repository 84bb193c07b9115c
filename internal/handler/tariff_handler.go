package handler

import (
	"net/http"

	"freightdesk/internal/service"
	"freightdesk/pkg/pagination"
	"freightdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	// maxImportSize caps uploaded tariff workbooks.
	maxImportSize = 10 << 20
	// tariffPageSize fits a whole route table on one page.
	tariffPageSize = 50
)

type TariffHandler struct {
	tariffService service.TariffService
}

func NewTariffHandler(tariffService service.TariffService) *TariffHandler {
	return &TariffHandler{tariffService: tariffService}
}

func (h *TariffHandler) RegisterRoutes(router *gin.RouterGroup) {
	tariffs := router.Group("/api/tariffs")
	{
		tariffs.GET("", h.ListTariffs)
		tariffs.POST("", h.CreateTariff)
		tariffs.POST("/import", h.ImportTariffs)
	}
}

// ListTariffs returns paginated tariff brackets
// @Summary      List tariffs
// @Tags         tariffs
// @Produce      json
// @Param        page         query     int     false  "Page number (default: 1)"
// @Param        limit        query     int     false  "Items per page (default: 50)"
// @Param        origin       query     string  false  "Origin contains"
// @Param        destination  query     string  false  "Destination contains"
// @Success      200          {object}  response.Response
// @Router       /api/tariffs [get]
func (h *TariffHandler) ListTariffs(c *gin.Context) {
	p := pagination.ParseWithDefault(c, tariffPageSize)

	tariffs, total, err := h.tariffService.GetTariffs(c.Request.Context(), c.Query("origin"), c.Query("destination"), p.Page, p.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, tariffs, p.Page, p.Limit, total))
}

// CreateTariff adds a single bracket
// @Summary      Create tariff
// @Tags         tariffs
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateTariffRequest  true  "Tariff payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/tariffs [post]
func (h *TariffHandler) CreateTariff(c *gin.Context) {
	var req service.CreateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	tariff, err := h.tariffService.CreateTariff(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tariff))
}

// ImportTariffs bulk loads brackets from an .xlsx upload
// @Summary      Import tariff sheet
// @Tags         tariffs
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData  file    true   "Tariff workbook (.xlsx)"
// @Param        sheet  formData  string  false  "Sheet name (default: first sheet)"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /api/tariffs/import [post]
func (h *TariffHandler) ImportTariffs(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "failed to read upload: "+err.Error()))
		return
	}
	defer file.Close()

	res, err := h.tariffService.ImportTariffs(c.Request.Context(), file, c.PostForm("sheet"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}
