package handler

import (
	"net/http"
	"strconv"

	"freightdesk/internal/service"
	"freightdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type EntityHandler struct {
	entityService service.EntityService
}

func NewEntityHandler(entityService service.EntityService) *EntityHandler {
	return &EntityHandler{entityService: entityService}
}

func (h *EntityHandler) RegisterRoutes(router *gin.RouterGroup) {
	entities := router.Group("/api/entities")
	{
		entities.POST("", h.CreateEntity)
		entities.GET("/search", h.SearchEntities)
		entities.GET("/:id", h.GetEntity)
	}
}

// CreateEntity registers a counterparty with optional commercial terms
// @Summary      Create entity
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateEntityRequest  true  "Entity payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/entities [post]
func (h *EntityHandler) CreateEntity(c *gin.Context) {
	var req service.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	entity, err := h.entityService.CreateEntity(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entity))
}

// SearchEntities finds counterparties by CUIT or name
// @Summary      Search entities
// @Tags         entities
// @Produce      json
// @Param        cuit  query     string  false  "CUIT, with or without dashes"
// @Param        name  query     string  false  "Legal name contains"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /api/entities/search [get]
func (h *EntityHandler) SearchEntities(c *gin.Context) {
	entities, err := h.entityService.SearchEntities(c.Request.Context(), c.Query("cuit"), c.Query("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entities))
}

// GetEntity returns a counterparty with its active commercial terms
// @Summary      Get entity
// @Tags         entities
// @Produce      json
// @Param        id   path      int  true  "Entity ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/entities/{id} [get]
func (h *EntityHandler) GetEntity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid entity id"))
		return
	}

	entity, err := h.entityService.GetEntity(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entity))
}
