package handler

import (
	"context"
	"net/http"
	"time"

	"freightdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)
}

// Health reports the reachability of each backing store
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			components[name] = "down: " + err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}

	if status != http.StatusOK {
		c.JSON(status, response.Response{
			Status:     "error",
			StatusCode: status,
			Data:       components,
			Error:      "dependency unavailable",
		})
		return
	}
	c.JSON(status, response.Success(status, components))
}
