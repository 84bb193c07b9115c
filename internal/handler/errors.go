package handler

import (
	"errors"
	"net/http"

	"freightdesk/internal/service"
	"freightdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

// abortWithError maps service errors onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case service.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrEntityNotFound), errors.Is(err, service.ErrQuotationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrQuotationNotPending), errors.Is(err, service.ErrQuotationExpired):
		status = http.StatusConflict
	}
	c.JSON(status, response.Error(status, err.Error()))
}

func badPayload(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}
