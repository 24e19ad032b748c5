package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports liveness
func HealthCheck(e echo.Context) error {
	return e.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "nano-social",
	})
}
