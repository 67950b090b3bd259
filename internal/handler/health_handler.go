package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/cakeorders/pkg/database"
	"github.com/suteetoe/cakeorders/pkg/logger"
	"github.com/suteetoe/cakeorders/prometheus"
	"go.uber.org/zap"
)

// HealthCheck handles the health check endpoint
func (h *Handler) HealthCheck(c echo.Context) error {
	if err := database.Ping(c.Request().Context(), h.db); err != nil {
		logger.FromEcho(c).Error("Database ping failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status":  "unhealthy",
			"service": h.serviceName,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": h.serviceName,
	})
}

func MetricsHandler(c echo.Context) error {
	prometheus.GetPrometheusHandler().ServeHTTP(c.Response(), c.Request())
	return nil
}
