package server

import (
	"net/http"

	"fitstudio/internal/api"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @Summary      Welcome message
// @Tags         system
// @Produce      json
// @Success      200 {object} api.MessageResponse
// @Router       / [get]
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Welcome to the Fit Studio Booking API."})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
