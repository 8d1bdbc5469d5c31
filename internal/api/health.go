package api

import (
	"net/http"
	"time"

	"kamgar-sahayak/backend/pkg/health"

	"github.com/gin-gonic/gin"
)

// HealthHandler exposes the health checker over HTTP
type HealthHandler struct {
	checker *health.Checker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health reports per-component status. Returns 503 only when a critical
// component is down.
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	overall := "ok"
	if !h.checker.IsSystemHealthy() {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":     overall,
		"components": h.checker.GetStatus(),
		"timestamp":  time.Now().UTC(),
	})
}

// RegisterRoutes registers the health endpoint on the given engine
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
}
