package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jktools/mediatools/internal/models"
)

const (
	serviceName    = "media-tools-api"
	serviceVersion = "1.0.0"
)

// HealthCheck reports per-backend status plus an overall verdict.
func (h *MediaHandler) HealthCheck(c *gin.Context) {
	services := make(map[string]string)

	if h.storage != nil {
		for name, status := range h.storage.HealthCheck(c.Request.Context()) {
			services[name] = status
		}
	} else {
		services["storage"] = "not configured"
	}

	if h.queue != nil {
		services["rabbitmq"] = h.queue.HealthCheck()
	} else {
		services["rabbitmq"] = "not configured"
	}

	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}

func (h *MediaHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}

// Version returns the service identity.
func (h *MediaHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, models.VersionInfo{
		Name:    serviceName,
		Version: serviceVersion,
	})
}
