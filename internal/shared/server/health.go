package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/honterplatform/icetex/internal/shared/server/respond"
)

// Availability is anything that can report readiness.
type Availability interface {
	IsAvailable() bool
}

// HealthHandler reports configuration and dependency readiness. It never
// exposes credential material.
type HealthHandler struct {
	Model            string
	OpenAIConfigured bool
	Knowledge        Availability
	Registry         Availability
}

// RegisterRoutes attaches the health endpoint to the router group.
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)
}

func (h *HealthHandler) health(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{
		"status":                   "healthy",
		"openai_configured":        h.OpenAIConfigured,
		"model":                    h.Model,
		"knowledge_base_available": available(h.Knowledge),
		"registry_available":       available(h.Registry),
	})
}

func available(a Availability) bool {
	return a != nil && a.IsAvailable()
}
