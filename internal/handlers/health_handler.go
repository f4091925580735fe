package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"mannequins/backend/internal/config"
)

const healthMediaType = "application/health+json"

// HealthCheck is the liveness probe. The payload is static per build,
// so clients may cache it for an hour.
func HealthCheck(c *gin.Context) {
	body, _ := json.Marshal(gin.H{
		"status":    "pass",
		"version":   config.Version,
		"releaseId": config.ReleaseID,
	})

	c.Header("Cache-Control", "max-age=3600")
	c.Data(http.StatusOK, healthMediaType, body)
}
