package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pranay9392/meity-audit-v2/internal/version"
)

// Health reports liveness and build metadata.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    version.Name,
		"version": version.Full(),
	})
}
