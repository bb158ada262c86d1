package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health GET /health and /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
