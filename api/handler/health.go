package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/totalome/shelfscout/models"
)

// Health returns the handler for GET /health.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{OK: true})
	}
}

// Root returns the service banner for GET /.
func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.BannerResponse{
			Message: "shelfscout stealth product scraper ready",
			Health:  "/health",
		})
	}
}
