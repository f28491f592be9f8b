// Package api wires the HTTP surface: a thin gin router in front of the
// scraping pipeline.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/totalome/shelfscout/api/handler"
	"github.com/totalome/shelfscout/config"
)

// NewRouter creates a configured gin engine with all routes.
//
// Only Recovery and Logger run globally; the service is intentionally
// unauthenticated and un-rate-limited, those concerns belong to the
// deployment in front of it.
func NewRouter(s handler.Searcher, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/", handler.Root())
	r.GET("/health", handler.Health())
	r.GET("/search", handler.Search(s, cfg.Search.RequestTimeout))

	return r
}
