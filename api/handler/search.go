package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/totalome/shelfscout/models"
	"github.com/totalome/shelfscout/pipeline"
)

// Log caps match what the debug envelope and error payload surface.
const (
	maxDebugLogs = 15
	maxErrorLogs = 10
	sampleSize   = 3
)

// Searcher runs one search pipeline. Implemented by
// *pipeline.Orchestrator; narrowed here so handler tests can fake it.
type Searcher interface {
	Run(ctx context.Context, req models.SearchRequest) (*pipeline.Result, error)
}

// Search returns the handler for GET /search.
//
// Response shapes:
//   - plain request        → 200, ordered Product array
//   - shot=true            → 200, PNG body
//   - debug=true           → 200, diagnostic envelope
//   - missing q            → 400
//   - pipeline failure     → 500 with {error, url, logs}; the browser
//     session is already torn down by the time this is written
func Search(s Searcher, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "missing required query parameter: q",
			})
			return
		}

		req := models.SearchRequest{
			Query:          q,
			Retailer:       models.ParseRetailer(c.DefaultQuery("retailer", "homedepot")),
			Debug:          boolParam(c, "debug"),
			WantScreenshot: boolParam(c, "shot"),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		res, err := s.Run(ctx, req)
		if err != nil {
			body := models.ErrorResponse{Error: err.Error()}
			if res != nil {
				body.URL = res.URL
				body.Logs = head(res.Logs, maxErrorLogs)
			}
			c.JSON(http.StatusInternalServerError, body)
			return
		}

		switch {
		case req.Debug:
			c.JSON(http.StatusOK, debugEnvelope(req, res))
		case req.WantScreenshot:
			if len(res.ScreenshotPNG) == 0 {
				// Capture degraded; fall back to the product list
				// rather than serving an empty image.
				c.JSON(http.StatusOK, res.Products)
				return
			}
			c.Data(http.StatusOK, "image/png", res.ScreenshotPNG)
		default:
			c.JSON(http.StatusOK, res.Products)
		}
	}
}

func debugEnvelope(req models.SearchRequest, res *pipeline.Result) models.DebugEnvelope {
	env := models.DebugEnvelope{
		Request: models.RequestEcho{
			Query:    req.Query,
			Retailer: req.Retailer,
			URL:      res.URL,
		},
		Logs:   head(res.Logs, maxDebugLogs),
		Count:  len(res.Products),
		Sample: head(res.Products, sampleSize),
	}
	if d := res.Diagnostics; d != nil {
		env.Page = models.PageInfo{Title: d.Title, ReadyState: d.ReadyState}
		env.Screenshot = d.Screenshot
	}
	return env
}

// head returns at most n leading elements, never nil.
func head[T any](s []T, n int) []T {
	if s == nil {
		return []T{}
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}

func boolParam(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.DefaultQuery(name, "false"))
	return err == nil && v
}
