// Package nav drives a page to a target URL with bounded retry against
// soft-block responses.
package nav

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/totalome/shelfscout/config"
	"github.com/totalome/shelfscout/models"
	"github.com/totalome/shelfscout/session"
)

// Soft-block statuses indicate anti-automation throttling rather than a
// genuinely missing page. Anything else is returned as-is, no retry.
func isSoftBlock(status int) bool {
	switch status {
	case 429, 403, 503:
		return true
	}
	return false
}

// Controller performs navigation with linear backoff plus jitter on
// soft-block statuses. The jitter desynchronizes concurrent retries; it is
// injectable so tests can pin delays to zero.
type Controller struct {
	cfg    config.NavConfig
	mu     sync.Mutex
	rng    *rand.Rand
	jitter func() time.Duration
}

// NewController creates a Controller. A nil rng gets a time-seeded source.
func NewController(cfg config.NavConfig, rng *rand.Rand) *Controller {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	c := &Controller{cfg: cfg, rng: rng}
	c.jitter = c.randomJitter
	return c
}

// randomJitter returns 500-1500ms.
func (c *Controller) randomJitter() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return 500*time.Millisecond + time.Duration(c.rng.Int63n(int64(time.Second)))
}

// Navigate loads url, retrying up to cfg.MaxRetries additional times while
// the response is a soft-block status. It returns the last observed status
// (0 when unknown). Hard navigation failures and timeouts are returned as
// typed errors; an exhausted soft-block is NOT an error — the caller gets
// the blocking status and decides what to do with the (likely empty) page.
func (c *Controller) Navigate(ctx context.Context, page session.Page, url string) (int, error) {
	var status int
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		var err error
		status, err = page.Navigate(ctx, url)
		if err != nil {
			return status, classify(err)
		}
		if !isSoftBlock(status) {
			return status, nil
		}
		if attempt == c.cfg.MaxRetries {
			break
		}

		delay := c.cfg.BaseDelay*time.Duration(attempt+1) + c.jitter()
		slog.Warn("navigation soft-blocked, backing off",
			"url", url,
			"status", status,
			"attempt", attempt,
			"delay", delay,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return status, classify(ctx.Err())
		}
	}

	slog.Warn("navigation still soft-blocked after retries exhausted",
		"url", url, "status", status, "retries", c.cfg.MaxRetries)
	return status, nil
}

// classify wraps raw navigation errors into typed pipeline errors.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewPipelineError(models.ErrCodeNavigationTimeout,
			"navigation timed out", err)
	case errors.Is(err, context.Canceled):
		return models.NewPipelineError(models.ErrCodeNavigationTimeout,
			"request canceled during navigation", err)
	default:
		return models.NewPipelineError(models.ErrCodeNavigation,
			"navigation to target URL failed", err)
	}
}
