// Package pipeline composes session acquisition, navigation,
// stabilization, extraction, and diagnostics into one request lifecycle.
//
// The orchestrator owns the central resource-safety invariant: every
// acquired browser session is released exactly once before Run returns,
// on success, error, and panic paths alike.
package pipeline

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/totalome/shelfscout/config"
	"github.com/totalome/shelfscout/diagnostics"
	"github.com/totalome/shelfscout/extract"
	"github.com/totalome/shelfscout/fingerprint"
	"github.com/totalome/shelfscout/models"
	"github.com/totalome/shelfscout/nav"
	"github.com/totalome/shelfscout/searchurl"
	"github.com/totalome/shelfscout/session"
	"github.com/totalome/shelfscout/stabilize"
)

// browserSession is the slice of session.Session the orchestrator needs;
// narrowed here so tests can inject fakes.
type browserSession interface {
	Page() session.Page
	ConsoleLogs() []string
	Release()
}

// Result is the outcome of one request. On failure Run still returns a
// partial Result carrying the search URL and any console logs gathered
// before the error, so the handler can surface them.
type Result struct {
	// Products is the ordered extraction result, never nil on success.
	Products []models.Product

	// URL is the retailer search URL that was navigated.
	URL string

	// Status is the last HTTP status observed during navigation,
	// 0 when unknown.
	Status int

	// Logs is the captured console output.
	Logs []string

	// Diagnostics is populated only for debug requests.
	Diagnostics *models.PageDiagnostics

	// ScreenshotPNG holds the raw image bytes when a screenshot was
	// requested and captured.
	ScreenshotPNG []byte
}

// Orchestrator runs the scraping pipeline for one SearchRequest at a time.
// It is safe for concurrent use; every Run gets its own session.
type Orchestrator struct {
	profiles *fingerprint.Selector
	nav      *nav.Controller
	stab     *stabilize.Stabilizer

	// acquire and extractorFor are indirections over the real session
	// manager and extractor dispatch, replaceable in tests.
	acquire      func(ctx context.Context, p fingerprint.Profile) (browserSession, error)
	extractorFor func(r models.Retailer) extract.Extractor

	// settle produces the randomized pause between stabilization and
	// extraction that desynchronizes request timing.
	settle func() time.Duration
}

// New wires an Orchestrator from the real components.
func New(mgr *session.Manager, profiles *fingerprint.Selector, navCfg config.NavConfig, stabCfg config.StabilizeConfig) *Orchestrator {
	var mu sync.Mutex
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return &Orchestrator{
		profiles: profiles,
		nav:      nav.NewController(navCfg, nil),
		stab:     stabilize.New(stabCfg),
		acquire: func(ctx context.Context, p fingerprint.Profile) (browserSession, error) {
			return mgr.Acquire(ctx, p)
		},
		extractorFor: extract.ForRetailer,
		settle: func() time.Duration {
			mu.Lock()
			defer mu.Unlock()
			return 600*time.Millisecond + time.Duration(rng.Int63n(int64(600*time.Millisecond)))
		},
	}
}

// Run executes one request lifecycle:
//
//	acquire → navigate → stabilize → extract → (capture) → release
//
// Any failure skips straight to release; the deferred Release makes the
// teardown guarantee hold even if a stage panics.
func (o *Orchestrator) Run(ctx context.Context, req models.SearchRequest) (*Result, error) {
	res := &Result{URL: searchurl.Build(req.Query, req.Retailer)}
	start := time.Now()

	// ── Acquiring ───────────────────────────────────────────────────
	profile := o.profiles.Select()
	sess, err := o.acquire(ctx, profile)
	if err != nil {
		return res, err
	}
	defer sess.Release()
	defer func() { res.Logs = sess.ConsoleLogs() }()

	page := sess.Page()

	// ── Navigating ──────────────────────────────────────────────────
	res.Status, err = o.nav.Navigate(ctx, page, res.URL)
	if err != nil {
		return res, err
	}

	// ── Stabilizing ─────────────────────────────────────────────────
	o.stab.Stabilize(ctx, page)
	sleepCtx(ctx, o.settle())

	// ── Extracting ──────────────────────────────────────────────────
	html, err := page.HTML()
	if err != nil {
		return res, models.NewPipelineError(models.ErrCodeInternal,
			"failed to read rendered page", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return res, models.NewPipelineError(models.ErrCodeInternal,
			"failed to parse rendered page", err)
	}
	res.Products = o.extractorFor(req.Retailer).Extract(doc)

	// ── Capturing (optional) ────────────────────────────────────────
	if req.Debug || req.WantScreenshot {
		d, png := diagnostics.Capture(page, sess.ConsoleLogs(), req.WantScreenshot || req.Debug)
		res.Diagnostics = &d
		res.ScreenshotPNG = png
	}

	slog.Info("search pipeline done",
		"query", req.Query,
		"retailer", req.Retailer,
		"status", res.Status,
		"products", len(res.Products),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
