// Package stabilize settles a freshly navigated page before extraction:
// consent overlays are dismissed, overlay-based content hiding is undone,
// and lazy-loaded results are coaxed in with incremental scrolling.
//
// Every sub-step is advisory. A fault in one never aborts the others and
// never fails the request.
package stabilize

import (
	"context"
	"log/slog"
	"time"

	"github.com/totalome/shelfscout/config"
	"github.com/totalome/shelfscout/session"
)

// consentSelectors is the probe order for consent buttons, most specific
// first. OneTrust covers the majority of US retail sites.
var consentSelectors = []string{
	"#onetrust-accept-btn-handler",
	"button#onetrust-accept-btn-handler",
	"#truste-consent-button",
	"button[id*='accept-btn']",
	"button[aria-label*='Accept']",
	"button[data-testid*='accept']",
}

// forceVisibleJS undoes overlay-based hiding some sites apply to the body
// until their anti-bot check passes.
const forceVisibleJS = `() => {
	const b = document.body;
	if (!b) return;
	b.style.visibility = 'visible';
	b.style.opacity = '1';
	b.style.overflow = 'auto';
}`

// scrollWheelDelta is the per-step wheel advance in pixels, roughly two
// viewport heights of card grid.
const scrollWheelDelta = 1600

// postClickWait lets the consent overlay animate out before touching the
// page again.
const postClickWait = 200 * time.Millisecond

// Stabilizer runs the best-effort stabilization sequence.
type Stabilizer struct {
	cfg config.StabilizeConfig
}

// New creates a Stabilizer, clamping config values into recognized ranges.
func New(cfg config.StabilizeConfig) *Stabilizer {
	if cfg.ScrollSteps < 1 {
		cfg.ScrollSteps = 10
	}
	if cfg.ScrollPause <= 0 {
		cfg.ScrollPause = 300 * time.Millisecond
	}
	return &Stabilizer{cfg: cfg}
}

// Stabilize runs consent dismissal, forced visibility, and incremental
// scroll, in that order. Failures are logged and swallowed.
func (s *Stabilizer) Stabilize(ctx context.Context, page session.Page) {
	s.dismissConsent(ctx, page)
	s.forceVisible(page)
	s.scroll(ctx, page)
}

func (s *Stabilizer) dismissConsent(ctx context.Context, page session.Page) {
	for _, sel := range consentSelectors {
		clicked, err := page.ClickVisible(sel)
		if err != nil {
			slog.Debug("consent probe failed", "selector", sel, "error", err)
			continue
		}
		if clicked {
			slog.Debug("consent overlay dismissed", "selector", sel)
			sleepCtx(ctx, postClickWait)
			return
		}
	}
}

func (s *Stabilizer) forceVisible(page session.Page) {
	if _, err := page.Eval(forceVisibleJS); err != nil {
		slog.Debug("forced visibility failed", "error", err)
	}
}

func (s *Stabilizer) scroll(ctx context.Context, page session.Page) {
	for i := 0; i < s.cfg.ScrollSteps; i++ {
		if ctx.Err() != nil {
			return
		}
		if err := page.Scroll(ctx, scrollWheelDelta); err != nil {
			slog.Debug("scroll step failed", "step", i, "error", err)
			return
		}
		sleepCtx(ctx, s.cfg.ScrollPause)
	}
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
