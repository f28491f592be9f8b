package session

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// Page is the narrow capability surface of a live rendered page that the
// pipeline drives: navigate, query/eval, click, scroll, screenshot.
// Everything above this interface is testable without a browser.
type Page interface {
	// Navigate loads url waiting for DOM readiness (not full network
	// idle) and returns the observed HTTP status, 0 when the browser
	// could not determine one.
	Navigate(ctx context.Context, url string) (int, error)

	// HTML returns the current rendered document.
	HTML() (string, error)

	// Eval runs a JS function in page context and returns its result
	// as a string.
	Eval(js string) (string, error)

	// ClickVisible clicks the first visible element matching selector.
	// Returns false when nothing matched or the match is hidden.
	ClickVisible(selector string) (bool, error)

	// Scroll advances the mouse wheel by deltaY pixels.
	Scroll(ctx context.Context, deltaY float64) error

	// Screenshot captures a full-page PNG.
	Screenshot() ([]byte, error)
}

// rodPage adapts a *rod.Page to the Page interface.
type rodPage struct {
	page *rod.Page
}

// domStableWindow is how long the DOM must stop mutating before a
// navigation is considered ready.
const domStableWindow = 300 * time.Millisecond

func (p *rodPage) Navigate(ctx context.Context, target string) (int, error) {
	pg := p.page.Context(ctx)

	// A plausible search referer makes the first-party request look like
	// an organic visit.
	if u, err := url.Parse(target); err == nil {
		headers := proto.NetworkHeaders{
			"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
		}
		_ = proto.NetworkSetExtraHTTPHeaders{Headers: headers}.Call(pg)
	}

	if err := pg.Navigate(target); err != nil {
		return 0, err
	}

	// DOM-stable rather than network-idle: retail search pages stream
	// trackers forever and would never go idle.
	if err := pg.WaitDOMStable(domStableWindow, 0.1); err != nil {
		slog.Debug("DOM did not stabilize, proceeding with current state",
			"error", err)
	}

	return p.navigationStatus(pg), nil
}

// navigationStatus reads the HTTP status of the last navigation from the
// page's performance entries. This avoids CDP network-event listeners,
// which conflict with other Fetch-domain users on newer Chromium.
func (p *rodPage) navigationStatus(pg *rod.Page) int {
	res, err := pg.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch (e) {}
		return 0;
	}`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

func (p *rodPage) HTML() (string, error) {
	return p.page.HTML()
}

func (p *rodPage) Eval(js string) (string, error) {
	res, err := p.page.Eval(js)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (p *rodPage) ClickVisible(selector string) (bool, error) {
	has, el, err := p.page.Has(selector)
	if err != nil || !has {
		return false, err
	}
	visible, err := el.Visible()
	if err != nil || !visible {
		return false, err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false, err
	}
	return true, nil
}

func (p *rodPage) Scroll(ctx context.Context, deltaY float64) error {
	return p.page.Context(ctx).Mouse.Scroll(0, deltaY, 1)
}

func (p *rodPage) Screenshot() ([]byte, error) {
	return p.page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}
