// Package session owns the browser process/context/page lifecycle for one
// request. Sessions are never pooled or shared: each request launches its
// own isolated browser with the chosen fingerprint and tears it down
// before the response is written.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"golang.org/x/sync/semaphore"

	"github.com/totalome/shelfscout/config"
	"github.com/totalome/shelfscout/fingerprint"
	"github.com/totalome/shelfscout/models"
)

// Manager acquires and releases browser sessions. It is safe for
// concurrent use; the weighted semaphore bounds how many sessions may be
// open at once so load cannot exhaust the host.
type Manager struct {
	cfg config.BrowserConfig
	sem *semaphore.Weighted
}

// NewManager creates a Manager with the configured concurrency bound.
func NewManager(cfg config.BrowserConfig) *Manager {
	max := cfg.MaxSessions
	if max <= 0 {
		max = 4
	}
	return &Manager{cfg: cfg, sem: semaphore.NewWeighted(max)}
}

// Acquire launches an isolated headless browser, opens one stealth page,
// and applies the fingerprint profile. On any partial failure the pieces
// already acquired are torn down before the error is returned, so callers
// only ever own fully-built sessions.
//
// Acquire blocks while the session bound is saturated; the block is
// released when ctx is canceled.
func (m *Manager) Acquire(ctx context.Context, profile fingerprint.Profile) (*Session, error) {
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return nil, models.NewPipelineError(models.ErrCodeSessionFailed,
			"waiting for a free browser slot", err)
	}

	sess := &Session{profile: profile, sem: m.sem, logs: &consoleLog{}}

	l := launcher.New().
		Headless(m.cfg.Headless).
		NoSandbox(m.cfg.NoSandbox)
	if m.cfg.BrowserBin != "" {
		l = l.Bin(m.cfg.BrowserBin)
	}
	if profile.ProxyURL != "" {
		l = l.Proxy(profile.ProxyURL)
	}

	// ── Automation-detection countermeasures ────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		sess.Release()
		return nil, models.NewPipelineError(models.ErrCodeSessionFailed,
			"failed to launch browser", err)
	}
	sess.launcher = l

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		sess.Release()
		return nil, models.NewPipelineError(models.ErrCodeSessionFailed,
			"failed to connect to browser", err)
	}
	sess.browser = browser

	// stealth.Page creates the page with the anti-detection patch set
	// (navigator.webdriver and friends) installed before any navigation.
	page, err := stealth.Page(browser)
	if err != nil {
		sess.Release()
		return nil, models.NewPipelineError(models.ErrCodeSessionFailed,
			"failed to open stealth page", err)
	}
	sess.page = page

	// ── Apply fingerprint profile ───────────────────────────────────
	if err := (proto.NetworkSetUserAgentOverride{
		UserAgent:      profile.UserAgent,
		AcceptLanguage: profile.Locale,
	}).Call(page); err != nil {
		slog.Warn("user-agent override failed, proceeding with browser default",
			"error", err)
	}
	if err := (proto.EmulationSetTimezoneOverride{
		TimezoneID: profile.TimezoneID,
	}).Call(page); err != nil {
		slog.Warn("timezone override failed", "error", err)
	}

	sess.router = mountHijack(page)
	sess.watchConsole()

	slog.Debug("browser session acquired",
		"userAgent", profile.UserAgent,
		"proxy", profile.ProxyURL != "",
	)
	return sess, nil
}

// Session is an exclusively-owned browser triple: process, browser
// connection, page. It is created for one request and destroyed before
// that request returns.
type Session struct {
	profile  fingerprint.Profile
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	router   *rod.HijackRouter
	logs     *consoleLog
	sem      *semaphore.Weighted

	releaseOnce sync.Once
}

// Profile returns the fingerprint applied to this session.
func (s *Session) Profile() fingerprint.Profile {
	return s.profile
}

// Page returns the narrow live-page surface the pipeline drives.
func (s *Session) Page() Page {
	return &rodPage{page: s.page}
}

// ConsoleLogs returns a snapshot of the console output captured so far.
func (s *Session) ConsoleLogs() []string {
	return s.logs.snapshot()
}

// Release tears down page, browser, and process, in that order. It is
// idempotent and safe to call after a partial failure during Acquire;
// every acquired session must be released exactly once.
func (s *Session) Release() {
	s.releaseOnce.Do(func() {
		if s.router != nil {
			if err := s.router.Stop(); err != nil {
				slog.Debug("hijack router stop failed during release", "error", err)
			}
		}
		if s.page != nil {
			if err := s.page.Close(); err != nil {
				slog.Debug("page close failed during release", "error", err)
			}
		}
		if s.browser != nil {
			if err := s.browser.Close(); err != nil {
				slog.Debug("browser close failed during release", "error", err)
			}
		}
		if s.launcher != nil {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
		if s.sem != nil {
			s.sem.Release(1)
		}
		slog.Debug("browser session released")
	})
}

// maxConsoleLines caps captured console output; busy pages can log
// thousands of lines and only the head is ever surfaced.
const maxConsoleLines = 50

type consoleLog struct {
	mu    sync.Mutex
	lines []string
}

func (c *consoleLog) append(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) < maxConsoleLines {
		c.lines = append(c.lines, line)
	}
}

func (c *consoleLog) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

// watchConsole subscribes to the page's console API events. The goroutine
// exits when the page closes.
func (s *Session) watchConsole() {
	page, logs := s.page, s.logs
	go page.EachEvent(func(e *proto.RuntimeConsoleAPICalled) {
		line := ""
		for i, arg := range e.Args {
			if i > 0 {
				line += " "
			}
			line += arg.Value.String()
		}
		logs.append(line)
	})()
}
