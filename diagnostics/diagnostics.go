// Package diagnostics captures page state for debug responses. Every
// field is best-effort: a capture failure omits the field, it never fails
// the request.
package diagnostics

import (
	"encoding/base64"
	"log/slog"

	"github.com/totalome/shelfscout/models"
	"github.com/totalome/shelfscout/session"
)

// Capture reads the page title and readyState and, when wantShot is set,
// renders a full-page screenshot. The raw PNG is returned separately so
// the handler can serve it as an image body; the diagnostics struct
// carries it as a self-describing data URI.
func Capture(page session.Page, consoleLogs []string, wantShot bool) (models.PageDiagnostics, []byte) {
	d := models.PageDiagnostics{ConsoleLogCount: len(consoleLogs)}

	if title, err := page.Eval(`() => document.title`); err == nil {
		d.Title = title
	} else {
		slog.Debug("title capture failed", "error", err)
	}

	if ready, err := page.Eval(`() => document.readyState`); err == nil {
		d.ReadyState = ready
	} else {
		slog.Debug("readyState capture failed", "error", err)
	}

	var png []byte
	if wantShot {
		shot, err := page.Screenshot()
		if err != nil {
			slog.Debug("screenshot capture failed", "error", err)
		} else {
			png = shot
			d.Screenshot = "data:image/png;base64," + base64.StdEncoding.EncodeToString(shot)
		}
	}

	return d, png
}
