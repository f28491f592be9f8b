package stabilize

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/totalome/shelfscout/config"
)

// recordingPage tracks which stabilization steps touched the page and can
// fault individual steps.
type recordingPage struct {
	clicked     []string
	clickResult map[string]bool
	clickErr    error
	evalCalls   int
	evalErr     error
	scrollCalls int
	scrollErr   error
}

func (r *recordingPage) Navigate(context.Context, string) (int, error) { return 200, nil }
func (r *recordingPage) HTML() (string, error)                         { return "", nil }
func (r *recordingPage) Screenshot() ([]byte, error)                   { return nil, nil }

func (r *recordingPage) Eval(string) (string, error) {
	r.evalCalls++
	return "", r.evalErr
}

func (r *recordingPage) ClickVisible(sel string) (bool, error) {
	r.clicked = append(r.clicked, sel)
	if r.clickErr != nil {
		return false, r.clickErr
	}
	return r.clickResult[sel], nil
}

func (r *recordingPage) Scroll(context.Context, float64) error {
	r.scrollCalls++
	return r.scrollErr
}

func fastConfig(steps int) config.StabilizeConfig {
	return config.StabilizeConfig{ScrollSteps: steps, ScrollPause: time.Millisecond}
}

func TestStabilize_FirstVisibleConsentMatchWins(t *testing.T) {
	page := &recordingPage{clickResult: map[string]bool{
		"#onetrust-accept-btn-handler": true,
	}}
	New(fastConfig(3)).Stabilize(context.Background(), page)

	if len(page.clicked) != 1 {
		t.Errorf("probed %d selectors after a hit, want 1: %v", len(page.clicked), page.clicked)
	}
}

func TestStabilize_NoConsentMatchIsNotAnError(t *testing.T) {
	page := &recordingPage{}
	New(fastConfig(3)).Stabilize(context.Background(), page)

	if len(page.clicked) != len(consentSelectors) {
		t.Errorf("probed %d selectors, want all %d", len(page.clicked), len(consentSelectors))
	}
	if page.scrollCalls != 3 {
		t.Errorf("scrolled %d times, want 3", page.scrollCalls)
	}
}

func TestStabilize_ConsentFaultDoesNotAbortOtherSteps(t *testing.T) {
	page := &recordingPage{clickErr: errors.New("detached frame")}
	New(fastConfig(4)).Stabilize(context.Background(), page)

	if page.evalCalls == 0 {
		t.Error("forced visibility skipped after consent fault")
	}
	if page.scrollCalls != 4 {
		t.Errorf("scrolled %d times after consent fault, want 4", page.scrollCalls)
	}
}

func TestStabilize_VisibilityFaultDoesNotAbortScroll(t *testing.T) {
	page := &recordingPage{evalErr: errors.New("execution context destroyed")}
	New(fastConfig(2)).Stabilize(context.Background(), page)

	if page.scrollCalls != 2 {
		t.Errorf("scrolled %d times after eval fault, want 2", page.scrollCalls)
	}
}

func TestStabilize_ScrollFaultStopsScrollingOnly(t *testing.T) {
	page := &recordingPage{scrollErr: errors.New("page closed")}
	New(fastConfig(8)).Stabilize(context.Background(), page)

	if page.scrollCalls != 1 {
		t.Errorf("scroll retried %d times after fault, want 1 then stop", page.scrollCalls)
	}
}

func TestStabilize_CancelledContextStopsScrolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := &recordingPage{}
	New(fastConfig(16)).Stabilize(ctx, page)

	if page.scrollCalls != 0 {
		t.Errorf("scrolled %d times with canceled context, want 0", page.scrollCalls)
	}
}
