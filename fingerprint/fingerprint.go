// Package fingerprint chooses the browser identity presented to a target
// site for one session: user-agent, locale, timezone, and egress proxy.
package fingerprint

import (
	"math/rand"
	"sync"
	"time"
)

// uaRotation covers the major desktop platforms. One entry is picked
// uniformly at random per session so consecutive requests do not share a
// correlatable user-agent.
var uaRotation = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
}

const (
	defaultLocale   = "en-US"
	defaultTimezone = "America/New_York"
)

// Profile is the fingerprint bundle applied to one browser session.
// Immutable for the session's lifetime.
type Profile struct {
	UserAgent  string
	Locale     string
	TimezoneID string
	ProxyURL   string
}

// Selector picks a Profile per session. The random source is injected so
// tests can pin the choice; Select is safe for concurrent use.
type Selector struct {
	mu       sync.Mutex
	rng      *rand.Rand
	proxyURL string
}

// NewSelector creates a Selector. A nil rng gets a time-seeded source.
// proxyURL may be empty; when set it is carried into every profile.
func NewSelector(rng *rand.Rand, proxyURL string) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng, proxyURL: proxyURL}
}

// Select returns a new profile with a randomly rotated user-agent.
func (s *Selector) Select() Profile {
	s.mu.Lock()
	ua := uaRotation[s.rng.Intn(len(uaRotation))]
	s.mu.Unlock()

	return Profile{
		UserAgent:  ua,
		Locale:     defaultLocale,
		TimezoneID: defaultTimezone,
		ProxyURL:   s.proxyURL,
	}
}

// UserAgents returns a copy of the rotation list, mainly for tests that
// need to assert the bounded-choice property.
func UserAgents() []string {
	out := make([]string, len(uaRotation))
	copy(out, uaRotation)
	return out
}
