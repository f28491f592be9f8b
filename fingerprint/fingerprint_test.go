package fingerprint

import (
	"math/rand"
	"testing"
)

func TestSelect_AlwaysFromRotation(t *testing.T) {
	s := NewSelector(rand.New(rand.NewSource(42)), "")

	known := make(map[string]struct{})
	for _, ua := range UserAgents() {
		known[ua] = struct{}{}
	}

	for i := 0; i < 100; i++ {
		p := s.Select()
		if _, ok := known[p.UserAgent]; !ok {
			t.Fatalf("Select returned user-agent outside the rotation: %q", p.UserAgent)
		}
	}
}

func TestSelect_PinnedSeedIsReproducible(t *testing.T) {
	a := NewSelector(rand.New(rand.NewSource(7)), "")
	b := NewSelector(rand.New(rand.NewSource(7)), "")

	for i := 0; i < 20; i++ {
		if a.Select().UserAgent != b.Select().UserAgent {
			t.Fatal("same seed produced a different rotation sequence")
		}
	}
}

func TestSelect_FixedLocaleAndTimezone(t *testing.T) {
	p := NewSelector(rand.New(rand.NewSource(1)), "").Select()
	if p.Locale != "en-US" {
		t.Errorf("locale = %q, want en-US", p.Locale)
	}
	if p.TimezoneID != "America/New_York" {
		t.Errorf("timezone = %q, want America/New_York", p.TimezoneID)
	}
}

func TestSelect_CarriesProxy(t *testing.T) {
	p := NewSelector(rand.New(rand.NewSource(1)), "http://proxy.internal:8080").Select()
	if p.ProxyURL != "http://proxy.internal:8080" {
		t.Errorf("proxy = %q, want configured endpoint", p.ProxyURL)
	}
}

func TestRotationCoversMultiplePlatforms(t *testing.T) {
	if n := len(UserAgents()); n < 3 {
		t.Errorf("rotation has %d entries, want at least 3", n)
	}
}
