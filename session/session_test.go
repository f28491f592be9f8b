package session

import (
	"fmt"
	"testing"
)

func TestConsoleLog_CapsCapturedLines(t *testing.T) {
	c := &consoleLog{}
	for i := 0; i < maxConsoleLines*3; i++ {
		c.append(fmt.Sprintf("line %d", i))
	}

	got := c.snapshot()
	if len(got) != maxConsoleLines {
		t.Fatalf("captured %d lines, want cap %d", len(got), maxConsoleLines)
	}
	if got[0] != "line 0" {
		t.Errorf("cap must keep the head, first line = %q", got[0])
	}
}

func TestConsoleLog_SnapshotIsACopy(t *testing.T) {
	c := &consoleLog{}
	c.append("original")

	snap := c.snapshot()
	snap[0] = "mutated"

	if c.snapshot()[0] != "original" {
		t.Error("snapshot aliases the internal buffer")
	}
}

func TestIsTrackerDomain(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"google-analytics.com", true},
		{"www.google-analytics.com", true},
		{"pagead2.googlesyndication.com", true},
		{"HOTJAR.COM", true},
		{"www.homedepot.com", false},
		{"images.thdstatic.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isTrackerDomain(tt.host); got != tt.want {
			t.Errorf("isTrackerDomain(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}
