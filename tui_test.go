package main

import (
	"strings"
	"testing"
	"time"

	"jinglebox/config"
)

func TestWithCountdownAppendsRemaining(t *testing.T) {
	at := time.Now().Add(90 * time.Second)
	text := at.Format(config.DateTimeFormat) + " (Halftime)"

	got := withCountdown(text)
	if !strings.HasPrefix(got, text) {
		t.Fatalf("original text lost: %q", got)
	}
	if !strings.Contains(got, "in 1m3") && !strings.Contains(got, "in 1m29s") && !strings.Contains(got, "in 1m30s") {
		t.Errorf("expected a ~90s countdown, got %q", got)
	}
}

func TestWithCountdownPassesSentinels(t *testing.T) {
	for _, text := range []string{noMoreGames, noMoreJingles} {
		if got := withCountdown(text); got != text {
			t.Errorf("sentinel changed: %q -> %q", text, got)
		}
	}
}

func TestWithCountdownClampsPast(t *testing.T) {
	at := time.Now().Add(-time.Hour)
	got := withCountdown(at.Format(config.DateTimeFormat))
	if !strings.HasSuffix(got, "in 0s") {
		t.Errorf("past time should clamp to zero, got %q", got)
	}
}
