package mixer

import (
	"errors"
	"testing"
)

func TestFakeMatchesCaseInsensitiveSubstring(t *testing.T) {
	f := NewFake(map[string]float64{"Spotify Premium": 0.8})

	prev, err := f.SetVolume("spotify", 0.33)
	if err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if prev != 0.8 {
		t.Errorf("previous = %v, want 0.8", prev)
	}
	if got := f.Level("Spotify Premium"); got != 0.33 {
		t.Errorf("level = %v, want 0.33", got)
	}
}

func TestFakeNotFound(t *testing.T) {
	f := NewFake(map[string]float64{"mpv": 1.0})

	_, err := f.SetVolume("Spotify", 0.33)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	// The miss is still recorded; the stream is untouched.
	if got := f.Level("mpv"); got != 1.0 {
		t.Errorf("mpv level changed to %v", got)
	}
	if len(f.Calls()) != 1 {
		t.Errorf("calls = %d, want 1", len(f.Calls()))
	}
}
