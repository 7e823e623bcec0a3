package ducker

import (
	"testing"
	"time"

	"jinglebox/mixer"
	"jinglebox/player"
)

func newTestDucker() (*Ducker, *player.Fake, *mixer.Fake) {
	mx := mixer.NewFake(map[string]float64{"Spotify": 0.66})
	var d *Ducker
	pl := player.NewFake(func() { d.PlaybackFinished() })
	d = New(pl, mx, "Spotify", 0.66, 0.33)
	d.clipDuration = func(string) time.Duration { return 0 }
	return d, pl, mx
}

func TestDuckOnPlayRestoreOnFinish(t *testing.T) {
	d, pl, mx := newTestDucker()

	d.PlayJingle("horn.wav")
	if d.State() != Ducked {
		t.Fatal("expected ducked state during playback")
	}
	if got := mx.Level("Spotify"); got != 0.33 {
		t.Errorf("ducked level = %v, want 0.33", got)
	}
	if got := pl.Plays(); len(got) != 1 || got[0] != "horn.wav" {
		t.Errorf("plays = %v", got)
	}

	pl.FinishPlayback()
	if d.State() != Normal {
		t.Fatal("expected normal state after end of media")
	}
	if got := mx.Level("Spotify"); got != 0.66 {
		t.Errorf("restored level = %v, want 0.66", got)
	}
}

func TestLevelsApplyToCurrentState(t *testing.T) {
	d, pl, mx := newTestDucker()

	// Slider moved while normal: normal level applied.
	d.SetLevels(0.9, 0.2)
	if got := mx.Level("Spotify"); got != 0.9 {
		t.Errorf("level = %v, want 0.9", got)
	}

	// Slider moved while ducked: ducked level applied.
	d.PlayJingle("horn.wav")
	d.SetLevels(0.9, 0.1)
	if got := mx.Level("Spotify"); got != 0.1 {
		t.Errorf("level = %v, want 0.1", got)
	}

	pl.FinishPlayback()
	if got := mx.Level("Spotify"); got != 0.9 {
		t.Errorf("restored level = %v, want 0.9", got)
	}
}

func TestMixerNotFoundDoesNotBreakStateMachine(t *testing.T) {
	mx := mixer.NewFake(map[string]float64{"mpv": 1.0})
	var d *Ducker
	pl := player.NewFake(func() { d.PlaybackFinished() })
	d = New(pl, mx, "Spotify", 0.66, 0.33)
	d.clipDuration = func(string) time.Duration { return 0 }

	d.PlayJingle("horn.wav")
	if d.State() != Ducked {
		t.Fatal("expected ducked despite missing application")
	}
	pl.FinishPlayback()
	if d.State() != Normal {
		t.Fatal("expected normal after finish despite missing application")
	}
	if got := mx.Level("mpv"); got != 1.0 {
		t.Errorf("unrelated stream changed: %v", got)
	}
}

func TestPlaybackFailureStillRecovers(t *testing.T) {
	d, pl, mx := newTestDucker()
	pl.FailNext = true

	d.PlayJingle("broken.wav")
	if d.State() != Ducked {
		t.Fatal("expected ducked even when playback fails")
	}

	// No end-of-media will ever arrive; the fallback timer restores.
	d.mu.Lock()
	gen := d.timerGen
	d.mu.Unlock()
	d.timerFired(gen)

	if d.State() != Normal {
		t.Fatal("expected normal after fallback timeout")
	}
	if got := mx.Level("Spotify"); got != 0.66 {
		t.Errorf("restored level = %v, want 0.66", got)
	}
}

func TestStaleTimerIgnored(t *testing.T) {
	d, pl, _ := newTestDucker()

	d.PlayJingle("a.wav")
	d.mu.Lock()
	staleGen := d.timerGen
	d.mu.Unlock()

	pl.FinishPlayback() // disarms, state normal
	d.PlayJingle("b.wav")

	d.timerFired(staleGen)
	if d.State() != Ducked {
		t.Fatal("stale timer must not restore an active duck")
	}
}

func TestFallbackUsesClipDuration(t *testing.T) {
	d, _, _ := newTestDucker()

	d.clipDuration = func(string) time.Duration { return 3 * time.Second }
	d.mu.Lock()
	d.armTimerLocked("horn.wav")
	armed := d.timer != nil
	d.disarmTimerLocked()
	d.mu.Unlock()
	if !armed {
		t.Fatal("expected fallback timer to be armed")
	}
}

func TestSetApplicationRetargets(t *testing.T) {
	mx := mixer.NewFake(map[string]float64{"Spotify": 0.5, "mpv": 0.5})
	pl := player.NewFake(nil)
	d := New(pl, mx, "Spotify", 0.66, 0.33)
	d.clipDuration = func(string) time.Duration { return 0 }

	d.SetApplication("mpv")
	if got := mx.Level("mpv"); got != 0.66 {
		t.Errorf("mpv level = %v, want 0.66", got)
	}
	if got := mx.Level("Spotify"); got != 0.5 {
		t.Errorf("Spotify should be untouched, got %v", got)
	}
}

func TestJingleVolumePassthrough(t *testing.T) {
	d, pl, _ := newTestDucker()
	d.SetJingleVolume(0.42)
	if got := pl.Volume(); got != 0.42 {
		t.Errorf("jingle volume = %v, want 0.42", got)
	}
}
