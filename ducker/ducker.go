// Package ducker lowers the music application's volume while a jingle
// plays and restores it when playback ends.
package ducker

import (
	"errors"
	"sync"
	"time"

	"jinglebox/log"
	"jinglebox/mixer"
	"jinglebox/player"
)

type State int

const (
	Normal State = iota
	Ducked
)

func (s State) String() string {
	if s == Ducked {
		return "ducked"
	}
	return "normal"
}

const (
	// fallbackGrace pads the clip duration before the stuck-duck timer
	// fires; unknownClipFallback bounds clips whose length cannot be
	// determined. Without this a lost end-of-media event would leave the
	// music quiet forever.
	fallbackGrace       = 2 * time.Second
	unknownClipFallback = 30 * time.Second
)

// Ducker drives the playback and mixer collaborators. All entry points
// are safe to call from the run loop and the player's done callback.
type Ducker struct {
	mu     sync.Mutex
	player player.Player
	mixer  mixer.Mixer

	app         string
	normalLevel float64
	duckedLevel float64

	state    State
	timer    *time.Timer
	timerGen int

	clipDuration func(path string) time.Duration
}

func New(p player.Player, m mixer.Mixer, app string, normalLevel, duckedLevel float64) *Ducker {
	return &Ducker{
		player:       p,
		mixer:        m,
		app:          app,
		normalLevel:  normalLevel,
		duckedLevel:  duckedLevel,
		clipDuration: player.Duration,
	}
}

// PlayJingle ducks the application and starts the clip from position
// zero. Playback failure is logged and the fallback timer still restores
// the volume.
func (d *Ducker) PlayJingle(file string) {
	d.mu.Lock()
	d.state = Ducked
	d.armTimerLocked(file)
	d.applyLocked()
	d.mu.Unlock()

	if err := d.player.Play(file); err != nil {
		log.Errorf("playback failed for %s: %v", file, err)
	}
}

// PlaybackFinished handles the player's end-of-media event.
func (d *Ducker) PlaybackFinished() {
	d.mu.Lock()
	d.disarmTimerLocked()
	d.state = Normal
	d.applyLocked()
	d.mu.Unlock()
}

// SetApplication switches which application gets ducked. The level for
// the current state is applied to the new target immediately.
func (d *Ducker) SetApplication(app string) {
	d.mu.Lock()
	d.app = app
	d.applyLocked()
	d.mu.Unlock()
}

// SetLevels updates both volume levels and applies the one matching the
// current state.
func (d *Ducker) SetLevels(normalLevel, duckedLevel float64) {
	d.mu.Lock()
	d.normalLevel = normalLevel
	d.duckedLevel = duckedLevel
	d.applyLocked()
	d.mu.Unlock()
}

// SetJingleVolume adjusts the jingle output itself, not the ducked
// application.
func (d *Ducker) SetJingleVolume(v float64) {
	d.player.SetVolume(v)
}

func (d *Ducker) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// applyLocked pushes the level for the current state to the mixer. A
// missing application is a warning, not a failure; the state machine
// carries on either way.
func (d *Ducker) applyLocked() {
	if d.app == "" {
		return
	}
	level := d.normalLevel
	if d.state == Ducked {
		level = d.duckedLevel
	}
	_, err := d.mixer.SetVolume(d.app, level)
	switch {
	case errors.Is(err, mixer.ErrNotFound):
		log.Warnf("cannot set volume: %v", err)
	case err != nil:
		log.Errorf("mixer error: %v", err)
	default:
		log.DuckChange(d.state.String(), d.app, level)
	}
}

func (d *Ducker) armTimerLocked(file string) {
	d.disarmTimerLocked()
	timeout := unknownClipFallback
	if dur := d.clipDuration(file); dur > 0 {
		timeout = dur + fallbackGrace
	}
	d.timerGen++
	gen := d.timerGen
	d.timer = time.AfterFunc(timeout, func() { d.timerFired(gen) })
}

func (d *Ducker) disarmTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.timerGen++
}

func (d *Ducker) timerFired(gen int) {
	d.mu.Lock()
	if gen != d.timerGen || d.state != Ducked {
		d.mu.Unlock()
		return
	}
	log.Warn("no end-of-media event; restoring volume")
	d.timer = nil
	d.state = Normal
	d.applyLocked()
	d.mu.Unlock()
}
