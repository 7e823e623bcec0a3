package player

import (
	"fmt"
	"sync"
)

// Fake is an in-memory Player for tests. Playback never ends on its own;
// tests call FinishPlayback to deliver the end-of-media event.
type Fake struct {
	mu      sync.Mutex
	playing bool
	plays   []string
	volume  float64
	onDone  func()

	// FailNext makes the next Play return an error.
	FailNext bool
}

func NewFake(onDone func()) *Fake {
	return &Fake{volume: 1.0, onDone: onDone}
}

func (f *Fake) Play(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailNext {
		f.FailNext = false
		return fmt.Errorf("fake playback failure: %s", path)
	}
	f.plays = append(f.plays, path)
	f.playing = true
	return nil
}

func (f *Fake) SetVolume(v float64) {
	f.mu.Lock()
	f.volume = v
	f.mu.Unlock()
}

func (f *Fake) Playing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *Fake) Close() {}

// FinishPlayback simulates the end-of-media signal.
func (f *Fake) FinishPlayback() {
	f.mu.Lock()
	f.playing = false
	done := f.onDone
	f.mu.Unlock()
	if done != nil {
		done()
	}
}

func (f *Fake) Plays() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.plays...)
}

func (f *Fake) Volume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}
