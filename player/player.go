// Package player plays jingle audio files. Linux goes through PulseAudio,
// everything else through malgo. Playback always starts from position zero
// and reports end of media through the onDone callback.
package player

import (
	"time"
)

// Player is the playback collaborator the ducking dispatcher drives.
type Player interface {
	// Play decodes the file and starts playback from the beginning. A
	// clip already playing is cut off by the new one.
	Play(path string) error
	// SetVolume scales the jingle output, 0.0–1.0. Independent of the
	// ducked application's volume.
	SetVolume(v float64)
	Playing() bool
	Close()
}

// New returns the platform playback backend. onDone fires once per
// finished clip, from the playback goroutine.
func New(onDone func()) (Player, error) {
	return newPlatformPlayer(onDone)
}

// Duration reports a clip's play time without starting it, used to bound
// the ducking fallback timer. Zero when the file cannot be decoded.
func Duration(path string) time.Duration {
	clip, err := Decode(path)
	if err != nil {
		return 0
	}
	return clip.Duration()
}
