// Package mixer adjusts the playback volume of other applications'
// audio streams, used to duck the music player while a jingle runs.
package mixer

import "errors"

// ErrNotFound is returned when no audio stream matches the requested
// application name.
var ErrNotFound = errors.New("application not found among audio streams")

// Mixer is the volume-control collaborator. Matching is a
// case-insensitive substring test against the stream's name and its
// application.name property.
type Mixer interface {
	// SetVolume sets the matched stream's volume (0.0–1.0) and returns
	// the level it had before.
	SetVolume(application string, level float64) (previous float64, err error)
	Close()
}

// New connects to the platform sound server.
func New() (Mixer, error) {
	return newPlatformMixer()
}
