//go:build !linux

package mixer

import "errors"

// Per-application volume control needs a sound server that exposes
// per-stream sinks; only PulseAudio/PipeWire is supported.
func newPlatformMixer() (Mixer, error) {
	return nil, errors.New("application volume control is only supported on linux (PulseAudio)")
}
