package mixer

import (
	"fmt"
	"strings"
	"sync"
)

// Call records one SetVolume request made against the fake.
type Call struct {
	Application string
	Level       float64
}

// Fake is an in-memory Mixer. Streams maps stream names to their current
// level; matching follows the real case-insensitive substring rule.
type Fake struct {
	mu      sync.Mutex
	streams map[string]float64
	calls   []Call
}

func NewFake(streams map[string]float64) *Fake {
	if streams == nil {
		streams = map[string]float64{}
	}
	return &Fake{streams: streams}
}

func (f *Fake) SetVolume(application string, level float64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Application: application, Level: level})

	needle := strings.ToLower(application)
	for name, prev := range f.streams {
		if strings.Contains(strings.ToLower(name), needle) {
			f.streams[name] = level
			return prev, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrNotFound, application)
}

func (f *Fake) Close() {}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *Fake) Level(stream string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streams[stream]
}
