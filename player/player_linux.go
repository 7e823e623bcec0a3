//go:build linux

package player

import (
	"fmt"
	"sync"

	"github.com/jfreymuth/pulse"
)

type pulsePlayer struct {
	mu      sync.Mutex
	volume  float64
	playing bool
	gen     int // bumped per Play; stale streams see it and stop
	onDone  func()
	closed  bool
}

func newPlatformPlayer(onDone func()) (Player, error) {
	return &pulsePlayer{volume: 1.0, onDone: onDone}, nil
}

func (p *pulsePlayer) Play(path string) error {
	clip, err := Decode(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("player closed")
	}
	p.gen++
	gen := p.gen
	p.playing = true
	p.mu.Unlock()

	go p.stream(clip, gen)
	return nil
}

func (p *pulsePlayer) stream(clip *Clip, gen int) {
	defer p.finish(gen)

	c, err := pulse.NewClient()
	if err != nil {
		return
	}
	defer c.Close()

	pos := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		p.mu.Lock()
		vol := p.volume
		stale := gen != p.gen || p.closed
		p.mu.Unlock()
		if stale || pos >= len(clip.Samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, clip.Samples[pos:])
		pos += n
		if vol != 1.0 {
			for i := 0; i < n; i++ {
				buf[i] = int16(float64(buf[i]) * vol)
			}
		}
		return n, nil
	})

	stream, err := c.NewPlayback(reader,
		pulse.PlaybackStereo,
		pulse.PlaybackSampleRate(clip.SampleRate),
		pulse.PlaybackLatency(0.1),
	)
	if err != nil {
		return
	}
	stream.Start()
	stream.Drain()
	stream.Stop()
	stream.Close()
}

// finish reports end of media unless a newer Play superseded this stream.
func (p *pulsePlayer) finish(gen int) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.playing = false
	done := p.onDone
	p.mu.Unlock()
	if done != nil {
		done()
	}
}

func (p *pulsePlayer) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
}

func (p *pulsePlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *pulsePlayer) Close() {
	p.mu.Lock()
	p.closed = true
	p.gen++ // stops any active stream at its next read
	p.mu.Unlock()
}
