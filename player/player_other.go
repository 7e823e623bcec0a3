//go:build !linux

package player

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

type malgoPlayer struct {
	ctx *malgo.AllocatedContext

	mu      sync.Mutex
	device  *malgo.Device
	playing bool
	gen     int
	volume  float64
	onDone  func()
	closed  bool
}

func newPlatformPlayer(onDone func()) (Player, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, err
	}
	return &malgoPlayer{ctx: ctx, volume: 1.0, onDone: onDone}, nil
}

func (p *malgoPlayer) Play(path string) error {
	clip, err := Decode(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("player closed")
	}
	p.stopLocked()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = 2
	deviceConfig.SampleRate = uint32(clip.SampleRate)

	pos := 0
	finished := make(chan struct{})
	var finishOnce sync.Once

	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frameCount uint32) {
			p.mu.Lock()
			vol := p.volume
			p.mu.Unlock()

			want := int(frameCount) * 2
			for i := 0; i < want; i++ {
				var s int16
				if pos < len(clip.Samples) {
					s = int16(float64(clip.Samples[pos]) * vol)
					pos++
				}
				binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
			}
			if pos >= len(clip.Samples) {
				finishOnce.Do(func() { close(finished) })
			}
		},
	}

	dev, err := malgo.InitDevice(p.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return err
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		return err
	}

	p.mu.Lock()
	p.device = dev
	p.playing = true
	p.mu.Unlock()

	go func() {
		<-finished
		p.mu.Lock()
		if gen != p.gen {
			p.mu.Unlock()
			return
		}
		dev.Uninit()
		p.device = nil
		p.playing = false
		done := p.onDone
		p.mu.Unlock()
		if done != nil {
			done()
		}
	}()

	return nil
}

func (p *malgoPlayer) stopLocked() {
	if p.device != nil {
		p.device.Uninit()
		p.device = nil
		p.playing = false
	}
}

func (p *malgoPlayer) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
}

func (p *malgoPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *malgoPlayer) Close() {
	p.mu.Lock()
	p.closed = true
	p.gen++
	p.stopLocked()
	p.mu.Unlock()
	p.ctx.Uninit()
	p.ctx.Free()
}
