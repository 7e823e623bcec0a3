//go:build linux

package mixer

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/jfreymuth/pulse/proto"
)

type pulseMixer struct {
	mu   sync.Mutex
	c    *proto.Client
	conn net.Conn
}

func newPlatformMixer() (Mixer, error) {
	c, conn, err := proto.Connect("")
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	err = c.Request(&proto.SetClientName{Props: proto.PropList{
		"application.name": proto.PropListString("jinglebox"),
	}}, &proto.SetClientNameReply{})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("pulse client name: %w", err)
	}
	return &pulseMixer{c: c, conn: conn}, nil
}

func (m *pulseMixer) SetVolume(application string, level float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var inputs proto.GetSinkInputInfoListReply
	if err := m.c.Request(&proto.GetSinkInputInfoList{}, &inputs); err != nil {
		return 0, fmt.Errorf("pulse list sink inputs: %w", err)
	}

	needle := strings.ToLower(application)
	for _, info := range inputs {
		if !sinkInputMatches(info, needle) {
			continue
		}
		prev := volumeAverage(info.ChannelVolumes)

		vols := make(proto.ChannelVolumes, len(info.ChannelVolumes))
		v := uint32(float64(proto.VolumeNorm) * level)
		for i := range vols {
			vols[i] = v
		}
		err := m.c.Request(&proto.SetSinkInputVolume{
			SinkInputIndex: info.SinkInputIndex,
			ChannelVolumes: vols,
		}, nil)
		if err != nil {
			return 0, fmt.Errorf("pulse set sink input volume: %w", err)
		}
		return prev, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrNotFound, application)
}

func (m *pulseMixer) Close() {
	m.conn.Close()
}

func sinkInputMatches(info *proto.GetSinkInputInfoReply, needle string) bool {
	for _, key := range []string{"application.name", "media.name", "application.process.binary"} {
		if strings.Contains(strings.ToLower(propString(info.Properties, key)), needle) {
			return true
		}
	}
	return false
}

func volumeAverage(vols proto.ChannelVolumes) float64 {
	if len(vols) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range vols {
		sum += uint64(v)
	}
	return float64(sum) / float64(len(vols)) / float64(proto.VolumeNorm)
}

func propString(props proto.PropList, key string) string {
	if props == nil {
		return ""
	}
	if v, ok := props[key]; ok {
		return v.String()
	}
	return ""
}
