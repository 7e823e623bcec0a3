package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mewkiz/flac"
)

// Clip is decoded audio: interleaved stereo s16 samples.
type Clip struct {
	SampleRate int
	Samples    []int16
}

func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	frames := len(c.Samples) / 2
	return time.Duration(float64(frames) / float64(c.SampleRate) * float64(time.Second))
}

// Decode reads a WAV or FLAC file into a stereo s16 clip. Mono input is
// duplicated onto both channels.
func Decode(path string) (*Clip, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV(path)
	case ".flac":
		return decodeFLAC(path)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
	}
}

func decodeWAV(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%s: not a WAV file", path)
	}

	var (
		sampleRate    int
		channels      int
		bitsPerSample int
		pcm           []byte
	)

	// Walk the RIFF chunks; only fmt and data matter.
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			size = len(data) - body
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%s: short fmt chunk", path)
			}
			format := binary.LittleEndian.Uint16(data[body:])
			channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14:]))
			if format != 1 || bitsPerSample != 16 {
				return nil, fmt.Errorf("%s: only 16-bit PCM WAV is supported", path)
			}
		case "data":
			pcm = data[body : body+size]
		}
		pos = body + size + size%2
	}

	if sampleRate == 0 || channels == 0 {
		return nil, fmt.Errorf("%s: missing fmt chunk", path)
	}
	if pcm == nil {
		return nil, fmt.Errorf("%s: missing data chunk", path)
	}
	if channels > 2 {
		return nil, fmt.Errorf("%s: %d channels not supported", path, channels)
	}

	n := len(pcm) / 2
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	if channels == 1 {
		samples = monoToStereo(samples)
	}
	return &Clip{SampleRate: sampleRate, Samples: samples}, nil
}

func decodeFLAC(path string) (*Clip, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer stream.Close()

	info := stream.Info
	if info.NChannels > 2 {
		return nil, fmt.Errorf("%s: %d channels not supported", path, info.NChannels)
	}
	shift := int(info.BitsPerSample) - 16

	var samples []int16
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		nFrames := len(frame.Subframes[0].Samples)
		for i := 0; i < nFrames; i++ {
			for ch := 0; ch < int(info.NChannels); ch++ {
				s := frame.Subframes[ch].Samples[i]
				if shift > 0 {
					s >>= shift
				} else if shift < 0 {
					s <<= -shift
				}
				samples = append(samples, int16(s))
			}
		}
	}

	if info.NChannels == 1 {
		samples = monoToStereo(samples)
	}
	return &Clip{SampleRate: int(info.SampleRate), Samples: samples}, nil
}

func monoToStereo(mono []int16) []int16 {
	stereo := make([]int16, len(mono)*2)
	for i, s := range mono {
		stereo[i*2] = s
		stereo[i*2+1] = s
	}
	return stereo
}
