package player

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeWAV produces a minimal PCM WAV file with a 440Hz tone.
func writeWAV(t *testing.T, path string, sampleRate, channels, seconds int) {
	t.Helper()
	frames := sampleRate * seconds
	dataSize := frames * channels * 2

	buf := make([]byte, 44+dataSize)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:], 16)
	binary.LittleEndian.PutUint16(buf[20:], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:], uint32(sampleRate*channels*2))
	binary.LittleEndian.PutUint16(buf[32:], uint16(channels*2))
	binary.LittleEndian.PutUint16(buf[34:], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:], uint32(dataSize))

	for i := 0; i < frames; i++ {
		s := int16(math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)) * 16000)
		for ch := 0; ch < channels; ch++ {
			binary.LittleEndian.PutUint16(buf[44+(i*channels+ch)*2:], uint16(s))
		}
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeWAVStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 44100, 2, 2)

	clip, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if clip.SampleRate != 44100 {
		t.Errorf("sample rate = %d", clip.SampleRate)
	}
	if len(clip.Samples) != 44100*2*2 {
		t.Errorf("sample count = %d", len(clip.Samples))
	}
	if d := clip.Duration(); d != 2*time.Second {
		t.Errorf("duration = %v, want 2s", d)
	}
}

func TestDecodeWAVMonoDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	writeWAV(t, path, 22050, 1, 1)

	clip, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(clip.Samples) != 22050*2 {
		t.Errorf("sample count = %d, want stereo-expanded", len(clip.Samples))
	}
	for i := 0; i+1 < len(clip.Samples); i += 2 {
		if clip.Samples[i] != clip.Samples[i+1] {
			t.Fatalf("channels differ at frame %d", i/2)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noise.wav")
	if err := os.WriteFile(path, []byte("not audio at all"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(path); err == nil {
		t.Error("expected error for garbage WAV")
	}

	if _, err := Decode(filepath.Join(dir, "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}

	other := filepath.Join(dir, "clip.ogg")
	if err := os.WriteFile(other, []byte("OggS"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(other); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestDurationUnknownFile(t *testing.T) {
	if d := Duration(filepath.Join(t.TempDir(), "absent.wav")); d != 0 {
		t.Errorf("Duration of missing file = %v, want 0", d)
	}
}

func TestFakePlayer(t *testing.T) {
	doneCount := 0
	f := NewFake(func() { doneCount++ })

	if err := f.Play("a.wav"); err != nil {
		t.Fatal(err)
	}
	if !f.Playing() {
		t.Error("expected playing")
	}
	f.FinishPlayback()
	if f.Playing() {
		t.Error("expected stopped after finish")
	}
	if doneCount != 1 {
		t.Errorf("onDone fired %d times", doneCount)
	}

	f.FailNext = true
	if err := f.Play("b.wav"); err == nil {
		t.Error("expected injected failure")
	}
	if got := f.Plays(); len(got) != 1 || got[0] != "a.wav" {
		t.Errorf("plays = %v", got)
	}
}
