// Package config loads and saves the jinglebox TOML configuration.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DateTimeFormat = "2006/01/02 15:04:05"
	ClockFormat    = "15:04:05"
)

// Anchor is the point of a game a jingle's offset is relative to.
type Anchor string

const (
	AnchorStart Anchor = "start"
	AnchorHalf  Anchor = "half"
	AnchorEnd   Anchor = "end"
)

func (a Anchor) Valid() bool {
	switch a {
	case AnchorStart, AnchorHalf, AnchorEnd:
		return true
	}
	return false
}

// Jingle is one configured jingle. File is the path as written in the
// configuration (forward slashes); Path is resolved against the
// configuration file's directory and is what gets played.
type Jingle struct {
	File   string
	Path   string
	Name   string
	Offset time.Duration // positive = after anchor, negative = before
	Anchor Anchor
}

// Schedule holds the game grid defaults loaded from the [schedule] section.
type Schedule struct {
	FirstGame     time.Time
	LastGame      time.Time
	GameDuration  time.Duration
	BreakDuration time.Duration
}

/// Sound holds the [sound] section: which application to duck and the levels.
type Sound struct {
	Application     string
	AppVolume       float64
	AppVolumeDucked float64
	JingleVolume    float64
}

type Config struct {
	Jingles  []Jingle
	Schedule Schedule
	Sound    Sound
}

// DefaultSchedule matches the built-in values the program started with
// before the [schedule] section existed.
func DefaultSchedule() Schedule {
	return Schedule{
		FirstGame:     time.Date(2023, 8, 13, 9, 0, 0, 0, time.Local),
		LastGame:      time.Date(2023, 8, 13, 13, 0, 0, 0, time.Local),
		GameDuration:  30 * time.Minute,
		BreakDuration: 5 * time.Minute,
	}
}

func DefaultSound() Sound {
	return Sound{
		Application:     "Spotify",
		AppVolume:       0.66,
		AppVolumeDucked: 0.33,
		JingleVolume:    0.99,
	}
}

// On-disk representation. Offsets are total seconds, durations are
// HH:MM:SS strings, timestamps use DateTimeFormat.
type rawConfig struct {
	Jingles  []rawJingle  `toml:"jingles"`
	Schedule *rawSchedule `toml:"schedule,omitempty"`
	Sound    *rawSound    `toml:"sound,omitempty"`
}

type rawJingle struct {
	File   string  `toml:"file"`
	Name   string  `toml:"name"`
	Offset float64 `toml:"offset"`
	Anchor string  `toml:"anchor"`
}

type rawSchedule struct {
	FirstGame     string `toml:"first_game"`
	LastGame      string `toml:"last_game"`
	GameDuration  string `toml:"game_duration"`
	BreakDuration string `toml:"break_duration"`
}

type rawSound struct {
	Application     string  `toml:"application"`
	AppVolume       float64 `toml:"app_volume"`
	AppVolumeDucked float64 `toml:"app_volume_ducked"`
	JingleVolume    float64 `toml:"jingle_volume"`
}

// Load reads, validates and normalizes a configuration file. Every
// referenced audio file must exist.
func Load(path string) (*Config, error) {
	var raw rawConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := &Config{
		Schedule: DefaultSchedule(),
		Sound:    DefaultSound(),
	}

	dir := filepath.Dir(path)
	for i, rj := range raw.Jingles {
		if rj.File == "" {
			return nil, fmt.Errorf("jingle %d: missing file", i+1)
		}
		file := filepath.ToSlash(rj.File)
		resolved := file
		if !filepath.IsAbs(file) {
			resolved = filepath.Join(dir, file)
		}
		if _, err := os.Stat(resolved); err != nil {
			return nil, fmt.Errorf("jingle %q: %w", rj.File, err)
		}
		j := Jingle{
			File:   file,
			Path:   resolved,
			Name:   rj.Name,
			Offset: secondsToDuration(rj.Offset),
			Anchor: Anchor(rj.Anchor),
		}
		if j.Name == "" {
			j.Name = "Unnamed"
		}
		if j.Anchor == "" {
			j.Anchor = AnchorStart
		}
		if !j.Anchor.Valid() {
			return nil, fmt.Errorf("jingle %q: unknown anchor %q", j.Name, rj.Anchor)
		}
		cfg.Jingles = append(cfg.Jingles, j)
	}

	if raw.Schedule != nil {
		s, err := parseSchedule(raw.Schedule)
		if err != nil {
			return nil, fmt.Errorf("[schedule]: %w", err)
		}
		cfg.Schedule = s
	}
	if raw.Sound != nil {
		cfg.Sound = Sound{
			Application:     raw.Sound.Application,
			AppVolume:       clamp01(raw.Sound.AppVolume),
			AppVolumeDucked: clamp01(raw.Sound.AppVolumeDucked),
			JingleVolume:    clamp01(raw.Sound.JingleVolume),
		}
	}

	return cfg, nil
}

// Save writes the configuration back out. Paths are kept in forward-slash
// form and offsets are serialized as total seconds, so a load/save cycle
// reproduces equivalent data.
func Save(cfg *Config, path string) error {
	raw := rawConfig{
		Schedule: &rawSchedule{
			FirstGame:     cfg.Schedule.FirstGame.Format(DateTimeFormat),
			LastGame:      cfg.Schedule.LastGame.Format(DateTimeFormat),
			GameDuration:  FormatClockDuration(cfg.Schedule.GameDuration),
			BreakDuration: FormatClockDuration(cfg.Schedule.BreakDuration),
		},
		Sound: &rawSound{
			Application:     cfg.Sound.Application,
			AppVolume:       cfg.Sound.AppVolume,
			AppVolumeDucked: cfg.Sound.AppVolumeDucked,
			JingleVolume:    cfg.Sound.JingleVolume,
		},
	}
	for _, j := range cfg.Jingles {
		raw.Jingles = append(raw.Jingles, rawJingle{
			File:   filepath.ToSlash(j.File),
			Name:   j.Name,
			Offset: j.Offset.Seconds(),
			Anchor: string(j.Anchor),
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(raw); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

func parseSchedule(raw *rawSchedule) (Schedule, error) {
	s := DefaultSchedule()
	var err error
	if raw.FirstGame != "" {
		s.FirstGame, err = time.ParseInLocation(DateTimeFormat, raw.FirstGame, time.Local)
		if err != nil {
			return s, fmt.Errorf("first_game: %w", err)
		}
	}
	if raw.LastGame != "" {
		s.LastGame, err = time.ParseInLocation(DateTimeFormat, raw.LastGame, time.Local)
		if err != nil {
			return s, fmt.Errorf("last_game: %w", err)
		}
	}
	if raw.GameDuration != "" {
		s.GameDuration, err = ParseClockDuration(raw.GameDuration)
		if err != nil {
			return s, fmt.Errorf("game_duration: %w", err)
		}
	}
	if raw.BreakDuration != "" {
		s.BreakDuration, err = ParseClockDuration(raw.BreakDuration)
		if err != nil {
			return s, fmt.Errorf("break_duration: %w", err)
		}
	}
	return s, nil
}

// ParseClockDuration parses a HH:MM:SS string into a duration.
func ParseClockDuration(s string) (time.Duration, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("want HH:MM:SS, got %q", s)
	}
	if h < 0 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("out of range: %q", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

func FormatClockDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

/// FormatOffset renders a signed offset as ±HHh:MMm:SSs for display.
func FormatOffset(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%s%02dh:%02dm:%02ds", sign, h, m, s)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
