// Package doctor runs interactive system diagnostics: configuration,
// audio decoding, playback, mixer access, and the global hotkey.
package doctor

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"jinglebox/config"
	"jinglebox/hotkey"
	"jinglebox/mixer"
	"jinglebox/player"
)

// Run executes the diagnostic checks and returns an exit code
// (0=all pass, 1=any fail).
func Run(configPath string) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("jinglebox doctor - system diagnostics")
	fmt.Println("=====================================")

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if !interactive {
		fmt.Println("(stdin is not a terminal; skipping interactive checks)")
	}

	allPass := true

	cfg := checkConfig(configPath, &allPass)
	if cfg != nil {
		checkJingles(cfg, &allPass)
	}
	checkMixer(cfg, &allPass)
	if cfg != nil && interactive {
		checkPlayback(cfg, &allPass)
	}
	checkHotkey(interactive, &allPass)

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkConfig(path string, allPass *bool) *config.Config {
	fmt.Println()
	fmt.Println("[1/5] Configuration")

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		*allPass = false
		return nil
	}

	fmt.Printf("  PASS: %s loads, %d jingle(s)\n", path, len(cfg.Jingles))
	fmt.Printf("  first game %s, last game %s, game %s, break %s\n",
		cfg.Schedule.FirstGame.Format(config.DateTimeFormat),
		cfg.Schedule.LastGame.Format(config.DateTimeFormat),
		config.FormatClockDuration(cfg.Schedule.GameDuration),
		config.FormatClockDuration(cfg.Schedule.BreakDuration))
	return cfg
}

func checkJingles(cfg *config.Config, allPass *bool) {
	fmt.Println()
	fmt.Println("[2/5] Jingle audio files")

	if len(cfg.Jingles) == 0 {
		fmt.Println("  Warning: no jingles configured")
		return
	}

	ok := true
	for _, j := range cfg.Jingles {
		clip, err := player.Decode(j.Path)
		if err != nil {
			fmt.Printf("  FAIL: %s: %v\n", j.File, err)
			ok = false
			continue
		}
		fmt.Printf("  %s: %s, %d Hz, %s\n",
			j.Name, j.File, clip.SampleRate, clip.Duration().Round(time.Millisecond))
	}
	if ok {
		fmt.Println("  PASS: all jingles decode")
	} else {
		*allPass = false
	}
}

func checkMixer(cfg *config.Config, allPass *bool) {
	fmt.Println()
	fmt.Println("[3/5] Application volume control")

	m, err := mixer.New()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to sound server: %v\n", err)
		*allPass = false
		return
	}
	defer m.Close()
	fmt.Println("  PASS: connected to sound server")

	if cfg == nil {
		return
	}
	app := cfg.Sound.Application
	prev, err := m.SetVolume(app, cfg.Sound.AppVolume)
	if errors.Is(err, mixer.ErrNotFound) {
		fmt.Printf("  Warning: no playing stream matches %q (is it running?)\n", app)
		return
	}
	if err != nil {
		fmt.Printf("  FAIL: volume change failed: %v\n", err)
		*allPass = false
		return
	}
	// Put it back the way we found it.
	m.SetVolume(app, prev)
	fmt.Printf("  PASS: %q found, volume was %.2f\n", app, prev)
}

func checkPlayback(cfg *config.Config, allPass *bool) {
	fmt.Println()
	fmt.Println("[4/5] Playback")

	if len(cfg.Jingles) == 0 {
		fmt.Println("  Skipped: no jingles configured")
		return
	}

	j := cfg.Jingles[0]
	done := make(chan struct{}, 1)
	p, err := player.New(func() {
		select {
		case done <- struct{}{}:
		default:
		}
	})
	if err != nil {
		fmt.Printf("  FAIL: cannot open playback device: %v\n", err)
		*allPass = false
		return
	}
	defer p.Close()
	p.SetVolume(cfg.Sound.JingleVolume)

	fmt.Printf("  Playing %s...\n", j.Name)
	if err := p.Play(j.Path); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		*allPass = false
		return
	}
	select {
	case <-done:
	case <-time.After(player.Duration(j.Path) + 5*time.Second):
		fmt.Println("  FAIL: playback did not finish")
		*allPass = false
		return
	}

	if confirm("Did you hear it?") {
		fmt.Println("  PASS: playback verified by user")
	} else {
		fmt.Println("  FAIL: playback not confirmed")
		*allPass = false
	}
}

func checkHotkey(interactive bool, allPass *bool) {
	fmt.Println()
	fmt.Println("[5/5] Global hotkey")

	desc, err := hotkey.Diagnose()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		*allPass = false
		return
	}
	fmt.Printf("  %s\n", desc)

	if !interactive {
		return
	}

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		fmt.Printf("  FAIL: could not register hotkey: %v\n", err)
		*allPass = false
		return
	}
	defer hk.Unregister()

	fmt.Println("  Press Ctrl+Shift+J within 10 seconds...")
	select {
	case <-hk.Pressed():
		resetTerminal()
		fmt.Println("  PASS: hotkey detected")
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		*allPass = false
	}
}

func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/n]: ", prompt)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
