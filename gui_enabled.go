//go:build gui

package main

import (
	"runtime"
	"time"

	"jinglebox/config"
	"jinglebox/gui"
	"jinglebox/log"
	"jinglebox/schedule"
)

var guiApp *gui.App

func initGUI() {
	guiMode = true
	runtime.LockOSThread()

	guiApp = gui.NewApp(guiCallbacks(), func() {
		run()
	})
	sink = guiApp
	if err := gui.Run(guiApp); err != nil {
		panic(err)
	}
}

func guiCallbacks() gui.Callbacks {
	return gui.Callbacks{
		ScheduleChanged: func(firstGame, lastGame, gameDuration, breakDuration string) {
			p, err := parseScheduleInput(firstGame, lastGame, gameDuration, breakDuration)
			if err != nil {
				log.Warnf("schedule input rejected: %v", err)
				return
			}
			select {
			case ctl.params <- p:
			default:
			}
		},
		ApplicationChanged: func(name string) {
			select {
			case ctl.application <- name:
			default:
			}
		},
		LevelsChanged: func(normal, ducked float64) {
			select {
			case ctl.levels <- [2]float64{normal, ducked}:
			default:
			}
		},
		JingleVolumeChanged: func(level float64) {
			select {
			case ctl.jingleVolume <- level:
			default:
			}
		},
		PlayJingle: func(path string) {
			select {
			case ctl.playFile <- path:
			default:
			}
		},
	}
}

func parseScheduleInput(firstGame, lastGame, gameDuration, breakDuration string) (schedule.Params, error) {
	var p schedule.Params
	var err error
	if p.FirstGame, err = time.ParseInLocation(config.DateTimeFormat, firstGame, time.Local); err != nil {
		return p, err
	}
	if p.LastGame, err = time.ParseInLocation(config.DateTimeFormat, lastGame, time.Local); err != nil {
		return p, err
	}
	if p.GameDuration, err = config.ParseClockDuration(gameDuration); err != nil {
		return p, err
	}
	if p.BreakDuration, err = config.ParseClockDuration(breakDuration); err != nil {
		return p, err
	}
	return p, p.Validate()
}

// guiLoadSettings pushes a freshly loaded configuration into the window.
func guiLoadSettings(cfg *config.Config, configPath string) {
	rows := make([]gui.JingleRow, 0, len(cfg.Jingles))
	for _, j := range cfg.Jingles {
		rows = append(rows, gui.JingleRow{
			Name:   j.Name,
			Offset: config.FormatOffset(j.Offset),
			Anchor: string(j.Anchor),
			Path:   j.Path,
		})
	}
	guiApp.LoadSettings(gui.Settings{
		ConfigPath:      configPath,
		FirstGame:       cfg.Schedule.FirstGame.Format(config.DateTimeFormat),
		LastGame:        cfg.Schedule.LastGame.Format(config.DateTimeFormat),
		GameDuration:    config.FormatClockDuration(cfg.Schedule.GameDuration),
		BreakDuration:   config.FormatClockDuration(cfg.Schedule.BreakDuration),
		Application:     cfg.Sound.Application,
		AppVolume:       cfg.Sound.AppVolume,
		AppVolumeDucked: cfg.Sound.AppVolumeDucked,
		JingleVolume:    cfg.Sound.JingleVolume,
		Jingles:         rows,
	})
}
