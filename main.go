package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"jinglebox/config"
	"jinglebox/doctor"
	"jinglebox/ducker"
	"jinglebox/hotkey"
	"jinglebox/log"
	"jinglebox/mixer"
	"jinglebox/player"
	"jinglebox/schedule"
)

var version = "dev"

const tickInterval = 500 * time.Millisecond

const (
	noMoreGames   = "no more games are planned"
	noMoreJingles = "no more jingles are planned"
)

var guiMode bool

// EventSink is what a display surface (GUI window or TUI) consumes.
type EventSink interface {
	SetNextGame(text string)
	SetNextJingle(text string)
	JinglePlayed(name string)
	AppendLog(line string)
}

var sink EventSink

// controls carries UI edits onto the run loop, which is the only
// goroutine allowed to touch the scheduler.
type controls struct {
	params       chan schedule.Params
	application  chan string
	levels       chan [2]float64
	jingleVolume chan float64
	playFile     chan string   // play a specific jingle now
	fireNext     chan struct{} // play the soonest pending jingle now
	copyPlan     chan struct{}
	quit         chan struct{}
}

func newControls() *controls {
	return &controls{
		params:       make(chan schedule.Params, 4),
		application:  make(chan string, 4),
		levels:       make(chan [2]float64, 4),
		jingleVolume: make(chan float64, 4),
		playFile:     make(chan string, 4),
		fireNext:     make(chan struct{}, 1),
		copyPlan:     make(chan struct{}, 1),
		quit:         make(chan struct{}, 1),
	}
}

var ctl = newControls()

func run() {
	guiFlag := flag.Bool("gui", false, "Run with the graphical window (requires a gui build)")
	tuiFlag := flag.Bool("tui", true, "Run with the terminal UI")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	flag.Parse()
	_ = guiFlag // handled before flag.Parse by main()

	if *versionFlag {
		fmt.Printf("jinglebox %s\n", version)
		os.Exit(0)
	}

	configPath := "jingles.example.toml"
	if args := flag.Args(); len(args) > 0 {
		configPath = args[0]
	}

	if *doctorFlag {
		os.Exit(doctor.Run(configPath))
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()
	log.Subscribe(func(line string) {
		if sink != nil {
			sink.AppendLog(line)
		}
	})

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", configPath, err)
		os.Exit(1)
	}

	params := schedule.ParamsFromConfig(cfg.Schedule)
	if err := params.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in %s: %v\n", configPath, err)
		os.Exit(1)
	}

	mx, err := mixer.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: application volume control unavailable: %v\n", err)
		mx = mixer.NewFake(nil)
	}
	defer mx.Close()

	var duck *ducker.Ducker
	pl, err := player.New(func() { duck.PlaybackFinished() })
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing audio playback: %v\n", err)
		os.Exit(1)
	}
	defer pl.Close()

	duck = ducker.New(pl, mx, cfg.Sound.Application, cfg.Sound.AppVolume, cfg.Sound.AppVolumeDucked)
	duck.SetJingleVolume(cfg.Sound.JingleVolume)

	sched, err := schedule.New(params, cfg.Jingles, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		log.Warnf("global hotkey unavailable: %v", err)
	} else {
		defer hk.Unregister()
	}

	reload := watchConfig(configPath)

	if !guiMode && *tuiFlag {
		startTUI()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if guiMode {
		guiLoadSettings(cfg, configPath)
	}

	log.Infof("jinglebox %s started with %d jingles from %s", version, len(cfg.Jingles), configPath)
	pushScheduleInfo(sched)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			for _, ev := range sched.Tick(now) {
				switch ev := ev.(type) {
				case schedule.GameStarted:
					log.Debugf("entered a new game (started %s)", ev.At.Format(config.DateTimeFormat))
				case schedule.JingleDue:
					log.JinglePlayed(ev.Jingle.Name, ev.Jingle.File, ev.Jingle.At.Format(config.DateTimeFormat))
					duck.PlayJingle(ev.Jingle.File)
					if sink != nil {
						sink.JinglePlayed(ev.Jingle.Name)
					}
				}
			}
			pushScheduleInfo(sched)

		case p := <-ctl.params:
			log.Debugf("game settings changed, recomputing schedule")
			if err := sched.SetParams(p, time.Now()); err != nil {
				log.Errorf("rejected game settings: %v", err)
				continue
			}
			pushScheduleInfo(sched)

		case app := <-ctl.application:
			duck.SetApplication(app)

		case lv := <-ctl.levels:
			duck.SetLevels(lv[0], lv[1])

		case v := <-ctl.jingleVolume:
			duck.SetJingleVolume(v)

		case file := <-ctl.playFile:
			log.Infof("manual play: %s", file)
			duck.PlayJingle(file)

		case <-ctl.fireNext:
			if nj, ok := sched.NextJingle(); ok {
				log.Infof("manual fire: %s", nj.Name)
				duck.PlayJingle(nj.File)
				if sink != nil {
					sink.JinglePlayed(nj.Name)
				}
			} else {
				log.Warn(noMoreJingles)
			}

		case <-ctl.copyPlan:
			copySchedule(sched)

		case <-hk.Pressed():
			select {
			case ctl.fireNext <- struct{}{}:
			default:
			}

		case <-reload:
			newCfg, err := config.Load(configPath)
			if err != nil {
				log.Warnf("config reload failed: %v", err)
				continue
			}
			cfg = newCfg
			if err := sched.SetJingles(cfg.Jingles, time.Now()); err != nil {
				log.Errorf("config reload: %v", err)
				continue
			}
			if guiMode {
				guiLoadSettings(cfg, configPath)
			}
			log.Infof("reloaded %d jingles from %s", len(cfg.Jingles), configPath)
			pushScheduleInfo(sched)

		case <-ctl.quit:
			return

		case <-sigChan:
			return
		}
	}
}

// pushScheduleInfo refreshes the next-game / next-jingle display.
func pushScheduleInfo(sched *schedule.Scheduler) {
	if sink == nil {
		return
	}
	if at, ok := sched.NextGameAt(); ok {
		sink.SetNextGame(at.Format(config.DateTimeFormat))
	} else {
		sink.SetNextGame(noMoreGames)
	}
	if nj, ok := sched.NextJingle(); ok {
		sink.SetNextJingle(fmt.Sprintf("%s (%s)", nj.At.Format(config.DateTimeFormat), nj.Name))
	} else {
		sink.SetNextJingle(noMoreJingles)
	}
}

// watchConfig delivers a debounced signal whenever the configuration file
// changes on disk. Editors typically replace the file, so the watch is on
// the directory.
func watchConfig(path string) <-chan struct{} {
	out := make(chan struct{}, 1)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warnf("config watch unavailable: %v", err)
		return out
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		log.Warnf("config watch unavailable: %v", err)
		watcher.Close()
		return out
	}

	go func() {
		var debounce *time.Timer
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(200*time.Millisecond, func() {
					select {
					case out <- struct{}{}:
					default:
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("config watch: %v", err)
			}
		}
	}()

	return out
}
