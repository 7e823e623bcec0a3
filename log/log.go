// Package log writes structured diagnostics to a file and fans formatted
// lines out to subscribed display surfaces (the GUI log pane, the TUI).
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	logReady bool
	dir      string

	subMu sync.Mutex
	subs  []func(line string)
)

func ResolveDir(flagPath string) (string, error) {
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	envPath := os.Getenv("JINGLEBOX_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

// subscriberWriter forwards every formatted log line to the subscribers.
// It sits behind the ConsoleWriter so subscribers see the same text that
// lands in the file.
type subscriberWriter struct{}

func (subscriberWriter) Write(p []byte) (int, error) {
	line := string(p)
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	subMu.Lock()
	for _, fn := range subs {
		fn(line)
	}
	subMu.Unlock()
	return len(p), nil
}

// Subscribe registers a sink for formatted log lines. Sinks must not
// block; they are called inline from the logging path.
func Subscribe(fn func(line string)) {
	subMu.Lock()
	subs = append(subs, fn)
	subMu.Unlock()
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	var err error
	diagPath := filepath.Join(dir, "jinglebox_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        io.MultiWriter(diagFile, subscriberWriter{}),
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", os.Getpid()).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Debugf(format string, args ...any) {
	if logReady {
		diagLog.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

// JinglePlayed records a dispatched jingle with its planned firing time.
func JinglePlayed(name, file string, plannedAt string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("name", name).
		Str("file", file).
		Str("planned_at", plannedAt).
		Msg("jingle_played")
}

// DuckChange records a ducking state transition and the level applied.
func DuckChange(state string, app string, level float64) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("state", state).
		Str("app", app).
		Float64("level", level).
		Msg("duck_change")
}
