package main

import (
	"os"
	"path/filepath"
	"runtime/debug"

	"jinglebox/log"
)

// initCrashLog routes fatal runtime crashes to a file next to the regular
// log, so a panic inside a GUI or audio callback is not lost when the
// process runs detached from a terminal.
func initCrashLog() {
	dir, err := log.ResolveDir("")
	if err != nil {
		return
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "jinglebox_crash.txt"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	debug.SetCrashOutput(f, debug.CrashOptions{})
}
