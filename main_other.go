//go:build !linux

package main

import (
	"os"
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	initCrashLog()

	// Check for -gui early, before flag.Parse in run(). The GUI owns the
	// main thread; the hotkey library gets it otherwise.
	for _, arg := range os.Args[1:] {
		if arg == "-gui" {
			initGUI()
			return
		}
	}
	mainthread.Init(run)
}
