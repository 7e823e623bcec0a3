//go:build linux

package main

import "os"

func main() {
	initCrashLog()

	for _, arg := range os.Args[1:] {
		if arg == "-gui" {
			initGUI()
			return
		}
	}
	run()
}
