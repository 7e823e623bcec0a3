//go:build !gui

package main

import "jinglebox/config"

func initGUI() {
	panic("jinglebox: built without GUI support (rebuild with -tags gui)")
}

func guiLoadSettings(cfg *config.Config, configPath string) {}
