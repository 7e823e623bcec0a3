// Package hotkey delivers the global "fire next jingle" key chord
// (Ctrl+Shift+J) without requiring window focus.
package hotkey

type Hotkey interface {
	Register() error
	Unregister()
	// Pressed delivers one value per completed chord press.
	Pressed() <-chan struct{}
}
