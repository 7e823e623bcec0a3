//go:build gui

package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const logPaneLines = 12

// Settings seeds the window with the configuration the run loop loaded.
// All times and durations arrive pre-formatted; the window never parses.
type Settings struct {
	ConfigPath      string
	FirstGame       string
	LastGame        string
	GameDuration    string
	BreakDuration   string
	Application     string
	AppVolume       float64
	AppVolumeDucked float64
	JingleVolume    float64
	Jingles         []JingleRow
}

// JingleRow is one configured jingle for display, with the resolved audio
// path the play button fires.
type JingleRow struct {
	Name   string
	Offset string
	Anchor string
	Path   string
}

// Callbacks carries UI edits back to the run loop. Funcs must be non-nil
// and must not block; they run on the Fyne event thread.
type Callbacks struct {
	ScheduleChanged     func(firstGame, lastGame, gameDuration, breakDuration string)
	ApplicationChanged  func(name string)
	LevelsChanged       func(normal, ducked float64)
	JingleVolumeChanged func(level float64)
	PlayJingle          func(path string)
}

type App struct {
	fyneApp fyne.App
	window  fyne.Window
	cb      Callbacks
	onReady func()

	nextGame   *widget.Label
	nextJingle *widget.Label
	lastPlayed *widget.Label
	logView    *widget.Label
	logLines   []string

	firstGame *widget.Entry
	lastGame  *widget.Entry
	gameDur   *widget.Entry
	breakDur  *widget.Entry
	appName   *widget.Entry
	normalVol *widget.Slider
	duckedVol *widget.Slider
	jingleVol *widget.Slider

	jingleBox *fyne.Container
}

func NewApp(cb Callbacks, onReady func()) *App {
	return &App{cb: cb, onReady: onReady}
}

func Run(a *App) error {
	a.fyneApp = app.NewWithID("io.jinglebox.gui")
	a.fyneApp.Settings().SetTheme(&darkTheme{})
	a.window = a.fyneApp.NewWindow("jinglebox")

	a.nextGame = widget.NewLabel("-")
	a.nextJingle = widget.NewLabel("-")
	a.lastPlayed = widget.NewLabel("-")
	a.logView = widget.NewLabel("")
	a.logView.TextStyle = fyne.TextStyle{Monospace: true}

	a.firstGame = widget.NewEntry()
	a.lastGame = widget.NewEntry()
	a.gameDur = widget.NewEntry()
	a.breakDur = widget.NewEntry()
	apply := func(string) { a.submitSchedule() }
	a.firstGame.OnSubmitted = apply
	a.lastGame.OnSubmitted = apply
	a.gameDur.OnSubmitted = apply
	a.breakDur.OnSubmitted = apply

	a.appName = widget.NewEntry()
	a.appName.OnSubmitted = func(name string) {
		a.cb.ApplicationChanged(name)
	}

	a.normalVol = widget.NewSlider(0, 1)
	a.normalVol.Step = 0.01
	a.duckedVol = widget.NewSlider(0, 1)
	a.duckedVol.Step = 0.01
	levels := func(float64) {
		a.cb.LevelsChanged(a.normalVol.Value, a.duckedVol.Value)
	}
	a.normalVol.OnChanged = levels
	a.duckedVol.OnChanged = levels

	a.jingleVol = widget.NewSlider(0, 1)
	a.jingleVol.Step = 0.01
	a.jingleVol.OnChanged = func(v float64) {
		a.cb.JingleVolumeChanged(v)
	}

	a.jingleBox = container.NewVBox()

	scheduleForm := widget.NewForm(
		widget.NewFormItem("First game", a.firstGame),
		widget.NewFormItem("Last game", a.lastGame),
		widget.NewFormItem("Game duration", a.gameDur),
		widget.NewFormItem("Break duration", a.breakDur),
	)
	applyBtn := widget.NewButton("Apply schedule", func() { a.submitSchedule() })

	soundForm := widget.NewForm(
		widget.NewFormItem("Application", a.appName),
		widget.NewFormItem("Normal volume", a.normalVol),
		widget.NewFormItem("Ducked volume", a.duckedVol),
		widget.NewFormItem("Jingle volume", a.jingleVol),
	)

	status := widget.NewForm(
		widget.NewFormItem("Next game", a.nextGame),
		widget.NewFormItem("Next jingle", a.nextJingle),
		widget.NewFormItem("Last played", a.lastPlayed),
	)

	left := container.NewVBox(
		widget.NewCard("Schedule", "", container.NewVBox(scheduleForm, applyBtn)),
		widget.NewCard("Sound", "", soundForm),
	)
	right := container.NewVBox(
		widget.NewCard("Status", "", status),
		widget.NewCard("Jingles", "", container.NewVScroll(a.jingleBox)),
	)

	content := container.NewBorder(
		nil,
		widget.NewCard("Log", "", container.NewVScroll(a.logView)),
		nil, nil,
		container.NewGridWithColumns(2, left, right),
	)

	a.window.SetContent(content)
	a.window.Resize(fyne.NewSize(860, 640))
	a.window.Show()

	go a.onReady()

	a.fyneApp.Run()
	return nil
}

func (a *App) submitSchedule() {
	a.cb.ScheduleChanged(a.firstGame.Text, a.lastGame.Text, a.gameDur.Text, a.breakDur.Text)
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		a.fyneApp.Quit()
	}
}

// LoadSettings fills every input from a freshly loaded configuration and
// rebuilds the jingle rows.
func (a *App) LoadSettings(s Settings) {
	fyne.Do(func() {
		a.window.SetTitle("jinglebox - " + s.ConfigPath)
		a.firstGame.SetText(s.FirstGame)
		a.lastGame.SetText(s.LastGame)
		a.gameDur.SetText(s.GameDuration)
		a.breakDur.SetText(s.BreakDuration)
		a.appName.SetText(s.Application)
		a.normalVol.SetValue(s.AppVolume)
		a.duckedVol.SetValue(s.AppVolumeDucked)
		a.jingleVol.SetValue(s.JingleVolume)

		a.jingleBox.RemoveAll()
		for _, row := range s.Jingles {
			path := row.Path
			label := widget.NewLabel(row.Name + "  " + row.Anchor + " " + row.Offset)
			play := widget.NewButton("Play", func() {
				a.cb.PlayJingle(path)
			})
			a.jingleBox.Add(container.NewBorder(nil, nil, nil, play, label))
		}
		a.jingleBox.Refresh()
	})
}

// EventSink implementation; called from the run loop goroutine.

func (a *App) SetNextGame(text string) {
	fyne.Do(func() { a.nextGame.SetText(text) })
}

func (a *App) SetNextJingle(text string) {
	fyne.Do(func() { a.nextJingle.SetText(text) })
}

func (a *App) JinglePlayed(name string) {
	fyne.Do(func() { a.lastPlayed.SetText(name) })
}

func (a *App) AppendLog(line string) {
	fyne.Do(func() {
		a.logLines = append(a.logLines, line)
		if len(a.logLines) > logPaneLines {
			a.logLines = a.logLines[len(a.logLines)-logPaneLines:]
		}
		a.logView.SetText(strings.Join(a.logLines, "\n"))
	})
}
