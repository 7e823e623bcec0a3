package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jinglebox/config"
	"jinglebox/log"
	"jinglebox/schedule"
)

// TUI message types
type NextGameMsg struct{ Text string }
type NextJingleMsg struct{ Text string }
type JinglePlayedMsg struct{ Name string }
type LogMsg struct{ Text string }
type CopiedMsg struct{}
type tickMsg time.Time

const logTailLines = 10

type tuiModel struct {
	nextGame      string
	nextJingle    string
	lastPlayed    string
	lastPlayedAt  time.Time
	copiedAt      time.Time
	logTail       []string
	width, height int
}

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var (
	tuiTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	tuiLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	tuiPlayedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	tuiLogStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	tuiHelpKey     = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
)

func NewTUIProgram() *tea.Program {
	m := tuiModel{nextGame: noMoreGames, nextJingle: noMoreJingles}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			select {
			case ctl.quit <- struct{}{}:
			default:
			}
			return m, tea.Quit
		case "j":
			select {
			case ctl.fireNext <- struct{}{}:
			default:
			}
		case "c":
			select {
			case ctl.copyPlan <- struct{}{}:
			default:
			}
		}

	case tickMsg:
		return m, tuiTick()

	case NextGameMsg:
		m.nextGame = msg.Text

	case NextJingleMsg:
		m.nextJingle = msg.Text

	case JinglePlayedMsg:
		m.lastPlayed = msg.Name
		m.lastPlayedAt = time.Now()

	case CopiedMsg:
		m.copiedAt = time.Now()

	case LogMsg:
		m.logTail = append(m.logTail, msg.Text)
		if len(m.logTail) > logTailLines {
			m.logTail = m.logTail[len(m.logTail)-logTailLines:]
		}
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(tuiTitleStyle.Render("jinglebox "+version) + "\n\n")

	b.WriteString(tuiLabelStyle.Render("next game:   "))
	b.WriteString(tuiValueStyle.Render(withCountdown(m.nextGame)) + "\n")

	b.WriteString(tuiLabelStyle.Render("next jingle: "))
	b.WriteString(tuiValueStyle.Render(withCountdown(m.nextJingle)) + "\n")

	if m.lastPlayed != "" {
		b.WriteString(tuiLabelStyle.Render("last played: "))
		b.WriteString(tuiPlayedStyle.Render(fmt.Sprintf("%s at %s", m.lastPlayed, m.lastPlayedAt.Format("15:04:05"))) + "\n")
	}

	if !m.copiedAt.IsZero() && time.Since(m.copiedAt) < 3*time.Second {
		b.WriteString(tuiPlayedStyle.Render("[schedule copied]") + "\n")
	}

	if len(m.logTail) > 0 {
		b.WriteString("\n")
		for _, line := range m.logTail {
			if m.width > 2 && len(line) > m.width-2 {
				line = line[:m.width-2]
			}
			b.WriteString(tuiLogStyle.Render(line) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(tuiHelpKey.Render("j") + tuiHelpStyle.Render(" play next jingle  "))
	b.WriteString(tuiHelpKey.Render("c") + tuiHelpStyle.Render(" copy schedule  "))
	b.WriteString(tuiHelpKey.Render("q") + tuiHelpStyle.Render(" quit"))

	return b.String()
}

// withCountdown appends "in 4m30s" when text starts with a schedule
// timestamp; sentinel texts pass through unchanged.
func withCountdown(text string) string {
	stamp := text
	if i := strings.IndexByte(text, '('); i > 0 {
		stamp = strings.TrimSpace(text[:i])
	}
	at, err := time.ParseInLocation(config.DateTimeFormat, stamp, time.Local)
	if err != nil {
		return text
	}
	d := time.Until(at).Round(time.Second)
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%s  in %s", text, d)
}

// tuiSink adapts the bubbletea program to the run loop's display surface.
type tuiSink struct{}

func (tuiSink) SetNextGame(text string)   { tuiSend(NextGameMsg{Text: text}) }
func (tuiSink) SetNextJingle(text string) { tuiSend(NextJingleMsg{Text: text}) }
func (tuiSink) JinglePlayed(name string)  { tuiSend(JinglePlayedMsg{Name: name}) }
func (tuiSink) AppendLog(line string)     { tuiSend(LogMsg{Text: line}) }

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}

// copySchedule puts the pending jingle plan on the system clipboard as
// plain text, soonest first.
func copySchedule(sched *schedule.Scheduler) {
	pending := sched.Pending()
	var b strings.Builder
	if at, ok := sched.NextGameAt(); ok {
		fmt.Fprintf(&b, "next game: %s\n", at.Format(config.DateTimeFormat))
	}
	if len(pending) == 0 {
		b.WriteString(noMoreJingles + "\n")
	}
	for _, j := range pending {
		fmt.Fprintf(&b, "%s  %s\n", j.At.Format(config.DateTimeFormat), j.Name)
	}
	if err := clipboard.WriteAll(b.String()); err != nil {
		log.Warnf("clipboard copy failed: %v", err)
		return
	}
	log.Infof("copied %d pending jingles to clipboard", len(pending))
	tuiSend(CopiedMsg{})
}

func startTUI() {
	p := NewTUIProgram()
	tuiMu.Lock()
	tuiProgram = p
	tuiMu.Unlock()
	sink = tuiSink{}

	go func() {
		defer func() {
			tuiMu.Lock()
			tuiProgram = nil
			tuiMu.Unlock()
		}()
		if _, err := p.Run(); err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		select {
		case ctl.quit <- struct{}{}:
		default:
		}
	}()
}
