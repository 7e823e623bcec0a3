package schedule

import (
	"time"

	"jinglebox/config"
	"jinglebox/log"
)

// Event is emitted by Tick when a queue entry comes due.
type Event interface{ event() }

// GameStarted signals that the clock passed a game start. Advisory only;
// nothing branches on it except the next-game display.
type GameStarted struct {
	At time.Time
}

// JingleDue signals that a jingle should be played now.
type JingleDue struct {
	Jingle PlannedJingle
}

func (GameStarted) event() {}
func (JingleDue) event()   {}

// Scheduler owns the two descending queues and is the only mutator of
// them. It is not safe for concurrent use; the run loop is the single
// caller.
type Scheduler struct {
	params Params
	specs  []config.Jingle

	games   []time.Time
	jingles []PlannedJingle

	// nextGame is the display-only upcoming game from the last recompute,
	// kept even when it falls past LastGame and is therefore not queued.
	nextGame    time.Time
	hasNextGame bool
}

func New(params Params, specs []config.Jingle, now time.Time) (*Scheduler, error) {
	s := &Scheduler{params: params, specs: specs}
	if err := s.Recompute(now); err != nil {
		return nil, err
	}
	return s, nil
}

// SetParams replaces the game grid and regenerates both queues from now.
// On invalid parameters the previous queues are kept untouched.
func (s *Scheduler) SetParams(params Params, now time.Time) error {
	if err := params.Validate(); err != nil {
		return err
	}
	s.params = params
	return s.Recompute(now)
}

// SetJingles replaces the jingle specs and regenerates both queues.
func (s *Scheduler) SetJingles(specs []config.Jingle, now time.Time) error {
	s.specs = specs
	return s.Recompute(now)
}

// Recompute discards both queues and regenerates them from the current
// parameters. There is no incremental diffing; a recompute after any edit
// is the whole contract.
func (s *Scheduler) Recompute(now time.Time) error {
	if err := s.params.Validate(); err != nil {
		return err
	}
	s.games = Games(s.params, now)
	s.jingles = Jingles(s.games, s.params.GameDuration, s.specs, now)
	s.nextGame, s.hasNextGame = NextGame(s.params, now)
	log.Debugf("recomputed schedule: %d games, %d jingles pending", len(s.games), len(s.jingles))
	return nil
}

// Tick pops at most one due game and one due jingle. Overdue entries
// beyond those fire on subsequent ticks; at the 500ms cadence they are
// delayed, never skipped. A tick with nothing due changes nothing.
func (s *Scheduler) Tick(now time.Time) []Event {
	var events []Event

	if n := len(s.games); n > 0 && now.After(s.games[n-1]) {
		game := s.games[n-1]
		s.games = s.games[:n-1]
		if n := len(s.games); n > 0 {
			s.nextGame, s.hasNextGame = s.games[n-1], true
		} else {
			s.hasNextGame = false
		}
		events = append(events, GameStarted{At: game})
	}

	if n := len(s.jingles); n > 0 && now.After(s.jingles[n-1].At) {
		j := s.jingles[n-1]
		s.jingles = s.jingles[:n-1]
		events = append(events, JingleDue{Jingle: j})
	}

	return events
}

// NextGameAt reports the upcoming game start for display, false when no
// more games are planned.
func (s *Scheduler) NextGameAt() (time.Time, bool) {
	return s.nextGame, s.hasNextGame
}

// NextJingle reports the soonest pending jingle, false when none remain.
func (s *Scheduler) NextJingle() (PlannedJingle, bool) {
	if len(s.jingles) == 0 {
		return PlannedJingle{}, false
	}
	return s.jingles[len(s.jingles)-1], true
}

// Pending reports the queued jingles soonest-first, for display surfaces.
func (s *Scheduler) Pending() []PlannedJingle {
	out := make([]PlannedJingle, 0, len(s.jingles))
	for i := len(s.jingles) - 1; i >= 0; i-- {
		out = append(out, s.jingles[i])
	}
	return out
}

// GamesPending reports how many game starts remain queued.
func (s *Scheduler) GamesPending() int { return len(s.games) }
