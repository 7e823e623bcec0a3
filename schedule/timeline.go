// Package schedule derives game and jingle firing times from the game grid
// and advances them with a polling ticker.
package schedule

import (
	"errors"
	"sort"
	"time"

	"jinglebox/config"
)

// Params describes the repeating game grid. Games start at FirstGame and
// repeat every Period() until LastGame.
type Params struct {
	FirstGame     time.Time
	LastGame      time.Time
	GameDuration  time.Duration
	BreakDuration time.Duration
}

func ParamsFromConfig(s config.Schedule) Params {
	return Params{
		FirstGame:     s.FirstGame,
		LastGame:      s.LastGame,
		GameDuration:  s.GameDuration,
		BreakDuration: s.BreakDuration,
	}
}

func (p Params) Period() time.Duration {
	return p.GameDuration + p.BreakDuration
}

var ErrZeroPeriod = errors.New("game duration plus break duration must be positive")

// Validate rejects parameter sets the generator cannot terminate on.
func (p Params) Validate() error {
	if p.GameDuration < 0 || p.BreakDuration < 0 {
		return errors.New("durations must not be negative")
	}
	if p.Period() <= 0 {
		return ErrZeroPeriod
	}
	return nil
}

// PlannedJingle is a jingle bound to an absolute firing time.
type PlannedJingle struct {
	File string
	Name string
	At   time.Time
}

// Games returns the upcoming game start times, descending, so the soonest
// game sits at the end of the slice. Instants before now and at or after
// LastGame are excluded. Callers must Validate first; a non-positive
// period would never terminate.
func Games(p Params, now time.Time) []time.Time {
	if !now.Before(p.LastGame) {
		return nil
	}

	start := p.FirstGame
	period := p.Period()
	for start.Before(now) {
		start = start.Add(period)
	}

	var games []time.Time
	for start.Before(p.LastGame) {
		games = append(games, start)
		start = start.Add(period)
	}

	for i, j := 0, len(games)-1; i < j; i, j = i+1, j-1 {
		games[i], games[j] = games[j], games[i]
	}
	return games
}

// NextGame reports the first grid instant at or after now. It is display
// information only: when the grid has run past LastGame the reported
// instant is not a stored game.
func NextGame(p Params, now time.Time) (time.Time, bool) {
	if !now.Before(p.LastGame) {
		return time.Time{}, false
	}
	start := p.FirstGame
	period := p.Period()
	for start.Before(now) {
		start = start.Add(period)
	}
	return start, true
}

// Jingles expands every (game, jingle) pair into an absolute firing time:
// the jingle's anchor point within the game plus its offset. Results at or
// before now are dropped. The output is descending by time; equal times
// keep their (game, jingle) enumeration order.
func Jingles(games []time.Time, gameDuration time.Duration, specs []config.Jingle, now time.Time) []PlannedJingle {
	var planned []PlannedJingle
	for _, game := range games {
		for _, spec := range specs {
			var anchor time.Time
			switch spec.Anchor {
			case config.AnchorHalf:
				anchor = game.Add(gameDuration / 2)
			case config.AnchorEnd:
				anchor = game.Add(gameDuration)
			default:
				anchor = game
			}
			at := anchor.Add(spec.Offset)
			if !at.After(now) {
				continue
			}
			planned = append(planned, PlannedJingle{
				File: spec.Path,
				Name: spec.Name,
				At:   at,
			})
		}
	}

	sort.SliceStable(planned, func(i, j int) bool {
		return planned[i].At.After(planned[j].At)
	})
	return planned
}
