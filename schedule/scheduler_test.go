package schedule

import (
	"testing"
	"time"

	"jinglebox/config"
)

func newTestScheduler(t *testing.T, now time.Time, specs []config.Jingle) *Scheduler {
	t.Helper()
	s, err := New(tournamentParams(), specs, now)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestTickPopsGame(t *testing.T) {
	s := newTestScheduler(t, at(8, 0), nil)
	before := s.GamesPending()

	events := s.Tick(at(9, 0).Add(time.Second))
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	g, ok := events[0].(GameStarted)
	if !ok {
		t.Fatalf("expected GameStarted, got %T", events[0])
	}
	if !g.At.Equal(at(9, 0)) {
		t.Errorf("game started at %v, want 09:00", g.At)
	}
	if s.GamesPending() != before-1 {
		t.Errorf("games pending = %d, want %d", s.GamesPending(), before-1)
	}

	next, ok := s.NextGameAt()
	if !ok || !next.Equal(at(9, 35)) {
		t.Errorf("next game = %v, %v; want 09:35", next, ok)
	}
}

func TestTickOnePopPerTick(t *testing.T) {
	specs := []config.Jingle{
		{Path: "a.wav", Name: "a", Anchor: config.AnchorStart},
		{Path: "b.wav", Name: "b", Anchor: config.AnchorStart, Offset: time.Second},
		{Path: "c.wav", Name: "c", Anchor: config.AnchorStart, Offset: 2 * time.Second},
	}
	s := newTestScheduler(t, at(8, 0), specs)

	// Jump the clock far past several due jingles: each tick fires
	// exactly one, soonest first, none skipped.
	late := at(9, 1)
	var fired []string
	for i := 0; i < 3; i++ {
		var jingles int
		for _, ev := range s.Tick(late) {
			if jd, ok := ev.(JingleDue); ok {
				jingles++
				fired = append(fired, jd.Jingle.Name)
			}
		}
		if jingles != 1 {
			t.Fatalf("tick %d fired %d jingles, want 1", i, jingles)
		}
	}
	if fired[0] != "a" || fired[1] != "b" || fired[2] != "c" {
		t.Errorf("fired order = %v, want [a b c]", fired)
	}
}

func TestTickIdempotentWhenNothingDue(t *testing.T) {
	specs := []config.Jingle{{Path: "a.wav", Name: "a", Anchor: config.AnchorStart}}
	s := newTestScheduler(t, at(8, 0), specs)

	games := s.GamesPending()
	jingles := len(s.Pending())
	now := at(8, 30)
	for i := 0; i < 10; i++ {
		if events := s.Tick(now); len(events) != 0 {
			t.Fatalf("tick %d emitted %d events with nothing due", i, len(events))
		}
	}
	if s.GamesPending() != games || len(s.Pending()) != jingles {
		t.Error("queues mutated by no-op ticks")
	}
}

func TestTickEntryAtNowNotPopped(t *testing.T) {
	s := newTestScheduler(t, at(8, 0), nil)
	// Strictly-after semantics: an entry exactly at now stays queued.
	if events := s.Tick(at(9, 0)); len(events) != 0 {
		t.Fatalf("entry at now popped: %d events", len(events))
	}
	if events := s.Tick(at(9, 0).Add(time.Millisecond)); len(events) != 1 {
		t.Fatalf("entry just past now not popped: %d events", len(events))
	}
}

func TestRecomputeDiscardsQueues(t *testing.T) {
	specs := []config.Jingle{{Path: "a.wav", Name: "a", Anchor: config.AnchorStart}}
	s := newTestScheduler(t, at(8, 0), specs)

	// Pop one game, then edit params: queues fully regenerate.
	s.Tick(at(9, 1))

	p := tournamentParams()
	p.BreakDuration = 15 * time.Minute
	if err := s.SetParams(p, at(9, 1)); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	next, ok := s.NextGameAt()
	if !ok || !next.Equal(at(9, 45)) {
		t.Errorf("next game after edit = %v, %v; want 09:45", next, ok)
	}
	nj, ok := s.NextJingle()
	if !ok || !nj.At.Equal(at(9, 45)) {
		t.Errorf("next jingle after edit = %v, %v; want 09:45", nj.At, ok)
	}
}

func TestSetParamsRejectsZeroPeriod(t *testing.T) {
	s := newTestScheduler(t, at(8, 0), nil)
	games := s.GamesPending()

	bad := Params{FirstGame: at(9, 0), LastGame: at(13, 0)}
	if err := s.SetParams(bad, at(8, 0)); err == nil {
		t.Fatal("expected error for zero period")
	}
	if s.GamesPending() != games {
		t.Error("queues changed after rejected params")
	}
}

func TestSetJinglesRecomputes(t *testing.T) {
	s := newTestScheduler(t, at(8, 0), nil)
	if _, ok := s.NextJingle(); ok {
		t.Fatal("expected no jingles initially")
	}

	specs := []config.Jingle{{Path: "a.wav", Name: "a", Anchor: config.AnchorEnd, Offset: -5 * time.Minute}}
	if err := s.SetJingles(specs, at(9, 10)); err != nil {
		t.Fatalf("SetJingles: %v", err)
	}
	nj, ok := s.NextJingle()
	if !ok {
		t.Fatal("expected a pending jingle")
	}
	// Soonest game 09:35, end anchor minus 5m → 10:00.
	if !nj.At.Equal(at(10, 0)) {
		t.Errorf("next jingle at %v, want 10:00", nj.At)
	}
}

func TestNoMoreGamesSentinel(t *testing.T) {
	specs := []config.Jingle{{Path: "a.wav", Name: "a", Anchor: config.AnchorStart}}
	s := newTestScheduler(t, at(8, 0), specs)

	// Drain everything by ticking past the last game.
	now := at(8, 0)
	for now.Before(at(13, 30)) {
		now = now.Add(time.Minute)
		s.Tick(now)
	}
	if s.GamesPending() != 0 {
		t.Fatalf("games still pending: %d", s.GamesPending())
	}
	if _, ok := s.NextGameAt(); ok {
		t.Error("expected no-more-games sentinel after draining")
	}
	if _, ok := s.NextJingle(); ok {
		t.Error("expected no-more-jingles sentinel after draining")
	}

	// Recompute after the schedule is over: degenerate empty schedule.
	if err := s.Recompute(at(14, 0)); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.NextGameAt(); ok {
		t.Error("expected no-more-games after the last game instant")
	}
}

func TestTickDrainsWholeDay(t *testing.T) {
	specs := []config.Jingle{
		{Path: "start.wav", Name: "start", Anchor: config.AnchorStart},
		{Path: "end.wav", Name: "end", Anchor: config.AnchorEnd},
	}
	s := newTestScheduler(t, at(8, 0), specs)

	wantGames := s.GamesPending()
	wantJingles := len(s.Pending())

	var games, jingles int
	for now := at(8, 0); now.Before(at(14, 30)); now = now.Add(500 * time.Millisecond) {
		for _, ev := range s.Tick(now) {
			switch ev.(type) {
			case GameStarted:
				games++
			case JingleDue:
				jingles++
			}
		}
	}
	if games != wantGames {
		t.Errorf("fired %d games, want %d", games, wantGames)
	}
	if jingles != wantJingles {
		t.Errorf("fired %d jingles, want %d", jingles, wantJingles)
	}
	if s.GamesPending() != 0 || len(s.Pending()) != 0 {
		t.Error("queues not drained")
	}
}
