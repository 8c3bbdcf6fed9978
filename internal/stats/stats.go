// Package stats tracks per-session blackjack outcomes.
package stats

import (
	"fmt"
	"time"

	"github.com/coder/quartz"
)

// Outcome classifies how a hand ended
type Outcome int

const (
	Won Outcome = iota
	Lost
	Pushed
	BlackjackWin
)

func (o Outcome) String() string {
	return [...]string{"won", "lost", "pushed", "blackjack"}[o]
}

// Tracker accumulates hand outcomes and chip movement for one session.
// The clock is injected so tests can control durations.
type Tracker struct {
	clock quartz.Clock

	sessionStart time.Time
	handStart    time.Time

	HandsPlayed int
	HandsWon    int
	HandsLost   int
	HandsPushed int
	Blackjacks  int
	NetChips    int
	longestHand time.Duration
}

// NewTracker creates a tracker and marks the session start
func NewTracker(clock quartz.Clock) *Tracker {
	return &Tracker{
		clock:        clock,
		sessionStart: clock.Now(),
	}
}

// HandStarted marks the beginning of a hand
func (t *Tracker) HandStarted() {
	t.handStart = t.clock.Now()
}

// HandFinished records the hand's outcome and net chip delta
func (t *Tracker) HandFinished(outcome Outcome, netChips int) {
	t.HandsPlayed++
	t.NetChips += netChips

	switch outcome {
	case Won:
		t.HandsWon++
	case Lost:
		t.HandsLost++
	case Pushed:
		t.HandsPushed++
	case BlackjackWin:
		t.HandsWon++
		t.Blackjacks++
	}

	if d := t.clock.Since(t.handStart); d > t.longestHand {
		t.longestHand = d
	}
}

// SessionDuration returns how long the session has been running
func (t *Tracker) SessionDuration() time.Duration {
	return t.clock.Since(t.sessionStart)
}

// LongestHand returns the duration of the slowest hand so far
func (t *Tracker) LongestHand() time.Duration {
	return t.longestHand
}

// Summary renders the tracker as user-facing output lines
func (t *Tracker) Summary() []string {
	return []string{
		fmt.Sprintf("Hands played: %d (won %d, lost %d, pushed %d)", t.HandsPlayed, t.HandsWon, t.HandsLost, t.HandsPushed),
		fmt.Sprintf("Blackjacks: %d", t.Blackjacks),
		fmt.Sprintf("Net chips: %+d", t.NetChips),
		fmt.Sprintf("Session time: %s", t.SessionDuration().Round(time.Second)),
	}
}
