package stack

import (
	"sync"

	"github.com/cardforge/rulesforge/internal/kernel/ids"
)

// PriorityTracker is the priority-pass state machine: priority starts with
// the active player and passes around the table; once every player has
// passed in succession without an intervening action, the top stack item
// resolves (or, if the stack is empty, the current step ends).
type PriorityTracker struct {
	mu           sync.Mutex
	activePlayer ids.PlayerSlot
	holder       ids.PlayerSlot
	passed       map[ids.PlayerSlot]bool
}

// NewPriorityTracker returns a tracker with priority held by the active
// player and nobody having passed yet.
func NewPriorityTracker(activePlayer ids.PlayerSlot) *PriorityTracker {
	return &PriorityTracker{
		activePlayer: activePlayer,
		holder:       activePlayer,
		passed:       make(map[ids.PlayerSlot]bool, 2),
	}
}

// Holder returns the player who currently holds priority.
func (t *PriorityTracker) Holder() ids.PlayerSlot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.holder
}

// Act records that the holder took an action (cast a spell, activated an
// ability, played a land). The holder keeps priority and every pass is
// forgotten, since a new state exists for players to react to.
func (t *PriorityTracker) Act() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.passed = make(map[ids.PlayerSlot]bool, 2)
}

// Pass records the current holder passing priority and moves priority to
// the next player. It returns true when this pass closes the round - every
// player has now passed in succession - meaning the caller should resolve
// the top of the stack (or, if empty, advance the step).
func (t *PriorityTracker) Pass() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.passed[t.holder] = true
	next := t.holder.Opponent()
	if t.passed[next] {
		t.holder = t.activePlayer
		t.passed = make(map[ids.PlayerSlot]bool, 2)
		return true
	}
	t.holder = next
	return false
}

// StartNewRound resets priority to activePlayer with nothing passed,
// called after a stack item resolves, a new step begins, or the active
// player changes (spec §4.7 step 5 "grant priority").
func (t *PriorityTracker) StartNewRound(activePlayer ids.PlayerSlot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activePlayer = activePlayer
	t.holder = activePlayer
	t.passed = make(map[ids.PlayerSlot]bool, 2)
}
