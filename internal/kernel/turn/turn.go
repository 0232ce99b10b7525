// Package turn implements the turn/phase/step engine from spec §4
// component 7, grounded on the teacher's rules.TurnManager but carrying
// the conditional first-strike step spec §9's Open Question resolves
// (SPEC_FULL.md §3(e)): the step exists in the fixed sequence but is
// skipped entirely unless something in the current combat has first
// strike or double strike.
package turn

import (
	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/stack"
)

type entry struct {
	phase ids.Phase
	step  ids.Step
}

// stepMain1/stepMain2 exist because the teacher's turnSequence conflated
// "step" with "phase has exactly one step"; main phases use a dedicated
// step value distinct from the beginning phase's steps.
const (
	stepMain1 = ids.Step(100)
	stepMain2 = ids.Step(101)
)

var sequence = []entry{
	{ids.PhaseBeginning, ids.StepUntap},
	{ids.PhaseBeginning, ids.StepUpkeep},
	{ids.PhaseBeginning, ids.StepDraw},
	{ids.PhaseMain1, stepMain1},
	{ids.PhaseCombat, ids.StepBeginCombat},
	{ids.PhaseCombat, ids.StepDeclareAttackers},
	{ids.PhaseCombat, ids.StepDeclareBlockers},
	{ids.PhaseCombat, ids.StepFirstStrikeDamage},
	{ids.PhaseCombat, ids.StepCombatDamage},
	{ids.PhaseCombat, ids.StepEndOfCombat},
	{ids.PhaseMain2, stepMain2},
	{ids.PhaseEnding, ids.StepEndStep},
	{ids.PhaseEnding, ids.StepCleanup},
}

// Engine tracks active/priority player and turn progression.
type Engine struct {
	index        int
	turnNumber   int
	activePlayer ids.PlayerSlot
	priority     *stack.PriorityTracker
}

// NewEngine returns a turn engine starting at turn 1, untap step, with
// activePlayer on the play.
func NewEngine(activePlayer ids.PlayerSlot, priority *stack.PriorityTracker) *Engine {
	return &Engine{turnNumber: 1, activePlayer: activePlayer, priority: priority}
}

// CurrentPhase returns the phase in progress.
func (e *Engine) CurrentPhase() ids.Phase { return sequence[e.index].phase }

// CurrentStep returns the step in progress. The two placeholder main-phase
// step values (100/101) are internal to this package; callers should key
// behavior off CurrentPhase for main phases and CurrentStep for beginning/
// combat/ending steps.
func (e *Engine) CurrentStep() ids.Step { return sequence[e.index].step }

// TurnNumber returns the current turn number (1-based).
func (e *Engine) TurnNumber() int { return e.turnNumber }

// ActivePlayer returns the player whose turn this is.
func (e *Engine) ActivePlayer() ids.PlayerSlot { return e.activePlayer }

// IsMainPhase reports whether the current step is one of the two main
// phases (where sorcery-speed actions are legal, stack empty, priority
// holder is the active player).
func (e *Engine) IsMainPhase() bool {
	s := sequence[e.index].step
	return s == stepMain1 || s == stepMain2
}

// Advance moves to the next step in the fixed turn sequence and resets
// the priority tracker to the active player on entry (spec §4.7 step 5);
// whether the new step grants priority at all is StepGrantsPriority's
// answer (false for untap and cleanup). requiresFirstStrike
// should be combat.RequiresFirstStrikeStep's result for the step just
// completed; when false, the first-strike damage step is skipped
// entirely rather than entered and immediately passed through. Returns
// true if the turn rolled over to a new active player.
func (e *Engine) Advance(requiresFirstStrike bool) bool {
	e.index++
	if e.index < len(sequence) && sequence[e.index].step == ids.StepFirstStrikeDamage && !requiresFirstStrike {
		e.index++
	}

	rolledOver := false
	if e.index >= len(sequence) {
		e.index = 0
		e.turnNumber++
		e.activePlayer = e.activePlayer.Opponent()
		rolledOver = true
	}

	if e.priority != nil {
		e.priority.StartNewRound(e.activePlayer)
	}
	return rolledOver
}

// StepGrantsPriority reports whether the current step grants priority
// under the beginning/combat/ending naming; main-phase placeholder steps
// always grant priority.
func (e *Engine) StepGrantsPriority() bool {
	s := sequence[e.index].step
	if s == stepMain1 || s == stepMain2 {
		return true
	}
	return s.GrantsPriority()
}
