// Package agent defines the decision-making boundary spec §6 names: a
// synchronous interface the kernel calls out to whenever a choice needs a
// player's input, plus a couple of concrete implementations. Grounded on
// the teacher's action-dispatch shape in MageEngine.ProcessAction (a
// handful of named actions: SEND_STRING/SEND_INTEGER/SEND_UUID/PASS),
// generalized into one typed interface instead of a string-tagged
// envelope so an unknown/malformed response is a compile error rather
// than a runtime type assertion failure.
package agent

import (
	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/object"
	"github.com/cardforge/rulesforge/internal/kernel/targeting"
	"github.com/cardforge/rulesforge/internal/rng"
)

// ActionKind discriminates the legal actions an agent may choose between
// at a priority window (spec §6 choose_action's legal_actions list).
type ActionKind string

const (
	ActionPass            ActionKind = "PASS"
	ActionCastSpell       ActionKind = "CAST_SPELL"
	ActionActivateAbility ActionKind = "ACTIVATE_ABILITY"
	ActionPlayLand        ActionKind = "PLAY_LAND"
	ActionDeclareAttacker ActionKind = "DECLARE_ATTACKER"
)

// Action is one legal choice offered to (or chosen by) an agent.
type Action struct {
	Kind        ActionKind
	SourceCard  ids.ObjectId // card in hand/battlefield the action originates from
	AbilityCode string
}

// PublicState is the shared, fully-observable view every agent call
// receives (battlefield, stack, life totals, counts — never hidden zone
// contents beyond counts).
type PublicState struct {
	Battlefield    []*object.GameObject
	Stack          []*object.StackItem
	Players        []*object.Player
	ActivePlayer   ids.PlayerSlot
	PriorityPlayer ids.PlayerSlot
}

// PrivateView is the subset of state only the acting agent's player may
// see (their own hand contents).
type PrivateView struct {
	Hand []*object.GameObject
}

// MulliganDecision is the agent's keep/mulligan choice.
type MulliganDecision int

const (
	Keep MulliganDecision = iota
	Mulligan
)

// Agent is the synchronous decision interface spec §6 mandates. Every
// method is called with an immutable snapshot; implementations must not
// retain or mutate the slices/pointers passed in beyond the call. No
// method receives the engine's rng.Source — spec §5: "Agents must not
// observe the PRNG."
type Agent interface {
	ChooseAction(public PublicState, private PrivateView, legal []Action) Action
	ChooseTargets(source ids.ObjectId, spec targeting.Requirement, candidates []targeting.Selection) []targeting.Selection
	ChooseOrder(objects []ids.ObjectId) []ids.ObjectId
	ChooseReplacement(eventDescription string, numCandidates int) int
	ChooseMode(source ids.ObjectId, modes []string) []string
	MulliganDecision(hand []*object.GameObject, timesMulliganed int) MulliganDecision
	ChooseBlockers(attackers []ids.ObjectId, potentialBlockers map[ids.ObjectId][]ids.ObjectId) map[ids.ObjectId][]ids.ObjectId
}

// RandomAgent picks uniformly among legal options, driven by its own
// private rng.Source (distinct from the game's — an agent may not observe
// the game's PRNG, but it is free to make its own decisions randomly).
// Grounded on the teacher's test harnesses, which drive games with a
// scripted or randomized action sequence rather than a real player.
type RandomAgent struct {
	rng *rng.Source
}

// NewRandomAgent returns an agent seeded independently of the game.
func NewRandomAgent(seed uint64) *RandomAgent {
	return &RandomAgent{rng: rng.NewFromSeed(seed)}
}

func (a *RandomAgent) ChooseAction(_ PublicState, _ PrivateView, legal []Action) Action {
	if len(legal) == 0 {
		return Action{Kind: ActionPass}
	}
	return legal[a.rng.Intn(len(legal))]
}

func (a *RandomAgent) ChooseTargets(_ ids.ObjectId, _ targeting.Requirement, candidates []targeting.Selection) []targeting.Selection {
	if len(candidates) == 0 {
		return nil
	}
	return []targeting.Selection{candidates[a.rng.Intn(len(candidates))]}
}

func (a *RandomAgent) ChooseOrder(objects []ids.ObjectId) []ids.ObjectId {
	out := append([]ids.ObjectId(nil), objects...)
	a.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (a *RandomAgent) ChooseReplacement(_ string, numCandidates int) int {
	if numCandidates <= 0 {
		return 0
	}
	return a.rng.Intn(numCandidates)
}

func (a *RandomAgent) ChooseMode(_ ids.ObjectId, modes []string) []string {
	if len(modes) == 0 {
		return nil
	}
	return []string{modes[a.rng.Intn(len(modes))]}
}

func (a *RandomAgent) MulliganDecision(_ []*object.GameObject, timesMulliganed int) MulliganDecision {
	if timesMulliganed >= 2 {
		return Keep
	}
	return Keep
}

func (a *RandomAgent) ChooseBlockers(attackers []ids.ObjectId, potentialBlockers map[ids.ObjectId][]ids.ObjectId) map[ids.ObjectId][]ids.ObjectId {
	assignment := make(map[ids.ObjectId][]ids.ObjectId, len(attackers))
	used := make(map[ids.ObjectId]bool)
	for _, attacker := range attackers {
		for _, blocker := range potentialBlockers[attacker] {
			if used[blocker] {
				continue
			}
			if a.rng.Intn(2) == 0 {
				assignment[attacker] = append(assignment[attacker], blocker)
				used[blocker] = true
				break
			}
		}
	}
	return assignment
}

// PassingAgent always passes and never casts or blocks; used by tests
// that only want to drive the turn structure without any decisions.
type PassingAgent struct{}

func (PassingAgent) ChooseAction(_ PublicState, _ PrivateView, _ []Action) Action {
	return Action{Kind: ActionPass}
}
func (PassingAgent) ChooseTargets(ids.ObjectId, targeting.Requirement, []targeting.Selection) []targeting.Selection {
	return nil
}
func (PassingAgent) ChooseOrder(objects []ids.ObjectId) []ids.ObjectId { return objects }
func (PassingAgent) ChooseReplacement(string, int) int                 { return 0 }
func (PassingAgent) ChooseMode(ids.ObjectId, []string) []string        { return nil }
func (PassingAgent) MulliganDecision([]*object.GameObject, int) MulliganDecision {
	return Keep
}
func (PassingAgent) ChooseBlockers(_ []ids.ObjectId, _ map[ids.ObjectId][]ids.ObjectId) map[ids.ObjectId][]ids.ObjectId {
	return nil
}
