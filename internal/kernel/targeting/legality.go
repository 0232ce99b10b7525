package targeting

import (
	"fmt"

	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/object"
)

// GameStateAccessor is the narrow read-only view the legality checker
// needs into a running game, grounded on the teacher's
// rules.GameStateAccessor. The kernel's game package implements it over
// its zones.Set and object tables.
type GameStateAccessor interface {
	FindObject(id ids.ObjectId) (*object.GameObject, bool)
	FindPlayer(slot ids.PlayerSlot) (*object.Player, bool)
}

// Result is the outcome of one legality check.
type Result struct {
	Legal   bool
	Reason  string
	Details map[string]string
}

// Checker re-validates a stack item immediately before it resolves (spec
// §4.3 step 1), grounded on the teacher's rules.LegalityChecker.
type Checker struct {
	gameState GameStateAccessor
}

// NewChecker returns a legality checker backed by gameState.
func NewChecker(gameState GameStateAccessor) *Checker {
	return &Checker{gameState: gameState}
}

// CheckStackItemLegality re-validates a stack item's controller, source,
// and targets. Legal is false as soon as any one target is illegal, and
// callers treat that as "counter for lack of legal targets" or an
// analogous failure to resolve. It does not remove individual illegal
// targets; FilterLegalTargets does that, called from the game package's
// resolution path.
func (c *Checker) CheckStackItemLegality(item *object.StackItem) Result {
	if c == nil || c.gameState == nil {
		return Result{Legal: true, Reason: "legality checker not initialized"}
	}

	if player, found := c.gameState.FindPlayer(item.Controller); !found {
		return Result{Legal: false, Reason: "controller not found",
			Details: map[string]string{"controller": item.Controller.String()}}
	} else if player.Lost {
		return Result{Legal: false, Reason: "controller has lost the game",
			Details: map[string]string{"controller": item.Controller.String()}}
	}

	if item.SourceObjectID != 0 {
		source, found := c.gameState.FindObject(item.SourceObjectID)
		if !found {
			if item.Kind == object.StackItemSpell {
				return Result{Legal: false, Reason: "source card no longer exists",
					Details: map[string]string{"source": fmt.Sprintf("%d", item.SourceObjectID)}}
			}
			// Abilities outlive a destroyed/sacrificed source per rule 112.7a.
		} else if !isSourceInValidZone(source.Zone, item.Kind) {
			return Result{Legal: false, Reason: "source not in a valid zone",
				Details: map[string]string{"zone": source.Zone.String(), "kind": string(item.Kind)}}
		}
	}

	if len(item.Targets) > 0 {
		if result := c.validateTargets(item.Targets, item.Controller, sourceColors(item)); !result.Legal {
			return result
		}
	}

	return Result{Legal: true, Reason: "all legality checks passed"}
}

// sourceColors returns an item's source's printed colors, or nil if it has
// none (e.g. a colorless artifact or an ability with no card source).
func sourceColors(item *object.StackItem) []ids.Color {
	if item.SourceDef == nil {
		return nil
	}
	return item.SourceDef.Colors
}

// isSourceInValidZone mirrors the teacher's isSourceInValidZone: spells
// must still be on the stack, activated abilities keep whatever zone they
// were legally activated from, triggered abilities may resolve regardless
// of where their source ended up.
func isSourceInValidZone(zone ids.Zone, kind object.StackItemKind) bool {
	switch kind {
	case object.StackItemSpell:
		return zone == ids.ZoneStack
	case object.StackItemActivated:
		return true
	case object.StackItemTriggered:
		return true
	default:
		return true
	}
}

// validateTargets checks every chosen target is still a legal target:
// players must still be in the game, objects must still exist, still
// match the type they were chosen under, and still be targetable by a
// source controlled by caster with sourceColors (spec §4.3 "the predicate
// that made a target legal is re-evaluated, not merely its continued
// existence").
func (c *Checker) validateTargets(targets []object.TargetChoice, caster ids.PlayerSlot, sourceColors []ids.Color) Result {
	var invalid []string
	for _, t := range targets {
		if t.IsPlayer {
			player, found := c.gameState.FindPlayer(t.PlayerTarget)
			if !found || player.Lost {
				invalid = append(invalid, fmt.Sprintf("player %s (lost/left)", t.PlayerTarget))
			}
			continue
		}
		obj, found := c.gameState.FindObject(t.ObjectID)
		if !found {
			invalid = append(invalid, fmt.Sprintf("object %d (not found)", t.ObjectID))
			continue
		}
		if t.ExpectedType != "" && !Type(t.ExpectedType).Matches(obj) {
			invalid = append(invalid, fmt.Sprintf("object %d (no longer matches %s)", t.ObjectID, t.ExpectedType))
			continue
		}
		if !Targetable(obj, caster, sourceColors) {
			invalid = append(invalid, fmt.Sprintf("object %d (hexproof/shroud/protection/ward)", t.ObjectID))
		}
	}
	if len(invalid) > 0 {
		return Result{Legal: false, Reason: "one or more targets are illegal",
			Details: map[string]string{"invalid_targets": fmt.Sprintf("%v", invalid)}}
	}
	return Result{Legal: true, Reason: "all targets are legal"}
}

// FilterLegalTargets returns the subset of targets still legal, for the
// "remove illegal targets but still resolve" half of spec §4.3 step 1.
func (c *Checker) FilterLegalTargets(targets []object.TargetChoice, caster ids.PlayerSlot, sourceColors []ids.Color) []object.TargetChoice {
	out := make([]object.TargetChoice, 0, len(targets))
	for _, t := range targets {
		single := c.validateTargets([]object.TargetChoice{t}, caster, sourceColors)
		if single.Legal {
			out = append(out, t)
		}
	}
	return out
}
