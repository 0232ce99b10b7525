// Package combat implements the attack/block/damage state machine from
// spec §4 component 7's combat phase, grounded on the teacher's
// MageEngine combat methods (DeclareAttacker/DeclareBlocker/
// AssignCombatDamage/ApplyCombatDamage) but generalized to route every
// point of damage through an events.Event instead of mutating life/damage
// directly, so it flows through the replacement pipeline like every other
// mutation (spec §4.1).
package combat

import (
	"github.com/cardforge/rulesforge/internal/kernel/events"
	"github.com/cardforge/rulesforge/internal/kernel/ids"
)

// Defender is whichever the attacker is attacking: a player, or (for
// planeswalkers/battles) a specific permanent.
type Defender struct {
	IsPlayer bool
	Player   ids.PlayerSlot
	ObjectID ids.ObjectId
}

// PlayerDefender returns a player-targeted Defender.
func PlayerDefender(p ids.PlayerSlot) Defender { return Defender{IsPlayer: true, Player: p} }

// PermanentDefender returns a permanent-targeted (planeswalker/battle)
// Defender.
func PermanentDefender(id ids.ObjectId) Defender { return Defender{ObjectID: id} }

// Group is one attacker (or, for banding, several) and the blockers
// assigned to it, grounded on the teacher's combatGroup.
type Group struct {
	Attackers             []ids.ObjectId
	Defender              Defender
	Blockers              []ids.ObjectId
	DamageAssignmentOrder []ids.ObjectId // blocker order chosen by the attacking player, trample/multi-block only
}

// Combat holds one turn's combat state.
type Combat struct {
	Groups        []*Group
	firstStrikers map[ids.ObjectId]bool
}

// NewCombat returns an empty combat state for a fresh combat phase.
func NewCombat() *Combat {
	return &Combat{firstStrikers: make(map[ids.ObjectId]bool)}
}

// DeclareAttacker adds a new single-attacker group.
func (c *Combat) DeclareAttacker(attacker ids.ObjectId, defender Defender) {
	c.Groups = append(c.Groups, &Group{Attackers: []ids.ObjectId{attacker}, Defender: defender})
}

// groupFor returns the group whose sole (or banded) attacker is attacker.
func (c *Combat) groupFor(attacker ids.ObjectId) *Group {
	for _, g := range c.Groups {
		for _, a := range g.Attackers {
			if a == attacker {
				return g
			}
		}
	}
	return nil
}

// DeclareBlocker assigns blocker to the group attacking via attacker. It is
// a no-op if attacker is not attacking (the caller is expected to have
// already validated legality via the targeting/legality checks).
func (c *Combat) DeclareBlocker(blocker, attacker ids.ObjectId) {
	g := c.groupFor(attacker)
	if g == nil {
		return
	}
	g.Blockers = append(g.Blockers, blocker)
}

// SetDamageAssignmentOrder records the attacking player's chosen order for
// a multiply-blocked attacker (CR 509.2), used by trample and multi-block
// damage division.
func (c *Combat) SetDamageAssignmentOrder(attacker ids.ObjectId, order []ids.ObjectId) {
	if g := c.groupFor(attacker); g != nil {
		g.DamageAssignmentOrder = order
	}
}

// Accessor is the read-only view into game state the damage-assignment
// pass needs.
type Accessor interface {
	Power(obj ids.ObjectId) int
	Toughness(obj ids.ObjectId) int
	MarkedDamage(obj ids.ObjectId) int
	HasKeyword(obj ids.ObjectId, keyword string) bool
	IsOnBattlefield(obj ids.ObjectId) bool
	ControllerOf(obj ids.ObjectId) ids.PlayerSlot
}

// RequiresFirstStrikeStep reports whether any creature participating in
// combat has first strike or double strike, in which case the turn engine
// must insert the conditional first-strike combat damage step (spec's
// resolved Open Question in SPEC_FULL.md §3(e)).
func (c *Combat) RequiresFirstStrikeStep(acc Accessor) bool {
	for _, g := range c.Groups {
		for _, a := range g.Attackers {
			if acc.HasKeyword(a, "first strike") || acc.HasKeyword(a, "double strike") {
				return true
			}
		}
		for _, b := range g.Blockers {
			if acc.HasKeyword(b, "first strike") || acc.HasKeyword(b, "double strike") {
				return true
			}
		}
	}
	return false
}

// dealsDamageThisStep mirrors the teacher's dealsDamageThisStep: in the
// first-strike step only first/double strikers deal damage; in the
// regular step, everyone deals damage except a creature that already
// struck in the first-strike step and lacks double strike.
func (c *Combat) dealsDamageThisStep(obj ids.ObjectId, firstStrike bool, acc Accessor) bool {
	hasFS := acc.HasKeyword(obj, "first strike")
	hasDS := acc.HasKeyword(obj, "double strike")
	if firstStrike {
		return hasFS || hasDS
	}
	return hasDS || !c.firstStrikers[obj]
}

func lethalDamage(acc Accessor, creature ids.ObjectId, attacker ids.ObjectId) int {
	lethal := acc.Toughness(creature) - acc.MarkedDamage(creature)
	if lethal < 0 {
		lethal = 0
	}
	if attacker != 0 && acc.HasKeyword(attacker, "deathtouch") && lethal > 1 {
		lethal = 1
	}
	return lethal
}

// damageEvent builds one combat-damage event, tagging deathtouch so the
// caller can set DamagedByDeathtouchSince on the target after applying it.
func damageEvent(source ids.ObjectId, controller ids.PlayerSlot, amount int, hasDeathtouch, hasLifelink bool, target Defender) events.Event {
	kinds := []string{"combat"}
	if hasDeathtouch {
		kinds = append(kinds, "deathtouch")
	}
	if hasLifelink {
		kinds = append(kinds, "lifelink")
	}
	e := events.NewEvent(events.TypeCombatDamage, source, controller).WithAmount(amount)
	e.DamageKinds = kinds
	if target.IsPlayer {
		e = e.WithTargetPlayer(target.Player)
	} else {
		e = e.WithTarget(target.ObjectID)
	}
	return e
}

// AssignDamage computes the combat-damage event batch for one damage step
// (first-strike or regular), grounded on the teacher's
// assignDamageToBlockers/assignDamageToAttackers two-pass model, extended
// to cover trample damage division across a chosen blocker order and to
// emit events instead of mutating state directly. Callers run the
// returned batch through the replacement pipeline and events.Bus, mark
// damage/deathtouch/lifelink bookkeeping from DamageKinds, then apply
// lifelink life gain from the total dealt by a lifelink source.
func (c *Combat) AssignDamage(acc Accessor, firstStrike bool) []events.Event {
	var out []events.Event

	for _, g := range c.Groups {
		out = append(out, c.assignAttackerDamage(acc, g, firstStrike)...)
	}
	for _, g := range c.Groups {
		if len(g.Blockers) > 0 {
			out = append(out, c.assignBlockerDamage(acc, g, firstStrike)...)
		}
	}

	for _, e := range out {
		if hasKind(e.DamageKinds, "first-strike-participant") {
			c.firstStrikers[e.SourceID] = true
		}
	}
	return out
}

func hasKind(kinds []string, k string) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

// assignAttackerDamage is the teacher's assignDamageToBlockers, generalized
// with trample division across DamageAssignmentOrder.
func (c *Combat) assignAttackerDamage(acc Accessor, g *Group, firstStrike bool) []events.Event {
	if len(g.Attackers) == 0 {
		return nil
	}
	attacker := g.Attackers[0]
	if !acc.IsOnBattlefield(attacker) || !c.dealsDamageThisStep(attacker, firstStrike, acc) {
		return nil
	}

	power := acc.Power(attacker)
	controller := acc.ControllerOf(attacker)
	hasTrample := acc.HasKeyword(attacker, "trample")
	hasDeathtouch := acc.HasKeyword(attacker, "deathtouch")
	hasLifelink := acc.HasKeyword(attacker, "lifelink")

	mark := func(amount int) events.Event {
		e := damageEvent(attacker, controller, amount, hasDeathtouch, hasLifelink, PlayerDefender(0))
		if firstStrike && (acc.HasKeyword(attacker, "first strike") || acc.HasKeyword(attacker, "double strike")) {
			e.DamageKinds = append(e.DamageKinds, "first-strike-participant")
		}
		return e
	}

	liveBlockers := make([]ids.ObjectId, 0, len(g.Blockers))
	for _, b := range g.Blockers {
		if acc.IsOnBattlefield(b) {
			liveBlockers = append(liveBlockers, b)
		}
	}

	if len(g.Blockers) == 0 {
		e := mark(power)
		e = retarget(e, g.Defender)
		return []events.Event{e}
	}

	if len(liveBlockers) == 0 {
		if hasTrample {
			e := mark(power)
			e = retarget(e, g.Defender)
			return []events.Event{e}
		}
		return nil
	}

	order := g.DamageAssignmentOrder
	if len(order) == 0 {
		order = liveBlockers
	}

	var out []events.Event
	if hasTrample {
		remaining := power
		for _, blocker := range order {
			if !contains(liveBlockers, blocker) {
				continue
			}
			lethal := lethalDamage(acc, blocker, attacker)
			assign := lethal
			if assign > remaining {
				assign = remaining
			}
			if assign > 0 {
				e := mark(assign)
				e = retarget(e, PermanentDefender(blocker))
				out = append(out, e)
			}
			remaining -= assign
			if remaining <= 0 {
				remaining = 0
				break
			}
		}
		if remaining > 0 {
			e := mark(remaining)
			e = retarget(e, g.Defender)
			out = append(out, e)
		}
		return out
	}

	// No trample: every point of power must land on a blocker, assigned in
	// the chosen order with at least lethal going to each blocker before
	// any may go to the next. Since there's no player to overflow to, the
	// last live blocker in order absorbs whatever power remains even past
	// its own lethal.
	liveOrder := make([]ids.ObjectId, 0, len(liveBlockers))
	for _, blocker := range order {
		if contains(liveBlockers, blocker) {
			liveOrder = append(liveOrder, blocker)
		}
	}

	remaining := power
	for i, blocker := range liveOrder {
		assign := lethalDamage(acc, blocker, attacker)
		if i == len(liveOrder)-1 || assign > remaining {
			assign = remaining
		}
		if assign > 0 {
			e := mark(assign)
			e = retarget(e, PermanentDefender(blocker))
			out = append(out, e)
		}
		remaining -= assign
	}
	return out
}

// assignBlockerDamage is the teacher's assignDamageToAttackers.
func (c *Combat) assignBlockerDamage(acc Accessor, g *Group, firstStrike bool) []events.Event {
	var out []events.Event
	for _, blocker := range g.Blockers {
		if !acc.IsOnBattlefield(blocker) || !c.dealsDamageThisStep(blocker, firstStrike, acc) {
			continue
		}
		if len(g.Attackers) == 0 {
			continue
		}
		power := acc.Power(blocker)
		if power <= 0 {
			continue
		}
		controller := acc.ControllerOf(blocker)
		hasDeathtouch := acc.HasKeyword(blocker, "deathtouch")
		hasLifelink := acc.HasKeyword(blocker, "lifelink")
		e := damageEvent(blocker, controller, power, hasDeathtouch, hasLifelink, PermanentDefender(g.Attackers[0]))
		if firstStrike && (acc.HasKeyword(blocker, "first strike") || acc.HasKeyword(blocker, "double strike")) {
			e.DamageKinds = append(e.DamageKinds, "first-strike-participant")
		}
		out = append(out, e)
	}
	return out
}

func retarget(e events.Event, d Defender) events.Event {
	if d.IsPlayer {
		return e.WithTargetPlayer(d.Player)
	}
	return e.WithTarget(d.ObjectID)
}

func contains(list []ids.ObjectId, id ids.ObjectId) bool {
	for _, x := range list {
		if x == id {
			return true
		}
	}
	return false
}
