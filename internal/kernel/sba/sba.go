// Package sba implements the state-based-action sweep from spec §4.7: a
// fixed, repeated pass applying every SBA that currently holds "as a
// single simultaneous event," looped until nothing happens, grounded on
// the teacher's MageEngine.checkStateBasedActions (rule 704) but extended
// to cover every SBA spec §4.7 lists — the teacher only implemented
// player-loss, zero-toughness, and zero-loyalty; indestructible/damage,
// deathtouch, the legendary rule, illegal auras, stray tokens, and counter
// cancellation are new here.
package sba

import (
	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/object"
)

// LegendaryChooser lets the affected controller pick which of several
// same-named legendary permanents they keep (rule 704.5j / spec §4.7).
type LegendaryChooser interface {
	ChooseLegendaryToKeep(controller ids.PlayerSlot, duplicates []*object.GameObject) *object.GameObject
}

// Accessor is the narrow mutable view into a running game the sweep
// needs. The kernel's game package implements it over its zones.Set,
// object tables, and layers.System.
type Accessor interface {
	Players() []*object.Player
	Battlefield() []*object.GameObject
	NonBattlefieldObjects() []*object.GameObject
	EffectivePowerToughness(obj *object.GameObject) (power, toughness int)
	IsIndestructible(obj *object.GameObject) bool
	IsAttachmentLegal(obj *object.GameObject) bool
	MoveToGraveyard(obj *object.GameObject)
	CeaseToExist(obj *object.GameObject)
	RemoveFromCombat(obj *object.GameObject)
}

// Sweep runs one pass of every required state-based action and reports
// whether anything happened (spec §4.7 step 1; callers loop until false).
func Sweep(acc Accessor, chooser LegendaryChooser) bool {
	happened := false

	for _, p := range acc.Players() {
		if p.Lost {
			continue
		}
		if p.Life <= 0 {
			p.Lost = true
			happened = true
			continue
		}
		if p.Poison >= 10 {
			p.Lost = true
			happened = true
			continue
		}
		if p.DrewFromEmptyLibrary {
			p.Lost = true
			happened = true
			continue
		}
	}

	battlefield := acc.Battlefield()

	var toGraveyard []*object.GameObject
	for _, obj := range battlefield {
		if obj.Def.HasType(ids.CardTypeCreature) {
			_, toughness := acc.EffectivePowerToughness(obj)
			if toughness <= 0 {
				// 704.5f: not prevented by indestructible or regeneration.
				toGraveyard = append(toGraveyard, obj)
				continue
			}

			lethal := obj.MarkedDamage >= toughness
			if lethal || obj.DamagedByDeathtouchSince {
				if consumeProtection(acc, obj) {
					happened = true
					continue
				}
				if !acc.IsIndestructible(obj) {
					toGraveyard = append(toGraveyard, obj)
					continue
				}
			}
		}

		if obj.Def.HasType(ids.CardTypePlaneswalker) {
			if obj.EffectiveLoyalty() <= 0 {
				toGraveyard = append(toGraveyard, obj)
				continue
			}
		}

		if obj.HasAttachedTo && !acc.IsAttachmentLegal(obj) {
			toGraveyard = append(toGraveyard, obj)
			continue
		}
	}

	if len(toGraveyard) > 0 {
		for _, obj := range toGraveyard {
			acc.MoveToGraveyard(obj)
		}
		happened = true
	}

	if legendaryRuleApplied(acc, battlefield, chooser) {
		happened = true
	}

	for _, obj := range acc.NonBattlefieldObjects() {
		if obj.IsToken {
			acc.CeaseToExist(obj)
			happened = true
		}
	}

	for _, obj := range battlefield {
		if obj.Counters.CancelBoostCounters() {
			happened = true
		}
	}

	return happened
}

// consumeProtection consumes a regeneration shield or shield counter in
// place of destruction (rule 701.16b / 702.68), returning whether the
// creature survived via one of them.
func consumeProtection(acc Accessor, obj *object.GameObject) bool {
	if obj.RegenerateShield {
		obj.RegenerateShield = false
		obj.Tapped = true
		obj.MarkedDamage = 0
		obj.DamagedByDeathtouchSince = false
		acc.RemoveFromCombat(obj)
		return true
	}
	if obj.Shield {
		obj.Shield = false
		obj.MarkedDamage = 0
		obj.DamagedByDeathtouchSince = false
		return true
	}
	return false
}

// legendaryRuleApplied enforces rule 704.5j: if a player controls two or
// more legendary permanents with the same name, that player chooses one
// to keep and the rest go to their owners' graveyards.
func legendaryRuleApplied(acc Accessor, battlefield []*object.GameObject, chooser LegendaryChooser) bool {
	groups := make(map[ids.PlayerSlot]map[string][]*object.GameObject)
	for _, obj := range battlefield {
		if !obj.Def.HasKeyword("legendary") {
			continue
		}
		if groups[obj.Controller] == nil {
			groups[obj.Controller] = make(map[string][]*object.GameObject)
		}
		groups[obj.Controller][obj.Def.Name] = append(groups[obj.Controller][obj.Def.Name], obj)
	}

	happened := false
	for controller, byName := range groups {
		for _, dupes := range byName {
			if len(dupes) < 2 {
				continue
			}
			var keep *object.GameObject
			if chooser != nil {
				keep = chooser.ChooseLegendaryToKeep(controller, dupes)
			}
			if keep == nil {
				keep = dupes[0]
			}
			for _, obj := range dupes {
				if obj.ObjectID != keep.ObjectID {
					acc.MoveToGraveyard(obj)
					happened = true
				}
			}
		}
	}
	return happened
}
