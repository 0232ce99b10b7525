// Package targeting implements target requirements, selection, and the
// resolution-time legality re-check from spec §4.3 step 1 ("before
// resolving, re-validate every target; an illegal target is removed from
// the stack item, and if the item ends with zero legal targets and had
// none required as zero, it is countered for lack of legal targets").
package targeting

import (
	"fmt"

	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/object"
)

// Type enumerates the kinds of thing a target requirement can ask for,
// grounded on the teacher's targeting.TargetType.
type Type string

const (
	TypeCreature     Type = "CREATURE"
	TypePlayer       Type = "PLAYER"
	TypeSpell        Type = "SPELL"
	TypePermanent    Type = "PERMANENT"
	TypeArtifact     Type = "ARTIFACT"
	TypeEnchantment  Type = "ENCHANTMENT"
	TypeLand         Type = "LAND"
	TypePlaneswalker Type = "PLANESWALKER"
)

// Requirement describes what a spell or ability's target clause asks for
// (spec §3 "Target requirement").
type Requirement struct {
	Type        Type
	MinTargets  int
	MaxTargets  int
	Optional    bool
	Description string
}

// Selection is a player's chosen targets for one requirement.
type Selection struct {
	Targets     []object.TargetChoice
	Requirement Requirement
}

// IsComplete reports whether the selection's target count satisfies its
// requirement's bounds.
func (s *Selection) IsComplete() bool {
	if s == nil {
		return false
	}
	count := len(s.Targets)
	return count >= s.Requirement.MinTargets && count <= s.Requirement.MaxTargets
}

// Validate returns an error describing why a selection fails its
// requirement, or nil if it satisfies it.
func (s *Selection) Validate() error {
	if s == nil {
		return fmt.Errorf("targeting: nil selection")
	}
	count := len(s.Targets)
	if count < s.Requirement.MinTargets {
		return fmt.Errorf("targeting: not enough targets: need at least %d, got %d", s.Requirement.MinTargets, count)
	}
	if count > s.Requirement.MaxTargets {
		return fmt.Errorf("targeting: too many targets: need at most %d, got %d", s.Requirement.MaxTargets, count)
	}
	return nil
}

// Targetable reports whether obj can legally be chosen as a target by a
// source controlled by caster with sourceColors, independent of its type
// (spec §4.3 step 2: hexproof, shroud, protection, and ward restrict who
// may target an object). Ward is simplified to behave like hexproof
// against an opponent rather than the full "counter unless its controller
// pays" cost, documented as an open simplification.
func Targetable(obj *object.GameObject, caster ids.PlayerSlot, sourceColors []ids.Color) bool {
	if obj == nil || obj.Def == nil {
		return false
	}
	if obj.Def.HasKeyword("shroud") {
		return false
	}
	opponentsSource := obj.Controller != caster
	if opponentsSource && (obj.Def.HasKeyword("hexproof") || obj.Def.HasKeyword("ward")) {
		return false
	}
	for _, c := range sourceColors {
		if obj.Def.HasProtectionFrom(c) {
			return false
		}
	}
	return true
}

// Matches reports whether obj is a legal target for a requirement of this
// type (spec §4.3: target legality is checked against the printed and
// currently layered characteristics of the candidate).
func (t Type) Matches(obj *object.GameObject) bool {
	if obj == nil || obj.Def == nil {
		return false
	}
	switch t {
	case TypeCreature:
		return obj.IsPermanent() && obj.Def.HasType(ids.CardTypeCreature)
	case TypeArtifact:
		return obj.IsPermanent() && obj.Def.HasType(ids.CardTypeArtifact)
	case TypeEnchantment:
		return obj.IsPermanent() && obj.Def.HasType(ids.CardTypeEnchantment)
	case TypeLand:
		return obj.IsPermanent() && obj.Def.HasType(ids.CardTypeLand)
	case TypePlaneswalker:
		return obj.IsPermanent() && obj.Def.HasType(ids.CardTypePlaneswalker)
	case TypePermanent:
		return obj.IsPermanent()
	case TypeSpell:
		return obj.Zone == ids.ZoneStack
	default:
		return false
	}
}
