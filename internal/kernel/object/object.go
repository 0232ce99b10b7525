// Package object defines the data model from spec §3: card definitions,
// game objects (cards/permanents), players, and stack items. It holds no
// behavior beyond small accessors; the kernel packages that depend on it
// (layers, combat, stack, turn, game) own the operations.
package object

import (
	"github.com/cardforge/rulesforge/internal/kernel/counters"
	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/mana"
)

// CardDefinition is the immutable, database-supplied record for one card
// name (spec §3, §6 "Card database interface"). The kernel never mutates
// a CardDefinition; runtime state lives on GameObject instead.
type CardDefinition struct {
	Name           string
	ManaCostText   string
	Cost           *mana.Cost
	Types          []ids.CardType
	Subtypes       []string
	BasePower      int
	BaseToughness  int
	HasPT          bool // false for non-creatures and for "*/*" characteristic-defining P/T
	BaseLoyalty    int
	Colors         []ids.Color
	AbilityCodes   []string
	Keywords       map[string]bool
	ProtectionFrom []ids.Color

	// Triggers lists this card's triggered abilities (spec §4.7 step 3);
	// a vanilla card has none.
	Triggers []TriggeredAbility
}

// HasType reports whether the definition carries the given card type.
func (c *CardDefinition) HasType(t ids.CardType) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}

// HasKeyword reports a static keyword on the printed card (before layers;
// layered ability grants/removals are computed separately by the layers
// package and are not reflected here).
func (c *CardDefinition) HasKeyword(kw string) bool {
	return c.Keywords != nil && c.Keywords[kw]
}

// HasProtectionFrom reports whether the card has protection from color.
func (c *CardDefinition) HasProtectionFrom(color ids.Color) bool {
	for _, p := range c.ProtectionFrom {
		if p == color {
			return true
		}
	}
	return false
}

// TriggerCondition enumerates the events a triggered ability can fire on
// (spec §4.7 step 3; §4.5 attack triggers).
type TriggerCondition string

const (
	TriggerETB         TriggerCondition = "ETB"
	TriggerAttacks     TriggerCondition = "ATTACKS"
	TriggerDealsDamage TriggerCondition = "DEALS_DAMAGE"
)

// TriggeredAbility is one printed triggered ability: a condition plus the
// dispatcher code it resolves with, same code space as activated abilities
// and spells (spec §4.8's closed ability-primitive table).
type TriggeredAbility struct {
	On          TriggerCondition
	AbilityCode string
}

// GameObject is the mutable, per-instance runtime state for a card
// wherever it currently is: library, hand, stack, battlefield, graveyard,
// or exile (spec §3 "Game object"). A permanent is simply a GameObject
// whose Zone is Battlefield.
type GameObject struct {
	ObjectID   ids.ObjectId
	InstanceID ids.InstanceId
	Def        *CardDefinition

	Owner      ids.PlayerSlot
	Controller ids.PlayerSlot
	Zone       ids.Zone

	Tapped                   bool
	MarkedDamage             int
	DamagedByDeathtouchSince bool
	Counters                 *counters.Counters
	AttachedTo               ids.ObjectId // 0 = not attached
	HasAttachedTo            bool
	SummoningSick            bool
	Shield                   bool // damage-prevention shield (e.g. from a combat trick)
	RegenerateShield         bool
	IsToken                  bool

	// Loyalty is meaningful only for planeswalkers. EffectiveLoyalty, which
	// the SBA sweep reads, adds any "loyalty" counters to it; counter
	// changes are not written back into this field.
	Loyalty int

	Timestamp int64 // assigned on entry to the battlefield, for layer ordering
}

// NewGameObject constructs a fresh object for a card entering a zone for
// the first time (or changing zones, with a freshly minted InstanceID -
// callers are responsible for minting ids via the engine's generators).
func NewGameObject(objID ids.ObjectId, instID ids.InstanceId, def *CardDefinition, owner ids.PlayerSlot, zone ids.Zone) *GameObject {
	return &GameObject{
		ObjectID:   objID,
		InstanceID: instID,
		Def:        def,
		Owner:      owner,
		Controller: owner,
		Zone:       zone,
		Counters:   counters.NewCounters(),
	}
}

// IsPermanent reports whether this object currently sits on the
// battlefield (spec glossary: "Permanent").
func (g *GameObject) IsPermanent() bool {
	return g.Zone == ids.ZoneBattlefield
}

// EffectiveLoyalty returns loyalty adjusted by any +N/-N counters whose
// kind is "loyalty", the convention this kernel uses for loyalty changes.
func (g *GameObject) EffectiveLoyalty() int {
	return g.Loyalty + g.Counters.GetCount("loyalty")
}

// Player is one of the two game-level player slots (spec §3 "Players").
type Player struct {
	Slot                 ids.PlayerSlot
	Life                 int
	Poison               int
	Pool                 *mana.Pool
	Lost                 bool
	DrewFromEmptyLibrary bool
	MaxHandSize          int
}

// NewPlayer returns a player seated with the given starting life total
// and an empty pool; zones are populated by game setup.
func NewPlayer(slot ids.PlayerSlot, startingLife int) *Player {
	return &Player{
		Slot:        slot,
		Life:        startingLife,
		Pool:        mana.NewPool(),
		MaxHandSize: 7,
	}
}

// StackItemKind discriminates the three things that can occupy the stack
// (spec §3 "Stack item").
type StackItemKind string

const (
	StackItemSpell     StackItemKind = "SPELL"
	StackItemActivated StackItemKind = "ACTIVATED"
	StackItemTriggered StackItemKind = "TRIGGERED"
)

// TargetChoice is one chosen target with the expected-type tag it was
// validated against, so resolution can re-validate per spec §4.3 step 1.
type TargetChoice struct {
	ObjectID     ids.ObjectId
	IsPlayer     bool
	PlayerTarget ids.PlayerSlot
	ExpectedType string
}

// StackItem is a discriminated record of a spell or ability sitting on
// the stack (spec §3 "Stack item").
type StackItem struct {
	ID             ids.ObjectId
	Kind           StackItemKind
	SourceObjectID ids.ObjectId
	SourceDef      *CardDefinition
	Controller     ids.PlayerSlot
	Targets        []TargetChoice
	Modes          []string
	XValue         int
	KickerPaid     bool
	Payment        *mana.Plan
	AbilityCode    string
}
