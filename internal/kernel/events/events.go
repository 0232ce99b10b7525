// Package events implements the event bus from spec §4.1: every mutation
// to game state (besides the smallest bookkeeping) is proposed as an
// Event, rewritten by the replacement package, and only then performed.
package events

import (
	"sync"

	"github.com/cardforge/rulesforge/internal/kernel/ids"
)

// Type enumerates the proposed state changes named in spec §4.1, plus the
// handful the turn/combat/SBA machinery needs to announce so triggered
// abilities and the trace listener can observe them.
type Type string

const (
	TypeDamage           Type = "DAMAGE"
	TypeDraw             Type = "DRAW"
	TypeETB              Type = "ENTERS_BATTLEFIELD"
	TypeLeaveBattlefield Type = "LEAVES_BATTLEFIELD"
	TypeCast             Type = "CAST"
	TypeActivate         Type = "ACTIVATE_ABILITY"
	TypeGainLife         Type = "GAIN_LIFE"
	TypeLoseLife         Type = "LOSE_LIFE"
	TypeAddCounter       Type = "ADD_COUNTER"
	TypeRemoveCounter    Type = "REMOVE_COUNTER"
	TypeCreateToken      Type = "CREATE_TOKEN"
	TypeZoneChange       Type = "ZONE_CHANGE"
	TypeTap              Type = "TAP"
	TypeUntap            Type = "UNTAP"
	TypeBeginPhase       Type = "BEGIN_PHASE"
	TypeBeginStep        Type = "BEGIN_STEP"
	TypeDiscard          Type = "DISCARD"
	TypeMill             Type = "MILL"
	TypePoisonCounter    Type = "POISON_COUNTER"
	TypePlayerLoses      Type = "PLAYER_LOSES"
	TypeSpellCountered   Type = "SPELL_COUNTERED"
	TypeAttackerDeclared Type = "ATTACKER_DECLARED"
	TypeBlockerDeclared  Type = "BLOCKER_DECLARED"
	TypeCombatDamage     Type = "COMBAT_DAMAGE"
	TypeStateBasedAction Type = "STATE_BASED_ACTION"
	TypeTriggered        Type = "TRIGGERED_ABILITY_QUEUED"
)

// IsBatch reports whether events of this type are always published as a
// single simultaneous batch rather than one at a time — combat damage
// across every attacker/blocker pair is dealt "in a single event" per
// spec §4.5, and all SBAs in one sweep pass apply "as a single
// simultaneous event" per spec §4.7.
func (t Type) IsBatch() bool {
	return t == TypeCombatDamage || t == TypeStateBasedAction
}

// Event is a proposed (or, after Performed is set, already-applied)
// state change (spec §4.1).
type Event struct {
	Type           Type
	SourceID       ids.ObjectId
	TargetID       ids.ObjectId
	TargetIsPlayer bool
	TargetPlayer   ids.PlayerSlot
	Controller     ids.PlayerSlot
	Amount         int
	DamageKinds    []string // e.g. "combat", "deathtouch", "noncombat"
	Metadata       map[string]string

	// AppliedEffects tracks which replacement effect IDs have already
	// rewritten this specific event instance, so the replacement pipeline
	// never applies the same effect twice (spec §4.1 step 3).
	AppliedEffects []string

	Performed bool
}

// Listener receives every performed event, in order (spec §6 "Observable
// state / trace").
type Listener func(Event)

// Bus is the mutex-guarded publish/subscribe hub shared by one game.
type Bus struct {
	mu        sync.RWMutex
	listeners []Listener
	typed     map[Type][]Listener
}

// NewBus returns an empty event bus.
func NewBus() *Bus {
	return &Bus{typed: make(map[Type][]Listener)}
}

// Subscribe registers a listener invoked for every event.
func (b *Bus) Subscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// SubscribeTyped registers a listener invoked only for events of the
// given type (used by triggered-ability watchers that care about one
// event kind, mirroring the teacher's typed subscription path).
func (b *Bus) SubscribeTyped(t Type, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.typed[t] = append(b.typed[t], l)
}

// Publish notifies every listener (general and typed) of a performed
// event. Performed is expected to already be true by this point; the
// bus does not mutate game state, only announces it.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	general := append([]Listener(nil), b.listeners...)
	typed := append([]Listener(nil), b.typed[e.Type]...)
	b.mu.RUnlock()

	for _, l := range general {
		l(e)
	}
	for _, l := range typed {
		l(e)
	}
}

// PublishBatch publishes a slice of events that belong to one simultaneous
// batch (spec §4.5, §4.7), in their relative order, by calling Publish
// once per event. Listeners see each event on its own; nothing marks the
// batch as a single occurrence.
func (b *Bus) PublishBatch(evts []Event) {
	for _, e := range evts {
		b.Publish(e)
	}
}

// NewEvent is a small convenience constructor, grounded in the teacher's
// rules.NewEvent/NewEventWithAmount helpers.
func NewEvent(t Type, source ids.ObjectId, controller ids.PlayerSlot) Event {
	return Event{Type: t, SourceID: source, Controller: controller}
}

// WithAmount returns a copy of the event carrying the given amount
// (damage, draw count, life change, etc.).
func (e Event) WithAmount(amount int) Event {
	e.Amount = amount
	return e
}

// WithTarget returns a copy of the event targeting an object.
func (e Event) WithTarget(id ids.ObjectId) Event {
	e.TargetID = id
	e.TargetIsPlayer = false
	return e
}

// WithTargetPlayer returns a copy of the event targeting a player.
func (e Event) WithTargetPlayer(slot ids.PlayerSlot) Event {
	e.TargetIsPlayer = true
	e.TargetPlayer = slot
	return e
}
