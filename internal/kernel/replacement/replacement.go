// Package replacement implements the replacement-effect pipeline from
// spec §4.1 and the affected-player choice the spec's Open Questions
// require (§9: "the affected player chooses; affected is defined per
// event kind and tabulated in the test suite").
package replacement

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cardforge/rulesforge/internal/kernel/events"
	"github.com/cardforge/rulesforge/internal/kernel/ids"
)

// Duration mirrors the teacher's effects.Duration enum.
type Duration string

const (
	DurationPermanent              Duration = "PERMANENT"
	DurationUntilEndOfTurn         Duration = "UNTIL_END_OF_TURN"
	DurationUntilLeavesBattlefield Duration = "UNTIL_LEAVES_BATTLEFIELD"
	DurationOneUse                 Duration = "ONE_USE"
)

// Effect is a replacement effect: a rewriting function keyed by event
// kind (spec §3 "Replacement effect"). Prevention effects are modeled as
// a specialization (see PreventionEffect below).
type Effect interface {
	ID() string
	SourceID() ids.ObjectId
	Duration() Duration
	ChecksEventType(t events.Type) bool
	Applies(e events.Event) bool
	// ReplaceEvent returns the rewritten event and whether the event was
	// completely replaced (removed) rather than merely modified.
	ReplaceEvent(e events.Event) (events.Event, bool)
	IsSelfReplacement() bool
	// HasSelfScope reports whether this effect may apply to events whose
	// source is the effect's own source (spec's "self-scope" rule,
	// grounded on the teacher's HasSelfScope/Rule 614.12 comment).
	HasSelfScope() bool
}

// Base provides the shared bookkeeping every Effect implementation needs,
// grounded on the teacher's BaseReplacementEffect (including its
// uuid.NewSHA1-over-a-seed id scheme, which keeps ids stable across
// re-derivation of the same effect from the same source).
type Base struct {
	id         string
	sourceID   ids.ObjectId
	duration   Duration
	selfRepl   bool
	selfScope  bool
	eventTypes map[events.Type]bool
}

// NewBase constructs the shared fields for a replacement effect.
func NewBase(sourceID ids.ObjectId, duration Duration, selfReplacement, selfScope bool, eventTypes ...events.Type) Base {
	seed := fmt.Sprintf("%d|%s|%v|%v|%v", sourceID, duration, selfReplacement, selfScope, eventTypes)
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
	set := make(map[events.Type]bool, len(eventTypes))
	for _, t := range eventTypes {
		set[t] = true
	}
	return Base{id: id, sourceID: sourceID, duration: duration, selfRepl: selfReplacement, selfScope: selfScope, eventTypes: set}
}

func (b Base) ID() string                         { return b.id }
func (b Base) SourceID() ids.ObjectId             { return b.sourceID }
func (b Base) Duration() Duration                 { return b.duration }
func (b Base) IsSelfReplacement() bool            { return b.selfRepl }
func (b Base) HasSelfScope() bool                 { return b.selfScope }
func (b Base) ChecksEventType(t events.Type) bool { return b.eventTypes[t] }

// DamagePrevention prevents up to Amount damage from SourceCheck (0 means
// any source) to TargetID, consuming the shield as damage is prevented.
// Grounded on the teacher's DamagePreventionEffect.
type DamagePrevention struct {
	Base
	TargetID    ids.ObjectId
	SourceCheck ids.ObjectId // 0 = matches any source
	Remaining   int
}

// NewDamagePrevention returns a shield preventing up to amount damage.
func NewDamagePrevention(sourceID, targetID ids.ObjectId, amount int, duration Duration) *DamagePrevention {
	return &DamagePrevention{
		Base:      NewBase(sourceID, duration, false, true, events.TypeDamage),
		TargetID:  targetID,
		Remaining: amount,
	}
}

func (d *DamagePrevention) Applies(e events.Event) bool {
	if e.Type != events.TypeDamage || e.TargetID != d.TargetID || d.Remaining <= 0 {
		return false
	}
	return d.SourceCheck == 0 || d.SourceCheck == e.SourceID
}

func (d *DamagePrevention) ReplaceEvent(e events.Event) (events.Event, bool) {
	prevented := e.Amount
	if prevented > d.Remaining {
		prevented = d.Remaining
	}
	d.Remaining -= prevented
	e.Amount -= prevented
	if e.Amount <= 0 {
		return e, true
	}
	return e, false
}

// DoubleAmount doubles the Amount of matching events (e.g. a "damage is
// doubled" effect). Grounded on the teacher's DoubleAmountReplacementEffect.
type DoubleAmount struct {
	Base
	ControllerCheck ids.PlayerSlot
	hasController   bool
}

// NewDoubleAmount returns an effect doubling Amount for events of the
// given types controlled by controller (hasController false = any).
func NewDoubleAmount(sourceID ids.ObjectId, duration Duration, hasController bool, controller ids.PlayerSlot, types ...events.Type) *DoubleAmount {
	return &DoubleAmount{
		Base:            NewBase(sourceID, duration, false, true, types...),
		ControllerCheck: controller,
		hasController:   hasController,
	}
}

func (d *DoubleAmount) Applies(e events.Event) bool {
	if !d.hasController {
		return true
	}
	return e.Controller == d.ControllerCheck
}

func (d *DoubleAmount) ReplaceEvent(e events.Event) (events.Event, bool) {
	e.Amount *= 2
	return e, false
}

// Func wraps an arbitrary rewriting closure as an Effect, for ability
// primitives that need a bespoke one-off replacement (e.g. a "skip your
// next draw step" effect) without a dedicated type.
type Func struct {
	Base
	AppliesFn func(events.Event) bool
	ReplaceFn func(events.Event) (events.Event, bool)
}

func (f *Func) Applies(e events.Event) bool { return f.AppliesFn(e) }
func (f *Func) ReplaceEvent(e events.Event) (events.Event, bool) {
	return f.ReplaceFn(e)
}
