// Package layers implements the layered continuous-effects system from
// spec §4.6: seven layers, with layer 7 (power/toughness) split into
// sublayers 7a-7e, and a timestamp-plus-dependency ordering within each
// (sub)layer. This is a generalization of the teacher's effects.LayerSystem,
// which only modeled the seven top-level layers with no sublayers,
// timestamps, or dependency resolution (spec's Open Question on ordering,
// resolved in SPEC_FULL.md §3(a): effect A depends on effect B when B's
// application changes A's predicate match or a characteristic A's
// predicate reads; unresolvable cycles fall back to timestamp order).
package layers

import (
	"sync"
)

// Layer corresponds to the comprehensive-rules layers for continuous
// effects (CR 613), grounded on the teacher's effects.Layer.
type Layer int

const (
	LayerCopy Layer = 1 + iota
	LayerControl
	LayerText
	LayerType
	LayerColor
	LayerAbility
	LayerPowerToughness
)

var layerOrder = []Layer{
	LayerCopy,
	LayerControl,
	LayerText,
	LayerType,
	LayerColor,
	LayerAbility,
	LayerPowerToughness,
}

// Sublayer discriminates the five passes CR 613.3/613.4 defines within
// layer 7. Effects in every other layer use SublayerNone.
type Sublayer int

const (
	SublayerNone Sublayer = iota
	Sublayer7aCharacteristicDefining
	Sublayer7bSetPT
	Sublayer7cModifyPT
	Sublayer7dCounters
	Sublayer7eSwitchPT
)

var sublayerOrder = []Sublayer{
	Sublayer7aCharacteristicDefining,
	Sublayer7bSetPT,
	Sublayer7cModifyPT,
	Sublayer7dCounters,
	Sublayer7eSwitchPT,
}

// Snapshot is the mutable view of one object's characteristics under
// evaluation, grounded on the teacher's effects.Snapshot but carrying
// Color/Keywords/Controller so every layer has somewhere to write.
type Snapshot struct {
	ObjectID      uint64
	ControllerID  int
	Types         []string
	Colors        []string
	Keywords      map[string]bool
	BasePower     int
	BaseToughness int
	HasBasePT     bool
	Power         int
	Toughness     int
	SwitchPT      bool
}

// NewSnapshot returns a snapshot reset to its base characteristics.
func NewSnapshot(objectID uint64, controllerID int, types []string, basePower, baseToughness int, hasPT bool) *Snapshot {
	s := &Snapshot{
		ObjectID:      objectID,
		ControllerID:  controllerID,
		Types:         append([]string(nil), types...),
		Keywords:      make(map[string]bool),
		BasePower:     basePower,
		BaseToughness: baseToughness,
		HasBasePT:     hasPT,
	}
	s.Reset()
	return s
}

// Reset restores power and toughness to their printed values and clears
// the P/T switch and keywords, the starting point for every re-evaluation
// pass. Types and Colors are not restored: a change an effect made to
// them stays in this snapshot.
func (s *Snapshot) Reset() {
	if s.HasBasePT {
		s.Power = s.BasePower
		s.Toughness = s.BaseToughness
	}
	s.SwitchPT = false
	for k := range s.Keywords {
		delete(s.Keywords, k)
	}
}

// HasType reports whether the snapshot currently carries typeName.
func (s *Snapshot) HasType(typeName string) bool {
	for _, t := range s.Types {
		if t == typeName {
			return true
		}
	}
	return false
}

// Effect is one continuous effect, grounded on the teacher's
// ContinuousEffect but extended with the sublayer/timestamp/dependency
// information spec §4.6 requires for a correct ordering.
type Effect interface {
	ID() string
	Layer() Layer
	Sublayer() Sublayer
	Timestamp() int64
	AppliesTo(*Snapshot) bool
	Apply(*Snapshot)
	// DependsOn reports whether this effect's application or applicability
	// depends on other having already been applied — the "dependency" CR
	// 613.8 describes. Most effects have no dependencies and return false
	// unconditionally.
	DependsOn(other Effect) bool
}

// System manages registration and layered evaluation of continuous
// effects for one game.
type System struct {
	mu      sync.RWMutex
	effects map[string]Effect
	order   []string // registration order, used as a timestamp tiebreaker
}

// NewSystem returns an empty layer system.
func NewSystem() *System {
	return &System{effects: make(map[string]Effect)}
}

// AddEffect registers a continuous effect.
func (ls *System) AddEffect(effect Effect) {
	if effect == nil {
		return
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	id := effect.ID()
	if _, exists := ls.effects[id]; !exists {
		ls.order = append(ls.order, id)
	}
	ls.effects[id] = effect
}

// RemoveEffect unregisters a continuous effect by id.
func (ls *System) RemoveEffect(id string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if _, exists := ls.effects[id]; !exists {
		return
	}
	delete(ls.effects, id)
	for i, o := range ls.order {
		if o == id {
			ls.order = append(ls.order[:i], ls.order[i+1:]...)
			break
		}
	}
}

// Apply resets the snapshot and then re-derives it by running every
// applicable effect, layer by layer (sublayer by sublayer within layer 7),
// each layer ordered by dependency-adjusted timestamp (spec §4.6).
func (ls *System) Apply(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	snapshot.Reset()
	for _, layer := range layerOrder {
		if layer != LayerPowerToughness {
			ls.applyLayer(snapshot, layer, SublayerNone)
			continue
		}
		for _, sub := range sublayerOrder {
			ls.applyLayer(snapshot, layer, sub)
		}
	}
}

// applyLayer orders every effect registered for (layer, sub) and applies
// each in turn, re-checking AppliesTo immediately before Apply rather than
// upfront: an earlier effect in the same layer can change whether a later
// one applies (e.g. a type-replacing effect removing the type a second
// effect's filter tests for), so applicability can only be decided once
// dependency order is known and prior effects in the pass have already run.
func (ls *System) applyLayer(snapshot *Snapshot, layer Layer, sub Sublayer) {
	var candidates []Effect
	for _, id := range ls.order {
		e := ls.effects[id]
		if e.Layer() != layer {
			continue
		}
		if layer == LayerPowerToughness && e.Sublayer() != sub {
			continue
		}
		candidates = append(candidates, e)
	}
	for _, e := range orderEffects(candidates) {
		if e.AppliesTo(snapshot) {
			e.Apply(snapshot)
		}
	}
}

// orderEffects returns candidates ordered by timestamp, adjusted so that
// any effect B another effect A depends on applies before A. Cycles (A
// depends on B, B depends on A) cannot be resolved and fall back to plain
// timestamp order for the effects involved, per SPEC_FULL.md §3(a).
func orderEffects(candidates []Effect) []Effect {
	remaining := append([]Effect(nil), candidates...)
	sortByTimestamp(remaining)

	out := make([]Effect, 0, len(remaining))
	for len(remaining) > 0 {
		idx := nextReady(remaining)
		out = append(out, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return out
}

// nextReady returns the index of the earliest-timestamp effect in
// remaining that does not depend on any other effect still in remaining.
// If every remaining effect depends on some other remaining effect (a
// dependency cycle), the earliest-timestamp effect is returned instead.
func nextReady(remaining []Effect) int {
	for i, e := range remaining {
		blocked := false
		for j, other := range remaining {
			if i == j {
				continue
			}
			if e.DependsOn(other) {
				blocked = true
				break
			}
		}
		if !blocked {
			return i
		}
	}
	return 0
}

func sortByTimestamp(effects []Effect) {
	for i := 1; i < len(effects); i++ {
		for j := i; j > 0 && effects[j].Timestamp() < effects[j-1].Timestamp(); j-- {
			effects[j], effects[j-1] = effects[j-1], effects[j]
		}
	}
}

// Base provides the bookkeeping every Effect implementation shares.
type Base struct {
	id        string
	layer     Layer
	sublayer  Sublayer
	timestamp int64
}

// NewBase constructs the shared fields for a continuous effect. timestamp
// should be the source object's layers.Timestamp (battlefield entry order
// or, for effects created by a resolving spell/ability, that resolution's
// order) per CR 613.7.
func NewBase(id string, layer Layer, sublayer Sublayer, timestamp int64) Base {
	return Base{id: id, layer: layer, sublayer: sublayer, timestamp: timestamp}
}

func (b Base) ID() string            { return b.id }
func (b Base) Layer() Layer          { return b.layer }
func (b Base) Sublayer() Sublayer    { return b.sublayer }
func (b Base) Timestamp() int64      { return b.timestamp }
func (b Base) DependsOn(Effect) bool { return false }
