package replacement

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cardforge/rulesforge/internal/kernel/events"
	"github.com/cardforge/rulesforge/internal/kernel/ids"
)

// Chooser asks the affected player to pick one replacement effect among
// several equally-applicable candidates (spec §4.1 step 3, §6
// Agent.choose_replacement). The kernel's game package adapts the public
// Agent interface to this narrower shape so this package stays free of a
// dependency on the agent package.
type Chooser interface {
	ChooseReplacement(affected ids.PlayerSlot, event events.Event, candidates []Effect) int
}

// AffectedPlayer reports which player is "affected" by an event, per the
// table SPEC_FULL.md requires this package to own. Rule 616.1's "affected
// player" is the one whose game state the event would change: the
// controller of a damaged/destroyed object, the player who would draw or
// lose life, etc. For an event aimed at a player it returns that player.
// For an event aimed at an object it returns the event's Controller,
// because the event does not carry the object's controller; the game's
// Chooser replaces it with the target object's controller. ok is false
// when the event has no single affected player (e.g. a token-creation
// event with no controller-specific consequence), in which case Replace
// asks the event's Controller.
func AffectedPlayer(e events.Event) (ids.PlayerSlot, bool) {
	switch e.Type {
	case events.TypeDamage, events.TypeGainLife, events.TypeLoseLife,
		events.TypeDraw, events.TypeDiscard, events.TypeMill,
		events.TypePoisonCounter:
		if e.TargetIsPlayer {
			return e.TargetPlayer, true
		}
		return e.Controller, true
	case events.TypeZoneChange, events.TypeLeaveBattlefield, events.TypeETB,
		events.TypeAddCounter, events.TypeRemoveCounter, events.TypeTap, events.TypeUntap:
		return e.Controller, true
	default:
		return 0, false
	}
}

// Manager tracks every active replacement effect for one game and
// resolves events against them (spec §4.1 steps 1-4). Effects are kept in
// registration order, not map order: spec §4.1 step 2 requires ties among
// self-replacements (and, failing that, among any other bucket) to resolve
// in a fixed, reproducible order rather than Go's randomized map iteration.
type Manager struct {
	mu      sync.RWMutex
	effects map[string]Effect
	order   []string
	logger  *zap.Logger
}

// NewManager returns an empty replacement manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{effects: make(map[string]Effect), logger: logger}
}

// Add registers a replacement effect.
func (m *Manager) Add(e Effect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.effects[e.ID()]; !exists {
		m.order = append(m.order, e.ID())
	}
	m.effects[e.ID()] = e
}

// Remove unregisters a replacement effect by id.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.effects[id]; !exists {
		return
	}
	delete(m.effects, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Effects returns every currently-active replacement effect, in
// registration order.
func (m *Manager) Effects() []Effect {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Effect, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.effects[id])
	}
	return out
}

// maxIterations bounds the replacement loop, matching the teacher's
// safety limit against a misbehaving effect chain.
const maxIterations = 100

// Replace applies every eligible replacement effect to event, in the
// order spec §4.1 mandates:
//  1. collect effects whose predicate matches;
//  2. self-replacements apply first, in timestamp (here: registration)
//     order, each replacement applying at most once per event instance;
//  3. once self-replacements are exhausted, the affected player chooses
//     one remaining effect at a time via chooser, until none apply;
//  4. the result is returned for the caller to perform.
func (m *Manager) Replace(event events.Event, chooser Chooser) events.Event {
	m.mu.RLock()
	snapshot := make([]Effect, 0, len(m.order))
	for _, id := range m.order {
		snapshot = append(snapshot, m.effects[id])
	}
	m.mu.RUnlock()

	applied := make(map[string]bool, len(event.AppliedEffects))
	for _, id := range event.AppliedEffects {
		applied[id] = true
	}

	for iter := 0; iter < maxIterations; iter++ {
		candidates := applicable(snapshot, event, applied)
		if len(candidates) == 0 {
			return event
		}

		self, other := partition(candidates)
		var chosen Effect
		bucket := self
		affectedBucket := "self"
		if len(self) == 0 {
			bucket = other
			affectedBucket = "other"
		}

		if len(bucket) == 1 || affectedBucket == "self" {
			chosen = bucket[0]
		} else {
			affected, ok := AffectedPlayer(event)
			if !ok {
				affected = event.Controller
			}
			idx := 0
			if chooser != nil {
				idx = chooser.ChooseReplacement(affected, event, bucket)
			}
			if idx < 0 || idx >= len(bucket) {
				idx = 0
			}
			chosen = bucket[idx]
		}

		m.logger.Debug("applying replacement effect",
			zap.String("effect_id", chosen.ID()),
			zap.String("event_type", string(event.Type)),
			zap.String("bucket", affectedBucket))

		rewritten, removed := chosen.ReplaceEvent(event)
		event = rewritten
		applied[chosen.ID()] = true
		event.AppliedEffects = append(event.AppliedEffects, chosen.ID())

		if removed {
			return event
		}
	}

	m.logger.Warn("replacement chain exceeded max iterations", zap.String("event_type", string(event.Type)))
	return event
}

func applicable(all []Effect, event events.Event, applied map[string]bool) []Effect {
	var out []Effect
	for _, e := range all {
		if applied[e.ID()] {
			continue
		}
		if !e.ChecksEventType(event.Type) {
			continue
		}
		if !e.HasSelfScope() && event.SourceID == e.SourceID() {
			continue
		}
		if !e.Applies(event) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func partition(effects []Effect) (self, other []Effect) {
	for _, e := range effects {
		if e.IsSelfReplacement() {
			self = append(self, e)
		} else {
			other = append(other, e)
		}
	}
	return
}
