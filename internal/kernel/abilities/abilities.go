// Package abilities implements the ability primitive dispatcher from spec
// §4.8: a closed table of symbolic codes (damage_N, draw_N, ...), each
// mapped to a function from (source, controller, targets, x) to an
// event sequence, grounded on the teacher's effects package (whose
// GrantAbilityEffect/CantAttackEffect/etc show the "one small type per
// primitive" pattern) and on the design note's call to favor an
// exhaustively matched set over arbitrary closures so an unknown code
// fails loudly instead of silently no-opping.
package abilities

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cardforge/rulesforge/internal/kernel/events"
	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/kerrors"
)

// Target is one chosen target of a resolving ability: either an object or
// a player, mirroring targeting.Selection's shape without importing it
// (the dispatcher only needs to read targets, not validate them — that
// already happened before resolution via the targeting package).
type Target struct {
	IsPlayer bool
	Player   ids.PlayerSlot
	Object   ids.ObjectId
}

// ObjectTarget returns an object-valued Target.
func ObjectTarget(id ids.ObjectId) Target { return Target{Object: id} }

// PlayerTarget returns a player-valued Target.
func PlayerTarget(p ids.PlayerSlot) Target { return Target{IsPlayer: true, Player: p} }

// Request is everything a primitive's effect function needs: the source
// object, its controller, the targets chosen at cast/activation time, and
// an X value (0 when the card has no X in its cost).
type Request struct {
	Source     ids.ObjectId
	Controller ids.PlayerSlot
	Targets    []Target
	X          int

	// TokenPower/TokenToughness are only read by create_token_P_T; they are
	// parsed from the code itself (e.g. "create_token_2_2"), not carried
	// here, but a caller building tokens programmatically may set them to
	// skip the parse. Zero means "read from the code".
	TokenPower     int
	TokenToughness int
}

// EffectFunc computes the event sequence a resolving primitive produces.
// It never mutates state directly; the caller runs the returned events
// through the replacement pipeline and bus.
type EffectFunc func(req Request) ([]events.Event, error)

// Dispatcher is a closed table from ability code to effect function.
// Codes parameterized by a number (damage_N, draw_N, pump_P_T, ...) are
// matched by prefix and parsed, rather than registered one entry per
// possible N, keeping the table exhaustive without being infinite.
type Dispatcher struct {
	exact  map[string]EffectFunc
	prefix []prefixEntry
}

type prefixEntry struct {
	prefix string
	fn     func(req Request, suffix string) ([]events.Event, error)
}

// NewDispatcher returns the dispatcher with every primitive named in
// spec §4.8 registered.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{exact: make(map[string]EffectFunc)}

	d.exact[""] = noop
	d.exact["destroy_creature"] = destroyCreature
	d.exact["counter_spell"] = counterSpell
	d.exact["bounce"] = bounce
	d.exact["exile"] = exile
	d.exact["bite"] = bite
	d.exact["fight"] = fight

	d.prefix = []prefixEntry{
		{"damage_", parseN(damageN)},
		{"draw_", parseN(drawN)},
		{"mill_", parseN(millN)},
		{"gain_life_", parseN(gainLifeN)},
		{"create_token_", createTokenPT},
		{"pump_", pumpPT},
	}

	return d
}

// Resolve looks up code and invokes its effect function. An unregistered
// code returns kerrors.UnknownAbilityCode wrapped with the code itself
// (spec §4.8: "a hard error at resolution time ... do not silently
// no-op").
func (d *Dispatcher) Resolve(code string, req Request) ([]events.Event, error) {
	code = strings.TrimSpace(code)
	if fn, ok := d.exact[code]; ok {
		return fn(req)
	}
	for _, p := range d.prefix {
		if strings.HasPrefix(code, p.prefix) {
			return p.fn(req, strings.TrimPrefix(code, p.prefix))
		}
	}
	return nil, fmt.Errorf("%w: %q", kerrors.UnknownAbilityCode, code)
}

// noop resolves the empty code: a vanilla permanent (no AbilityCodes) or a
// triggered ability with no further effect of its own (its only job was to
// go on the stack and be seen resolving). Registered explicitly, not
// falling out of the exact/prefix lookup failing, so it stays distinct
// from a genuinely unrecognized code.
func noop(Request) ([]events.Event, error) { return nil, nil }

func parseN(f func(req Request, n int) ([]events.Event, error)) func(Request, string) ([]events.Event, error) {
	return func(req Request, suffix string) ([]events.Event, error) {
		n, err := strconv.Atoi(suffix)
		if err != nil {
			return nil, fmt.Errorf("%w: bad numeric suffix %q", kerrors.UnknownAbilityCode, suffix)
		}
		return f(req, n)
	}
}

func firstTarget(req Request) (Target, error) {
	if len(req.Targets) == 0 {
		return Target{}, fmt.Errorf("%w: primitive requires a target", kerrors.TargetBecameIllegal)
	}
	return req.Targets[0], nil
}

func damageTo(source ids.ObjectId, controller ids.PlayerSlot, amount int, t Target) events.Event {
	e := events.NewEvent(events.TypeDamage, source, controller).WithAmount(amount)
	if t.IsPlayer {
		return e.WithTargetPlayer(t.Player)
	}
	return e.WithTarget(t.Object)
}

// damageN is damage_N: deal N damage to the single chosen target (player
// or object). N is the numeral baked into the code; this function does
// not read Request.X, and no caller folds X into N, so the dispatcher has
// no notion of "X spells".
func damageN(req Request, n int) ([]events.Event, error) {
	t, err := firstTarget(req)
	if err != nil {
		return nil, err
	}
	return []events.Event{damageTo(req.Source, req.Controller, n, t)}, nil
}

// drawN is draw_N: the controller draws N cards.
func drawN(req Request, n int) ([]events.Event, error) {
	e := events.NewEvent(events.TypeDraw, req.Source, req.Controller).
		WithAmount(n).WithTargetPlayer(req.Controller)
	return []events.Event{e}, nil
}

// millN is mill_N: the target player puts the top N cards of their
// library into their graveyard.
func millN(req Request, n int) ([]events.Event, error) {
	t, err := firstTarget(req)
	if err != nil {
		return nil, err
	}
	if !t.IsPlayer {
		return nil, fmt.Errorf("%w: mill targets a player", kerrors.TargetBecameIllegal)
	}
	e := events.NewEvent(events.TypeMill, req.Source, req.Controller).
		WithAmount(n).WithTargetPlayer(t.Player)
	return []events.Event{e}, nil
}

// gainLifeN is gain_life_N: the controller gains N life.
func gainLifeN(req Request, n int) ([]events.Event, error) {
	e := events.NewEvent(events.TypeGainLife, req.Source, req.Controller).
		WithAmount(n).WithTargetPlayer(req.Controller)
	return []events.Event{e}, nil
}

// destroyCreature destroys the target creature (moves battlefield ->
// graveyard via a zone-change event; indestructible/regeneration are
// checked by the caller applying the event, per the sba package).
func destroyCreature(req Request) ([]events.Event, error) {
	t, err := firstTarget(req)
	if err != nil {
		return nil, err
	}
	if t.IsPlayer {
		return nil, fmt.Errorf("%w: destroy_creature targets an object", kerrors.TargetBecameIllegal)
	}
	e := events.NewEvent(events.TypeZoneChange, req.Source, req.Controller).WithTarget(t.Object)
	e.Metadata = map[string]string{"to_zone": ids.ZoneGraveyard.String(), "reason": "destroy"}
	return []events.Event{e}, nil
}

// counterSpell counters the targeted stack item.
func counterSpell(req Request) ([]events.Event, error) {
	t, err := firstTarget(req)
	if err != nil {
		return nil, err
	}
	if t.IsPlayer {
		return nil, fmt.Errorf("%w: counter_spell targets a spell", kerrors.TargetBecameIllegal)
	}
	e := events.NewEvent(events.TypeSpellCountered, req.Source, req.Controller).WithTarget(t.Object)
	return []events.Event{e}, nil
}

// bounce returns the target permanent or spell to its owner's hand.
func bounce(req Request) ([]events.Event, error) {
	t, err := firstTarget(req)
	if err != nil {
		return nil, err
	}
	if t.IsPlayer {
		return nil, fmt.Errorf("%w: bounce targets an object", kerrors.TargetBecameIllegal)
	}
	e := events.NewEvent(events.TypeZoneChange, req.Source, req.Controller).WithTarget(t.Object)
	e.Metadata = map[string]string{"to_zone": ids.ZoneHand.String()}
	return []events.Event{e}, nil
}

// exile moves the target to exile.
func exile(req Request) ([]events.Event, error) {
	t, err := firstTarget(req)
	if err != nil {
		return nil, err
	}
	if t.IsPlayer {
		return nil, fmt.Errorf("%w: exile targets an object", kerrors.TargetBecameIllegal)
	}
	e := events.NewEvent(events.TypeZoneChange, req.Source, req.Controller).WithTarget(t.Object)
	e.Metadata = map[string]string{"to_zone": ids.ZoneExile.String()}
	return []events.Event{e}, nil
}

// createTokenPT is create_token_P_T: create a token creature with the
// given power/toughness under the controller's control. Suffix is "P_T",
// e.g. "2_2".
func createTokenPT(req Request, suffix string) ([]events.Event, error) {
	power, toughness := req.TokenPower, req.TokenToughness
	if power == 0 && toughness == 0 {
		parts := strings.SplitN(suffix, "_", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: bad create_token suffix %q", kerrors.UnknownAbilityCode, suffix)
		}
		p, errP := strconv.Atoi(parts[0])
		tgh, errT := strconv.Atoi(parts[1])
		if errP != nil || errT != nil {
			return nil, fmt.Errorf("%w: bad create_token suffix %q", kerrors.UnknownAbilityCode, suffix)
		}
		power, toughness = p, tgh
	}
	e := events.NewEvent(events.TypeCreateToken, req.Source, req.Controller).
		WithAmount(power*1000 + toughness).WithTargetPlayer(req.Controller)
	e.Metadata = map[string]string{"power": strconv.Itoa(power), "toughness": strconv.Itoa(toughness)}
	return []events.Event{e}, nil
}

// pumpPT is pump_P_T: grant the target +P/+T until end of turn. P may be
// negative (e.g. "pump_-1_-1"); the caller's layer package is responsible
// for turning this event into a PTBoost continuous effect rather than an
// instantaneous mutation.
func pumpPT(req Request, suffix string) ([]events.Event, error) {
	t, err := firstTarget(req)
	if err != nil {
		return nil, err
	}
	if t.IsPlayer {
		return nil, fmt.Errorf("%w: pump targets an object", kerrors.TargetBecameIllegal)
	}
	parts := strings.SplitN(suffix, "_", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: bad pump suffix %q", kerrors.UnknownAbilityCode, suffix)
	}
	p, errP := strconv.Atoi(parts[0])
	tgh, errT := strconv.Atoi(parts[1])
	if errP != nil || errT != nil {
		return nil, fmt.Errorf("%w: bad pump suffix %q", kerrors.UnknownAbilityCode, suffix)
	}
	e := events.NewEvent(events.TypeAddCounter, req.Source, req.Controller).WithTarget(t.Object)
	e.Metadata = map[string]string{"kind": "pump", "power": strconv.Itoa(p), "toughness": strconv.Itoa(tgh)}
	return []events.Event{e}, nil
}

// bite is fight restricted to the source (the teacher's card pool calls
// this "bite": the source deals damage equal to its power to the target
// creature; the target does not deal damage back).
func bite(req Request) ([]events.Event, error) {
	t, err := firstTarget(req)
	if err != nil {
		return nil, err
	}
	if t.IsPlayer {
		return nil, fmt.Errorf("%w: bite targets a creature", kerrors.TargetBecameIllegal)
	}
	e := events.NewEvent(events.TypeDamage, req.Source, req.Controller).
		WithTarget(t.Object)
	e.Metadata = map[string]string{"power_of": "source"}
	return []events.Event{e}, nil
}

// fight is the mutual-damage primitive: source and target each deal
// damage to the other equal to their own power. Two events are returned;
// both must be applied as a single simultaneous batch by the caller.
func fight(req Request) ([]events.Event, error) {
	t, err := firstTarget(req)
	if err != nil {
		return nil, err
	}
	if t.IsPlayer {
		return nil, fmt.Errorf("%w: fight targets a creature", kerrors.TargetBecameIllegal)
	}
	sourceHits := events.NewEvent(events.TypeDamage, req.Source, req.Controller).WithTarget(t.Object)
	sourceHits.Metadata = map[string]string{"power_of": "source", "reason": "fight"}
	targetHits := events.NewEvent(events.TypeDamage, t.Object, req.Controller).WithTarget(req.Source)
	targetHits.Metadata = map[string]string{"power_of": "target", "reason": "fight"}
	return []events.Event{sourceHits, targetHits}, nil
}
