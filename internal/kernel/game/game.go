// Package game wires every kernel subsystem into one running match and
// exposes the spec §6 engine entry points: new_game, run_turn, and
// run_until_game_over. Grounded on the teacher's MageEngine (StartGame,
// ProcessAction, checkStateAndTriggered, resolveStack, moveCard), but
// restructured around typed Agent calls and events.Event instead of
// string-tagged actions and direct field mutation.
package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cardforge/rulesforge/internal/agent"
	"github.com/cardforge/rulesforge/internal/carddb"
	"github.com/cardforge/rulesforge/internal/kernel/abilities"
	"github.com/cardforge/rulesforge/internal/kernel/combat"
	"github.com/cardforge/rulesforge/internal/kernel/events"
	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/kerrors"
	"github.com/cardforge/rulesforge/internal/kernel/layers"
	"github.com/cardforge/rulesforge/internal/kernel/mana"
	"github.com/cardforge/rulesforge/internal/kernel/object"
	"github.com/cardforge/rulesforge/internal/kernel/replacement"
	"github.com/cardforge/rulesforge/internal/kernel/sba"
	"github.com/cardforge/rulesforge/internal/kernel/stack"
	"github.com/cardforge/rulesforge/internal/kernel/targeting"
	"github.com/cardforge/rulesforge/internal/kernel/turn"
	"github.com/cardforge/rulesforge/internal/kernel/zones"
	"github.com/cardforge/rulesforge/internal/rng"
)

const (
	startingLife    = 20
	openingHandSize = 7
	maxTurns        = 250 // draw safety valve; a real draw is also possible via SBA
)

// Outcome is the result of a completed match (spec §6: new_game/
// run_turn/run_until_game_over).
type Outcome int

const (
	Ongoing Outcome = iota
	P1Wins
	P2Wins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case P1Wins:
		return "P1Wins"
	case P2Wins:
		return "P2Wins"
	case Draw:
		return "Draw"
	default:
		return "Ongoing"
	}
}

// Game is the top-level running match: every kernel subsystem, wired
// together, plus the control flow that drives a turn from untap to
// cleanup. There is exactly one Game per match; nothing here is shared
// across games (spec §5's resource-model rule).
type Game struct {
	logger *zap.Logger

	idGen   *ids.IdGenerator
	instGen *ids.InstanceGenerator
	rngSrc  *rng.Source

	zoneSet *zones.Set
	objects map[ids.ObjectId]*object.GameObject
	players map[ids.PlayerSlot]*object.Player

	bus      *events.Bus
	repl     *replacement.Manager
	stackMgr *stack.Manager
	resCtx   *stack.ResolutionContext
	checker  *targeting.Checker
	layerSys *layers.System
	combatSt *combat.Combat
	dispatch *abilities.Dispatcher
	priority *stack.PriorityTracker
	turnEng  *turn.Engine

	agents map[ids.PlayerSlot]agent.Agent

	firstPlayer    ids.PlayerSlot
	landsPlayed    map[ids.PlayerSlot]int
	timestampSeq   int64
	untilEndOfTurn []string

	pendingTriggers []pendingTrigger

	outcome Outcome
}

// pendingTrigger is one triggered ability waiting to be put on the stack,
// queued by queueTriggersFor and drained by drainPendingTriggers (spec
// §4.7 step 3).
type pendingTrigger struct {
	controller ids.PlayerSlot
	source     ids.ObjectId
	sourceDef  *object.CardDefinition
	code       string
}

// NewGame builds a fresh two-player match: mints object ids for every
// card in each deck, shuffles libraries with the one seeded PRNG, and
// runs the opening-hand mulligan loop (spec §6 new_game(deck1, deck2,
// rng_seed, agents) -> Game).
func NewGame(p1Deck, p2Deck []string, db carddb.Database, seed uint64, p1Agent, p2Agent agent.Agent, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &Game{
		logger:  logger,
		idGen:   ids.NewIdGenerator(),
		instGen: ids.NewInstanceGenerator(),
		rngSrc:  rng.NewFromSeed(seed),
		zoneSet: zones.NewSet(),
		objects: make(map[ids.ObjectId]*object.GameObject),
		players: map[ids.PlayerSlot]*object.Player{
			ids.P1: object.NewPlayer(ids.P1, startingLife),
			ids.P2: object.NewPlayer(ids.P2, startingLife),
		},
		bus:         events.NewBus(),
		repl:        replacement.NewManager(logger),
		stackMgr:    stack.NewManager(),
		resCtx:      stack.NewResolutionContext(),
		layerSys:    layers.NewSystem(),
		combatSt:    combat.NewCombat(),
		dispatch:    abilities.NewDispatcher(),
		agents:      map[ids.PlayerSlot]agent.Agent{ids.P1: p1Agent, ids.P2: p2Agent},
		landsPlayed: make(map[ids.PlayerSlot]int),
		firstPlayer: ids.P1,
	}
	g.checker = targeting.NewChecker(g)
	g.priority = stack.NewPriorityTracker(g.firstPlayer)
	g.turnEng = turn.NewEngine(g.firstPlayer, g.priority)

	if err := g.buildLibrary(ids.P1, p1Deck, db); err != nil {
		return nil, err
	}
	if err := g.buildLibrary(ids.P2, p2Deck, db); err != nil {
		return nil, err
	}
	g.zoneSet.Shuffle(ids.P1, ids.ZoneLibrary, g.rngSrc)
	g.zoneSet.Shuffle(ids.P2, ids.ZoneLibrary, g.rngSrc)

	if err := g.openingHand(ids.P1); err != nil {
		return nil, err
	}
	if err := g.openingHand(ids.P2); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) buildLibrary(owner ids.PlayerSlot, deck []string, db carddb.Database) error {
	for _, name := range deck {
		def, ok := db.GetCard(name)
		if !ok {
			return fmt.Errorf("%w: unknown card %q", kerrors.DeckValidationError, name)
		}
		objID := g.idGen.NextObjectId()
		inst := g.instGen.Next()
		obj := object.NewGameObject(objID, inst, def, owner, ids.ZoneLibrary)
		g.objects[objID] = obj
		g.zoneSet.Enter(owner, ids.ZoneLibrary, objID)
	}
	return nil
}

// openingHand draws seven cards and runs the mulligan loop for owner,
// stopping after the London-style bottoming once a hand is kept or the
// player has mulliganed down to zero cards.
func (g *Game) openingHand(owner ids.PlayerSlot) error {
	for attempt := 0; ; attempt++ {
		for i := 0; i < openingHandSize; i++ {
			g.drawOne(owner)
		}
		g.players[owner].DrewFromEmptyLibrary = false // a mulligan draw never loses the game

		hand := g.handObjects(owner)
		decision := g.agents[owner].MulliganDecision(hand, attempt)
		if decision == agent.Keep || attempt >= openingHandSize {
			if attempt > 0 {
				g.bottomCards(owner, attempt)
			}
			return nil
		}

		for _, obj := range hand {
			g.zoneSet.Move(obj.ObjectID, ids.ZoneLibrary)
			obj.Zone = ids.ZoneLibrary
		}
		g.zoneSet.Shuffle(owner, ids.ZoneLibrary, g.rngSrc)
	}
}

func (g *Game) bottomCards(owner ids.PlayerSlot, n int) {
	hand := g.handObjects(owner)
	order := g.agents[owner].ChooseOrder(idsOf(hand))
	for i := 0; i < n && i < len(order); i++ {
		g.zoneSet.MoveToBottom(order[i], owner, ids.ZoneLibrary)
		if obj := g.objects[order[i]]; obj != nil {
			obj.Zone = ids.ZoneLibrary
		}
	}
}

func idsOf(objs []*object.GameObject) []ids.ObjectId {
	out := make([]ids.ObjectId, len(objs))
	for i, o := range objs {
		out[i] = o.ObjectID
	}
	return out
}

func (g *Game) handObjects(owner ids.PlayerSlot) []*object.GameObject {
	handIDs := g.zoneSet.Container(owner, ids.ZoneHand).Objects()
	out := make([]*object.GameObject, 0, len(handIDs))
	for _, id := range handIDs {
		if obj := g.objects[id]; obj != nil {
			out = append(out, obj)
		}
	}
	return out
}

func (g *Game) drawOne(owner ids.PlayerSlot) {
	top, ok := g.zoneSet.Container(owner, ids.ZoneLibrary).Top()
	if !ok {
		g.players[owner].DrewFromEmptyLibrary = true
		return
	}
	g.moveZone(top, owner, ids.ZoneHand)
}

// RunTurn plays one complete turn, from untap through cleanup, stopping
// early if the game ends mid-turn (spec §6 run_turn(game)).
func (g *Game) RunTurn() error {
	for {
		if err := g.runStep(); err != nil {
			return err
		}
		if g.outcome != Ongoing {
			return nil
		}
		requiresFS := g.combatSt.RequiresFirstStrikeStep(g)
		if g.turnEng.Advance(requiresFS) {
			return nil
		}
	}
}

// RunUntilGameOver runs turns until a player wins, the game draws, or
// maxTurns elapses without either (treated as a draw, since a kernel bug
// should not hang the caller forever) (spec §6
// run_until_game_over(game) -> Outcome).
func (g *Game) RunUntilGameOver() (Outcome, error) {
	for t := 0; t < maxTurns; t++ {
		if err := g.RunTurn(); err != nil {
			return g.outcome, err
		}
		if g.outcome != Ongoing {
			return g.outcome, nil
		}
	}
	return Draw, nil
}

// Outcome reports the match result so far (Ongoing until one is final).
func (g *Game) Outcome() Outcome { return g.outcome }

// Subscribe registers a listener for every event this match performs, for
// a trace recorder or spectator broadcaster (spec §6's observable trace).
func (g *Game) Subscribe(l events.Listener) {
	g.bus.Subscribe(l)
}

// TurnNumber reports the current turn count, for a caller recording a
// completed match's length (internal/ledger.Result.TurnCount).
func (g *Game) TurnNumber() int {
	return g.turnEng.TurnNumber()
}

func (g *Game) runStep() error {
	phase := g.turnEng.CurrentPhase()
	step := g.turnEng.CurrentStep()
	active := g.turnEng.ActivePlayer()

	g.publishPhaseStep(phase, step, active)

	switch {
	case step == ids.StepUntap:
		g.untapStep(active)
	case step == ids.StepDraw:
		g.drawStep(active)
	case phase == ids.PhaseCombat && step == ids.StepDeclareAttackers:
		g.declareAttackersStep(active)
	case phase == ids.PhaseCombat && step == ids.StepDeclareBlockers:
		g.declareBlockersStep(active)
	case phase == ids.PhaseCombat && step == ids.StepFirstStrikeDamage:
		g.performBatch(g.combatSt.AssignDamage(g, true))
	case phase == ids.PhaseCombat && step == ids.StepCombatDamage:
		g.performBatch(g.combatSt.AssignDamage(g, false))
	case step == ids.StepCleanup:
		g.cleanupStep(active)
	}

	g.runSBAAndCheckEnd()
	if g.outcome != Ongoing {
		return nil
	}

	if g.turnEng.StepGrantsPriority() {
		if err := g.priorityLoop(); err != nil {
			return err
		}
		if g.outcome != Ongoing {
			return nil
		}
	}

	g.players[ids.P1].Pool.Empty()
	g.players[ids.P2].Pool.Empty()

	if phase == ids.PhaseCombat && step == ids.StepEndOfCombat {
		g.combatSt = combat.NewCombat()
	}
	return nil
}

func (g *Game) publishPhaseStep(phase ids.Phase, step ids.Step, active ids.PlayerSlot) {
	bp := events.NewEvent(events.TypeBeginPhase, 0, active)
	bp.Metadata = map[string]string{"phase": phase.String()}
	g.bus.Publish(bp)

	bs := events.NewEvent(events.TypeBeginStep, 0, active)
	bs.Metadata = map[string]string{"step": step.String()}
	g.bus.Publish(bs)
}

func (g *Game) untapStep(active ids.PlayerSlot) {
	for _, obj := range g.Battlefield() {
		if obj.Controller != active {
			continue
		}
		obj.Tapped = false
		obj.SummoningSick = false
		g.bus.Publish(events.NewEvent(events.TypeUntap, obj.ObjectID, active))
	}
}

func (g *Game) drawStep(active ids.PlayerSlot) {
	if g.turnEng.TurnNumber() == 1 && active == g.firstPlayer {
		return // the player on the play skips their first draw
	}
	g.perform(events.NewEvent(events.TypeDraw, 0, active).WithAmount(1).WithTargetPlayer(active))
}

func (g *Game) cleanupStep(active ids.PlayerSlot) {
	for _, id := range g.untilEndOfTurn {
		g.layerSys.RemoveEffect(id)
	}
	g.untilEndOfTurn = nil

	for _, obj := range g.Battlefield() {
		obj.MarkedDamage = 0
		obj.DamagedByDeathtouchSince = false
	}

	g.enforceHandSize(active)
	g.landsPlayed[ids.P1] = 0
	g.landsPlayed[ids.P2] = 0
}

func (g *Game) enforceHandSize(owner ids.PlayerSlot) {
	p := g.players[owner]
	hand := g.handObjects(owner)
	if len(hand) <= p.MaxHandSize {
		return
	}
	excess := len(hand) - p.MaxHandSize
	order := g.agents[owner].ChooseOrder(idsOf(hand))
	for i := 0; i < excess && i < len(order); i++ {
		if obj := g.objects[order[i]]; obj != nil {
			g.moveZone(obj.ObjectID, owner, ids.ZoneGraveyard)
		}
	}
}

// declareAttackersStep offers one legal "declare this creature as an
// attacker" action per eligible creature until the active player passes
// (spec §6's agent has no dedicated attacker-declaration call; attacker
// declaration is expressed through the generic choose_action mechanism,
// the same way land plays and spell casts are).
func (g *Game) declareAttackersStep(active ids.PlayerSlot) {
	g.combatSt = combat.NewCombat()
	defender := active.Opponent()

	for {
		eligible := g.eligibleAttackers(active)
		if len(eligible) == 0 {
			return
		}
		legal := []agent.Action{{Kind: agent.ActionPass}}
		for _, id := range eligible {
			legal = append(legal, agent.Action{Kind: agent.ActionDeclareAttacker, SourceCard: id})
		}

		act := g.agents[active].ChooseAction(g.publicState(), g.privateView(active), legal)
		if act.Kind != agent.ActionDeclareAttacker {
			return
		}
		obj := g.objects[act.SourceCard]
		if obj == nil || obj.Controller != active || obj.Tapped || obj.Zone != ids.ZoneBattlefield {
			continue
		}
		if obj.SummoningSick && !g.HasKeyword(obj.ObjectID, "haste") {
			continue
		}

		g.combatSt.DeclareAttacker(obj.ObjectID, combat.PlayerDefender(defender))
		if !g.HasKeyword(obj.ObjectID, "vigilance") {
			obj.Tapped = true
		}
		g.bus.Publish(events.NewEvent(events.TypeAttackerDeclared, obj.ObjectID, active).WithTargetPlayer(defender))
		g.queueTriggersFor(obj, object.TriggerAttacks)
	}
}

func (g *Game) eligibleAttackers(active ids.PlayerSlot) []ids.ObjectId {
	var out []ids.ObjectId
	for _, obj := range g.Battlefield() {
		if obj.Controller != active || obj.Tapped || !obj.Def.HasType(ids.CardTypeCreature) {
			continue
		}
		if obj.SummoningSick && !g.HasKeyword(obj.ObjectID, "haste") {
			continue
		}
		if g.isAttacking(obj.ObjectID) {
			continue
		}
		out = append(out, obj.ObjectID)
	}
	return out
}

func (g *Game) isAttacking(id ids.ObjectId) bool {
	for _, grp := range g.combatSt.Groups {
		for _, a := range grp.Attackers {
			if a == id {
				return true
			}
		}
	}
	return false
}

func (g *Game) declareBlockersStep(active ids.PlayerSlot) {
	defending := active.Opponent()

	var attackers []ids.ObjectId
	potential := make(map[ids.ObjectId][]ids.ObjectId)
	for _, grp := range g.combatSt.Groups {
		for _, a := range grp.Attackers {
			attackers = append(attackers, a)
			potential[a] = g.eligibleBlockers(defending, a)
		}
	}
	if len(attackers) == 0 {
		return
	}

	assignment := g.agents[defending].ChooseBlockers(attackers, potential)
	for attacker, blockers := range assignment {
		legalBlockers := g.filterBlockerDeclaration(attacker, blockers, potential[attacker])
		for _, blocker := range legalBlockers {
			g.combatSt.DeclareBlocker(blocker, attacker)
			if obj := g.objects[blocker]; obj != nil {
				g.bus.Publish(events.NewEvent(events.TypeBlockerDeclared, blocker, defending).WithTarget(attacker))
			}
		}
	}
}

// filterBlockerDeclaration drops any chosen blocker not in potential (the
// already-legal set from eligibleBlockers), then enforces menace (spec
// §4.5: a creature with menace can't be blocked except by two or more
// creatures) by discarding the whole declaration for attacker if fewer
// than two legal blockers remain.
func (g *Game) filterBlockerDeclaration(attacker ids.ObjectId, chosen, potential []ids.ObjectId) []ids.ObjectId {
	var legal []ids.ObjectId
	for _, blocker := range chosen {
		if containsID(potential, blocker) {
			legal = append(legal, blocker)
		}
	}
	if g.HasKeyword(attacker, "menace") && len(legal) < 2 {
		return nil
	}
	return legal
}

func (g *Game) eligibleBlockers(defending ids.PlayerSlot, attacker ids.ObjectId) []ids.ObjectId {
	attackerFlies := g.HasKeyword(attacker, "flying")
	var out []ids.ObjectId
	for _, obj := range g.Battlefield() {
		if obj.Controller != defending || obj.Tapped || !obj.Def.HasType(ids.CardTypeCreature) {
			continue
		}
		if attackerFlies && !g.HasKeyword(obj.ObjectID, "flying") && !g.HasKeyword(obj.ObjectID, "reach") {
			continue
		}
		if g.blockerExcludedByProtection(attacker, obj) {
			continue
		}
		out = append(out, obj.ObjectID)
	}
	return out
}

// blockerExcludedByProtection reports whether attacker's protection keeps
// blocker from blocking it at all (CR 702.16e: a creature with protection
// from a quality can't be blocked by creatures with that quality).
func (g *Game) blockerExcludedByProtection(attacker ids.ObjectId, blocker *object.GameObject) bool {
	attackerObj := g.objects[attacker]
	if attackerObj == nil || attackerObj.Def == nil || blocker.Def == nil {
		return false
	}
	for _, c := range blocker.Def.Colors {
		if attackerObj.Def.HasProtectionFrom(c) {
			return true
		}
	}
	return false
}

func containsID(list []ids.ObjectId, id ids.ObjectId) bool {
	for _, x := range list {
		if x == id {
			return true
		}
	}
	return false
}

// priorityLoop drives the priority-pass state machine for the current
// step: offer legal actions to the holder, act on a non-pass choice, or
// resolve the top of the stack (or end the step) once both players have
// passed in succession (spec §4.7 step 5, §6 choose_action).
func (g *Game) priorityLoop() error {
	const maxRuleViolations = 3
	violations := make(map[ids.PlayerSlot]int, 2)

	for {
		holder := g.priority.Holder()
		legal := g.legalActions(holder)
		act := g.agents[holder].ChooseAction(g.publicState(), g.privateView(holder), legal)

		if act.Kind == agent.ActionPass {
			if !g.priority.Pass() {
				continue
			}
			if _, ok := g.stackMgr.Peek(); ok {
				if err := g.resolveTop(); err != nil {
					return err
				}
				g.runSBAAndCheckEnd()
				if g.outcome != Ongoing {
					return nil
				}
				g.priority.StartNewRound(g.turnEng.ActivePlayer())
				continue
			}
			return nil
		}

		if err := g.performAction(holder, act); err != nil {
			if kerrors.Fatal(err) {
				return err
			}
			violations[holder]++
			g.logger.Warn("agent action rejected",
				zap.String("player", holder.String()), zap.Error(err), zap.Int("violations", violations[holder]))
			if violations[holder] > maxRuleViolations {
				g.players[holder].Lost = true
				g.runSBAAndCheckEnd()
				return nil
			}
			continue
		}

		g.priority.Act()
		g.runSBAAndCheckEnd()
		if g.outcome != Ongoing {
			return nil
		}
	}
}

func (g *Game) legalActions(holder ids.PlayerSlot) []agent.Action {
	legal := []agent.Action{{Kind: agent.ActionPass}}
	sorcerySpeed := g.turnEng.IsMainPhase() && g.turnEng.ActivePlayer() == holder && g.stackMgr.IsEmpty()

	for _, obj := range g.handObjects(holder) {
		if obj.Def.HasType(ids.CardTypeLand) {
			if sorcerySpeed && g.landsPlayed[holder] < 1 {
				legal = append(legal, agent.Action{Kind: agent.ActionPlayLand, SourceCard: obj.ObjectID})
			}
			continue
		}
		instantSpeed := obj.Def.HasType(ids.CardTypeInstant)
		if !instantSpeed && !sorcerySpeed {
			continue
		}
		if obj.Def.Cost == nil || !mana.CanPay(obj.Def.Cost, g.availableMana(holder), 0) {
			continue
		}
		legal = append(legal, agent.Action{Kind: agent.ActionCastSpell, SourceCard: obj.ObjectID, AbilityCode: firstAbilityCode(obj.Def)})
	}
	return legal
}

// availableMana projects the mana holder could have available this
// priority window: whatever is already floating in their pool plus one
// mana per untapped land, auto-tapped for its first printed color (spec
// §4.2's payability search does not model a separate "activate mana
// ability" stack-free step; lands are the kernel's only mana source and
// tap themselves as part of payment).
func (g *Game) availableMana(holder ids.PlayerSlot) *mana.Pool {
	p := g.players[holder].Pool.Copy()
	for _, land := range g.untappedLands(holder) {
		p.Add(landColor(land.Def), 1)
	}
	return p
}

func (g *Game) untappedLands(owner ids.PlayerSlot) []*object.GameObject {
	var out []*object.GameObject
	for _, obj := range g.Battlefield() {
		if obj.Controller == owner && obj.Def.HasType(ids.CardTypeLand) && !obj.Tapped {
			out = append(out, obj)
		}
	}
	return out
}

func landColor(def *object.CardDefinition) mana.ManaType {
	if len(def.Colors) > 0 {
		return mana.ManaType(def.Colors[0])
	}
	return mana.Colorless
}

func firstAbilityCode(def *object.CardDefinition) string {
	if len(def.AbilityCodes) == 0 {
		return ""
	}
	return def.AbilityCodes[0]
}

func (g *Game) performAction(holder ids.PlayerSlot, act agent.Action) error {
	switch act.Kind {
	case agent.ActionPlayLand:
		return g.playLand(holder, act.SourceCard)
	case agent.ActionCastSpell:
		return g.castSpellAction(holder, act.SourceCard)
	default:
		return fmt.Errorf("%w: unrecognized action kind %q", kerrors.RuleViolation, act.Kind)
	}
}

func (g *Game) playLand(holder ids.PlayerSlot, cardID ids.ObjectId) error {
	obj := g.objects[cardID]
	if obj == nil || obj.Zone != ids.ZoneHand || obj.Controller != holder || !obj.Def.HasType(ids.CardTypeLand) {
		return fmt.Errorf("%w: illegal land play", kerrors.RuleViolation)
	}
	if !g.turnEng.IsMainPhase() || g.turnEng.ActivePlayer() != holder || !g.stackMgr.IsEmpty() {
		return fmt.Errorf("%w: lands are sorcery-speed only", kerrors.RuleViolation)
	}
	if g.landsPlayed[holder] >= 1 {
		return fmt.Errorf("%w: land already played this turn", kerrors.RuleViolation)
	}
	g.moveZone(cardID, holder, ids.ZoneBattlefield)
	g.landsPlayed[holder]++
	return nil
}

func (g *Game) castSpellAction(holder ids.PlayerSlot, cardID ids.ObjectId) error {
	obj := g.objects[cardID]
	if obj == nil || obj.Zone != ids.ZoneHand || obj.Controller != holder {
		return fmt.Errorf("%w: illegal spell cast", kerrors.RuleViolation)
	}
	return g.castSpell(holder, obj)
}

// castSpell pays the card's cost, collects targets if its primitive
// needs any, and pushes it to the stack (spec §4 component 6).
func (g *Game) castSpell(caster ids.PlayerSlot, card *object.GameObject) error {
	if card.Def.Cost == nil {
		return fmt.Errorf("%w: %s has no printed cost", kerrors.Internal, card.Def.Name)
	}

	code := firstAbilityCode(card.Def)
	item := &object.StackItem{
		ID:             card.ObjectID,
		Kind:           object.StackItemSpell,
		SourceObjectID: card.ObjectID,
		SourceDef:      card.Def,
		Controller:     caster,
		AbilityCode:    code,
	}

	if tType, needs := abilityTargetType(code); needs {
		req := targeting.Requirement{Type: tType, MinTargets: 1, MaxTargets: 1}
		candidates := g.candidateSelections(req, caster, sourceColors(card.Def))
		selections := g.agents[caster].ChooseTargets(card.ObjectID, req, candidates)
		for _, sel := range selections {
			item.Targets = append(item.Targets, sel.Targets...)
		}
		if len(item.Targets) < req.MinTargets {
			return fmt.Errorf("%w: %s requires a target", kerrors.RuleViolation, card.Def.Name)
		}
	}

	plan, ok := mana.Pay(card.Def.Cost, g.availableManaForPayment(caster), 0)
	if !ok {
		return fmt.Errorf("%w: cannot pay %s", kerrors.RuleViolation, card.Def.Cost.String())
	}
	item.Payment = plan

	g.moveZone(card.ObjectID, caster, ids.ZoneStack)
	g.stackMgr.Push(item)
	g.bus.Publish(events.NewEvent(events.TypeCast, card.ObjectID, caster))
	return nil
}

// availableManaForPayment actually taps lands (unlike availableMana's
// read-only projection used for legality scanning) so the real pool
// reflects what was spent.
func (g *Game) availableManaForPayment(caster ids.PlayerSlot) *mana.Pool {
	pool := g.players[caster].Pool
	for _, land := range g.untappedLands(caster) {
		land.Tapped = true
		pool.Add(landColor(land.Def), 1)
	}
	return pool
}

// abilityTargetType reports the target type a closed ability code
// expects, and whether it needs a target at all. damage_N can in
// principle hit either a player or a creature; lacking a second code to
// distinguish the two, this kernel resolves damage_N against a player by
// default — a card whose printed text demands a creature target would
// need a distinct code, noted as an open simplification.
func abilityTargetType(code string) (targeting.Type, bool) {
	switch {
	case code == "destroy_creature", code == "bounce", code == "exile", code == "bite", code == "fight",
		strings.HasPrefix(code, "pump_"):
		return targeting.TypeCreature, true
	case code == "counter_spell":
		return targeting.TypeSpell, true
	case strings.HasPrefix(code, "damage_"), strings.HasPrefix(code, "mill_"):
		return targeting.TypePlayer, true
	default:
		return "", false
	}
}

// candidateSelections lists every legal target for req a source controlled
// by caster with sourceColors could currently choose, excluding anything
// hexproof/shrouded/protected against it (spec §4.3 step 2) so illegal
// candidates are never even offered to the choosing agent.
func (g *Game) candidateSelections(req targeting.Requirement, caster ids.PlayerSlot, sourceColors []ids.Color) []targeting.Selection {
	var out []targeting.Selection
	switch req.Type {
	case targeting.TypePlayer:
		for _, slot := range []ids.PlayerSlot{ids.P1, ids.P2} {
			out = append(out, targeting.Selection{Requirement: req, Targets: []object.TargetChoice{
				{IsPlayer: true, PlayerTarget: slot, ExpectedType: string(req.Type)},
			}})
		}
	case targeting.TypeSpell:
		for _, item := range g.stackMgr.List() {
			out = append(out, targeting.Selection{Requirement: req, Targets: []object.TargetChoice{
				{ObjectID: item.ID, ExpectedType: string(req.Type)},
			}})
		}
	default:
		for _, obj := range g.Battlefield() {
			if req.Type.Matches(obj) && targeting.Targetable(obj, caster, sourceColors) {
				out = append(out, targeting.Selection{Requirement: req, Targets: []object.TargetChoice{
					{ObjectID: obj.ObjectID, ExpectedType: string(req.Type)},
				}})
			}
		}
	}
	return out
}

// sourceColors returns a card's printed colors, or nil for a colorless
// source or one with no printed definition (e.g. a triggered ability whose
// source already left the battlefield).
func sourceColors(def *object.CardDefinition) []ids.Color {
	if def == nil {
		return nil
	}
	return def.Colors
}

// resolveTop pops the stack's top item, re-validates its legality and
// targets (spec §4.3 step 1), and resolves it, or fizzles it cleanly if
// every target became illegal.
func (g *Game) resolveTop() error {
	item, ok := g.stackMgr.Pop()
	if !ok {
		return nil
	}
	if !g.resCtx.Begin(item.ID) {
		return fmt.Errorf("%w: resolution nesting too deep", kerrors.Internal)
	}
	defer g.resCtx.End(item.ID)

	result := g.checker.CheckStackItemLegality(item)
	if !result.Legal {
		g.finishLeaveStack(item)
		return nil
	}

	if len(item.Targets) > 0 {
		item.Targets = g.checker.FilterLegalTargets(item.Targets, item.Controller, sourceColors(item.SourceDef))
		if len(item.Targets) == 0 {
			g.finishLeaveStack(item)
			return nil
		}
	}

	req := g.abilityRequest(item)
	evts, err := g.dispatch.Resolve(item.AbilityCode, req)
	if err != nil {
		if errors.Is(err, kerrors.TargetBecameIllegal) {
			g.finishLeaveStack(item)
			return nil
		}
		return err
	}

	g.performBatch(evts)
	g.finishResolvedSpell(item)
	return nil
}

func (g *Game) abilityRequest(item *object.StackItem) abilities.Request {
	req := abilities.Request{Source: item.SourceObjectID, Controller: item.Controller, X: item.XValue}
	for _, t := range item.Targets {
		if t.IsPlayer {
			req.Targets = append(req.Targets, abilities.PlayerTarget(t.PlayerTarget))
		} else {
			req.Targets = append(req.Targets, abilities.ObjectTarget(t.ObjectID))
		}
	}
	return req
}

func (g *Game) finishLeaveStack(item *object.StackItem) {
	if item.Kind != object.StackItemSpell {
		return
	}
	if obj := g.objects[item.SourceObjectID]; obj != nil && obj.Zone == ids.ZoneStack {
		g.moveZone(obj.ObjectID, obj.Owner, ids.ZoneGraveyard)
	}
}

func (g *Game) finishResolvedSpell(item *object.StackItem) {
	obj := g.objects[item.SourceObjectID]
	if obj == nil || obj.Zone != ids.ZoneStack {
		return
	}
	if isPermanentDef(obj.Def) {
		g.moveZone(obj.ObjectID, obj.Controller, ids.ZoneBattlefield)
	} else {
		g.moveZone(obj.ObjectID, obj.Owner, ids.ZoneGraveyard)
	}
}

func isPermanentDef(def *object.CardDefinition) bool {
	return def.HasType(ids.CardTypeCreature) || def.HasType(ids.CardTypeArtifact) ||
		def.HasType(ids.CardTypeEnchantment) || def.HasType(ids.CardTypePlaneswalker) || def.HasType(ids.CardTypeLand)
}

// performBatch runs every event in evts through perform with no SBA
// sweep between them, since a batch is one simultaneous occurrence
// (spec §4.5, §4.7 — combat damage and SBAs are each a single event).
func (g *Game) performBatch(evts []events.Event) {
	for _, e := range evts {
		g.perform(e)
	}
}

// perform runs one proposed event through the replacement pipeline,
// applies it, and then announces it on the bus (spec §4.1). It is not the
// only path that changes state: untapping, land plays, casting a spell
// onto the stack, discarding to hand size and dealing opening hands
// change objects or zones directly.
func (g *Game) perform(e events.Event) events.Event {
	e = g.repl.Replace(e, g)
	e.Performed = true

	switch e.Type {
	case events.TypeDamage, events.TypeCombatDamage:
		g.applyDamage(e)
	case events.TypeDraw:
		for i := 0; i < e.Amount; i++ {
			g.drawOne(e.TargetPlayer)
		}
	case events.TypeGainLife:
		g.players[e.TargetPlayer].Life += e.Amount
	case events.TypeLoseLife:
		g.players[e.TargetPlayer].Life -= e.Amount
	case events.TypeMill:
		g.applyMill(e)
	case events.TypeDiscard:
		g.applyDiscard(e)
	case events.TypeZoneChange:
		g.applyZoneChange(e)
	case events.TypeCreateToken:
		g.applyCreateToken(e)
	case events.TypeAddCounter:
		g.applyAddCounter(e)
	case events.TypeSpellCountered:
		g.applyCounterSpell(e)
	case events.TypeTap:
		if obj := g.objects[e.TargetID]; obj != nil {
			obj.Tapped = true
		}
	case events.TypeUntap:
		if obj := g.objects[e.TargetID]; obj != nil {
			obj.Tapped = false
		}
	case events.TypePoisonCounter:
		g.players[e.TargetPlayer].Poison += e.Amount
	}

	g.bus.Publish(e)
	return e
}

// applyDamage applies marked damage (or life loss, for a player target).
// When Metadata carries "power_of" the amount is read from the event's
// SourceID's current power instead of Amount: both fight()'s sourceHits
// and targetHits events set SourceID to whichever object is dealing that
// particular half of the damage, so the two cases need no further branch
// on the metadata's literal value.
func (g *Game) applyDamage(e events.Event) {
	amount := e.Amount
	if _, ok := e.Metadata["power_of"]; ok {
		amount, _ = g.effectivePT(e.SourceID)
	}
	if amount <= 0 {
		return
	}

	if e.TargetIsPlayer {
		g.players[e.TargetPlayer].Life -= amount
	} else {
		obj := g.objects[e.TargetID]
		if obj == nil {
			return
		}
		obj.MarkedDamage += amount
		if hasKind(e.DamageKinds, "deathtouch") {
			obj.DamagedByDeathtouchSince = true
		}
	}

	if hasKind(e.DamageKinds, "lifelink") {
		g.players[e.Controller].Life += amount
	}

	if e.Type == events.TypeCombatDamage {
		g.queueTriggersFor(g.objects[e.SourceID], object.TriggerDealsDamage)
	}
}

func hasKind(kinds []string, k string) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

func (g *Game) applyMill(e events.Event) {
	for i := 0; i < e.Amount; i++ {
		top, ok := g.zoneSet.Container(e.TargetPlayer, ids.ZoneLibrary).Top()
		if !ok {
			break
		}
		g.moveZone(top, e.TargetPlayer, ids.ZoneGraveyard)
	}
}

func (g *Game) applyDiscard(e events.Event) {
	obj := g.objects[e.TargetID]
	if obj == nil {
		return
	}
	g.moveZone(obj.ObjectID, obj.Owner, ids.ZoneGraveyard)
}

func (g *Game) applyZoneChange(e events.Event) {
	obj := g.objects[e.TargetID]
	if obj == nil {
		return
	}
	to, ok := zoneFromString(e.Metadata["to_zone"])
	if !ok {
		return
	}
	if e.Metadata["reason"] == "destroy" {
		if g.IsIndestructible(obj) {
			return
		}
		if obj.RegenerateShield {
			obj.RegenerateShield = false
			obj.Tapped = true
			obj.MarkedDamage = 0
			obj.DamagedByDeathtouchSince = false
			g.RemoveFromCombat(obj)
			return
		}
	}
	g.moveZone(obj.ObjectID, obj.Owner, to)
}

func zoneFromString(s string) (ids.Zone, bool) {
	for _, z := range []ids.Zone{
		ids.ZoneLibrary, ids.ZoneHand, ids.ZoneBattlefield, ids.ZoneGraveyard,
		ids.ZoneStack, ids.ZoneExile, ids.ZoneCommand,
	} {
		if z.String() == s {
			return z, true
		}
	}
	return 0, false
}

func (g *Game) applyCreateToken(e events.Event) {
	power, _ := strconv.Atoi(e.Metadata["power"])
	toughness, _ := strconv.Atoi(e.Metadata["toughness"])

	def := &object.CardDefinition{
		Name:          "Token",
		Types:         []ids.CardType{ids.CardTypeCreature},
		BasePower:     power,
		BaseToughness: toughness,
		HasPT:         true,
	}

	objID := g.idGen.NextObjectId()
	inst := g.instGen.Next()
	obj := object.NewGameObject(objID, inst, def, e.TargetPlayer, ids.ZoneBattlefield)
	obj.IsToken = true
	obj.SummoningSick = true
	obj.Timestamp = g.nextTimestamp()

	g.objects[objID] = obj
	g.zoneSet.Enter(e.TargetPlayer, ids.ZoneBattlefield, objID)
	g.bus.Publish(events.NewEvent(events.TypeETB, objID, e.TargetPlayer))
}

// applyAddCounter distinguishes a "pump" (until-end-of-turn, registered
// as a layered PTBoost and unwound at cleanup) from a permanent +1/+1 or
// -1/-1 counter (added directly to the object's counter collection,
// where the SBA sweep's pairwise cancellation already looks for it).
func (g *Game) applyAddCounter(e events.Event) {
	obj := g.objects[e.TargetID]
	if obj == nil {
		return
	}
	power, _ := strconv.Atoi(e.Metadata["power"])
	toughness, _ := strconv.Atoi(e.Metadata["toughness"])

	if e.Metadata["kind"] == "pump" {
		target := obj.ObjectID
		id := fmt.Sprintf("pump-%d-%d", target, g.nextTimestamp())
		eff := layers.NewPTBoost(id, g.nextTimestamp(), power, toughness, func(s *layers.Snapshot) bool {
			return s.ObjectID == uint64(target)
		})
		g.layerSys.AddEffect(eff)
		g.untilEndOfTurn = append(g.untilEndOfTurn, id)
		return
	}

	obj.Counters.AddCount(fmt.Sprintf("%+d/%+d", power, toughness), 1)
}

func (g *Game) applyCounterSpell(e events.Event) {
	item, ok := g.stackMgr.Remove(e.TargetID)
	if !ok {
		return
	}
	g.finishLeaveStack(item)
}

func (g *Game) nextTimestamp() int64 {
	g.timestampSeq++
	return g.timestampSeq
}

// moveZone moves an object between zones during play, minting a fresh
// InstanceId and clearing transient state per the usual "zone change
// resets it" rule, and publishing leave/enter-battlefield events around
// the transition. Returning an opening hand, bottoming mulliganed cards,
// token creation and a token ceasing to exist use the zone set directly.
func (g *Game) moveZone(id ids.ObjectId, owner ids.PlayerSlot, to ids.Zone) {
	obj := g.objects[id]
	if obj == nil {
		return
	}
	from := obj.Zone

	if from == ids.ZoneBattlefield && to != ids.ZoneBattlefield {
		g.bus.Publish(events.NewEvent(events.TypeLeaveBattlefield, id, obj.Controller))
		g.RemoveFromCombat(obj)
	}
	if to == ids.ZoneBattlefield {
		obj.Controller = owner
	}

	if !g.zoneSet.MoveTo(id, owner, to) {
		return
	}

	obj.Zone = to
	obj.InstanceID = g.instGen.Next()
	obj.Tapped = false
	obj.MarkedDamage = 0
	obj.DamagedByDeathtouchSince = false
	obj.HasAttachedTo = false

	if to == ids.ZoneBattlefield {
		obj.Timestamp = g.nextTimestamp()
		obj.SummoningSick = true
		g.bus.Publish(events.NewEvent(events.TypeETB, id, owner))
		g.queueTriggersFor(obj, object.TriggerETB)
	}
}

// queueTriggersFor appends one pendingTrigger for every triggered ability
// on obj that fires on cond, to be put on the stack the next time
// drainPendingTriggers runs (spec §4.7 step 3).
func (g *Game) queueTriggersFor(obj *object.GameObject, cond object.TriggerCondition) {
	if obj == nil || obj.Def == nil {
		return
	}
	for _, trig := range obj.Def.Triggers {
		if trig.On != cond {
			continue
		}
		g.pendingTriggers = append(g.pendingTriggers, pendingTrigger{
			controller: obj.Controller,
			source:     obj.ObjectID,
			sourceDef:  obj.Def,
			code:       trig.AbilityCode,
		})
	}
}

// drainPendingTriggers puts every pending triggered ability onto the
// stack, the active player's triggers first and in an order that player
// chooses, then the non-active player's (spec §4.7 step 3's APNAP order).
// It reports whether anything was queued, so callers can tell the SBA
// loop to run again.
func (g *Game) drainPendingTriggers() bool {
	if len(g.pendingTriggers) == 0 {
		return false
	}
	pending := g.pendingTriggers
	g.pendingTriggers = nil

	active := g.turnEng.ActivePlayer()
	for _, controller := range []ids.PlayerSlot{active, active.Opponent()} {
		var mine []pendingTrigger
		for _, t := range pending {
			if t.controller == controller {
				mine = append(mine, t)
			}
		}
		if len(mine) > 1 {
			sources := make([]ids.ObjectId, len(mine))
			for i, t := range mine {
				sources[i] = t.source
			}
			mine = reorderTriggers(mine, g.agents[controller].ChooseOrder(sources))
		}
		for _, t := range mine {
			g.pushTriggeredAbility(t)
		}
	}
	return true
}

// reorderTriggers reorders triggers to match order, a permutation of
// their sources returned by Agent.ChooseOrder. Multiple triggers sharing
// one source are matched to that source's occurrences in order.
func reorderTriggers(triggers []pendingTrigger, order []ids.ObjectId) []pendingTrigger {
	bySource := make(map[ids.ObjectId][]pendingTrigger, len(triggers))
	for _, t := range triggers {
		bySource[t.source] = append(bySource[t.source], t)
	}
	out := make([]pendingTrigger, 0, len(triggers))
	for _, src := range order {
		if queue := bySource[src]; len(queue) > 0 {
			out = append(out, queue[0])
			bySource[src] = queue[1:]
		}
	}
	return out
}

// pushTriggeredAbility builds a stack item for one triggered ability,
// choosing targets the same way a spell does if its primitive needs any,
// and pushes it (spec §4.7 step 4). A trigger that requires a target but
// has none currently legal simply doesn't go on the stack (CR 603.3c's
// "removed from the stack" would apply to an already-pushed item; since
// none exists yet here, it is never created).
func (g *Game) pushTriggeredAbility(t pendingTrigger) {
	item := &object.StackItem{
		ID:             g.idGen.NextObjectId(),
		Kind:           object.StackItemTriggered,
		SourceObjectID: t.source,
		SourceDef:      t.sourceDef,
		Controller:     t.controller,
		AbilityCode:    t.code,
	}

	if tType, needs := abilityTargetType(t.code); needs {
		req := targeting.Requirement{Type: tType, MinTargets: 1, MaxTargets: 1}
		candidates := g.candidateSelections(req, t.controller, sourceColors(t.sourceDef))
		if len(candidates) == 0 {
			return
		}
		selections := g.agents[t.controller].ChooseTargets(t.source, req, candidates)
		for _, sel := range selections {
			item.Targets = append(item.Targets, sel.Targets...)
		}
		if len(item.Targets) < req.MinTargets {
			return
		}
	}

	g.stackMgr.Push(item)
	g.bus.Publish(events.NewEvent(events.TypeTriggered, t.source, t.controller))
}

func (g *Game) runSBAAndCheckEnd() {
	for i := 0; i < 100; i++ {
		happened := sba.Sweep(g, g)
		removed := g.stackMgr.RemoveIllegalItems(g.checker)
		for _, id := range removed {
			if obj := g.objects[id]; obj != nil && obj.Zone == ids.ZoneStack {
				g.moveZone(obj.ObjectID, obj.Owner, ids.ZoneGraveyard)
			}
		}
		queued := g.drainPendingTriggers()
		if !happened && len(removed) == 0 && !queued {
			break
		}
	}
	g.checkGameOver()
}

func (g *Game) checkGameOver() {
	p1Lost := g.players[ids.P1].Lost
	p2Lost := g.players[ids.P2].Lost
	switch {
	case p1Lost && p2Lost:
		g.outcome = Draw
	case p1Lost:
		g.outcome = P2Wins
	case p2Lost:
		g.outcome = P1Wins
	}
}

// ---- targeting.GameStateAccessor ----

func (g *Game) FindObject(id ids.ObjectId) (*object.GameObject, bool) {
	obj, ok := g.objects[id]
	return obj, ok
}

func (g *Game) FindPlayer(slot ids.PlayerSlot) (*object.Player, bool) {
	p, ok := g.players[slot]
	return p, ok
}

// ---- sba.Accessor ----

func (g *Game) Players() []*object.Player {
	return []*object.Player{g.players[ids.P1], g.players[ids.P2]}
}

func (g *Game) Battlefield() []*object.GameObject {
	battlefieldIDs := g.zoneSet.Container(0, ids.ZoneBattlefield).Objects()
	out := make([]*object.GameObject, 0, len(battlefieldIDs))
	for _, id := range battlefieldIDs {
		if obj := g.objects[id]; obj != nil {
			out = append(out, obj)
		}
	}
	return out
}

func (g *Game) NonBattlefieldObjects() []*object.GameObject {
	var out []*object.GameObject
	for _, obj := range g.objects {
		if obj.Zone != ids.ZoneBattlefield {
			out = append(out, obj)
		}
	}
	return out
}

func (g *Game) snapshotFor(obj *object.GameObject) *layers.Snapshot {
	snap := layers.NewSnapshot(uint64(obj.ObjectID), int(obj.Controller), typeStrings(obj.Def), obj.Def.BasePower, obj.Def.BaseToughness, obj.Def.HasPT)
	g.layerSys.Apply(snap)
	return snap
}

func typeStrings(def *object.CardDefinition) []string {
	out := make([]string, len(def.Types))
	for i, t := range def.Types {
		out[i] = string(t)
	}
	return out
}

func (g *Game) EffectivePowerToughness(obj *object.GameObject) (power, toughness int) {
	snap := g.snapshotFor(obj)
	power, toughness = snap.Power, snap.Toughness
	if snap.SwitchPT {
		power, toughness = toughness, power
	}
	cp, ct := obj.Counters.NetPowerToughness()
	return power + cp, toughness + ct
}

func (g *Game) effectivePT(id ids.ObjectId) (int, int) {
	obj := g.objects[id]
	if obj == nil {
		return 0, 0
	}
	return g.EffectivePowerToughness(obj)
}

func (g *Game) IsIndestructible(obj *object.GameObject) bool {
	return g.HasKeyword(obj.ObjectID, "indestructible")
}

func (g *Game) IsAttachmentLegal(obj *object.GameObject) bool {
	if !obj.HasAttachedTo {
		return true
	}
	target, ok := g.objects[obj.AttachedTo]
	return ok && target.Zone == ids.ZoneBattlefield
}

func (g *Game) MoveToGraveyard(obj *object.GameObject) {
	g.moveZone(obj.ObjectID, obj.Owner, ids.ZoneGraveyard)
}

func (g *Game) CeaseToExist(obj *object.GameObject) {
	g.zoneSet.Remove(obj.ObjectID)
	delete(g.objects, obj.ObjectID)
}

func (g *Game) RemoveFromCombat(obj *object.GameObject) {
	for _, grp := range g.combatSt.Groups {
		grp.Attackers = removeID(grp.Attackers, obj.ObjectID)
		grp.Blockers = removeID(grp.Blockers, obj.ObjectID)
	}
}

func removeID(list []ids.ObjectId, id ids.ObjectId) []ids.ObjectId {
	out := list[:0]
	for _, x := range list {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// ---- combat.Accessor ----

func (g *Game) Power(id ids.ObjectId) int {
	p, _ := g.effectivePT(id)
	return p
}

func (g *Game) Toughness(id ids.ObjectId) int {
	_, t := g.effectivePT(id)
	return t
}

func (g *Game) MarkedDamage(id ids.ObjectId) int {
	if obj := g.objects[id]; obj != nil {
		return obj.MarkedDamage
	}
	return 0
}

func (g *Game) HasKeyword(id ids.ObjectId, keyword string) bool {
	obj := g.objects[id]
	if obj == nil {
		return false
	}
	if obj.Def.HasKeyword(keyword) {
		return true
	}
	return g.snapshotFor(obj).Keywords[keyword]
}

func (g *Game) IsOnBattlefield(id ids.ObjectId) bool {
	obj := g.objects[id]
	return obj != nil && obj.Zone == ids.ZoneBattlefield
}

func (g *Game) ControllerOf(id ids.ObjectId) ids.PlayerSlot {
	if obj := g.objects[id]; obj != nil {
		return obj.Controller
	}
	return ids.P1
}

// ---- replacement.Chooser ----

func (g *Game) ChooseReplacement(affected ids.PlayerSlot, event events.Event, candidates []replacement.Effect) int {
	// For an event aimed at an object, the affected player is that
	// object's controller rather than the event's.
	if !event.TargetIsPlayer {
		if obj := g.objects[event.TargetID]; obj != nil {
			affected = obj.Controller
		}
	}
	return g.agents[affected].ChooseReplacement(string(event.Type), len(candidates))
}

// ---- sba.LegendaryChooser ----

func (g *Game) ChooseLegendaryToKeep(controller ids.PlayerSlot, duplicates []*object.GameObject) *object.GameObject {
	order := g.agents[controller].ChooseOrder(idsOf(duplicates))
	if len(order) > 0 {
		if obj, ok := g.objects[order[0]]; ok {
			return obj
		}
	}
	return duplicates[0]
}

// ---- agent-facing views ----

func (g *Game) publicState() agent.PublicState {
	return agent.PublicState{
		Battlefield:    g.Battlefield(),
		Stack:          g.stackMgr.List(),
		Players:        g.Players(),
		ActivePlayer:   g.turnEng.ActivePlayer(),
		PriorityPlayer: g.priority.Holder(),
	}
}

func (g *Game) privateView(holder ids.PlayerSlot) agent.PrivateView {
	return agent.PrivateView{Hand: g.handObjects(holder)}
}
