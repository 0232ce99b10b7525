package game_test

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/cardforge/rulesforge/internal/agent"
	"github.com/cardforge/rulesforge/internal/carddb"
	"github.com/cardforge/rulesforge/internal/kernel/events"
	"github.com/cardforge/rulesforge/internal/kernel/game"
	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/mana"
	"github.com/cardforge/rulesforge/internal/kernel/object"
	"github.com/cardforge/rulesforge/internal/kernel/targeting"
)

// castFirstSpellAgent casts the first castable non-land card it's
// offered and otherwise passes; used to get a creature with a triggered
// ability onto the battlefield deterministically instead of relying on
// RandomAgent to eventually roll it.
type castFirstSpellAgent struct{}

func (castFirstSpellAgent) ChooseAction(_ agent.PublicState, _ agent.PrivateView, legal []agent.Action) agent.Action {
	for _, a := range legal {
		if a.Kind == agent.ActionCastSpell {
			return a
		}
	}
	return agent.Action{Kind: agent.ActionPass}
}
func (castFirstSpellAgent) ChooseTargets(ids.ObjectId, targeting.Requirement, []targeting.Selection) []targeting.Selection {
	return nil
}
func (castFirstSpellAgent) ChooseOrder(objects []ids.ObjectId) []ids.ObjectId { return objects }
func (castFirstSpellAgent) ChooseReplacement(string, int) int                 { return 0 }
func (castFirstSpellAgent) ChooseMode(ids.ObjectId, []string) []string        { return nil }
func (castFirstSpellAgent) MulliganDecision([]*object.GameObject, int) agent.MulliganDecision {
	return agent.Keep
}
func (castFirstSpellAgent) ChooseBlockers(_ []ids.ObjectId, _ map[ids.ObjectId][]ids.ObjectId) map[ids.ObjectId][]ids.ObjectId {
	return nil
}

// triggerTestDatabase builds on testDatabase's free Plains but adds a
// free creature whose printed ability enters-the-battlefield-triggers,
// so casting it costs nothing and exercises queueTriggersFor/
// drainPendingTriggers/pushTriggeredAbility without needing mana setup.
func triggerTestDatabase(t *testing.T) carddb.Database {
	t.Helper()
	db := carddb.NewMemory()

	freeCost, err := mana.ParseCost("")
	if err != nil {
		t.Fatalf("parse free cost: %v", err)
	}
	db.Add(&object.CardDefinition{
		Name:   "Plains",
		Cost:   freeCost,
		Types:  []ids.CardType{ids.CardTypeLand},
		Colors: []ids.Color{ids.ColorWhite},
	})
	db.Add(&object.CardDefinition{
		Name:          "Springing Herald",
		Cost:          freeCost,
		Types:         []ids.CardType{ids.CardTypeCreature},
		Subtypes:      []string{"Spirit"},
		BasePower:     1,
		BaseToughness: 1,
		HasPT:         true,
		Colors:        []ids.Color{ids.ColorWhite},
		Triggers:      []object.TriggeredAbility{{On: object.TriggerETB, AbilityCode: ""}},
	})

	return db
}

func triggerTestDeck() []string {
	deck := make([]string, 0, 40)
	for i := 0; i < 10; i++ {
		deck = append(deck, "Plains")
	}
	for i := 0; i < 30; i++ {
		deck = append(deck, "Springing Herald")
	}
	return deck
}

func TestETBTriggerReachesAndResolvesFromTheStack(t *testing.T) {
	logger := zaptest.NewLogger(t)
	db := triggerTestDatabase(t)
	deck := triggerTestDeck()

	g, err := game.NewGame(deck, deck, db, 11, castFirstSpellAgent{}, agent.PassingAgent{}, logger)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	var triggered []events.Event
	g.Subscribe(func(e events.Event) {
		if e.Type == events.TypeTriggered {
			triggered = append(triggered, e)
		}
	})

	if err := g.RunTurn(); err != nil {
		t.Fatalf("RunTurn: %v", err)
	}

	if len(triggered) == 0 {
		t.Fatalf("expected the creature's ETB trigger to queue onto the stack, but none was observed")
	}

	found := false
	for _, obj := range g.Battlefield() {
		if obj.Def.Name == "Springing Herald" && obj.Controller == ids.P1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Springing Herald to have resolved onto the battlefield")
	}
}
