package game_test

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/cardforge/rulesforge/internal/agent"
	"github.com/cardforge/rulesforge/internal/carddb"
	"github.com/cardforge/rulesforge/internal/kernel/game"
	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/mana"
	"github.com/cardforge/rulesforge/internal/kernel/object"
)

func testDatabase(t *testing.T) carddb.Database {
	t.Helper()
	db := carddb.NewMemory()

	plainsCost, err := mana.ParseCost("")
	if err != nil {
		t.Fatalf("parse land cost: %v", err)
	}
	db.Add(&object.CardDefinition{
		Name:   "Plains",
		Cost:   plainsCost,
		Types:  []ids.CardType{ids.CardTypeLand},
		Colors: []ids.Color{ids.ColorWhite},
	})

	bearCost, err := mana.ParseCost("{1}{G}")
	if err != nil {
		t.Fatalf("parse bear cost: %v", err)
	}
	db.Add(&object.CardDefinition{
		Name:          "Grizzly Bears",
		ManaCostText:  "{1}{G}",
		Cost:          bearCost,
		Types:         []ids.CardType{ids.CardTypeCreature},
		Subtypes:      []string{"Bear"},
		BasePower:     2,
		BaseToughness: 2,
		HasPT:         true,
		Colors:        []ids.Color{ids.ColorGreen},
		AbilityCodes:  nil,
	})

	return db
}

func testDeck() []string {
	deck := make([]string, 0, 40)
	for i := 0; i < 17; i++ {
		deck = append(deck, "Plains")
	}
	for i := 0; i < 23; i++ {
		deck = append(deck, "Grizzly Bears")
	}
	return deck
}

func TestNewGameDealsSevenCardOpeningHands(t *testing.T) {
	logger := zaptest.NewLogger(t)
	db := testDatabase(t)
	deck := testDeck()

	g, err := game.NewGame(deck, deck, db, 42, agent.PassingAgent{}, agent.PassingAgent{}, logger)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	for _, p := range g.Players() {
		if p.Life != 20 {
			t.Fatalf("player %s: expected starting life 20, got %d", p.Slot, p.Life)
		}
	}
}

func TestRunTurnWithPassingAgentsLeavesLifeAndBattlefieldUnchanged(t *testing.T) {
	logger := zaptest.NewLogger(t)
	db := testDatabase(t)
	deck := testDeck()

	g, err := game.NewGame(deck, deck, db, 7, agent.PassingAgent{}, agent.PassingAgent{}, logger)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	if err := g.RunTurn(); err != nil {
		t.Fatalf("RunTurn: %v", err)
	}

	if g.Outcome() != game.Ongoing {
		t.Fatalf("expected game still ongoing after one quiet turn, got %v", g.Outcome())
	}
	for _, p := range g.Players() {
		if p.Life != 20 {
			t.Fatalf("player %s: expected life unchanged at 20, got %d", p.Slot, p.Life)
		}
	}
	if len(g.Battlefield()) != 0 {
		t.Fatalf("expected an empty battlefield with two passing agents, got %d objects", len(g.Battlefield()))
	}
}

func TestRunUntilGameOverTerminatesByDeckingOut(t *testing.T) {
	logger := zaptest.NewLogger(t)
	db := testDatabase(t)
	deck := testDeck()

	g, err := game.NewGame(deck, deck, db, 99, agent.PassingAgent{}, agent.PassingAgent{}, logger)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	outcome, err := g.RunUntilGameOver()
	if err != nil {
		t.Fatalf("RunUntilGameOver: %v", err)
	}
	if outcome == game.Ongoing {
		t.Fatalf("expected a decided outcome once a library runs out, got Ongoing")
	}
}

func TestRandomAgentsPlayAFullGameWithoutError(t *testing.T) {
	logger := zaptest.NewLogger(t)
	db := testDatabase(t)
	deck := testDeck()

	g, err := game.NewGame(deck, deck, db, 1234, agent.NewRandomAgent(1), agent.NewRandomAgent(2), logger)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	if _, err := g.RunUntilGameOver(); err != nil {
		t.Fatalf("RunUntilGameOver with random agents: %v", err)
	}
}
