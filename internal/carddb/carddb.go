// Package carddb implements the card database interface from spec §6: a
// read-only query by name plus an enumeration, backed either by an
// in-memory map (tests, scripted matches) or by Postgres via pgx
// (production import), grounded on the teacher's scripts/import_cards.go
// and its `cards` table schema.
package carddb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/mana"
	"github.com/cardforge/rulesforge/internal/kernel/object"
)

// Database is the read-only query surface spec §6 names: get_card and an
// enumeration over names.
type Database interface {
	GetCard(name string) (*object.CardDefinition, bool)
	Names() []string
}

// Memory is an in-memory Database, the one every game and test actually
// runs against; a pgx-backed loader (Load) fills one of these rather than
// the kernel talking to Postgres directly, keeping the kernel free of a
// database dependency per spec §5's "all state lives in a single owning
// game instance".
type Memory struct {
	byName map[string]*object.CardDefinition
	names  []string
}

// NewMemory returns an empty in-memory card database.
func NewMemory() *Memory {
	return &Memory{byName: make(map[string]*object.CardDefinition)}
}

// Add registers a card definition, keyed case-insensitively (decklists and
// card names are matched case-insensitively throughout the pack).
func (m *Memory) Add(def *object.CardDefinition) {
	key := strings.ToLower(def.Name)
	if _, exists := m.byName[key]; !exists {
		m.names = append(m.names, def.Name)
	}
	m.byName[key] = def
}

// GetCard implements Database.
func (m *Memory) GetCard(name string) (*object.CardDefinition, bool) {
	def, ok := m.byName[strings.ToLower(name)]
	return def, ok
}

// Names implements Database.
func (m *Memory) Names() []string {
	return append([]string(nil), m.names...)
}

// row mirrors one record of the `cards` table the teacher's import script
// populates (card_number, set_code, name, card_type, mana_cost, power,
// toughness, rules_text, ..., card_class_name).
type row struct {
	name         string
	cardType     string
	manaCost     string
	power        string
	toughness    string
	rulesText    string
	abilityCodes string
}

// Load connects to Postgres via dsn and populates a Memory database from
// the `cards` table, grounded on scripts/import_cards.go's schema and
// query shape (same table, read path instead of the import script's
// write path).
func Load(ctx context.Context, dsn string) (*Memory, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("carddb: connect: %w", err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, `
		SELECT name, card_type, mana_cost, power, toughness, rules_text, ability_codes
		FROM cards
	`)
	if err != nil {
		return nil, fmt.Errorf("carddb: query cards: %w", err)
	}
	defer rows.Close()

	db := NewMemory()
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.name, &r.cardType, &r.manaCost, &r.power, &r.toughness, &r.rulesText, &r.abilityCodes); err != nil {
			return nil, fmt.Errorf("carddb: scan card row: %w", err)
		}
		def, err := fromRow(r)
		if err != nil {
			return nil, fmt.Errorf("carddb: card %q: %w", r.name, err)
		}
		db.Add(def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("carddb: iterate cards: %w", err)
	}
	return db, nil
}

func fromRow(r row) (*object.CardDefinition, error) {
	def := &object.CardDefinition{
		Name:         r.name,
		ManaCostText: r.manaCost,
		Types:        parseTypes(r.cardType),
		Keywords:     make(map[string]bool),
	}

	if r.manaCost != "" {
		cost, err := mana.ParseCost(r.manaCost)
		if err != nil {
			return nil, fmt.Errorf("parse mana cost %q: %w", r.manaCost, err)
		}
		def.Cost = cost
	} else {
		def.Cost = &mana.Cost{}
	}

	if p, err := strconv.Atoi(r.power); err == nil {
		def.BasePower = p
		def.HasPT = true
	}
	if t, err := strconv.Atoi(r.toughness); err == nil {
		def.BaseToughness = t
		def.HasPT = true
	}

	if r.abilityCodes != "" {
		def.AbilityCodes = strings.Split(r.abilityCodes, ",")
	}

	for _, kw := range knownKeywords {
		if strings.Contains(strings.ToLower(r.rulesText), kw) {
			def.Keywords[kw] = true
		}
	}

	def.Colors = colorsOf(def.Cost)
	def.ProtectionFrom = parseProtectionFrom(r.rulesText)

	return def, nil
}

var knownKeywords = []string{
	"flying", "trample", "deathtouch", "lifelink", "first strike",
	"double strike", "vigilance", "menace", "haste", "reach", "defender",
	"indestructible", "hexproof", "shroud", "ward",
}

// colorsOf derives a card's color identity from its printed cost's colored
// pips (CR 202.2: a card's color is determined by the colors of mana
// symbols in its mana cost), grounded on the teacher's card.go Colors
// field being populated from the same cost parse.
func colorsOf(cost *mana.Cost) []ids.Color {
	if cost == nil {
		return nil
	}
	var out []ids.Color
	add := func(n int, c ids.Color) {
		if n > 0 {
			out = append(out, c)
		}
	}
	add(cost.White, ids.ColorWhite)
	add(cost.Blue, ids.ColorBlue)
	add(cost.Black, ids.ColorBlack)
	add(cost.Red, ids.ColorRed)
	add(cost.Green, ids.ColorGreen)
	for _, h := range cost.Hybrid {
		out = append(out, colorsFromManaTypes(h.ColorOptions)...)
	}
	for _, p := range cost.Phyrexian {
		out = append(out, ids.Color(p.Color))
	}
	return dedupColors(out)
}

func colorsFromManaTypes(types []mana.ManaType) []ids.Color {
	out := make([]ids.Color, 0, len(types))
	for _, t := range types {
		out = append(out, ids.Color(t))
	}
	return out
}

func dedupColors(colors []ids.Color) []ids.Color {
	seen := make(map[ids.Color]bool, len(colors))
	out := make([]ids.Color, 0, len(colors))
	for _, c := range colors {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

var protectionColorNames = map[string]ids.Color{
	"white": ids.ColorWhite,
	"blue":  ids.ColorBlue,
	"black": ids.ColorBlack,
	"red":   ids.ColorRed,
	"green": ids.ColorGreen,
}

// parseProtectionFrom finds every "protection from <color>" clause in a
// card's rules text. Protection from multiple colors (or from everything)
// is printed as one clause per color, so a simple substring scan per color
// name is enough; "protection from everything" is out of scope.
func parseProtectionFrom(rulesText string) []ids.Color {
	lower := strings.ToLower(rulesText)
	var out []ids.Color
	for name, color := range protectionColorNames {
		if strings.Contains(lower, "protection from "+name) {
			out = append(out, color)
		}
	}
	return out
}

func parseTypes(cardType string) []ids.CardType {
	var out []ids.CardType
	lower := strings.ToLower(cardType)
	for _, t := range []ids.CardType{
		ids.CardTypeLand, ids.CardTypeCreature, ids.CardTypeArtifact,
		ids.CardTypeEnchantment, ids.CardTypePlaneswalker, ids.CardTypeInstant,
		ids.CardTypeSorcery,
	} {
		if strings.Contains(lower, strings.ToLower(string(t))) {
			out = append(out, t)
		}
	}
	return out
}
