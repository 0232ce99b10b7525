package targeting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/object"
)

func TestSelectionValidate(t *testing.T) {
	req := Requirement{Type: TypeCreature, MinTargets: 1, MaxTargets: 1}

	empty := &Selection{Requirement: req}
	require.Error(t, empty.Validate())
	require.False(t, empty.IsComplete())

	one := &Selection{Requirement: req, Targets: []object.TargetChoice{{ObjectID: 1}}}
	require.NoError(t, one.Validate())
	require.True(t, one.IsComplete())

	two := &Selection{Requirement: req, Targets: []object.TargetChoice{{ObjectID: 1}, {ObjectID: 2}}}
	require.Error(t, two.Validate())
}

func TestTypeMatches(t *testing.T) {
	def := &object.CardDefinition{Types: []ids.CardType{ids.CardTypeCreature}}
	obj := object.NewGameObject(1, 1, def, ids.P1, ids.ZoneBattlefield)

	require.True(t, TypeCreature.Matches(obj))
	require.True(t, TypePermanent.Matches(obj))
	require.False(t, TypeLand.Matches(obj))

	obj.Zone = ids.ZoneGraveyard
	require.False(t, TypeCreature.Matches(obj))
}

type fakeAccessor struct {
	objects map[ids.ObjectId]*object.GameObject
	players map[ids.PlayerSlot]*object.Player
}

func (f *fakeAccessor) FindObject(id ids.ObjectId) (*object.GameObject, bool) {
	o, ok := f.objects[id]
	return o, ok
}

func (f *fakeAccessor) FindPlayer(slot ids.PlayerSlot) (*object.Player, bool) {
	p, ok := f.players[slot]
	return p, ok
}

func TestCheckStackItemLegalityCounteredWhenControllerLost(t *testing.T) {
	acc := &fakeAccessor{
		players: map[ids.PlayerSlot]*object.Player{ids.P1: {Slot: ids.P1, Lost: true}},
	}
	checker := NewChecker(acc)

	item := &object.StackItem{Kind: object.StackItemSpell, Controller: ids.P1}
	result := checker.CheckStackItemLegality(item)
	require.False(t, result.Legal)
}

func TestCheckStackItemLegalityDetectsIllegalTarget(t *testing.T) {
	def := &object.CardDefinition{Types: []ids.CardType{ids.CardTypeCreature}}
	obj := object.NewGameObject(100, 1, def, ids.P2, ids.ZoneGraveyard)
	acc := &fakeAccessor{
		objects: map[ids.ObjectId]*object.GameObject{100: obj},
		players: map[ids.PlayerSlot]*object.Player{ids.P1: {Slot: ids.P1}},
	}
	checker := NewChecker(acc)

	item := &object.StackItem{
		Kind:       object.StackItemSpell,
		Controller: ids.P1,
		Targets:    []object.TargetChoice{{ObjectID: 100, ExpectedType: string(TypeCreature)}},
	}
	result := checker.CheckStackItemLegality(item)
	require.False(t, result.Legal)

	legal := checker.FilterLegalTargets(item.Targets, item.Controller, nil)
	require.Empty(t, legal)
}

func TestTargetableHexproofShroudProtection(t *testing.T) {
	hexproof := &object.CardDefinition{Keywords: map[string]bool{"hexproof": true}}
	hexproofObj := object.NewGameObject(1, 1, hexproof, ids.P2, ids.ZoneBattlefield)
	require.False(t, Targetable(hexproofObj, ids.P1, nil))
	require.True(t, Targetable(hexproofObj, ids.P2, nil))

	shroud := &object.CardDefinition{Keywords: map[string]bool{"shroud": true}}
	shroudObj := object.NewGameObject(2, 1, shroud, ids.P2, ids.ZoneBattlefield)
	require.False(t, Targetable(shroudObj, ids.P1, nil))
	require.False(t, Targetable(shroudObj, ids.P2, nil))

	protected := &object.CardDefinition{ProtectionFrom: []ids.Color{ids.ColorRed}}
	protectedObj := object.NewGameObject(3, 1, protected, ids.P2, ids.ZoneBattlefield)
	require.False(t, Targetable(protectedObj, ids.P1, []ids.Color{ids.ColorRed}))
	require.True(t, Targetable(protectedObj, ids.P1, []ids.Color{ids.ColorBlue}))
}
