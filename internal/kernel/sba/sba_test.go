package sba

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/object"
)

type fakeAcc struct {
	players        []*object.Player
	battlefield    []*object.GameObject
	nonBattlefield []*object.GameObject
	graveyarded    []ids.ObjectId
	ceased         []ids.ObjectId
	removedCombat  []ids.ObjectId
	indestructible map[ids.ObjectId]bool
	attachLegal    map[ids.ObjectId]bool
}

func (f *fakeAcc) Players() []*object.Player                   { return f.players }
func (f *fakeAcc) Battlefield() []*object.GameObject           { return f.battlefield }
func (f *fakeAcc) NonBattlefieldObjects() []*object.GameObject { return f.nonBattlefield }
func (f *fakeAcc) EffectivePowerToughness(obj *object.GameObject) (int, int) {
	return obj.Def.BasePower, obj.Def.BaseToughness
}
func (f *fakeAcc) IsIndestructible(obj *object.GameObject) bool {
	return f.indestructible[obj.ObjectID]
}
func (f *fakeAcc) IsAttachmentLegal(obj *object.GameObject) bool {
	legal, ok := f.attachLegal[obj.ObjectID]
	return !ok || legal
}
func (f *fakeAcc) MoveToGraveyard(obj *object.GameObject) {
	f.graveyarded = append(f.graveyarded, obj.ObjectID)
}
func (f *fakeAcc) CeaseToExist(obj *object.GameObject) { f.ceased = append(f.ceased, obj.ObjectID) }
func (f *fakeAcc) RemoveFromCombat(obj *object.GameObject) {
	f.removedCombat = append(f.removedCombat, obj.ObjectID)
}

func creature(id ids.ObjectId, power, toughness int) *object.GameObject {
	def := &object.CardDefinition{Name: "Bear", Types: []ids.CardType{ids.CardTypeCreature}, BasePower: power, BaseToughness: toughness, HasPT: true}
	return object.NewGameObject(id, ids.InstanceId(id), def, ids.P1, ids.ZoneBattlefield)
}

func TestSweepPlayerLifeLoss(t *testing.T) {
	p1 := object.NewPlayer(ids.P1, 0)
	p2 := object.NewPlayer(ids.P2, 20)
	acc := &fakeAcc{players: []*object.Player{p1, p2}, indestructible: map[ids.ObjectId]bool{}, attachLegal: map[ids.ObjectId]bool{}}

	require.True(t, Sweep(acc, nil))
	require.True(t, p1.Lost)
	require.False(t, p2.Lost)
	require.False(t, Sweep(acc, nil))
}

func TestSweepZeroToughnessCreatureDies(t *testing.T) {
	c := creature(1, 2, 0)
	acc := &fakeAcc{battlefield: []*object.GameObject{c}, indestructible: map[ids.ObjectId]bool{}, attachLegal: map[ids.ObjectId]bool{}}

	require.True(t, Sweep(acc, nil))
	require.Contains(t, acc.graveyarded, ids.ObjectId(1))
}

func TestSweepLethalDamageIndestructibleSurvives(t *testing.T) {
	c := creature(2, 2, 2)
	c.MarkedDamage = 5
	acc := &fakeAcc{
		battlefield:    []*object.GameObject{c},
		indestructible: map[ids.ObjectId]bool{2: true},
		attachLegal:    map[ids.ObjectId]bool{},
	}

	require.False(t, Sweep(acc, nil))
	require.Empty(t, acc.graveyarded)
}

func TestSweepRegenerationConsumedInsteadOfDeath(t *testing.T) {
	c := creature(3, 2, 2)
	c.MarkedDamage = 5
	c.RegenerateShield = true
	acc := &fakeAcc{
		battlefield:    []*object.GameObject{c},
		indestructible: map[ids.ObjectId]bool{},
		attachLegal:    map[ids.ObjectId]bool{},
	}

	require.True(t, Sweep(acc, nil))
	require.Empty(t, acc.graveyarded)
	require.False(t, c.RegenerateShield)
	require.Equal(t, 0, c.MarkedDamage)
	require.True(t, c.Tapped)
	require.Contains(t, acc.removedCombat, ids.ObjectId(3))
}

func TestSweepDeathtouchDamageDestroysDespiteSurvivingToughness(t *testing.T) {
	c := creature(4, 2, 10)
	c.MarkedDamage = 1
	c.DamagedByDeathtouchSince = true
	acc := &fakeAcc{battlefield: []*object.GameObject{c}, indestructible: map[ids.ObjectId]bool{}, attachLegal: map[ids.ObjectId]bool{}}

	require.True(t, Sweep(acc, nil))
	require.Contains(t, acc.graveyarded, ids.ObjectId(4))
}

func TestSweepTokenLeavingBattlefieldCeasesToExist(t *testing.T) {
	def := &object.CardDefinition{Name: "Soldier Token", Types: []ids.CardType{ids.CardTypeCreature}}
	tok := object.NewGameObject(5, 5, def, ids.P1, ids.ZoneGraveyard)
	tok.IsToken = true
	acc := &fakeAcc{nonBattlefield: []*object.GameObject{tok}, indestructible: map[ids.ObjectId]bool{}, attachLegal: map[ids.ObjectId]bool{}}

	require.True(t, Sweep(acc, nil))
	require.Contains(t, acc.ceased, ids.ObjectId(5))
}

type fixedLegendaryChooser struct{ keep *object.GameObject }

func (f fixedLegendaryChooser) ChooseLegendaryToKeep(ids.PlayerSlot, []*object.GameObject) *object.GameObject {
	return f.keep
}

func TestSweepLegendaryRule(t *testing.T) {
	def := &object.CardDefinition{Name: "Gideon", Keywords: map[string]bool{"legendary": true}}
	a := object.NewGameObject(10, 10, def, ids.P1, ids.ZoneBattlefield)
	b := object.NewGameObject(11, 11, def, ids.P1, ids.ZoneBattlefield)
	acc := &fakeAcc{battlefield: []*object.GameObject{a, b}, indestructible: map[ids.ObjectId]bool{}, attachLegal: map[ids.ObjectId]bool{}}

	require.True(t, Sweep(acc, fixedLegendaryChooser{keep: b}))
	require.Contains(t, acc.graveyarded, ids.ObjectId(10))
	require.NotContains(t, acc.graveyarded, ids.ObjectId(11))
}
