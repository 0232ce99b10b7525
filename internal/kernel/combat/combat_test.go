package combat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/rulesforge/internal/kernel/ids"
)

type fakeAcc struct {
	power       map[ids.ObjectId]int
	toughness   map[ids.ObjectId]int
	damage      map[ids.ObjectId]int
	keywords    map[ids.ObjectId]map[string]bool
	battlefield map[ids.ObjectId]bool
	controller  map[ids.ObjectId]ids.PlayerSlot
}

func newFakeAcc() *fakeAcc {
	return &fakeAcc{
		power: map[ids.ObjectId]int{}, toughness: map[ids.ObjectId]int{},
		damage: map[ids.ObjectId]int{}, keywords: map[ids.ObjectId]map[string]bool{},
		battlefield: map[ids.ObjectId]bool{}, controller: map[ids.ObjectId]ids.PlayerSlot{},
	}
}

func (f *fakeAcc) Power(o ids.ObjectId) int        { return f.power[o] }
func (f *fakeAcc) Toughness(o ids.ObjectId) int    { return f.toughness[o] }
func (f *fakeAcc) MarkedDamage(o ids.ObjectId) int { return f.damage[o] }
func (f *fakeAcc) HasKeyword(o ids.ObjectId, k string) bool {
	return f.keywords[o] != nil && f.keywords[o][k]
}
func (f *fakeAcc) IsOnBattlefield(o ids.ObjectId) bool        { return f.battlefield[o] }
func (f *fakeAcc) ControllerOf(o ids.ObjectId) ids.PlayerSlot { return f.controller[o] }

func (f *fakeAcc) add(id ids.ObjectId, power, toughness int, controller ids.PlayerSlot, keywords ...string) {
	f.power[id] = power
	f.toughness[id] = toughness
	f.battlefield[id] = true
	f.controller[id] = controller
	kw := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		kw[k] = true
	}
	f.keywords[id] = kw
}

func TestUnblockedAttackerDamagesPlayer(t *testing.T) {
	acc := newFakeAcc()
	acc.add(1, 3, 3, ids.P1)

	c := NewCombat()
	c.DeclareAttacker(1, PlayerDefender(ids.P2))

	out := c.AssignDamage(acc, false)
	require.Len(t, out, 1)
	require.True(t, out[0].TargetIsPlayer)
	require.Equal(t, ids.P2, out[0].TargetPlayer)
	require.Equal(t, 3, out[0].Amount)
}

func TestBlockedAttackerDamagesBlockerNotPlayer(t *testing.T) {
	acc := newFakeAcc()
	acc.add(1, 3, 3, ids.P1)
	acc.add(2, 2, 2, ids.P2)

	c := NewCombat()
	c.DeclareAttacker(1, PlayerDefender(ids.P2))
	c.DeclareBlocker(2, 1)

	out := c.AssignDamage(acc, false)
	require.Len(t, out, 2) // attacker->blocker, blocker->attacker
	for _, e := range out {
		require.False(t, e.TargetIsPlayer)
	}
}

func TestTrampleAssignsExcessToPlayer(t *testing.T) {
	acc := newFakeAcc()
	acc.add(1, 5, 3, ids.P1, "trample")
	acc.add(2, 1, 2, ids.P2)

	c := NewCombat()
	c.DeclareAttacker(1, PlayerDefender(ids.P2))
	c.DeclareBlocker(2, 1)

	out := c.AssignDamage(acc, false)

	var toBlocker, toPlayer int
	for _, e := range out {
		if e.SourceID != 1 {
			continue
		}
		if e.TargetIsPlayer {
			toPlayer = e.Amount
		} else {
			toBlocker = e.Amount
		}
	}
	require.Equal(t, 2, toBlocker) // lethal damage to a 2-toughness blocker
	require.Equal(t, 3, toPlayer)  // remaining 5-2
}

func TestDeathtouchMakesOneDamageLethalForTrample(t *testing.T) {
	acc := newFakeAcc()
	acc.add(1, 5, 3, ids.P1, "trample", "deathtouch")
	acc.add(2, 1, 10, ids.P2)

	c := NewCombat()
	c.DeclareAttacker(1, PlayerDefender(ids.P2))
	c.DeclareBlocker(2, 1)

	out := c.AssignDamage(acc, false)
	var toBlocker, toPlayer int
	for _, e := range out {
		if e.SourceID != 1 {
			continue
		}
		if e.TargetIsPlayer {
			toPlayer = e.Amount
		} else {
			toBlocker = e.Amount
		}
	}
	require.Equal(t, 1, toBlocker)
	require.Equal(t, 4, toPlayer)
}

func TestNonTrampleMultiBlockAssignsLethalFirstInOrder(t *testing.T) {
	acc := newFakeAcc()
	acc.add(1, 5, 4, ids.P1)  // attacker, no trample
	acc.add(2, 1, 2, ids.P2)  // first blocker in order, 2 toughness
	acc.add(3, 1, 10, ids.P2) // second blocker in order, 10 toughness

	c := NewCombat()
	c.DeclareAttacker(1, PlayerDefender(ids.P2))
	c.DeclareBlocker(2, 1)
	c.DeclareBlocker(3, 1)
	c.SetDamageAssignmentOrder(1, []ids.ObjectId{2, 3})

	out := c.AssignDamage(acc, false)

	damage := map[ids.ObjectId]int{}
	for _, e := range out {
		if e.SourceID != 1 || e.TargetIsPlayer {
			continue
		}
		damage[e.TargetID] += e.Amount
	}
	require.Equal(t, 2, damage[2]) // at least lethal to the first blocker
	require.Equal(t, 3, damage[3]) // the rest (5-2) to the last, even past its own lethal
	require.Equal(t, 0, damage[ids.ObjectId(0)])
}

func TestFirstStrikeStepOnlyFirstStrikersDealDamage(t *testing.T) {
	acc := newFakeAcc()
	acc.add(1, 3, 3, ids.P1, "first strike")
	acc.add(2, 2, 2, ids.P2)

	c := NewCombat()
	c.DeclareAttacker(1, PlayerDefender(ids.P2))
	c.DeclareBlocker(2, 1)

	out := c.AssignDamage(acc, true)
	require.Len(t, out, 1)
	require.Equal(t, ids.ObjectId(1), out[0].SourceID)

	require.True(t, c.RequiresFirstStrikeStep(acc))
}

func TestRegularStepSkipsCreatureThatAlreadyStruck(t *testing.T) {
	acc := newFakeAcc()
	acc.add(1, 3, 3, ids.P1, "first strike")
	acc.add(2, 2, 5, ids.P2)

	c := NewCombat()
	c.DeclareAttacker(1, PlayerDefender(ids.P2))
	c.DeclareBlocker(2, 1)

	c.AssignDamage(acc, true) // first strike step records the attacker
	out := c.AssignDamage(acc, false)

	require.Len(t, out, 1)
	require.Equal(t, ids.ObjectId(2), out[0].SourceID)
}
