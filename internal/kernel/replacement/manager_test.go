package replacement

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/rulesforge/internal/kernel/events"
	"github.com/cardforge/rulesforge/internal/kernel/ids"
)

type fakeChooser struct {
	calls int
	pick  int
}

func (f *fakeChooser) ChooseReplacement(affected ids.PlayerSlot, e events.Event, candidates []Effect) int {
	f.calls++
	return f.pick
}

func TestDamagePreventionReducesAndConsumesShield(t *testing.T) {
	m := NewManager(nil)
	shield := NewDamagePrevention(1, 100, 3, DurationUntilEndOfTurn)
	m.Add(shield)

	dmg := events.NewEvent(events.TypeDamage, 2, ids.P1).WithTarget(100).WithAmount(5)
	out := m.Replace(dmg, nil)

	require.Equal(t, 2, out.Amount)
	require.Equal(t, 0, shield.Remaining)
}

func TestDamagePreventionFullyPreventsAndRemovesEvent(t *testing.T) {
	m := NewManager(nil)
	shield := NewDamagePrevention(1, 100, 10, DurationUntilEndOfTurn)
	m.Add(shield)

	dmg := events.NewEvent(events.TypeDamage, 2, ids.P1).WithTarget(100).WithAmount(3)
	out := m.Replace(dmg, nil)

	require.Equal(t, 0, out.Amount)
	require.Equal(t, 7, shield.Remaining)
}

func TestReplaceRoutesMultipleCandidatesThroughChooser(t *testing.T) {
	m := NewManager(nil)
	a := NewDoubleAmount(1, DurationUntilEndOfTurn, false, 0, events.TypeDamage)
	b := NewDoubleAmount(2, DurationUntilEndOfTurn, false, 0, events.TypeDamage)
	m.Add(a)
	m.Add(b)

	chooser := &fakeChooser{pick: 1}
	dmg := events.NewEvent(events.TypeDamage, 3, ids.P1).WithTarget(100).WithAmount(2)
	out := m.Replace(dmg, chooser)

	// The chooser is only consulted while more than one candidate remains
	// applicable in the same round; once it picks b, only a is left and it
	// applies automatically next round. Both effects still apply overall
	// (rule 616.1: repeat until no replacement effect applies any longer),
	// so the amount doubles twice.
	require.Equal(t, 1, chooser.calls)
	require.Equal(t, 8, out.Amount)
}

func TestAffectedPlayerDamageIsTarget(t *testing.T) {
	e := events.NewEvent(events.TypeDamage, 1, ids.P1).WithTargetPlayer(ids.P2).WithAmount(3)
	affected, ok := AffectedPlayer(e)
	require.True(t, ok)
	require.Equal(t, ids.P2, affected)
}
