package abilities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/rulesforge/internal/kernel/events"
	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/kerrors"
)

func TestDamageNTargetsPlayer(t *testing.T) {
	d := NewDispatcher()
	out, err := d.Resolve("damage_3", Request{
		Source: 1, Controller: ids.P1,
		Targets: []Target{PlayerTarget(ids.P2)},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, events.TypeDamage, out[0].Type)
	require.Equal(t, 3, out[0].Amount)
	require.True(t, out[0].TargetIsPlayer)
	require.Equal(t, ids.P2, out[0].TargetPlayer)
}

func TestDamageNTargetsObject(t *testing.T) {
	d := NewDispatcher()
	out, err := d.Resolve("damage_5", Request{
		Source: 1, Controller: ids.P1,
		Targets: []Target{ObjectTarget(42)},
	})
	require.NoError(t, err)
	require.Equal(t, ids.ObjectId(42), out[0].TargetID)
	require.False(t, out[0].TargetIsPlayer)
}

func TestUnknownCodeIsHardError(t *testing.T) {
	d := NewDispatcher()
	_, err := d.Resolve("frobnicate", Request{Source: 1, Controller: ids.P1})
	require.Error(t, err)
	require.True(t, errors.Is(err, kerrors.UnknownAbilityCode))
}

func TestMissingTargetIsTargetBecameIllegal(t *testing.T) {
	d := NewDispatcher()
	_, err := d.Resolve("damage_3", Request{Source: 1, Controller: ids.P1})
	require.True(t, errors.Is(err, kerrors.TargetBecameIllegal))
}

func TestCreateTokenParsesPowerToughnessFromCode(t *testing.T) {
	d := NewDispatcher()
	out, err := d.Resolve("create_token_2_3", Request{Source: 1, Controller: ids.P1})
	require.NoError(t, err)
	require.Equal(t, "2", out[0].Metadata["power"])
	require.Equal(t, "3", out[0].Metadata["toughness"])
}

func TestPumpAcceptsNegativeToughness(t *testing.T) {
	d := NewDispatcher()
	out, err := d.Resolve("pump_-1_-1", Request{
		Source: 1, Controller: ids.P1,
		Targets: []Target{ObjectTarget(7)},
	})
	require.NoError(t, err)
	require.Equal(t, "-1", out[0].Metadata["power"])
	require.Equal(t, "-1", out[0].Metadata["toughness"])
}

func TestFightProducesTwoSimultaneousDamageEvents(t *testing.T) {
	d := NewDispatcher()
	out, err := d.Resolve("fight", Request{
		Source: 1, Controller: ids.P1,
		Targets: []Target{ObjectTarget(2)},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, ids.ObjectId(1), out[0].SourceID)
	require.Equal(t, ids.ObjectId(2), out[0].TargetID)
	require.Equal(t, ids.ObjectId(2), out[1].SourceID)
	require.Equal(t, ids.ObjectId(1), out[1].TargetID)
}

func TestBounceMovesToHand(t *testing.T) {
	d := NewDispatcher()
	out, err := d.Resolve("bounce", Request{
		Source: 1, Controller: ids.P1,
		Targets: []Target{ObjectTarget(9)},
	})
	require.NoError(t, err)
	require.Equal(t, "Hand", out[0].Metadata["to_zone"])
}

func TestDestroyCreatureRejectsPlayerTarget(t *testing.T) {
	d := NewDispatcher()
	_, err := d.Resolve("destroy_creature", Request{
		Source: 1, Controller: ids.P1,
		Targets: []Target{PlayerTarget(ids.P2)},
	})
	require.Error(t, err)
}
