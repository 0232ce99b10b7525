package layers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyOrdersByLayerThenTimestamp(t *testing.T) {
	sys := NewSystem()
	sys.AddEffect(NewPTSet("set", 1, 1, 1, nil))
	sys.AddEffect(NewPTBoost("boost-early", 2, 2, 2, nil))
	sys.AddEffect(NewPTBoost("boost-late", 3, 1, 1, nil))

	snap := NewSnapshot(1, 0, []string{"Creature"}, 3, 3, true)
	sys.Apply(snap)

	// set (7b) applies first: 1/1. Then both boosts (7c) in timestamp order:
	// +2/+2 then +1/+1 => 4/4.
	require.Equal(t, 4, snap.Power)
	require.Equal(t, 4, snap.Toughness)
}

func TestApplyRespectsDependencyOverTimestamp(t *testing.T) {
	sys := NewSystem()
	late := NewPTBoost("late", 10, 1, 0, nil)
	early := &dependentBoost{PTBoost: *NewPTBoost("early-depends-on-late", 1, 10, 0, func(s *Snapshot) bool {
		return s.Power >= 1
	}), dependsOnID: "late"}
	sys.AddEffect(late)
	sys.AddEffect(early)

	snap := NewSnapshot(1, 0, []string{"Creature"}, 0, 0, true)
	sys.Apply(snap)

	// Despite "early" having the earlier timestamp, it depends on "late"
	// and so late must apply first. early's filter only matches once late's
	// +1 power is in place, so 11 is reached only in that order (early
	// first would skip its +10 and leave 1).
	require.Equal(t, 11, snap.Power)
}

type dependentBoost struct {
	PTBoost
	dependsOnID string
}

func (d *dependentBoost) DependsOn(other Effect) bool {
	return other.ID() == d.dependsOnID
}

func TestApplyResetsBetweenCalls(t *testing.T) {
	sys := NewSystem()
	sys.AddEffect(NewPTBoost("boost", 1, 2, 2, nil))

	snap := NewSnapshot(1, 0, []string{"Creature"}, 2, 2, true)
	sys.Apply(snap)
	require.Equal(t, 4, snap.Power)

	sys.RemoveEffect("boost")
	sys.Apply(snap)
	require.Equal(t, 2, snap.Power)
}

func TestKeywordGrantAndTypeAdd(t *testing.T) {
	sys := NewSystem()
	sys.AddEffect(NewKeywordGrant("flying", 1, "flying", nil))
	sys.AddEffect(NewTypeAdd("artifact", 2, "Artifact", nil))

	snap := NewSnapshot(1, 0, []string{"Creature"}, 2, 2, true)
	sys.Apply(snap)

	require.True(t, snap.Keywords["flying"])
	require.True(t, snap.HasType("Artifact"))
}

// TestLayeredLandsWorkedExample pins spec §8 S2: card A ("nonbasic lands
// are Mountains", a full type replacement) has an earlier timestamp than
// card B ("each land is also a Swamp", a conditional type add that reads
// Land). Because B's filter reads a type A's replacement can remove, B
// depends on A and A must apply first regardless of timestamp — by the
// time B is checked, L is no longer a Land, so B never applies and L ends
// up Mountain only.
func TestLayeredLandsWorkedExample(t *testing.T) {
	sys := NewSystem()

	cardA := NewTypeSet("a-nonbasic-lands-are-mountains", 1, []string{"Mountain"}, func(s *Snapshot) bool {
		return s.HasType("Land")
	})
	cardB := NewConditionalTypeAdd("b-each-land-is-also-a-swamp", 2, "Swamp", "Land", func(s *Snapshot) bool {
		return s.HasType("Land")
	})
	sys.AddEffect(cardA)
	sys.AddEffect(cardB)

	snap := NewSnapshot(1, 0, []string{"Land"}, 0, 0, false)
	sys.Apply(snap)

	require.Equal(t, []string{"Mountain"}, snap.Types)

	// Swap which card entered first: B now has the earlier timestamp, but
	// the dependency (not the timestamp) still forces A before B, so the
	// result is unchanged.
	sys2 := NewSystem()
	cardA2 := NewTypeSet("a-nonbasic-lands-are-mountains-2", 2, []string{"Mountain"}, func(s *Snapshot) bool {
		return s.HasType("Land")
	})
	cardB2 := NewConditionalTypeAdd("b-each-land-is-also-a-swamp-2", 1, "Swamp", "Land", func(s *Snapshot) bool {
		return s.HasType("Land")
	})
	sys2.AddEffect(cardB2)
	sys2.AddEffect(cardA2)

	snap2 := NewSnapshot(2, 0, []string{"Land"}, 0, 0, false)
	sys2.Apply(snap2)

	require.Equal(t, []string{"Mountain"}, snap2.Types)
}
