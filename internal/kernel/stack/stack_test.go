package stack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/object"
)

func TestPushPopOrder(t *testing.T) {
	m := NewManager()
	require.True(t, m.IsEmpty())

	m.Push(&object.StackItem{ID: 1})
	m.Push(&object.StackItem{ID: 2})
	require.False(t, m.IsEmpty())

	top, ok := m.Peek()
	require.True(t, ok)
	require.Equal(t, ids.ObjectId(2), top.ID)

	popped, ok := m.Pop()
	require.True(t, ok)
	require.Equal(t, ids.ObjectId(2), popped.ID)

	popped, ok = m.Pop()
	require.True(t, ok)
	require.Equal(t, ids.ObjectId(1), popped.ID)

	_, ok = m.Pop()
	require.False(t, ok)
}

func TestRemoveFromMiddle(t *testing.T) {
	m := NewManager()
	m.Push(&object.StackItem{ID: 1})
	m.Push(&object.StackItem{ID: 2})
	m.Push(&object.StackItem{ID: 3})

	removed, ok := m.Remove(2)
	require.True(t, ok)
	require.Equal(t, ids.ObjectId(2), removed.ID)
	require.Len(t, m.List(), 2)
}

func TestResolutionContextNesting(t *testing.T) {
	rc := NewResolutionContext()
	require.False(t, rc.IsResolving())

	require.True(t, rc.Begin(1))
	require.True(t, rc.Begin(2))
	require.Equal(t, 2, rc.Depth())

	rc.End(2)
	rc.End(1)
	require.False(t, rc.IsResolving())
}

func TestPriorityTrackerRoundCompletesOnBothPasses(t *testing.T) {
	tr := NewPriorityTracker(ids.P1)
	require.Equal(t, ids.P1, tr.Holder())

	complete := tr.Pass()
	require.False(t, complete)
	require.Equal(t, ids.P2, tr.Holder())

	complete = tr.Pass()
	require.True(t, complete)
	require.Equal(t, ids.P1, tr.Holder())
}

func TestPriorityTrackerActionResetsPasses(t *testing.T) {
	tr := NewPriorityTracker(ids.P1)
	tr.Pass() // P1 passes, holder now P2

	tr.Act() // P2 acts, still holds priority, passes forgotten
	require.Equal(t, ids.P2, tr.Holder())

	complete := tr.Pass()
	require.False(t, complete)
}
