package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/rulesforge/internal/kernel/events"
	"github.com/cardforge/rulesforge/internal/kernel/ids"
)

func TestRecorderAppendsInOrder(t *testing.T) {
	r := NewRecorder()
	r.Listen(events.NewEvent(events.TypeDamage, 1, ids.P1).WithAmount(3))
	r.Listen(events.NewEvent(events.TypeDraw, 2, ids.P2).WithAmount(1))

	got := r.Events()
	require.Len(t, got, 2)
	require.Equal(t, events.TypeDamage, got[0].Type)
	require.Equal(t, events.TypeDraw, got[1].Type)
}

func TestSaveAndLoadRoundTrips(t *testing.T) {
	r := NewRecorder()
	r.Listen(events.NewEvent(events.TypeDamage, 1, ids.P1).WithAmount(5).WithTargetPlayer(ids.P2))

	path := filepath.Join(t.TempDir(), "trace.gob.gz")
	require.NoError(t, r.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, 5, loaded[0].Amount)
	require.Equal(t, ids.P2, loaded[0].TargetPlayer)

	_ = os.Remove(path)
}
