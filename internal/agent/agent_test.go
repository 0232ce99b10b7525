package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/rulesforge/internal/kernel/ids"
)

func TestRandomAgentPassesWithNoLegalActions(t *testing.T) {
	a := NewRandomAgent(1)
	action := a.ChooseAction(PublicState{}, PrivateView{}, nil)
	require.Equal(t, ActionPass, action.Kind)
}

func TestRandomAgentPicksAmongLegalActions(t *testing.T) {
	a := NewRandomAgent(1)
	legal := []Action{{Kind: ActionPass}, {Kind: ActionCastSpell, SourceCard: 5}}
	action := a.ChooseAction(PublicState{}, PrivateView{}, legal)
	require.Contains(t, legal, action)
}

func TestRandomAgentChooseOrderIsAPermutation(t *testing.T) {
	a := NewRandomAgent(2)
	in := []ids.ObjectId{1, 2, 3, 4}
	out := a.ChooseOrder(in)
	require.ElementsMatch(t, in, out)
}

func TestPassingAgentAlwaysPasses(t *testing.T) {
	var a PassingAgent
	action := a.ChooseAction(PublicState{}, PrivateView{}, []Action{{Kind: ActionCastSpell}})
	require.Equal(t, ActionPass, action.Kind)
}
