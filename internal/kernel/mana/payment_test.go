package mana

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCanPayMatchesPay pins the invariant spec §4.2 calls out by name: a
// cost declared payable by CanPay must actually pay via Pay, using the
// identical search, on every case below.
func TestCanPayMatchesPay(t *testing.T) {
	cases := []struct {
		name    string
		costStr string
		pool    map[ManaType]int
		xValue  int
		wantOK  bool
	}{
		{"exact colored", "{1}{W}{U}", map[ManaType]int{White: 1, Blue: 1, Colorless: 2}, 0, true},
		{"insufficient colored", "{1}{W}{U}", map[ManaType]int{White: 1, Colorless: 2}, 0, false},
		{"hybrid either color", "{W/U}", map[ManaType]int{Blue: 1}, 0, true},
		{"generic hybrid", "{2/B}", map[ManaType]int{Black: 1}, 0, true},
		{"generic hybrid via generic", "{2/B}", map[ManaType]int{Colorless: 2}, 0, true},
		{"phyrexian via mana", "{G/P}", map[ManaType]int{Green: 1}, 0, true},
		{"phyrexian via life", "{G/P}", map[ManaType]int{}, 0, true},
		{"x cost bound", "{X}{R}", map[ManaType]int{Red: 1, Colorless: 3}, 3, true},
		{"x cost short", "{X}{R}", map[ManaType]int{Red: 1, Colorless: 2}, 3, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cost, err := ParseCost(tc.costStr)
			require.NoError(t, err)

			pool := NewPool()
			for color, n := range tc.pool {
				pool.Add(color, n)
			}

			gotCanPay := CanPay(cost, pool, tc.xValue)
			require.Equal(t, tc.wantOK, gotCanPay, "CanPay mismatch")

			_, gotPayOK := Pay(cost, pool, tc.xValue)
			require.Equal(t, tc.wantOK, gotPayOK, "Pay must agree with CanPay")
		})
	}
}

// TestPayDoesNotLeaveExtraColored pins spec S5: Pool = {W:1, U:1, C:2},
// Cost = {1}{W}{U}; after payment the pool must hold exactly one
// colorless mana and no colored mana left stranded.
func TestPayDoesNotLeaveExtraColored(t *testing.T) {
	cost, err := ParseCost("{1}{W}{U}")
	require.NoError(t, err)

	pool := NewPool()
	pool.Add(White, 1)
	pool.Add(Blue, 1)
	pool.Add(Colorless, 2)

	plan, ok := Pay(cost, pool, 0)
	require.True(t, ok)
	require.NotNil(t, plan)

	require.Equal(t, 0, pool.Total(White))
	require.Equal(t, 0, pool.Total(Blue))
	require.Equal(t, 1, pool.Total(Colorless))
}

// TestRefundRestoresPoolExactly pins the round-trip law in spec §8: paying
// a cost then refunding the same quanta restores the pool exactly.
func TestRefundRestoresPoolExactly(t *testing.T) {
	cost, err := ParseCost("{1}{G}{G}")
	require.NoError(t, err)

	pool := NewPool()
	pool.Add(Green, 2)
	pool.Add(Colorless, 1)
	before := pool.Copy()

	plan, ok := Pay(cost, pool, 0)
	require.True(t, ok)

	Refund(plan, pool)

	for _, c := range colorOrder {
		require.Equal(t, before.Total(c), pool.Total(c), "color %s not restored", c)
	}
}

func TestPayFailureLeavesPoolUntouched(t *testing.T) {
	cost, err := ParseCost("{5}")
	require.NoError(t, err)

	pool := NewPool()
	pool.Add(Colorless, 1)

	_, ok := Pay(cost, pool, 0)
	require.False(t, ok)
	require.Equal(t, 1, pool.Total(Colorless))
}
