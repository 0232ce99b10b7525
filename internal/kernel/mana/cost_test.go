package mana

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCost(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want *Cost
	}{
		{"generic and color", "{2}{G}{G}", &Cost{Generic: 2, Green: 2}},
		{"x cost", "{X}{R}", &Cost{X: true, Red: 1}},
		{"colorless", "{1}{C}", &Cost{Generic: 1, Colorless: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCost(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want.Generic, got.Generic)
			require.Equal(t, tc.want.Green, got.Green)
			require.Equal(t, tc.want.Red, got.Red)
			require.Equal(t, tc.want.X, got.X)
			require.Equal(t, tc.want.Colorless, got.Colorless)
		})
	}
}

func TestParseCostHybrid(t *testing.T) {
	cost, err := ParseCost("{W/U}")
	require.NoError(t, err)
	require.Len(t, cost.Hybrid, 1)
	require.ElementsMatch(t, []ManaType{White, Blue}, cost.Hybrid[0].ColorOptions)
}

func TestParseCostGenericHybrid(t *testing.T) {
	cost, err := ParseCost("{2/B}")
	require.NoError(t, err)
	require.Len(t, cost.Hybrid, 1)
	require.Equal(t, 2, cost.Hybrid[0].GenericAmount)
	require.Equal(t, []ManaType{Black}, cost.Hybrid[0].ColorOptions)
}

func TestParseCostPhyrexian(t *testing.T) {
	cost, err := ParseCost("{G/P}")
	require.NoError(t, err)
	require.Len(t, cost.Phyrexian, 1)
	require.Equal(t, Green, cost.Phyrexian[0].Color)
	require.Equal(t, 2, cost.Phyrexian[0].LifeCost)
}

func TestParseCostUnknownSymbol(t *testing.T) {
	_, err := ParseCost("{Q}")
	require.Error(t, err)
}

func TestConvertedManaCost(t *testing.T) {
	cost, err := ParseCost("{X}{2}{R}{R}")
	require.NoError(t, err)
	require.Equal(t, 7, cost.ConvertedManaCost(3))
}
