package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-facturacion/internal/domain/inventory"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestWeightedAverageCost_Promedio(t *testing.T) {
	// 10 @ 100 + 5 @ 130 = 1650 / 15 = 110
	got, changed := inventory.WeightedAverageCost(10, decimal.NewFromInt(100), 5, dec(130))
	assert.True(t, changed)
	assert.True(t, got.Equal(decimal.NewFromInt(110)), "got %s", got)
}

func TestWeightedAverageCost_RedondeoMitadArriba(t *testing.T) {
	// (1*10 + 1*11) / 2 = 10.5 -> 11
	got, _ := inventory.WeightedAverageCost(1, decimal.NewFromInt(10), 1, dec(11))
	assert.True(t, got.Equal(decimal.NewFromInt(11)), "got %s", got)

	// (2*10 + 1*11) / 3 = 10.33 -> 10
	got, _ = inventory.WeightedAverageCost(2, decimal.NewFromInt(10), 1, dec(11))
	assert.True(t, got.Equal(decimal.NewFromInt(10)), "got %s", got)
}

func TestWeightedAverageCost_SinCostoNoCambia(t *testing.T) {
	got, changed := inventory.WeightedAverageCost(10, decimal.NewFromInt(100), 5, nil)
	assert.False(t, changed)
	assert.True(t, got.Equal(decimal.NewFromInt(100)))

	got, changed = inventory.WeightedAverageCost(10, decimal.NewFromInt(100), 5, dec(0))
	assert.False(t, changed)
	assert.True(t, got.Equal(decimal.NewFromInt(100)))
}

func TestWeightedAverageCost_SumaCeroNoCambia(t *testing.T) {
	got, changed := inventory.WeightedAverageCost(-5, decimal.NewFromInt(100), 5, dec(130))
	assert.False(t, changed)
	assert.True(t, got.Equal(decimal.NewFromInt(100)))
}

func TestWeightedAverageCost_StockNegativo(t *testing.T) {
	// (-2*100 + 5*130) / 3 = 450 / 3 = 150
	got, changed := inventory.WeightedAverageCost(-2, decimal.NewFromInt(100), 5, dec(130))
	assert.True(t, changed)
	assert.True(t, got.Equal(decimal.NewFromInt(150)), "got %s", got)
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[string]string{
		"2.5":  "3",
		"2.49": "2",
		"-2.5": "-2",
		"150":  "150",
	}
	for in, want := range cases {
		got := inventory.RoundHalfUp(decimal.RequireFromString(in))
		assert.Equal(t, want, got.String(), in)
	}
}
