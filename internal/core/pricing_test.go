package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinemacousas/cinema-booking/internal/model"
)

func standardRules() []model.AgePrice {
	return []model.AgePrice{
		{ID: 1, Name: "Child", AgeMin: 0, AgeMax: 11, Factor: 0.5},
		{ID: 2, Name: "Adult", AgeMin: 12, AgeMax: 64, Factor: 1.0},
		{ID: 3, Name: "Senior", AgeMin: 65, AgeMax: 120, Factor: 0.8},
	}
}

func TestCalculatePriceTiers(t *testing.T) {
	quote, err := CalculatePrice(10.00, []uint32{5, 30, 70}, standardRules())
	require.NoError(t, err)

	require.Len(t, quote.Breakdown, 3)
	assert.Equal(t, "Child", quote.Breakdown[0].Category)
	assert.Equal(t, 5.00, quote.Breakdown[0].Price)
	assert.Equal(t, "Adult", quote.Breakdown[1].Category)
	assert.Equal(t, 10.00, quote.Breakdown[1].Price)
	assert.Equal(t, "Senior", quote.Breakdown[2].Category)
	assert.Equal(t, 8.00, quote.Breakdown[2].Price)

	assert.Equal(t, 23.00, quote.Total)
	assert.Equal(t, 3, quote.Spectators)
	assert.Equal(t, 10.00, quote.BasePrice)
}

func TestCalculatePriceBandBoundaries(t *testing.T) {
	rules := standardRules()
	for _, tc := range []struct {
		age  uint32
		want string
	}{
		{0, "Child"},
		{11, "Child"},
		{12, "Adult"},
		{64, "Adult"},
		{65, "Senior"},
		{120, "Senior"},
	} {
		quote, err := CalculatePrice(10.00, []uint32{tc.age}, rules)
		require.NoError(t, err)
		assert.Equal(t, tc.want, quote.Breakdown[0].Category, "age %d", tc.age)
	}
}

func TestCalculatePriceFallbackToAdult(t *testing.T) {
	// Age 130 is outside every band; the Adult band catches it.
	quote, err := CalculatePrice(10.00, []uint32{130}, standardRules())
	require.NoError(t, err)
	assert.Equal(t, "Adult", quote.Breakdown[0].Category)
	assert.Equal(t, 10.00, quote.Total)
}

func TestCalculatePriceFallbackFrenchName(t *testing.T) {
	rules := []model.AgePrice{
		{Name: "Enfant", AgeMin: 0, AgeMax: 11, Factor: 0.5},
		{Name: "Adulte", AgeMin: 12, AgeMax: 64, Factor: 1.0},
	}
	quote, err := CalculatePrice(8.00, []uint32{99}, rules)
	require.NoError(t, err)
	assert.Equal(t, "Adulte", quote.Breakdown[0].Category)
	assert.Equal(t, 8.00, quote.Breakdown[0].Price)
}

func TestCalculatePriceFallbackFirstRule(t *testing.T) {
	// No adult-named band at all: the first band is the last resort.
	rules := []model.AgePrice{
		{Name: "Standard", AgeMin: 10, AgeMax: 20, Factor: 0.9},
	}
	quote, err := CalculatePrice(10.00, []uint32{50}, rules)
	require.NoError(t, err)
	assert.Equal(t, "Standard", quote.Breakdown[0].Category)
	assert.Equal(t, 9.00, quote.Total)
}

func TestCalculatePriceNoRules(t *testing.T) {
	_, err := CalculatePrice(10.00, []uint32{30}, nil)
	assert.ErrorIs(t, err, ErrNoPricingRules)
}

func TestCalculatePriceTotalIsSumOfRoundedLines(t *testing.T) {
	// 10.99 * 0.335 = 3.68165, rounded per spectator to 3.68.  Three
	// spectators: the total must be 11.04, not round(11.04495) applied
	// at the end.
	rules := []model.AgePrice{{Name: "Adult", AgeMin: 0, AgeMax: 120, Factor: 0.335}}
	quote, err := CalculatePrice(10.99, []uint32{20, 30, 40}, rules)
	require.NoError(t, err)
	for _, line := range quote.Breakdown {
		assert.Equal(t, 3.68, line.Price)
	}
	assert.Equal(t, 11.04, quote.Total)
}

func TestCalculatePriceNoSpectators(t *testing.T) {
	quote, err := CalculatePrice(10.00, nil, standardRules())
	require.NoError(t, err)
	assert.Zero(t, quote.Total)
	assert.Empty(t, quote.Breakdown)
}

func TestCentsToMajor(t *testing.T) {
	assert.Equal(t, 10.50, CentsToMajor(1050))
	assert.Equal(t, 0.01, CentsToMajor(1))
	assert.Equal(t, 0.0, CentsToMajor(0))
}
