package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eburton/receiptmatch/internal/domain/money"
)

func cents(vals ...int64) []money.Money {
	out := make([]money.Money, len(vals))
	for i, v := range vals {
		out[i] = money.FromCents(v)
	}
	return out
}

func TestProportional_TaxSplit(t *testing.T) {
	// Items 19.99 and 9.99, subtotal 29.98, tax 2.98:
	// first share floor(298*1999/2998) = 198, last takes 100
	shares, err := Proportional(cents(1999, 999), money.FromCents(298))
	require.NoError(t, err)

	assert.Equal(t, cents(198, 100), shares)
	assert.Equal(t, money.FromCents(298), money.Sum(shares))
}

func TestProportional_ExactSumInvariant(t *testing.T) {
	tests := []struct {
		name    string
		weights []money.Money
		total   money.Money
	}{
		{"even split", cents(100, 100, 100), money.FromCents(100)},
		{"one cent over three", cents(1, 1, 1), money.FromCents(1)},
		{"large uneven", cents(1999, 1272, 1699, 799, 649, 2699, 1609), money.FromCents(10327)},
		{"zero total", cents(500, 500), money.Zero},
		{"negative total", cents(300, 700), money.FromCents(-1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Proportional(tt.weights, tt.total)
			require.NoError(t, err)
			require.Len(t, shares, len(tt.weights))
			assert.Equal(t, tt.total, money.Sum(shares))
		})
	}
}

func TestProportional_ZeroWeights(t *testing.T) {
	// All-free items: whole total lands on the last element
	shares, err := Proportional(cents(0, 0, 0), money.FromCents(50))
	require.NoError(t, err)
	assert.Equal(t, cents(0, 0, 50), shares)

	// A single zero weight among others gets nothing
	shares, err = Proportional(cents(100, 0, 100), money.FromCents(200))
	require.NoError(t, err)
	assert.Equal(t, money.Zero, shares[1])
	assert.Equal(t, money.FromCents(200), money.Sum(shares))
}

func TestProportional_Empty(t *testing.T) {
	_, err := Proportional(nil, money.FromCents(100))
	assert.ErrorIs(t, err, ErrNoElements)
}

func TestRemainder(t *testing.T) {
	// Amounts sum to 297 but should sum to 298: last element absorbs +1
	adjusted, err := Remainder(cents(198, 99), money.FromCents(298))
	require.NoError(t, err)
	assert.Equal(t, cents(198, 100), adjusted)

	// Over-sum is pulled back from the last element
	adjusted, err = Remainder(cents(200, 100), money.FromCents(298))
	require.NoError(t, err)
	assert.Equal(t, cents(200, 98), adjusted)

	// Already exact: unchanged
	adjusted, err = Remainder(cents(198, 100), money.FromCents(298))
	require.NoError(t, err)
	assert.Equal(t, cents(198, 100), adjusted)
}

func TestRemainder_OnlyLastElementDiffers(t *testing.T) {
	in := cents(500, 300, 150)
	adjusted, err := Remainder(in, money.FromCents(1000))
	require.NoError(t, err)

	assert.Equal(t, in[0], adjusted[0])
	assert.Equal(t, in[1], adjusted[1])
	assert.Equal(t, money.FromCents(1000), money.Sum(adjusted))

	// Input slice is not mutated
	assert.Equal(t, money.FromCents(150), in[2])
}

func TestRemainder_Empty(t *testing.T) {
	_, err := Remainder(nil, money.FromCents(100))
	assert.ErrorIs(t, err, ErrNoElements)
}
