package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" rwf ")
	require.NoError(t, err)
	assert.Equal(t, RWF, c)

	_, err = ParseCurrency("RW")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
	_, err = ParseCurrency("R1F")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestCurrency_Round(t *testing.T) {
	assert.True(t, decimal.NewFromInt(1235).Equal(RWF.Round(decimal.RequireFromString("1234.5"))))
	assert.True(t, decimal.RequireFromString("10.13").Equal(USD.Round(decimal.RequireFromString("10.125"))))
	assert.Equal(t, int32(3), BHD.MinorUnits())
	assert.Equal(t, RWF, Currency("").OrDefault())
}

func TestMoney_AddRejectsMismatch(t *testing.T) {
	a := MustMoney(decimal.NewFromInt(100), RWF)
	b := MustMoney(decimal.NewFromInt(5), USD)

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	sum, err := a.Add(MustMoney(decimal.NewFromInt(50), RWF))
	require.NoError(t, err)
	assert.Equal(t, "RWF 150", sum.String())
}

func TestMoney_JSON(t *testing.T) {
	m := MustMoney(decimal.RequireFromString("12.5"), USD)
	data, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"12.5","currency":"USD"}`, string(data))

	var back Money
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, USD, back.Currency())
	assert.True(t, back.Amount().Equal(m.Amount()))
}

func TestAllocateByWeights_SumsToTotal(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		weights []int64
		places  int32
	}{
		{"even thirds", "100", []int64{1, 1, 1}, 0},
		{"uneven shares", "1000000", []int64{333, 333, 334, 1}, 0},
		{"cents", "100.00", []int64{1, 1, 1}, 2},
		{"single holder", "999", []int64{42}, 0},
		{"with zero weight", "10", []int64{3, 0, 7}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weights := make([]decimal.Decimal, len(tt.weights))
			for i, w := range tt.weights {
				weights[i] = decimal.NewFromInt(w)
			}
			total := decimal.RequireFromString(tt.total)

			shares, err := AllocateByWeights(total, weights, tt.places)
			require.NoError(t, err)
			require.Len(t, shares, len(weights))

			sum := decimal.Zero
			for i, s := range shares {
				sum = sum.Add(s)
				assert.False(t, s.IsNegative())
				if tt.weights[i] == 0 {
					assert.True(t, s.IsZero())
				}
			}
			assert.True(t, total.Equal(sum), "expected %s, got %s", total, sum)
		})
	}
}

func TestAllocateByWeights_LargestRemainderGetsUnit(t *testing.T) {
	// 10 split 1:2 -> 3.33 / 6.67, floored 3 / 6, leftover goes to the larger remainder
	shares, err := AllocateByWeights(decimal.NewFromInt(10), []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(2)}, 0)
	require.NoError(t, err)
	assert.Equal(t, "3", shares[0].String())
	assert.Equal(t, "7", shares[1].String())
}

func TestAllocateByWeights_ZeroWeights(t *testing.T) {
	_, err := AllocateByWeights(decimal.NewFromInt(10), []decimal.Decimal{decimal.Zero}, 0)
	assert.ErrorIs(t, err, ErrZeroWeights)

	_, err = AllocateByWeights(decimal.NewFromInt(10), nil, 0)
	assert.ErrorIs(t, err, ErrZeroWeights)
}
