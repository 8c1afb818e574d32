package analytics

import (
	"math"
	"testing"

	"trading-journal/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountOverflow(t *testing.T) {
	_, err := addAmount(maxAmount, decimal.NewFromFloat(0.01))
	assert.ErrorIs(t, err, ErrArithmeticOverflow)

	_, err = addAmount(maxAmount.Neg(), decimal.NewFromFloat(-0.01))
	assert.ErrorIs(t, err, ErrArithmeticOverflow)

	v, err := addAmount(maxAmount, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, v.Equal(maxAmount))

	t.Run("HugeTradeReportedNotWrapped", func(t *testing.T) {
		huge := closedTrade(1, 1, "BRK", "2024-01-01", "1000000000000", math.MaxInt64, "2024-01-02", "1000000000001")
		_, err := Classify([]models.Trade{huge})
		assert.ErrorIs(t, err, ErrArithmeticOverflow)
	})

	t.Run("SumOverflowsAcrossTrades", func(t *testing.T) {
		price := maxAmount.Div(decimal.NewFromInt(2)).Add(decimal.NewFromInt(1)).Truncate(0).String()
		positions := mustClassify(t, []models.Trade{
			closedTrade(1, 1, "A", "2024-01-01", price, 1, "2024-01-02", price),
			closedTrade(2, 1, "B", "2024-01-01", price, 1, "2024-01-02", price),
		})
		_, err := Monthly(positions)
		assert.ErrorIs(t, err, ErrArithmeticOverflow)
	})
}

func TestPercent(t *testing.T) {
	assertDecimal(t, "20", Percent(dec("200"), dec("1000")))
	assertDecimal(t, "-20", Percent(dec("-40"), dec("200")))
	assertDecimal(t, "0", Percent(dec("10"), decimal.Zero))
	assertDecimal(t, "0", Percent(dec("10"), dec("-5")))
}
