package analytics

import (
	"errors"
	"testing"

	"trading-journal/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("OpenTradesDropped", func(t *testing.T) {
		positions, err := Classify(exampleLedger())
		require.NoError(t, err)
		require.Len(t, positions, 3)
		for _, p := range positions {
			assert.NotEqual(t, uint(3), p.TradeID)
		}
	})

	t.Run("SellDateWithoutPriceIsOpen", func(t *testing.T) {
		trade := openTrade(1, 1, "INFY", "2024-01-01", "100", 1)
		trade.SellDate = datePtr("2024-02-01")

		positions, err := Classify([]models.Trade{trade})
		require.NoError(t, err)
		assert.Empty(t, positions)
	})

	t.Run("ProfitAndInvestment", func(t *testing.T) {
		positions := mustClassify(t, exampleLedger()[:2])

		assertDecimal(t, "1000", positions[0].Investment)
		assertDecimal(t, "200", positions[0].NetProfit)
		assert.Equal(t, Win, positions[0].Outcome())

		assertDecimal(t, "200", positions[1].Investment)
		assertDecimal(t, "-40", positions[1].NetProfit)
		assert.Equal(t, Loss, positions[1].Outcome())
	})

	t.Run("ZeroProfitIsFlat", func(t *testing.T) {
		positions := mustClassify(t, []models.Trade{closedTrade(1, 1, "ITC", "2024-01-01", "420.50", 3, "2024-01-05", "420.50")})
		assert.Equal(t, Flat, positions[0].Outcome())
		assert.Equal(t, "flat", positions[0].Outcome().String())
	})

	t.Run("CentsPreserved", func(t *testing.T) {
		positions := mustClassify(t, []models.Trade{closedTrade(1, 1, "ITC", "2024-01-01", "420.35", 3, "2024-01-05", "421.10")})
		assertDecimal(t, "1261.05", positions[0].Investment)
		assertDecimal(t, "2.25", positions[0].NetProfit)
	})

	t.Run("SellBeforeBuyRejected", func(t *testing.T) {
		_, err := Classify([]models.Trade{closedTrade(9, 1, "ITC", "2024-02-01", "1", 1, "2024-01-01", "2")})
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})

	t.Run("NonPositiveQuantityRejected", func(t *testing.T) {
		_, err := Classify([]models.Trade{closedTrade(9, 1, "ITC", "2024-01-01", "1", 0, "2024-01-02", "2")})
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})

	t.Run("OverflowReported", func(t *testing.T) {
		_, err := Classify([]models.Trade{closedTrade(9, 1, "ITC", "2024-01-01", "1e17", 1000, "2024-01-02", "1e17")})
		assert.True(t, errors.Is(err, ErrArithmeticOverflow))
	})
}

func TestSplitAdjust(t *testing.T) {
	base := closedTrade(1, 1, "INFY", "2023-01-01", "1000", 10, "2024-01-01", "600")

	testCases := []struct {
		name          string
		isSplit       bool
		ratio         string
		wantQty       string
		wantBuyPrice  string
		wantProfit    string
		wantInvestmnt string
	}{
		{name: "Not split", isSplit: false, ratio: "2", wantQty: "10", wantBuyPrice: "1000", wantProfit: "-4000", wantInvestmnt: "10000"},
		{name: "Two for one", isSplit: true, ratio: "2", wantQty: "20", wantBuyPrice: "500", wantProfit: "2000", wantInvestmnt: "10000"},
		{name: "Already normalized", isSplit: true, ratio: "0", wantQty: "10", wantBuyPrice: "1000", wantProfit: "-4000", wantInvestmnt: "10000"},
		{name: "Three for one keeps investment exact", isSplit: true, ratio: "3", wantQty: "30", wantProfit: "8000", wantInvestmnt: "10000"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trade := base
			trade.IsSplit = tc.isSplit
			trade.SplitRatio = dec(tc.ratio)

			qty, price := SplitAdjust(&trade)
			assertDecimal(t, tc.wantQty, qty)
			if tc.wantBuyPrice != "" {
				assertDecimal(t, tc.wantBuyPrice, price)
			}

			positions := mustClassify(t, []models.Trade{trade})
			assertDecimal(t, tc.wantProfit, positions[0].NetProfit)
			assertDecimal(t, tc.wantInvestmnt, positions[0].Investment)

			// The stored record is untouched.
			assert.Equal(t, int64(10), trade.Quantity)
			assertDecimal(t, "1000", trade.BuyPrice)
			assert.True(t, trade.SellPrice.Decimal.Equal(decimal.NewFromInt(600)))
		})
	}
}
