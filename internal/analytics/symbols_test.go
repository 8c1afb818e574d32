package analytics

import (
	"testing"

	"trading-journal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankSymbols(t *testing.T) {
	positions := mustClassify(t, []models.Trade{
		closedTrade(1, 1, "INFY", "2024-01-01", "100", 10, "2024-01-15", "120"),
		closedTrade(2, 1, "INFY", "2024-01-01", "100", 1, "2024-02-15", "90"),
		closedTrade(3, 1, "TCS", "2024-01-01", "50", 4, "2024-02-10", "40"),
		closedTrade(4, 1, "ITC", "2024-01-01", "400", 1, "2024-03-10", "590"),
		closedTrade(5, 1, "WIPRO", "2024-01-01", "400", 1, "2024-03-10", "590"),
		openTrade(6, 1, "HDFC", "2024-01-01", "1500", 100),
	})

	ranks, err := RankSymbols(positions)
	require.NoError(t, err)
	require.Len(t, ranks, 4)

	symbols := make([]string, 0, len(ranks))
	for _, r := range ranks {
		symbols = append(symbols, r.Symbol)
	}
	assert.Equal(t, []string{"INFY", "ITC", "WIPRO", "TCS"}, symbols)

	infy := ranks[0]
	assert.Equal(t, 2, infy.TradeCount)
	assertDecimal(t, "190", infy.TotalProfit)
	assertDecimal(t, "95", infy.AvgProfit)

	tcs := ranks[3]
	assert.Equal(t, 1, tcs.TradeCount)
	assertDecimal(t, "-40", tcs.TotalProfit)
	assertDecimal(t, "-40", tcs.AvgProfit)

	t.Run("Top", func(t *testing.T) {
		assert.Len(t, Top(ranks, 2), 2)
		assert.Len(t, Top(ranks, 10), 4)
		assert.Len(t, Top(ranks, 0), 4)
		assert.Equal(t, "INFY", Top(ranks, 1)[0].Symbol)
	})

	t.Run("Empty", func(t *testing.T) {
		ranks, err := RankSymbols(nil)
		require.NoError(t, err)
		assert.NotNil(t, ranks)
		assert.Empty(t, ranks)
	})
}
