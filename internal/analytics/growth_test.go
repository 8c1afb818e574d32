package analytics

import (
	"testing"

	"trading-journal/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowth(t *testing.T) {
	t.Run("ExampleScenario", func(t *testing.T) {
		member := Filter{MemberID: uintPtr(1)}
		points, err := Growth(mustClassify(t, member.Apply(exampleLedger())))
		require.NoError(t, err)
		require.Len(t, points, 2)

		assert.Equal(t, date("2024-01-15"), points[0].Date)
		assertDecimal(t, "200", points[0].Value)
		assert.Equal(t, date("2024-02-10"), points[1].Date)
		assertDecimal(t, "160", points[1].Value)
	})

	t.Run("OnePointPerExitDate", func(t *testing.T) {
		points, err := Growth(mustClassify(t, []models.Trade{
			closedTrade(3, 1, "A", "2024-01-01", "10", 1, "2024-01-05", "15"),
			closedTrade(1, 1, "B", "2024-01-01", "10", 2, "2024-01-05", "9"),
			closedTrade(2, 1, "C", "2024-01-01", "10", 1, "2024-01-02", "11"),
		}))
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.Equal(t, date("2024-01-02"), points[0].Date)
		assertDecimal(t, "1", points[0].Value)
		assert.Equal(t, date("2024-01-05"), points[1].Date)
		assertDecimal(t, "4", points[1].Value)
	})

	t.Run("InputOrderDoesNotMatter", func(t *testing.T) {
		positions := mustClassify(t, exampleLedger())
		reversed := make([]Position, len(positions))
		for i, p := range positions {
			reversed[len(positions)-1-i] = p
		}

		a, err := Growth(positions)
		require.NoError(t, err)
		b, err := Growth(reversed)
		require.NoError(t, err)
		require.Equal(t, len(a), len(b))
		for i := range a {
			assert.Equal(t, a[i].Date, b[i].Date)
			assert.True(t, a[i].Value.Equal(b[i].Value))
		}
	})

	t.Run("NonDecreasingWhenAllProfitsNonNegative", func(t *testing.T) {
		points, err := Growth(mustClassify(t, []models.Trade{
			closedTrade(1, 1, "A", "2024-01-01", "10", 1, "2024-01-05", "15"),
			closedTrade(2, 1, "B", "2024-01-01", "10", 1, "2024-01-06", "10"),
			closedTrade(3, 1, "C", "2024-01-01", "10", 1, "2024-01-07", "10.01"),
		}))
		require.NoError(t, err)
		for i := 1; i < len(points); i++ {
			assert.True(t, points[i].Value.GreaterThanOrEqual(points[i-1].Value))
		}
	})

	t.Run("DoesNotReorderCallerSlice", func(t *testing.T) {
		positions := mustClassify(t, []models.Trade{
			closedTrade(2, 1, "B", "2024-01-01", "10", 1, "2024-03-01", "11"),
			closedTrade(1, 1, "A", "2024-01-01", "10", 1, "2024-02-01", "11"),
		})
		_, err := Growth(positions)
		require.NoError(t, err)
		assert.Equal(t, uint(2), positions[0].TradeID)
	})

	t.Run("FinalValueMatchesMonthlyNetProfit", func(t *testing.T) {
		positions := mustClassify(t, []models.Trade{
			closedTrade(1, 1, "A", "2023-01-01", "10.10", 7, "2023-11-05", "12.35"),
			closedTrade(2, 1, "B", "2023-01-01", "99.99", 3, "2023-12-06", "80.01"),
			closedTrade(3, 1, "C", "2023-01-01", "5", 100, "2024-01-07", "5.05"),
			closedTrade(4, 1, "A", "2023-01-01", "1", 1, "2024-01-07", "1"),
		})
		points, err := Growth(positions)
		require.NoError(t, err)
		buckets, err := Monthly(positions)
		require.NoError(t, err)

		total := decimal.Zero
		for _, b := range buckets {
			total = total.Add(b.NetProfit)
		}
		assert.True(t, total.Equal(points[len(points)-1].Value), "monthly %s vs growth %s", total, points[len(points)-1].Value)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		points, err := Growth(nil)
		require.NoError(t, err)
		assert.NotNil(t, points)
		assert.Empty(t, points)
	})
}
