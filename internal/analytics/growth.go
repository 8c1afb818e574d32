package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// GrowthPoint is the cumulative realized profit at the end of Date.
type GrowthPoint struct {
	Date  time.Time
	Value decimal.Decimal
}

// Growth builds the capital growth curve: one point per distinct exit date,
// in ascending date order, each holding the running total of realized profit
// starting from zero. The last value equals the total profit of positions.
func Growth(positions []Position) ([]GrowthPoint, error) {
	ordered := make([]Position, len(positions))
	copy(ordered, positions)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].SellDate.Equal(ordered[j].SellDate) {
			return ordered[i].SellDate.Before(ordered[j].SellDate)
		}
		return ordered[i].TradeID < ordered[j].TradeID
	})

	points := make([]GrowthPoint, 0, len(ordered))
	running := decimal.Zero
	for _, p := range ordered {
		var err error
		if running, err = addAmount(running, p.NetProfit); err != nil {
			return nil, fmt.Errorf("capital growth on %s: %w", p.SellDate.Format(DateLayout), err)
		}

		if n := len(points); n > 0 && points[n-1].Date.Equal(p.SellDate) {
			points[n-1].Value = running
			continue
		}
		points = append(points, GrowthPoint{Date: p.SellDate, Value: running})
	}
	return points, nil
}
