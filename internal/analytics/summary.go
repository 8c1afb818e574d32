package analytics

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// Summary holds the period totals shown at the top of the dashboard.
type Summary struct {
	TotalTrades     int
	Wins            int
	Losses          int
	WinRate         float64 // percent of all trades, flat trades included in the denominator
	NetProfit       decimal.Decimal
	TotalInvestment decimal.Decimal
	ROI             decimal.Decimal
	CurrentCapital  decimal.Decimal
	// Per-trade realized profit distribution. Display only, hence float64.
	MedianProfit float64
	ProfitStdDev float64
}

// Summarize folds monthly buckets into period totals. The current capital is
// the last growth point, or zero for an empty window.
func Summarize(buckets []MonthlyBucket, growth []GrowthPoint, positions []Position) (Summary, error) {
	var s Summary
	for _, b := range buckets {
		s.TotalTrades += b.TotalTrades
		s.Wins += b.WinningTrades
		s.Losses += b.LosingTrades

		var err error
		if s.NetProfit, err = addAmount(s.NetProfit, b.NetProfit); err != nil {
			return Summary{}, fmt.Errorf("summary net profit: %w", err)
		}
		if s.TotalInvestment, err = addAmount(s.TotalInvestment, b.TotalInvestment); err != nil {
			return Summary{}, fmt.Errorf("summary investment: %w", err)
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TotalTrades) * 100
	}
	s.ROI = Percent(s.NetProfit, s.TotalInvestment)
	if n := len(growth); n > 0 {
		s.CurrentCapital = growth[n-1].Value
	}

	profits := make(stats.Float64Data, 0, len(positions))
	for _, p := range positions {
		profits = append(profits, p.NetProfit.InexactFloat64())
	}
	if len(profits) > 0 {
		median, err := profits.Median()
		if err != nil {
			return Summary{}, fmt.Errorf("median profit: %w", err)
		}
		s.MedianProfit = median
	}
	if len(profits) > 1 {
		stdev, err := profits.StandardDeviationSample()
		if err != nil {
			return Summary{}, fmt.Errorf("profit stddev: %w", err)
		}
		s.ProfitStdDev = stdev
	}

	return s, nil
}
