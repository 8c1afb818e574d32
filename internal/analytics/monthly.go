package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// MonthLayout formats the bucket key of a MonthlyBucket.
const MonthLayout = "2006-01"

// MonthlyBucket totals the positions exited in one calendar month.
type MonthlyBucket struct {
	Month           string
	TotalTrades     int
	WinningTrades   int
	LosingTrades    int
	TotalInvestment decimal.Decimal
	NetProfit       decimal.Decimal
}

// ROI is the month's return in percent, derived from the summed totals
// rather than averaged over trades.
func (b MonthlyBucket) ROI() decimal.Decimal {
	return Percent(b.NetProfit, b.TotalInvestment)
}

// Monthly buckets positions by exit month. Months without exits are omitted
// and buckets are ordered most recent month first.
func Monthly(positions []Position) ([]MonthlyBucket, error) {
	byMonth := make(map[string]*MonthlyBucket)
	for _, p := range positions {
		key := p.SellDate.Format(MonthLayout)
		b, ok := byMonth[key]
		if !ok {
			b = &MonthlyBucket{Month: key}
			byMonth[key] = b
		}

		var err error
		if b.TotalInvestment, err = addAmount(b.TotalInvestment, p.Investment); err != nil {
			return nil, fmt.Errorf("month %s investment: %w", key, err)
		}
		if b.NetProfit, err = addAmount(b.NetProfit, p.NetProfit); err != nil {
			return nil, fmt.Errorf("month %s net profit: %w", key, err)
		}

		b.TotalTrades++
		switch p.Outcome() {
		case Win:
			b.WinningTrades++
		case Loss:
			b.LosingTrades++
		}
	}

	buckets := make([]MonthlyBucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Month > buckets[j].Month
	})
	return buckets, nil
}
