package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// SymbolRank is the all-time profitability of one symbol.
type SymbolRank struct {
	Symbol      string
	TradeCount  int
	TotalProfit decimal.Decimal
	AvgProfit   decimal.Decimal
}

// RankSymbols groups positions by symbol. The result is sorted by total
// profit descending, ties broken by symbol, so callers can truncate it.
func RankSymbols(positions []Position) ([]SymbolRank, error) {
	bySymbol := make(map[string]*SymbolRank)
	for _, p := range positions {
		r, ok := bySymbol[p.Symbol]
		if !ok {
			r = &SymbolRank{Symbol: p.Symbol}
			bySymbol[p.Symbol] = r
		}
		var err error
		if r.TotalProfit, err = addAmount(r.TotalProfit, p.NetProfit); err != nil {
			return nil, fmt.Errorf("symbol %s: %w", p.Symbol, err)
		}
		r.TradeCount++
	}

	ranks := make([]SymbolRank, 0, len(bySymbol))
	for _, r := range bySymbol {
		r.AvgProfit = r.TotalProfit.Div(decimal.NewFromInt(int64(r.TradeCount)))
		ranks = append(ranks, *r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if c := ranks[i].TotalProfit.Cmp(ranks[j].TotalProfit); c != 0 {
			return c > 0
		}
		return ranks[i].Symbol < ranks[j].Symbol
	})
	return ranks, nil
}

// Top returns at most n ranks. n <= 0 returns all of them.
func Top(ranks []SymbolRank, n int) []SymbolRank {
	if n <= 0 || n >= len(ranks) {
		return ranks
	}
	return ranks[:n]
}
