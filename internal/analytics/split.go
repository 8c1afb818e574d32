package analytics

import (
	"trading-journal/internal/models"

	"github.com/shopspring/decimal"
)

// SplitAdjust returns the effective quantity and buy price of a trade. The
// stored record is never modified. A split trade with a zero ratio was
// normalized at entry time and is returned as stored.
func SplitAdjust(t *models.Trade) (quantity, buyPrice decimal.Decimal) {
	quantity = decimal.NewFromInt(t.Quantity)
	buyPrice = t.BuyPrice
	if !t.IsSplit || !t.SplitRatio.IsPositive() {
		return quantity, buyPrice
	}
	return quantity.Mul(t.SplitRatio), buyPrice.Div(t.SplitRatio)
}
