package ledger

import (
	"fmt"
	"strings"

	"trading-journal/internal/analytics"
	"trading-journal/internal/models"
)

// Normalize canonicalizes the user-entered fields of t in place: symbol and
// exchange are trimmed and upper-cased, dates are reduced to their calendar day.
func Normalize(t *models.Trade) {
	t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))
	t.Exchange = strings.ToUpper(strings.TrimSpace(t.Exchange))
	t.Notes = strings.TrimSpace(t.Notes)
	if !t.BuyDate.IsZero() {
		t.BuyDate = analytics.Day(t.BuyDate)
	}
	if t.SellDate != nil {
		d := analytics.Day(*t.SellDate)
		t.SellDate = &d
	}
}

// Validate checks the record invariants of a trade.
func Validate(t *models.Trade) error {
	switch {
	case t.Symbol == "":
		return fmt.Errorf("%w: symbol is required", ErrInvalidTrade)
	case t.BuyDate.IsZero():
		return fmt.Errorf("%w: buy date is required", ErrInvalidTrade)
	case t.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidTrade, t.Quantity)
	case t.BuyPrice.IsNegative():
		return fmt.Errorf("%w: buy price must not be negative", ErrInvalidTrade)
	case t.SplitRatio.IsNegative():
		return fmt.Errorf("%w: split ratio must not be negative", ErrInvalidTrade)
	}

	if t.SellDate == nil && !t.SellPrice.Valid {
		return nil
	}
	if t.SellDate == nil || !t.SellPrice.Valid {
		return fmt.Errorf("%w: sell date and sell price must be given together", ErrInvalidTrade)
	}
	if t.SellPrice.Decimal.IsNegative() {
		return fmt.Errorf("%w: sell price must not be negative", ErrInvalidTrade)
	}
	if analytics.Day(*t.SellDate).Before(analytics.Day(t.BuyDate)) {
		return fmt.Errorf("%w: sell date %s is before buy date %s", ErrInvalidTrade,
			t.SellDate.Format(analytics.DateLayout), t.BuyDate.Format(analytics.DateLayout))
	}
	return nil
}
