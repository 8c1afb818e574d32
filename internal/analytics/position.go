package analytics

import (
	"fmt"
	"time"

	"trading-journal/internal/models"

	"github.com/shopspring/decimal"
)

// Outcome classifies a closed position by the sign of its realized profit.
type Outcome int

const (
	Flat Outcome = iota
	Win
	Loss
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	default:
		return "flat"
	}
}

// Position is the engine-local, split-adjusted view of a closed trade.
type Position struct {
	TradeID  uint
	MemberID uint
	Symbol   string
	// SellDate is the exit calendar day as UTC midnight.
	SellDate   time.Time
	Quantity   decimal.Decimal
	BuyPrice   decimal.Decimal
	SellPrice  decimal.Decimal
	Investment decimal.Decimal
	NetProfit  decimal.Decimal
}

func (p Position) Outcome() Outcome {
	switch p.NetProfit.Sign() {
	case 1:
		return Win
	case -1:
		return Loss
	default:
		return Flat
	}
}

// Classify drops open trades and turns every closed trade into a Position.
func Classify(trades []models.Trade) ([]Position, error) {
	positions := make([]Position, 0, len(trades))
	for i := range trades {
		p, closed, err := classify(&trades[i])
		if err != nil {
			return nil, err
		}
		if closed {
			positions = append(positions, p)
		}
	}
	return positions, nil
}

func classify(t *models.Trade) (Position, bool, error) {
	if !t.IsClosed() {
		return Position{}, false, nil
	}
	if t.Quantity <= 0 {
		return Position{}, false, fmt.Errorf("%w: trade %d has non-positive quantity %d", ErrInvalidArgument, t.ID, t.Quantity)
	}
	sellDate := Day(*t.SellDate)
	if sellDate.Before(Day(t.BuyDate)) {
		return Position{}, false, fmt.Errorf("%w: trade %d sold on %s before it was bought on %s",
			ErrInvalidArgument, t.ID, sellDate.Format(DateLayout), Day(t.BuyDate).Format(DateLayout))
	}

	quantity, buyPrice := SplitAdjust(t)
	sellPrice := t.SellPrice.Decimal

	// A split changes units and unit price but not the money paid, so the
	// stored buy_price*quantity is the investment and no division rounding
	// leaks into the sums.
	investment, err := mulAmount(t.BuyPrice, decimal.NewFromInt(t.Quantity))
	if err != nil {
		return Position{}, false, fmt.Errorf("trade %d investment: %w", t.ID, err)
	}
	proceeds, err := mulAmount(sellPrice, quantity)
	if err != nil {
		return Position{}, false, fmt.Errorf("trade %d proceeds: %w", t.ID, err)
	}
	profit, err := checkAmount(proceeds.Sub(investment))
	if err != nil {
		return Position{}, false, fmt.Errorf("trade %d profit: %w", t.ID, err)
	}

	return Position{
		TradeID:    t.ID,
		MemberID:   t.MemberID,
		Symbol:     t.Symbol,
		SellDate:   sellDate,
		Quantity:   quantity,
		BuyPrice:   buyPrice,
		SellPrice:  sellPrice,
		Investment: investment,
		NetProfit:  profit,
	}, true, nil
}
