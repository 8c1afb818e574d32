package analytics

import (
	"testing"
	"time"

	"trading-journal/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func uintPtr(v uint) *uint {
	return &v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func openTrade(id, member uint, symbol, buyDate, buyPrice string, qty int64) models.Trade {
	return models.Trade{
		Model:    gorm.Model{ID: id},
		MemberID: member,
		Symbol:   symbol,
		Exchange: "NSE",
		BuyDate:  date(buyDate),
		BuyPrice: dec(buyPrice),
		Quantity: qty,
	}
}

func closedTrade(id, member uint, symbol, buyDate, buyPrice string, qty int64, sellDate, sellPrice string) models.Trade {
	t := openTrade(id, member, symbol, buyDate, buyPrice, qty)
	t.SellDate = datePtr(sellDate)
	t.SellPrice = decimal.NewNullDecimal(dec(sellPrice))
	return t
}

// exampleLedger is member 1's two closed trades plus noise: an open trade
// and another member's trade.
func exampleLedger() []models.Trade {
	return []models.Trade{
		closedTrade(1, 1, "INFY", "2023-12-01", "100", 10, "2024-01-15", "120"),
		closedTrade(2, 1, "TCS", "2024-01-20", "50", 4, "2024-02-10", "40"),
		openTrade(3, 1, "HDFC", "2024-02-01", "1500", 2),
		closedTrade(4, 2, "INFY", "2024-01-02", "10", 1, "2024-01-03", "11"),
	}
}

func mustClassify(t *testing.T, trades []models.Trade) []Position {
	t.Helper()
	positions, err := Classify(trades)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	return positions
}
