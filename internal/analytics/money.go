package analytics

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// maxAmount is the largest magnitude that still fits in int64 minor units (cents),
	// the narrowest representation amounts are exported in.
	maxAmount = decimal.New(math.MaxInt64, -2)
)

func checkAmount(v decimal.Decimal) (decimal.Decimal, error) {
	if v.Abs().GreaterThan(maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: amount %s exceeds %s", ErrArithmeticOverflow, v.String(), maxAmount.String())
	}
	return v, nil
}

func addAmount(a, b decimal.Decimal) (decimal.Decimal, error) {
	return checkAmount(a.Add(b))
}

func mulAmount(a, b decimal.Decimal) (decimal.Decimal, error) {
	return checkAmount(a.Mul(b))
}

// Percent returns part/whole*100, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
