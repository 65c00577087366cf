package orders

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemsTotal sums price * quantity over lines in decimal arithmetic.
func ItemsTotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// VerifyTotal checks the declared total against the recomputed item sum.
func VerifyTotal(lines []Line, declared float64) error {
	sum := ItemsTotal(lines)
	diff := sum.Sub(decimal.NewFromFloat(declared)).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(TotalTolerance)) {
		return fmt.Errorf("%w: items sum %s != total %s", ErrTotalMismatch, sum.String(), decimal.NewFromFloat(declared).String())
	}
	return nil
}
