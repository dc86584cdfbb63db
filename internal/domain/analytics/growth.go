package analytics

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Growth is the period-over-period change in percent, rounded to one decimal.
//
// With no previous value the result is +100 for a positive current value,
// -100 for a negative one and 0 otherwise.
func Growth(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		switch current.Sign() {
		case 1:
			return 100
		case -1:
			return -100
		default:
			return 0
		}
	}

	pct := current.Sub(previous).Div(previous.Abs()).Mul(hundred).Round(1)
	f, _ := pct.Float64()
	return f
}
