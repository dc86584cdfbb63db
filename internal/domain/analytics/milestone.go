package analytics

import "github.com/shopspring/decimal"

// DetectMilestone floors allTimeProfit to a multiple of interval and returns
// it when it is above previousHighest.
func DetectMilestone(allTimeProfit, previousHighest, interval decimal.Decimal) (decimal.Decimal, bool) {
	if !interval.IsPositive() {
		return decimal.Zero, false
	}
	mark := allTimeProfit.Div(interval).Floor().Mul(interval)
	if mark.GreaterThan(previousHighest) {
		return mark, true
	}
	return decimal.Zero, false
}
