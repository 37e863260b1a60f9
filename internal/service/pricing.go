package service

import "github.com/shopspring/decimal"

// ReducedPrice computes the task-discounted ticket price in öre:
//
//	reduced = round(full * (1 - min(1, taskCount/burden)))
//
// The discount factor is clamped to [0, 1], so volunteering for more
// tasks than the burden constant never produces a negative price.
// Rounding is half-up to the nearest öre. The function is pure: the
// result is fully determined by its three inputs.
func ReducedPrice(fullPrice int64, taskCount, burden int) int64 {
	if taskCount <= 0 || burden <= 0 {
		return fullPrice
	}

	share := decimal.NewFromInt(int64(taskCount)).
		Div(decimal.NewFromInt(int64(burden)))

	one := decimal.NewFromInt(1)
	if share.GreaterThan(one) {
		share = one
	}

	// decimal.Round rounds half away from zero; prices are never
	// negative, so this is round-half-up.
	return decimal.NewFromInt(fullPrice).
		Mul(one.Sub(share)).
		Round(0).
		IntPart()
}
