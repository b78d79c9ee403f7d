package types

import (
	"cosmossdk.io/math"
)

// PowTruncate raises base to exp by repeated squaring, truncating every product
func PowTruncate(base math.LegacyDec, exp uint64) math.LegacyDec {
	result := math.LegacyOneDec()
	for exp > 0 {
		if exp&1 == 1 {
			result = result.MulTruncate(base)
		}
		exp >>= 1
		if exp > 0 {
			base = base.MulTruncate(base)
		}
	}
	return result
}

// CalculateManagementFee returns supply * (1 - (1 - rate)^months), rounded down.
// Zero months, zero supply or a zero rate yield zero.
func CalculateManagementFee(supply math.Int, rate math.LegacyDec, months int64) math.Int {
	if months <= 0 || !supply.IsPositive() || !rate.IsPositive() {
		return math.ZeroInt()
	}
	if rate.GTE(math.LegacyOneDec()) {
		return supply
	}
	retained := PowTruncate(math.LegacyOneDec().Sub(rate), uint64(months))
	factor := math.LegacyOneDec().Sub(retained)
	return supply.ToLegacyDec().MulTruncate(factor).TruncateInt()
}

// ElapsedMonths returns the whole months between from and now
func ElapsedMonths(from, now int64) int64 {
	if now <= from {
		return 0
	}
	return (now - from) / MonthDuration
}
