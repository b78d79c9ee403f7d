package types

import (
	"cosmossdk.io/math"
)

// ShareLP quotes the claim tokens issued for value. An empty fund quotes BootstrapSupply.
func ShareLP(supply, totalValue, value math.Int) math.Int {
	if !totalValue.IsPositive() {
		return BootstrapSupply
	}
	return supply.Mul(value).Quo(totalValue)
}

// ShareValue quotes the base currency value of lp claim tokens
func ShareValue(supply, totalValue, lp math.Int) math.Int {
	if !supply.IsPositive() {
		return math.ZeroInt()
	}
	return lp.Mul(totalValue).Quo(supply)
}

// CalculateShareTokens returns lp/supply of every reserve, rounded down
func CalculateShareTokens(ledger *Ledger, lp math.Int) []math.Int {
	amounts := ZeroAmounts(len(ledger.Reserves))
	if !ledger.TotalSupply.IsPositive() {
		return amounts
	}
	for i, reserve := range ledger.Reserves {
		amounts[i] = lp.Mul(reserve).Quo(ledger.TotalSupply)
	}
	return amounts
}
