package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

// TotalReserveValue values every tracked reserve in base currency through the router
func (k *Keeper) TotalReserveValue(ctx sdk.Context, ledger *types.Ledger) (math.Int, error) {
	base := k.registry.BaseDenom(ctx)
	total := math.ZeroInt()
	for i, denom := range ledger.Assets {
		reserve := ledger.Reserves[i]
		if reserve.IsZero() {
			continue
		}
		if denom == base {
			total = total.Add(reserve)
			continue
		}
		value, err := k.router.ValueOf(ctx, denom, reserve)
		if err != nil {
			return math.Int{}, err
		}
		total = total.Add(value)
	}
	return total, nil
}

// CalculateShareLP quotes the claim tokens a contribution of value would receive
func (k *Keeper) CalculateShareLP(ctx sdk.Context, fundID string, value math.Int) (math.Int, error) {
	ledger, err := k.mustGetLedger(ctx, fundID)
	if err != nil {
		return math.Int{}, err
	}
	total, err := k.TotalReserveValue(ctx, ledger)
	if err != nil {
		return math.Int{}, err
	}
	return types.ShareLP(ledger.TotalSupply, total, value), nil
}

// CalculateShareValue quotes the base currency value of lp claim tokens
func (k *Keeper) CalculateShareValue(ctx sdk.Context, fundID string, lp math.Int) (math.Int, error) {
	ledger, err := k.mustGetLedger(ctx, fundID)
	if err != nil {
		return math.Int{}, err
	}
	if ledger.TotalSupply.IsZero() {
		return math.ZeroInt(), nil
	}
	total, err := k.TotalReserveValue(ctx, ledger)
	if err != nil {
		return math.Int{}, err
	}
	return types.ShareValue(ledger.TotalSupply, total, lp), nil
}

// CalculateShareTokens quotes the per-asset redemption of lp claim tokens
func (k *Keeper) CalculateShareTokens(ctx sdk.Context, fundID string, lp math.Int) ([]math.Int, error) {
	ledger, err := k.mustGetLedger(ctx, fundID)
	if err != nil {
		return nil, err
	}
	return types.CalculateShareTokens(ledger, lp), nil
}

// GetTokenAndUserBal returns the reserves, the user's claim balance and the claim supply
func (k *Keeper) GetTokenAndUserBal(ctx sdk.Context, fundID string, user sdk.AccAddress) ([]math.Int, math.Int, math.Int, error) {
	ledger, err := k.mustGetLedger(ctx, fundID)
	if err != nil {
		return nil, math.Int{}, math.Int{}, err
	}
	return ledger.Reserves, k.GetClaimBalance(ctx, fundID, user), ledger.TotalSupply, nil
}

// GetFundValue is the total reserve value of a fund in base currency
func (k *Keeper) GetFundValue(ctx sdk.Context, fundID string) (math.Int, error) {
	ledger, err := k.mustGetLedger(ctx, fundID)
	if err != nil {
		return math.Int{}, err
	}
	return k.TotalReserveValue(ctx, ledger)
}
