package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

// CalFee computes the management fee accrued since the last accrual, in whole months
func (k *Keeper) CalFee(ctx sdk.Context, fundID string) (types.FeeAccrual, error) {
	ledger, err := k.mustGetLedger(ctx, fundID)
	if err != nil {
		return types.FeeAccrual{}, err
	}
	return calFee(ledger, ctx.BlockTime().Unix()), nil
}

func calFee(ledger *types.Ledger, now int64) types.FeeAccrual {
	months := types.ElapsedMonths(ledger.LastAccrualAt, now)
	if months == 0 {
		return types.FeeAccrual{Months: 0, Supply: ledger.TotalSupply, FeeAmount: math.ZeroInt()}
	}
	return types.FeeAccrual{
		Months:    months,
		Supply:    ledger.TotalSupply,
		FeeAmount: types.CalculateManagementFee(ledger.TotalSupply, ledger.MonthlyFeeRate, months),
	}
}

// DistMgmtFee mints the accrued management fee to the ledger owner and advances the
// accrual clock by whole months, keeping any partial month for the next accrual.
func (k *Keeper) DistMgmtFee(ctx sdk.Context, fundID string) (types.FeeAccrual, error) {
	cacheCtx, write := ctx.CacheContext()
	accrual, err := k.distMgmtFee(cacheCtx, fundID)
	if err != nil {
		return types.FeeAccrual{}, err
	}
	write()
	if !isGuarded(ctx) {
		k.recordCommitted(cacheCtx.EventManager().Events())
	}
	return accrual, nil
}

func (k *Keeper) distMgmtFee(ctx sdk.Context, fundID string) (types.FeeAccrual, error) {
	ledger, err := k.mustGetLedger(ctx, fundID)
	if err != nil {
		return types.FeeAccrual{}, err
	}

	accrual := calFee(ledger, ctx.BlockTime().Unix())
	if accrual.Months == 0 {
		return accrual, nil
	}

	owner, err := sdk.AccAddressFromBech32(ledger.Owner)
	if err != nil {
		return types.FeeAccrual{}, err
	}
	if accrual.FeeAmount.IsPositive() {
		ledger.TotalSupply = ledger.TotalSupply.Add(accrual.FeeAmount)
		k.addClaim(ctx, fundID, owner, accrual.FeeAmount)
	}
	ledger.LastAccrualAt += accrual.Months * types.MonthDuration
	k.SetLedger(ctx, ledger)

	k.logger.Info("Management fee accrued",
		"fund_id", fundID,
		"months", accrual.Months,
		"fee", accrual.FeeAmount.String(),
		"supply", ledger.TotalSupply.String(),
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeManagementFeeAccrued,
			sdk.NewAttribute(types.AttributeKeyFundID, fundID),
			sdk.NewAttribute(types.AttributeKeyMonths, strconv.FormatInt(accrual.Months, 10)),
			sdk.NewAttribute(types.AttributeKeyFeeAmount, accrual.FeeAmount.String()),
		),
	)
	return accrual, nil
}

// GetTotalMgmtFee returns the fee DistMgmtFee would mint right now
func (k *Keeper) GetTotalMgmtFee(ctx sdk.Context, fundID string) (math.Int, error) {
	accrual, err := k.CalFee(ctx, fundID)
	if err != nil {
		return math.Int{}, err
	}
	return accrual.FeeAmount, nil
}
