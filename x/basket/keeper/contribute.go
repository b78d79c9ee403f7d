package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

// Contribute converts amount of base currency into the fund's weighted asset set and
// mints claim tokens to the contributor.
func (k *Keeper) Contribute(ctx sdk.Context, fundID string, contributor sdk.AccAddress, amount math.Int, buffer uint32, deadline int64) (math.Int, error) {
	fund, err := k.mustGetFund(ctx, fundID)
	if err != nil {
		return math.Int{}, err
	}

	var minted math.Int
	err = k.nonReentrant(ctx, fundID, types.TypeMsgContribute, func(ctx sdk.Context) error {
		feeConfig := k.registry.GetPlatformFeeConfig(ctx)
		var err error
		minted, err = k.contribute(ctx, fund, contributor, amount, buffer, deadline, feeConfig, feeConfig.ContributionFeeBp, types.ActionContribute)
		return err
	})
	if err != nil {
		return math.Int{}, err
	}

	k.metrics.RecordContribution(fundID, toFloat(amount))
	k.logger.Info("Contribution processed",
		"fund_id", fundID,
		"contributor", contributor.String(),
		"amount", amount.String(),
		"minted", minted.String(),
	)
	return minted, nil
}

// contribute is the unguarded contribution path shared with fund creation
func (k *Keeper) contribute(ctx sdk.Context, fund *types.Fund, contributor sdk.AccAddress, amount math.Int, buffer uint32, deadline int64, feeConfig types.PlatformFeeConfig, feeBp uint32, action string) (math.Int, error) {
	if err := types.ValidateDeadline(ctx.BlockTime().Unix(), deadline); err != nil {
		return math.Int{}, err
	}
	if err := types.ValidateBuffer(buffer); err != nil {
		return math.Int{}, err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return math.Int{}, types.ErrZeroContributionAmount
	}

	base := k.registry.BaseDenom(ctx)
	controller := types.FundAddress(fund.FundID)
	if err := k.bankKeeper.SendCoins(ctx, contributor, controller, sdk.NewCoins(sdk.NewCoin(base, amount))); err != nil {
		return math.Int{}, err
	}

	net, err := k.deductPlatformFee(ctx, feeConfig, controller, base, amount, feeBp, action)
	if err != nil {
		return math.Int{}, err
	}

	ledger, err := k.mustGetLedger(ctx, fund.FundID)
	if err != nil {
		return math.Int{}, err
	}
	amounts, err := k.buyAssets(ctx, fund, ledger.Assets, net, buffer, deadline)
	if err != nil {
		return math.Int{}, err
	}

	minted, err := k.Mint(ctx, fund.FundID, controller, contributor, amounts)
	if err != nil {
		return math.Int{}, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeContributionRecorded,
			sdk.NewAttribute(types.AttributeKeyFundID, fund.FundID),
			sdk.NewAttribute(types.AttributeKeyContributor, contributor.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyLPAmount, minted.String()),
		),
	)
	return minted, nil
}

// buyAssets splits baseAmount held by the controller across the fund's configured
// weights, converts every portion into the ledger's custody and returns the amounts
// received, ordered like assets. The last asset takes the rounding remainder.
func (k *Keeper) buyAssets(ctx sdk.Context, fund *types.Fund, assets []string, baseAmount math.Int, buffer uint32, deadline int64) ([]math.Int, error) {
	weights := make(map[string]uint32, len(fund.Config.Assets))
	for _, a := range fund.Config.Assets {
		weights[a.Denom] = a.WeightBp
	}

	base := k.registry.BaseDenom(ctx)
	controller := types.FundAddress(fund.FundID)
	custody := types.LedgerAddress(fund.FundID)

	received := types.ZeroAmounts(len(assets))
	allocated := math.ZeroInt()
	for i, denom := range assets {
		weight, ok := weights[denom]
		if !ok {
			return nil, errorsmod.Wrapf(types.ErrInvalidToken, "%s has no configured weight", denom)
		}
		portion := types.ApplyBp(baseAmount, weight)
		if i == len(assets)-1 {
			portion = baseAmount.Sub(allocated)
		}
		allocated = allocated.Add(portion)
		if portion.IsZero() {
			continue
		}

		if denom == base {
			if err := k.bankKeeper.SendCoins(ctx, controller, custody, sdk.NewCoins(sdk.NewCoin(base, portion))); err != nil {
				return nil, err
			}
			received[i] = portion
			continue
		}
		out, err := k.router.SwapExactBaseForAsset(ctx, controller, custody, denom, portion, buffer, deadline)
		if err != nil {
			return nil, err
		}
		received[i] = out
	}
	return received, nil
}
