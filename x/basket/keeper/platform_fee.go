package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

// deductPlatformFee sends feeBp of amount from payer to the fee collector and returns
// the remainder. A zero fee moves nothing and emits no event.
func (k *Keeper) deductPlatformFee(ctx sdk.Context, cfg types.PlatformFeeConfig, payer sdk.AccAddress, denom string, amount math.Int, feeBp uint32, action string) (math.Int, error) {
	fee := types.ApplyBp(amount, feeBp)
	if fee.IsZero() {
		return amount, nil
	}

	collector, err := sdk.AccAddressFromBech32(cfg.FeeCollector)
	if err != nil {
		return math.Int{}, errorsmod.Wrapf(types.ErrInvalidRecipient, "fee collector %q", cfg.FeeCollector)
	}
	if err := k.bankKeeper.SendCoins(ctx, payer, collector, sdk.NewCoins(sdk.NewCoin(denom, fee))); err != nil {
		return math.Int{}, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePlatformFeeDeducted,
			sdk.NewAttribute(types.AttributeKeyFeeAmount, fee.String()),
			sdk.NewAttribute(types.AttributeKeyAsset, denom),
			sdk.NewAttribute(types.AttributeKeyFeeRateBp, strconv.FormatUint(uint64(feeBp), 10)),
			sdk.NewAttribute(types.AttributeKeyFeeCollector, collector.String()),
			sdk.NewAttribute(types.AttributeKeyAction, action),
		),
	)
	return amount.Sub(fee), nil
}
