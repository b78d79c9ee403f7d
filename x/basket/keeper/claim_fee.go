package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

// ClaimFee accrues the management fee, redeems every claim token held by the fund
// controller for base currency and pays the manager. expectedFee is a lower bound on
// the claim tokens redeemed.
func (k *Keeper) ClaimFee(ctx sdk.Context, fundID string, caller sdk.AccAddress, expectedFee math.Int, buffer uint32, deadline int64) (math.Int, math.Int, error) {
	if _, err := k.mustGetFund(ctx, fundID); err != nil {
		return math.Int{}, math.Int{}, err
	}

	var lp, paid math.Int
	err := k.nonReentrant(ctx, fundID, types.TypeMsgClaimFee, func(ctx sdk.Context) error {
		fund, err := k.mustGetFund(ctx, fundID)
		if err != nil {
			return err
		}
		if !fund.IsManager(caller) {
			return errorsmod.Wrapf(types.ErrInvalidOwner, "%s is not the manager of %s", caller, fundID)
		}
		if err := types.ValidateDeadline(ctx.BlockTime().Unix(), deadline); err != nil {
			return err
		}
		if err := types.ValidateBuffer(buffer); err != nil {
			return err
		}
		feeConfig := k.registry.GetPlatformFeeConfig(ctx)

		if _, err := k.distMgmtFee(ctx, fundID); err != nil {
			return err
		}
		controller := types.FundAddress(fundID)
		lp = k.GetClaimBalance(ctx, fundID, controller)
		if lp.IsZero() {
			return errorsmod.Wrap(types.ErrInsufficientLiquidity, "no management fee accrued")
		}
		if !expectedFee.IsNil() && lp.LT(expectedFee) {
			return errorsmod.Wrapf(types.ErrFeeBelowExpected, "accrued %s, expected %s", lp, expectedFee)
		}

		paid, err = k.redeemToBase(ctx, fundID, controller, caller, lp, buffer, deadline, feeConfig, types.ActionClaimFee)
		if err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeManagementFeeClaimed,
				sdk.NewAttribute(types.AttributeKeyFundID, fundID),
				sdk.NewAttribute(types.AttributeKeyManager, caller.String()),
				sdk.NewAttribute(types.AttributeKeyLPAmount, lp.String()),
				sdk.NewAttribute(types.AttributeKeyValue, paid.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	k.metrics.RecordFeeClaim(fundID, toFloat(paid))
	k.logger.Info("Management fee claimed",
		"fund_id", fundID,
		"manager", caller.String(),
		"lp", lp.String(),
		"amount", paid.String(),
	)
	return lp, paid, nil
}
