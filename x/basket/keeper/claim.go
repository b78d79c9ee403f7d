package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

func (k *Keeper) addClaim(ctx sdk.Context, fundID string, holder sdk.AccAddress, amount math.Int) {
	balance := k.GetClaimBalance(ctx, fundID, holder)
	k.setClaimBalance(ctx, fundID, holder, balance.Add(amount))
}

// TransferClaim moves claim tokens between holders of the same fund
func (k *Keeper) TransferClaim(ctx sdk.Context, fundID string, from, to sdk.AccAddress, amount math.Int) error {
	if k.GetLedger(ctx, fundID) == nil {
		return types.ErrFundNotFound.Wrap(fundID)
	}
	if to.Empty() {
		return types.ErrInvalidRecipient
	}
	if amount.IsNil() || amount.IsNegative() {
		return errorsmod.Wrapf(types.ErrInsufficientBalance, "invalid amount %s", amount)
	}

	balance := k.GetClaimBalance(ctx, fundID, from)
	if balance.LT(amount) {
		return errorsmod.Wrapf(types.ErrInsufficientBalance, "%s has %s, needs %s", from, balance, amount)
	}
	k.setClaimBalance(ctx, fundID, from, balance.Sub(amount))
	k.addClaim(ctx, fundID, to, amount)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeClaimTransferred,
			sdk.NewAttribute(types.AttributeKeyFundID, fundID),
			sdk.NewAttribute(types.AttributeKeyFrom, from.String()),
			sdk.NewAttribute(types.AttributeKeyTo, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}
