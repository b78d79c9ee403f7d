package keeper

import (
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

// Withdraw redeems lp claim tokens for the underlying assets in kind, net of the
// withdrawal fee. Returns the assets and the amounts paid to the holder.
func (k *Keeper) Withdraw(ctx sdk.Context, fundID string, holder sdk.AccAddress, lp math.Int, buffer uint32, deadline int64) ([]string, []math.Int, error) {
	if _, err := k.mustGetFund(ctx, fundID); err != nil {
		return nil, nil, err
	}

	var (
		assets []string
		paid   []math.Int
	)
	err := k.nonReentrant(ctx, fundID, types.TypeMsgWithdraw, func(ctx sdk.Context) error {
		if err := checkWithdrawal(ctx, lp, buffer, deadline); err != nil {
			return err
		}
		feeConfig := k.registry.GetPlatformFeeConfig(ctx)
		ledger, redeemed, err := k.redeem(ctx, fundID, holder, lp)
		if err != nil {
			return err
		}

		controller := types.FundAddress(fundID)
		assets = ledger.Assets
		paid = types.ZeroAmounts(len(assets))
		payout := sdk.NewCoins()
		for i, denom := range assets {
			if redeemed[i].IsZero() {
				continue
			}
			net, err := k.deductPlatformFee(ctx, feeConfig, controller, denom, redeemed[i], feeConfig.WithdrawalFeeBp, types.ActionWithdrawTokens)
			if err != nil {
				return err
			}
			paid[i] = net
			if net.IsPositive() {
				payout = payout.Add(sdk.NewCoin(denom, net))
			}
		}
		if !payout.IsZero() {
			if err := k.bankKeeper.SendCoins(ctx, controller, holder, payout); err != nil {
				return err
			}
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeWithdrawalRecorded,
				sdk.NewAttribute(types.AttributeKeyFundID, fundID),
				sdk.NewAttribute(types.AttributeKeyHolder, holder.String()),
				sdk.NewAttribute(types.AttributeKeyAssets, joinDenoms(assets)),
				sdk.NewAttribute(types.AttributeKeyAmounts, joinAmounts(paid)),
			),
		)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	k.metrics.RecordWithdrawal(fundID, "tokens", toFloat(lp))
	k.logger.Info("Withdrawal processed",
		"fund_id", fundID,
		"holder", holder.String(),
		"lp", lp.String(),
		"amounts", joinAmounts(paid),
	)
	return assets, paid, nil
}

// WithdrawBase redeems lp claim tokens, converts every redeemed asset into base
// currency and pays the holder net of the withdrawal fee.
func (k *Keeper) WithdrawBase(ctx sdk.Context, fundID string, holder sdk.AccAddress, lp math.Int, buffer uint32, deadline int64) (math.Int, error) {
	if _, err := k.mustGetFund(ctx, fundID); err != nil {
		return math.Int{}, err
	}

	var paid math.Int
	err := k.nonReentrant(ctx, fundID, types.TypeMsgWithdrawBase, func(ctx sdk.Context) error {
		if err := checkWithdrawal(ctx, lp, buffer, deadline); err != nil {
			return err
		}
		feeConfig := k.registry.GetPlatformFeeConfig(ctx)

		var err error
		paid, err = k.redeemToBase(ctx, fundID, holder, holder, lp, buffer, deadline, feeConfig, types.ActionWithdrawBase)
		if err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeWithdrawalRecorded,
				sdk.NewAttribute(types.AttributeKeyFundID, fundID),
				sdk.NewAttribute(types.AttributeKeyHolder, holder.String()),
				sdk.NewAttribute(types.AttributeKeyAmount, paid.String()),
			),
		)
		return nil
	})
	if err != nil {
		return math.Int{}, err
	}

	k.metrics.RecordWithdrawal(fundID, "base", toFloat(lp))
	k.logger.Info("Base withdrawal processed",
		"fund_id", fundID,
		"holder", holder.String(),
		"lp", lp.String(),
		"amount", paid.String(),
	)
	return paid, nil
}

func checkWithdrawal(ctx sdk.Context, lp math.Int, buffer uint32, deadline int64) error {
	if err := types.ValidateDeadline(ctx.BlockTime().Unix(), deadline); err != nil {
		return err
	}
	if err := types.ValidateBuffer(buffer); err != nil {
		return err
	}
	if lp.IsNil() || !lp.IsPositive() {
		return types.ErrInvalidWithdrawalAmount
	}
	return nil
}

// redeem escrows lp claim tokens from holder on the ledger and burns them, leaving
// the redeemed assets on the controller account.
func (k *Keeper) redeem(ctx sdk.Context, fundID string, holder sdk.AccAddress, lp math.Int) (*types.Ledger, []math.Int, error) {
	ledger, err := k.mustGetLedger(ctx, fundID)
	if err != nil {
		return nil, nil, err
	}
	if err := k.TransferClaim(ctx, fundID, holder, types.LedgerAddress(fundID), lp); err != nil {
		return nil, nil, err
	}
	controller := types.FundAddress(fundID)
	redeemed, err := k.Burn(ctx, fundID, controller, controller)
	if err != nil {
		return nil, nil, err
	}
	return ledger, redeemed, nil
}

// redeemToBase redeems lp from holder, sells every redeemed asset for base currency,
// deducts the withdrawal fee and pays recipient. Returns the amount paid.
func (k *Keeper) redeemToBase(ctx sdk.Context, fundID string, holder, recipient sdk.AccAddress, lp math.Int, buffer uint32, deadline int64, feeConfig types.PlatformFeeConfig, action string) (math.Int, error) {
	ledger, redeemed, err := k.redeem(ctx, fundID, holder, lp)
	if err != nil {
		return math.Int{}, err
	}

	controller := types.FundAddress(fundID)
	total, err := k.sellAssets(ctx, controller, ledger.Assets, redeemed, buffer, deadline)
	if err != nil {
		return math.Int{}, err
	}

	base := k.registry.BaseDenom(ctx)
	net, err := k.deductPlatformFee(ctx, feeConfig, controller, base, total, feeConfig.WithdrawalFeeBp, action)
	if err != nil {
		return math.Int{}, err
	}
	if net.IsPositive() {
		if err := k.bankKeeper.SendCoins(ctx, controller, recipient, sdk.NewCoins(sdk.NewCoin(base, net))); err != nil {
			return math.Int{}, err
		}
	}
	return net, nil
}

// sellAssets converts amounts of assets held by trader into base currency delivered
// back to trader. Base currency holdings count as-is.
func (k *Keeper) sellAssets(ctx sdk.Context, trader sdk.AccAddress, assets []string, amounts []math.Int, buffer uint32, deadline int64) (math.Int, error) {
	base := k.registry.BaseDenom(ctx)
	total := math.ZeroInt()
	for i, denom := range assets {
		if amounts[i].IsZero() {
			continue
		}
		if denom == base {
			total = total.Add(amounts[i])
			continue
		}
		out, err := k.router.SwapExactAssetForBase(ctx, trader, trader, denom, amounts[i], buffer, deadline)
		if err != nil {
			return math.Int{}, err
		}
		total = total.Add(out)
	}
	return total, nil
}

func joinAmounts(amounts []math.Int) string {
	parts := make([]string, len(amounts))
	for i, a := range amounts {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}
