package keeper

import (
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

const (
	rebalanceKindStandard  = "standard"
	rebalanceKindEmergency = "emergency"
)

// Rebalance replaces the fund's allocation: every holding is swept from the ledger,
// sold for base currency and bought back into the new weighted asset set.
func (k *Keeper) Rebalance(ctx sdk.Context, fundID string, caller sdk.AccAddress, assets []string, weights []uint32, buffer uint32, deadline int64) error {
	return k.rebalance(ctx, fundID, caller, assets, weights, buffer, deadline, rebalanceKindStandard)
}

// EmergencyStable is a rebalance restricted to exactly two assets
func (k *Keeper) EmergencyStable(ctx sdk.Context, fundID string, caller sdk.AccAddress, assets []string, weights []uint32, buffer uint32, deadline int64) error {
	return k.rebalance(ctx, fundID, caller, assets, weights, buffer, deadline, rebalanceKindEmergency)
}

func (k *Keeper) rebalance(ctx sdk.Context, fundID string, caller sdk.AccAddress, assets []string, weights []uint32, buffer uint32, deadline int64, kind string) error {
	if _, err := k.mustGetFund(ctx, fundID); err != nil {
		return err
	}

	operation := types.TypeMsgRebalance
	if kind == rebalanceKindEmergency {
		operation = types.TypeMsgEmergencyStable
	}

	var old types.Configuration
	err := k.nonReentrant(ctx, fundID, operation, func(ctx sdk.Context) error {
		fund, err := k.mustGetFund(ctx, fundID)
		if err != nil {
			return err
		}
		if !fund.IsManager(caller) {
			return errorsmod.Wrapf(types.ErrInvalidOwner, "%s is not the manager of %s", caller, fundID)
		}
		if kind == rebalanceKindEmergency && (len(assets) != 2 || len(weights) != 2) {
			return errorsmod.Wrapf(types.ErrInvalidEmergencyParams, "%d assets, %d weights", len(assets), len(weights))
		}
		if err := types.ValidateDeadline(ctx.BlockTime().Unix(), deadline); err != nil {
			return err
		}
		if err := types.ValidateBuffer(buffer); err != nil {
			return err
		}
		if err := types.ValidateConfiguration(assets, weights, k.assetRules(ctx)); err != nil {
			return err
		}

		ledger, err := k.mustGetLedger(ctx, fundID)
		if err != nil {
			return err
		}
		controller := types.FundAddress(fundID)
		swept, err := k.TransferTokensToOwner(ctx, fundID, controller)
		if err != nil {
			return err
		}

		held := make([]math.Int, len(ledger.Assets))
		for i, denom := range ledger.Assets {
			held[i] = swept.AmountOf(denom)
		}
		proceeds, err := k.sellAssets(ctx, controller, ledger.Assets, held, buffer, deadline)
		if err != nil {
			return err
		}

		old = fund.Config
		fund.Config = types.NewConfiguration(assets, weights, k.registry.AnchorDenom(ctx))
		fund.UpdatedAt = ctx.BlockTime().Unix()
		if _, err := k.buyAssets(ctx, fund, assets, proceeds, buffer, deadline); err != nil {
			return err
		}
		if err := k.UpdateTokens(ctx, fundID, controller, assets); err != nil {
			return err
		}
		k.SetFund(ctx, fund)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRebalanceRecorded,
				sdk.NewAttribute(types.AttributeKeyFundID, fundID),
				sdk.NewAttribute(types.AttributeKeyOldAssets, joinDenoms(old.Denoms())),
				sdk.NewAttribute(types.AttributeKeyOldWeights, joinWeights(old.Weights())),
				sdk.NewAttribute(types.AttributeKeyNewAssets, joinDenoms(assets)),
				sdk.NewAttribute(types.AttributeKeyNewWeights, joinWeights(weights)),
			),
		)
		return nil
	})
	if err != nil {
		return err
	}

	k.metrics.RecordRebalance(fundID, kind)
	k.logger.Info("Fund rebalanced",
		"fund_id", fundID,
		"kind", kind,
		"old_assets", joinDenoms(old.Denoms()),
		"new_assets", joinDenoms(assets),
	)
	return nil
}

// assetRules collects the registry and param limits for configuration checks
func (k *Keeper) assetRules(ctx sdk.Context) types.AssetRules {
	return types.AssetRules{
		AnchorDenom: k.registry.AnchorDenom(ctx),
		MinAnchorBp: k.registry.GetMinAnchorPercent(ctx),
		MaxAssets:   k.GetParams(ctx).MaxAssets,
		IsAssetAllowed: func(denom string) bool {
			return k.registry.IsAssetValid(ctx, denom)
		},
	}
}

func joinWeights(weights []uint32) string {
	parts := make([]string, len(weights))
	for i, w := range weights {
		parts[i] = strconv.FormatUint(uint64(w), 10)
	}
	return strings.Join(parts, ",")
}
