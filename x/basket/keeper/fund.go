package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"

	"github.com/openalpha/basket-fund/x/basket/types"
)

// fundNamespace scopes fund identifiers derived from creator and sequence
var fundNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("basket-fund"))

// CreateFund validates the configuration, charges the creation fee, sets up the
// fund controller and its ledger, and seeds the fund with the creator's remaining
// base currency. The creator becomes the manager and receives the bootstrap supply.
func (k *Keeper) CreateFund(ctx sdk.Context, creator sdk.AccAddress, p types.FundParams) (string, math.Int, error) {
	if err := types.ValidateStrings(p.Name, p.Symbol, p.ID); err != nil {
		return "", math.Int{}, err
	}
	if err := types.ValidateConfiguration(p.Assets, p.Weights, k.assetRules(ctx)); err != nil {
		return "", math.Int{}, err
	}
	params := k.GetParams(ctx)
	if p.Amount.IsNil() || p.Amount.LT(params.MinCreationAmount) {
		return "", math.Int{}, errorsmod.Wrapf(types.ErrInsufficientCreationAmount, "minimum %s", params.MinCreationAmount)
	}

	seq := k.getFundSequence(ctx)
	fundID := uuid.NewSHA1(fundNamespace, []byte(fmt.Sprintf("%s/%d", creator, seq))).String()

	var minted math.Int
	err := k.nonReentrant(ctx, fundID, types.TypeMsgCreateFund, func(ctx sdk.Context) error {
		k.setFundSequence(ctx, seq+1)
		feeConfig := k.registry.GetPlatformFeeConfig(ctx)
		base := k.registry.BaseDenom(ctx)

		seed, err := k.deductPlatformFee(ctx, feeConfig, creator, base, p.Amount, feeConfig.CreationFeeBp, types.ActionCreate)
		if err != nil {
			return err
		}

		now := ctx.BlockTime().Unix()
		fund := &types.Fund{
			FundID:      fundID,
			Name:        p.Name,
			Symbol:      p.Symbol,
			ID:          p.ID,
			ContractURI: p.ContractURI,
			Description: p.Description,
			Creator:     creator.String(),
			Manager:     creator.String(),
			Config:      types.NewConfiguration(p.Assets, p.Weights, k.registry.AnchorDenom(ctx)),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		k.SetFund(ctx, fund)
		if _, err := k.InitializeLedger(ctx, fundID, types.FundAddress(fundID), p.Name, p.Symbol, p.Assets, params.MonthlyFeeRate); err != nil {
			return err
		}

		minted, err = k.contribute(ctx, fund, creator, seed, p.Buffer, p.Deadline, feeConfig, 0, types.ActionContribute)
		if err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFundCreated,
				sdk.NewAttribute(types.AttributeKeyFundID, fundID),
				sdk.NewAttribute(types.AttributeKeyCreator, creator.String()),
				sdk.NewAttribute(types.AttributeKeyAssets, joinDenoms(p.Assets)),
				sdk.NewAttribute(types.AttributeKeyNewWeights, joinWeights(p.Weights)),
				sdk.NewAttribute(types.AttributeKeyAmount, p.Amount.String()),
			),
		)
		return nil
	})
	if err != nil {
		return "", math.Int{}, err
	}

	k.metrics.RecordContribution(fundID, toFloat(p.Amount))
	k.logger.Info("Fund created",
		"fund_id", fundID,
		"creator", creator.String(),
		"name", p.Name,
		"assets", joinDenoms(p.Assets),
		"minted", minted.String(),
	)
	return fundID, minted, nil
}

// TransferManager hands every manager-gated capability of the fund to newManager
func (k *Keeper) TransferManager(ctx sdk.Context, fundID string, caller, newManager sdk.AccAddress) error {
	fund, err := k.mustGetFund(ctx, fundID)
	if err != nil {
		return err
	}
	if !fund.IsManager(caller) {
		return errorsmod.Wrapf(types.ErrInvalidOwner, "%s is not the manager of %s", caller, fundID)
	}
	if newManager.Empty() {
		return types.ErrInvalidRecipient
	}

	fund.Manager = newManager.String()
	fund.UpdatedAt = ctx.BlockTime().Unix()
	k.SetFund(ctx, fund)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeManagerTransferred,
			sdk.NewAttribute(types.AttributeKeyFundID, fundID),
			sdk.NewAttribute(types.AttributeKeyManager, caller.String()),
			sdk.NewAttribute(types.AttributeKeyNewManager, newManager.String()),
		),
	)
	k.logger.Info("Fund manager transferred", "fund_id", fundID, "from", caller.String(), "to", newManager.String())
	return nil
}

// UpdateFundMetadata sets the fund's contract URI and description
func (k *Keeper) UpdateFundMetadata(ctx sdk.Context, fundID string, caller sdk.AccAddress, contractURI, description string) error {
	fund, err := k.mustGetFund(ctx, fundID)
	if err != nil {
		return err
	}
	if !fund.IsManager(caller) {
		return errorsmod.Wrapf(types.ErrInvalidOwner, "%s is not the manager of %s", caller, fundID)
	}
	if err := types.ValidateStrings(contractURI, description); err != nil {
		return err
	}

	fund.ContractURI = contractURI
	fund.Description = description
	fund.UpdatedAt = ctx.BlockTime().Unix()
	k.SetFund(ctx, fund)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFundMetadataUpdated,
			sdk.NewAttribute(types.AttributeKeyFundID, fundID),
		),
	)
	return nil
}

// TotalTokens returns the number of assets in the fund's configuration
func (k *Keeper) TotalTokens(ctx sdk.Context, fundID string) (int, error) {
	fund, err := k.mustGetFund(ctx, fundID)
	if err != nil {
		return 0, err
	}
	return len(fund.Config.Assets), nil
}

// GetTokenDetails returns every configured asset with its weight and tracked reserve
func (k *Keeper) GetTokenDetails(ctx sdk.Context, fundID string) ([]types.TokenDetail, error) {
	fund, err := k.mustGetFund(ctx, fundID)
	if err != nil {
		return nil, err
	}
	ledger, err := k.mustGetLedger(ctx, fundID)
	if err != nil {
		return nil, err
	}

	details := make([]types.TokenDetail, len(fund.Config.Assets))
	for i, a := range fund.Config.Assets {
		reserve := math.ZeroInt()
		if idx := ledger.IndexOf(a.Denom); idx >= 0 {
			reserve = ledger.Reserves[idx]
		}
		details[i] = types.TokenDetail{Denom: a.Denom, WeightBp: a.WeightBp, Reserve: reserve}
	}
	return details, nil
}

// GetTokenDetailsAt returns the configured asset at index
func (k *Keeper) GetTokenDetailsAt(ctx sdk.Context, fundID string, index int) (types.TokenDetail, error) {
	details, err := k.GetTokenDetails(ctx, fundID)
	if err != nil {
		return types.TokenDetail{}, err
	}
	if index < 0 || index >= len(details) {
		return types.TokenDetail{}, errorsmod.Wrapf(types.ErrTokenIndexOutOfBounds, "index %d of %d", index, len(details))
	}
	return details[index], nil
}
