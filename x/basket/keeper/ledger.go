package keeper

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

// InitializeLedger creates the reserve ledger of a fund with zero reserves and zero supply.
// owner is the only account allowed to mint, burn, sweep or retarget the ledger.
func (k *Keeper) InitializeLedger(ctx sdk.Context, fundID string, owner sdk.AccAddress, name, symbol string, assets []string, monthlyFeeRate math.LegacyDec) (*types.Ledger, error) {
	if k.GetLedger(ctx, fundID) != nil {
		return nil, types.ErrLedgerAlreadyExists.Wrap(fundID)
	}
	if len(assets) == 0 {
		return nil, types.ErrInvalidToken
	}
	if name == "" {
		return nil, types.ErrEmptyStringParameter.Wrap("name")
	}
	if err := checkDuplicates(assets); err != nil {
		return nil, err
	}

	ledger := types.NewLedger(fundID, name, symbol, owner, assets, monthlyFeeRate, ctx.BlockTime().Unix())
	k.SetLedger(ctx, ledger)
	return ledger, nil
}

// getOwnedLedger loads a ledger and checks that caller owns it
func (k *Keeper) getOwnedLedger(ctx sdk.Context, fundID string, caller sdk.AccAddress) (*types.Ledger, error) {
	ledger, err := k.mustGetLedger(ctx, fundID)
	if err != nil {
		return nil, err
	}
	if !ledger.IsOwner(caller) {
		return nil, errorsmod.Wrapf(types.ErrInvalidOwner, "%s does not own ledger %s", caller, fundID)
	}
	return ledger, nil
}

// Mint issues claim tokens to recipient for amounts already custodied by the ledger.
// The first mint issues BootstrapSupply. Later mints are priced against the limiting
// asset: the smallest amounts[i]/reserves[i] ratio over assets with a non-zero reserve.
func (k *Keeper) Mint(ctx sdk.Context, fundID string, caller, recipient sdk.AccAddress, amounts []math.Int) (math.Int, error) {
	ledger, err := k.getOwnedLedger(ctx, fundID, caller)
	if err != nil {
		return math.Int{}, err
	}
	if recipient.Empty() {
		return math.Int{}, types.ErrInvalidRecipient
	}
	if len(amounts) != len(ledger.Assets) {
		return math.Int{}, errorsmod.Wrapf(types.ErrInvalidLength, "%d amounts for %d assets", len(amounts), len(ledger.Assets))
	}

	custody := types.LedgerAddress(fundID)
	for i, denom := range ledger.Assets {
		if amounts[i].IsNil() || amounts[i].IsNegative() {
			return math.Int{}, errorsmod.Wrapf(types.ErrInsufficientLiquidity, "invalid amount for %s", denom)
		}
		balance := k.bankKeeper.GetBalance(ctx, custody, denom).Amount
		if ledger.Reserves[i].Add(amounts[i]).GT(balance) {
			return math.Int{}, errorsmod.Wrapf(types.ErrInsufficientLiquidity, "%s not custodied: reserve %s + %s > balance %s",
				denom, ledger.Reserves[i], amounts[i], balance)
		}
	}

	var minted math.Int
	if ledger.TotalSupply.IsZero() {
		if types.SumAmounts(amounts).IsZero() {
			return math.Int{}, errorsmod.Wrap(types.ErrInsufficientLiquidity, "empty bootstrap deposit")
		}
		minted = types.BootstrapSupply
	} else {
		found := false
		for i := range ledger.Assets {
			if !ledger.Reserves[i].IsPositive() {
				continue
			}
			candidate := ledger.TotalSupply.Mul(amounts[i]).Quo(ledger.Reserves[i])
			if !found || candidate.LT(minted) {
				minted = candidate
				found = true
			}
		}
		if !found || !minted.IsPositive() {
			return math.Int{}, errorsmod.Wrap(types.ErrInsufficientLiquidity, "deposit too small to mint")
		}
	}

	for i := range ledger.Reserves {
		ledger.Reserves[i] = ledger.Reserves[i].Add(amounts[i])
	}
	ledger.TotalSupply = ledger.TotalSupply.Add(minted)
	k.SetLedger(ctx, ledger)
	k.addClaim(ctx, fundID, recipient, minted)

	k.logger.Debug("Claim tokens minted",
		"fund_id", fundID,
		"recipient", recipient.String(),
		"minted", minted.String(),
		"supply", ledger.TotalSupply.String(),
	)
	return minted, nil
}

// Burn redeems the claim tokens escrowed on the ledger's own account and sends the
// proportional share of every reserve to recipient.
func (k *Keeper) Burn(ctx sdk.Context, fundID string, caller, recipient sdk.AccAddress) ([]math.Int, error) {
	ledger, err := k.getOwnedLedger(ctx, fundID, caller)
	if err != nil {
		return nil, err
	}

	custody := types.LedgerAddress(fundID)
	escrow := k.GetClaimBalance(ctx, fundID, custody)
	if escrow.IsZero() {
		return nil, errorsmod.Wrap(types.ErrInsufficientLiquidity, "nothing escrowed")
	}
	if recipient.Empty() {
		return nil, types.ErrInvalidRecipient
	}

	payout := types.CalculateShareTokens(ledger, escrow)
	coins := sdk.NewCoins()
	for i, denom := range ledger.Assets {
		ledger.Reserves[i] = ledger.Reserves[i].Sub(payout[i])
		if payout[i].IsPositive() {
			coins = coins.Add(sdk.NewCoin(denom, payout[i]))
		}
	}
	ledger.TotalSupply = ledger.TotalSupply.Sub(escrow)
	k.setClaimBalance(ctx, fundID, custody, math.ZeroInt())
	k.SetLedger(ctx, ledger)

	if !coins.IsZero() {
		if err := k.bankKeeper.SendCoins(ctx, custody, recipient, coins); err != nil {
			return nil, err
		}
	}

	k.logger.Debug("Claim tokens burned",
		"fund_id", fundID,
		"burned", escrow.String(),
		"payout", coins.String(),
	)
	return payout, nil
}

// UpdateTokens replaces the tracked asset list and resyncs every reserve to the
// ledger's actual custodied balance.
func (k *Keeper) UpdateTokens(ctx sdk.Context, fundID string, caller sdk.AccAddress, assets []string) error {
	ledger, err := k.getOwnedLedger(ctx, fundID, caller)
	if err != nil {
		return err
	}
	if len(assets) == 0 {
		return types.ErrInvalidToken
	}
	if err := checkDuplicates(assets); err != nil {
		return err
	}

	ledger.Assets = append([]string{}, assets...)
	k.syncReserves(ctx, ledger)
	k.SetLedger(ctx, ledger)
	return nil
}

// TransferTokensToOwner sweeps the full custodied balance of every tracked asset to the owner
func (k *Keeper) TransferTokensToOwner(ctx sdk.Context, fundID string, caller sdk.AccAddress) (sdk.Coins, error) {
	ledger, err := k.getOwnedLedger(ctx, fundID, caller)
	if err != nil {
		return nil, err
	}

	custody := types.LedgerAddress(fundID)
	swept := sdk.NewCoins()
	for _, denom := range ledger.Assets {
		balance := k.bankKeeper.GetBalance(ctx, custody, denom)
		if balance.IsPositive() {
			swept = swept.Add(balance)
		}
	}
	if !swept.IsZero() {
		if err := k.bankKeeper.SendCoins(ctx, custody, caller, swept); err != nil {
			return nil, err
		}
	}

	k.syncReserves(ctx, ledger)
	k.SetLedger(ctx, ledger)
	return swept, nil
}

// syncReserves sets every reserve to the custodied balance of its asset
func (k *Keeper) syncReserves(ctx sdk.Context, ledger *types.Ledger) {
	custody := types.LedgerAddress(ledger.FundID)
	reserves := make([]math.Int, len(ledger.Assets))
	for i, denom := range ledger.Assets {
		reserves[i] = k.bankKeeper.GetBalance(ctx, custody, denom).Amount
	}
	ledger.Reserves = reserves
}

// GetTokenList returns the ledger's tracked assets
func (k *Keeper) GetTokenList(ctx sdk.Context, fundID string) ([]string, error) {
	ledger, err := k.mustGetLedger(ctx, fundID)
	if err != nil {
		return nil, err
	}
	return ledger.Assets, nil
}

// GetTokensReserve returns the ledger's tracked reserves, parallel to GetTokenList
func (k *Keeper) GetTokensReserve(ctx sdk.Context, fundID string) ([]math.Int, error) {
	ledger, err := k.mustGetLedger(ctx, fundID)
	if err != nil {
		return nil, err
	}
	return ledger.Reserves, nil
}

func checkDuplicates(assets []string) error {
	seen := make(map[string]struct{}, len(assets))
	for _, denom := range assets {
		if _, ok := seen[denom]; ok {
			return errorsmod.Wrap(types.ErrDuplicateToken, denom)
		}
		seen[denom] = struct{}{}
	}
	return nil
}

func joinDenoms(denoms []string) string {
	return strings.Join(denoms, ",")
}
