package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

// InitGenesis loads params, funds, ledgers and claim balances from genesis
func (k *Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return err
	}
	for i := range gs.Funds {
		k.SetFund(ctx, &gs.Funds[i])
	}
	for i := range gs.Ledgers {
		k.SetLedger(ctx, &gs.Ledgers[i])
	}
	for _, b := range gs.ClaimBalances {
		holder, err := sdk.AccAddressFromBech32(b.Holder)
		if err != nil {
			return err
		}
		k.setClaimBalance(ctx, b.FundID, holder, b.Amount)
	}
	k.setFundSequence(ctx, gs.FundSequence)
	return nil
}

// ExportGenesis exports the module state
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	gs := &types.GenesisState{
		Params:       k.GetParams(ctx),
		FundSequence: k.getFundSequence(ctx),
	}
	for _, fund := range k.GetAllFunds(ctx) {
		gs.Funds = append(gs.Funds, *fund)
		gs.ClaimBalances = append(gs.ClaimBalances, k.GetAllClaimBalances(ctx, fund.FundID)...)
	}
	for _, ledger := range k.GetAllLedgers(ctx) {
		gs.Ledgers = append(gs.Ledgers, *ledger)
	}
	return gs
}
