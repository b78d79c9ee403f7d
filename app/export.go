package app

import (
	"encoding/json"

	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	baskettypes "github.com/openalpha/basket-fund/x/basket/types"
)

// ExportAppStateAndValidators exports the auth, bank and basket state as a genesis document
func (app *App) ExportAppStateAndValidators(forZeroHeight bool, jailAllowedAddrs, modulesToExport []string) (servertypes.ExportedApp, error) {
	ctx := app.NewContextLegacy(true, cmtproto.Header{Height: app.LastBlockHeight()})

	height := app.LastBlockHeight() + 1
	if forZeroHeight {
		height = 0
	}

	export := func(name string) bool {
		if len(modulesToExport) == 0 {
			return true
		}
		for _, m := range modulesToExport {
			if m == name {
				return true
			}
		}
		return false
	}

	genesisState := make(map[string]json.RawMessage)
	if export(authtypes.ModuleName) {
		genesisState[authtypes.ModuleName] = app.appCodec.MustMarshalJSON(app.AccountKeeper.ExportGenesis(ctx))
	}
	if export(banktypes.ModuleName) {
		genesisState[banktypes.ModuleName] = app.appCodec.MustMarshalJSON(app.BankKeeper.ExportGenesis(ctx))
	}
	if export(baskettypes.ModuleName) {
		genesisState[baskettypes.ModuleName] = app.BasketModule.ExportGenesis(ctx, app.appCodec)
	}

	appState, err := json.MarshalIndent(genesisState, "", "  ")
	if err != nil {
		return servertypes.ExportedApp{}, err
	}

	return servertypes.ExportedApp{
		AppState:        appState,
		Height:          height,
		ConsensusParams: app.GetConsensusParams(ctx),
	}, nil
}
