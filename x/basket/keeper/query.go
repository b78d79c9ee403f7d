package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

// QueryServer defines the basket QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Params returns the module params
func (q *QueryServer) Params(ctx context.Context) types.Params {
	return q.keeper.GetParams(sdk.UnwrapSDKContext(ctx))
}

// Fund returns a fund by ID
func (q *QueryServer) Fund(ctx context.Context, fundID string) (*types.Fund, error) {
	return q.keeper.mustGetFund(sdk.UnwrapSDKContext(ctx), fundID)
}

// Funds returns all funds
func (q *QueryServer) Funds(ctx context.Context, offset, limit uint64) ([]*types.Fund, uint64, error) {
	allFunds := q.keeper.GetAllFunds(sdk.UnwrapSDKContext(ctx))
	total := uint64(len(allFunds))

	// Apply pagination
	if offset >= total {
		return []*types.Fund{}, total, nil
	}
	end := offset + limit
	if end > total || limit == 0 {
		end = total
	}
	return allFunds[offset:end], total, nil
}

// Ledger returns a fund's reserve ledger
func (q *QueryServer) Ledger(ctx context.Context, fundID string) (*types.Ledger, error) {
	return q.keeper.mustGetLedger(sdk.UnwrapSDKContext(ctx), fundID)
}

// TokenAndUserBal returns reserves, the user's claim balance and the claim supply
func (q *QueryServer) TokenAndUserBal(ctx context.Context, fundID string, user sdk.AccAddress) ([]math.Int, math.Int, math.Int, error) {
	return q.keeper.GetTokenAndUserBal(sdk.UnwrapSDKContext(ctx), fundID, user)
}

// ShareLP quotes the claim tokens issued for value
func (q *QueryServer) ShareLP(ctx context.Context, fundID string, value math.Int) (math.Int, error) {
	return q.keeper.CalculateShareLP(sdk.UnwrapSDKContext(ctx), fundID, value)
}

// ShareValue quotes the base currency value of lp claim tokens
func (q *QueryServer) ShareValue(ctx context.Context, fundID string, lp math.Int) (math.Int, error) {
	return q.keeper.CalculateShareValue(sdk.UnwrapSDKContext(ctx), fundID, lp)
}

// ShareTokens quotes the per-asset redemption of lp claim tokens
func (q *QueryServer) ShareTokens(ctx context.Context, fundID string, lp math.Int) ([]math.Int, error) {
	return q.keeper.CalculateShareTokens(sdk.UnwrapSDKContext(ctx), fundID, lp)
}

// ManagementFee returns the pending management fee accrual
func (q *QueryServer) ManagementFee(ctx context.Context, fundID string) (types.FeeAccrual, error) {
	return q.keeper.CalFee(sdk.UnwrapSDKContext(ctx), fundID)
}

// FundValue returns the total reserve value of a fund
func (q *QueryServer) FundValue(ctx context.Context, fundID string) (math.Int, error) {
	return q.keeper.GetFundValue(sdk.UnwrapSDKContext(ctx), fundID)
}

// TokenDetails returns a fund's assets with weights and reserves
func (q *QueryServer) TokenDetails(ctx context.Context, fundID string) ([]types.TokenDetail, error) {
	return q.keeper.GetTokenDetails(sdk.UnwrapSDKContext(ctx), fundID)
}

// TokenDetailAt returns one configured asset by index
func (q *QueryServer) TokenDetailAt(ctx context.Context, fundID string, index int) (types.TokenDetail, error) {
	return q.keeper.GetTokenDetailsAt(sdk.UnwrapSDKContext(ctx), fundID, index)
}
