package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

// MsgServer defines the basket MsgServer
type MsgServer struct {
	keeper *Keeper
}

var _ types.MsgServer = &MsgServer{}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreateFund handles MsgCreateFund
func (m *MsgServer) CreateFund(ctx context.Context, msg *types.MsgCreateFund) (*types.MsgCreateFundResponse, error) {
	creator, err := sdk.AccAddressFromBech32(msg.Creator)
	if err != nil {
		return nil, err
	}
	amount, err := types.ParseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	fundID, minted, err := m.keeper.CreateFund(sdk.UnwrapSDKContext(ctx), creator, types.FundParams{
		Name:        msg.Name,
		Symbol:      msg.Symbol,
		ID:          msg.ID,
		ContractURI: msg.ContractURI,
		Description: msg.Description,
		Assets:      msg.Assets,
		Weights:     msg.Weights,
		Amount:      amount,
		Buffer:      msg.Buffer,
		Deadline:    msg.Deadline,
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateFundResponse{FundID: fundID, LPAmount: minted.String()}, nil
}

// Contribute handles MsgContribute
func (m *MsgServer) Contribute(ctx context.Context, msg *types.MsgContribute) (*types.MsgContributeResponse, error) {
	contributor, err := sdk.AccAddressFromBech32(msg.Contributor)
	if err != nil {
		return nil, err
	}
	amount, err := types.ParseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	minted, err := m.keeper.Contribute(sdk.UnwrapSDKContext(ctx), msg.FundID, contributor, amount, msg.Buffer, msg.Deadline)
	if err != nil {
		return nil, err
	}
	return &types.MsgContributeResponse{LPAmount: minted.String()}, nil
}

// Withdraw handles MsgWithdraw
func (m *MsgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	holder, err := sdk.AccAddressFromBech32(msg.Holder)
	if err != nil {
		return nil, err
	}
	lp, err := types.ParseAmount(msg.LPAmount)
	if err != nil {
		return nil, err
	}

	assets, amounts, err := m.keeper.Withdraw(sdk.UnwrapSDKContext(ctx), msg.FundID, holder, lp, msg.Buffer, msg.Deadline)
	if err != nil {
		return nil, err
	}
	resp := &types.MsgWithdrawResponse{Assets: assets, Amounts: make([]string, len(amounts))}
	for i, a := range amounts {
		resp.Amounts[i] = a.String()
	}
	return resp, nil
}

// WithdrawBase handles MsgWithdrawBase
func (m *MsgServer) WithdrawBase(ctx context.Context, msg *types.MsgWithdrawBase) (*types.MsgWithdrawBaseResponse, error) {
	holder, err := sdk.AccAddressFromBech32(msg.Holder)
	if err != nil {
		return nil, err
	}
	lp, err := types.ParseAmount(msg.LPAmount)
	if err != nil {
		return nil, err
	}

	paid, err := m.keeper.WithdrawBase(sdk.UnwrapSDKContext(ctx), msg.FundID, holder, lp, msg.Buffer, msg.Deadline)
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawBaseResponse{Amount: paid.String()}, nil
}

// Rebalance handles MsgRebalance
func (m *MsgServer) Rebalance(ctx context.Context, msg *types.MsgRebalance) (*types.MsgRebalanceResponse, error) {
	manager, err := sdk.AccAddressFromBech32(msg.Manager)
	if err != nil {
		return nil, err
	}
	if err := m.keeper.Rebalance(sdk.UnwrapSDKContext(ctx), msg.FundID, manager, msg.Assets, msg.Weights, msg.Buffer, msg.Deadline); err != nil {
		return nil, err
	}
	return &types.MsgRebalanceResponse{}, nil
}

// EmergencyStable handles MsgEmergencyStable
func (m *MsgServer) EmergencyStable(ctx context.Context, msg *types.MsgEmergencyStable) (*types.MsgEmergencyStableResponse, error) {
	manager, err := sdk.AccAddressFromBech32(msg.Manager)
	if err != nil {
		return nil, err
	}
	if err := m.keeper.EmergencyStable(sdk.UnwrapSDKContext(ctx), msg.FundID, manager, msg.Assets, msg.Weights, msg.Buffer, msg.Deadline); err != nil {
		return nil, err
	}
	return &types.MsgEmergencyStableResponse{}, nil
}

// ClaimFee handles MsgClaimFee
func (m *MsgServer) ClaimFee(ctx context.Context, msg *types.MsgClaimFee) (*types.MsgClaimFeeResponse, error) {
	manager, err := sdk.AccAddressFromBech32(msg.Manager)
	if err != nil {
		return nil, err
	}
	expected, err := types.ParseAmount(msg.ExpectedFee)
	if err != nil {
		return nil, err
	}

	lp, paid, err := m.keeper.ClaimFee(sdk.UnwrapSDKContext(ctx), msg.FundID, manager, expected, msg.Buffer, msg.Deadline)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimFeeResponse{LPAmount: lp.String(), Amount: paid.String()}, nil
}

// DistributeMgmtFee handles MsgDistributeMgmtFee
func (m *MsgServer) DistributeMgmtFee(ctx context.Context, msg *types.MsgDistributeMgmtFee) (*types.MsgDistributeMgmtFeeResponse, error) {
	accrual, err := m.keeper.DistMgmtFee(sdk.UnwrapSDKContext(ctx), msg.FundID)
	if err != nil {
		return nil, err
	}
	return &types.MsgDistributeMgmtFeeResponse{Months: accrual.Months, FeeAmount: accrual.FeeAmount.String()}, nil
}

// TransferManager handles MsgTransferManager
func (m *MsgServer) TransferManager(ctx context.Context, msg *types.MsgTransferManager) (*types.MsgTransferManagerResponse, error) {
	manager, err := sdk.AccAddressFromBech32(msg.Manager)
	if err != nil {
		return nil, err
	}
	newManager, err := sdk.AccAddressFromBech32(msg.NewManager)
	if err != nil {
		return nil, types.ErrInvalidRecipient
	}
	if err := m.keeper.TransferManager(sdk.UnwrapSDKContext(ctx), msg.FundID, manager, newManager); err != nil {
		return nil, err
	}
	return &types.MsgTransferManagerResponse{}, nil
}

// TransferClaim handles MsgTransferClaim
func (m *MsgServer) TransferClaim(ctx context.Context, msg *types.MsgTransferClaim) (*types.MsgTransferClaimResponse, error) {
	from, err := sdk.AccAddressFromBech32(msg.From)
	if err != nil {
		return nil, err
	}
	to, err := sdk.AccAddressFromBech32(msg.To)
	if err != nil {
		return nil, types.ErrInvalidRecipient
	}
	amount, err := types.ParseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	if err := m.keeper.TransferClaim(sdk.UnwrapSDKContext(ctx), msg.FundID, from, to, amount); err != nil {
		return nil, err
	}
	return &types.MsgTransferClaimResponse{}, nil
}

// UpdateFundMetadata handles MsgUpdateFundMetadata
func (m *MsgServer) UpdateFundMetadata(ctx context.Context, msg *types.MsgUpdateFundMetadata) (*types.MsgUpdateFundMetadataResponse, error) {
	manager, err := sdk.AccAddressFromBech32(msg.Manager)
	if err != nil {
		return nil, err
	}
	if err := m.keeper.UpdateFundMetadata(sdk.UnwrapSDKContext(ctx), msg.FundID, manager, msg.ContractURI, msg.Description); err != nil {
		return nil, err
	}
	return &types.MsgUpdateFundMetadataResponse{}, nil
}
