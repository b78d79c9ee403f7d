package keeper

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

func (s *KeeperTestSuite) TestMsgServer_FundLifecycle() {
	srv := NewMsgServerImpl(s.keeper)
	ctx := sdk.WrapSDKContext(s.ctx)

	created, err := srv.CreateFund(ctx, &types.MsgCreateFund{
		Creator:  s.creator.String(),
		Name:     "Blue Chip",
		Symbol:   "BLUE",
		ID:       "blue-chip",
		Assets:   []string{testAnchorDenom, testBTCDenom},
		Weights:  []uint32{5000, 5000},
		Amount:   tokens(1000).String(),
		Buffer:   100,
		Deadline: s.deadline(),
	})
	s.Require().NoError(err)
	s.Require().Equal(types.BootstrapSupply.String(), created.LPAmount)
	fundID := created.FundID

	contributed, err := srv.Contribute(ctx, &types.MsgContribute{
		Contributor: s.alice.String(),
		FundID:      fundID,
		Amount:      tokens(100).String(),
		Buffer:      100,
		Deadline:    s.deadline(),
	})
	s.Require().NoError(err)
	s.Require().Equal("99500000000000000000", contributed.LPAmount)

	_, err = srv.TransferClaim(ctx, &types.MsgTransferClaim{
		From:   s.alice.String(),
		FundID: fundID,
		To:     s.bob.String(),
		Amount: tokens(10).String(),
	})
	s.Require().NoError(err)

	withdrawn, err := srv.Withdraw(ctx, &types.MsgWithdraw{
		Holder:   s.bob.String(),
		FundID:   fundID,
		LPAmount: tokens(10).String(),
		Buffer:   100,
		Deadline: s.deadline(),
	})
	s.Require().NoError(err)
	s.Require().Equal([]string{testAnchorDenom, testBTCDenom}, withdrawn.Assets)
	s.Require().Len(withdrawn.Amounts, 2)

	base, err := srv.WithdrawBase(ctx, &types.MsgWithdrawBase{
		Holder:   s.alice.String(),
		FundID:   fundID,
		LPAmount: tokens(50).String(),
		Buffer:   100,
		Deadline: s.deadline(),
	})
	s.Require().NoError(err)
	s.Require().NotEqual("0", base.Amount)

	_, err = srv.Rebalance(ctx, &types.MsgRebalance{
		Manager:  s.creator.String(),
		FundID:   fundID,
		Assets:   []string{testAnchorDenom, testLinkDenom},
		Weights:  []uint32{3000, 7000},
		Buffer:   100,
		Deadline: s.deadline(),
	})
	s.Require().NoError(err)

	_, err = srv.UpdateFundMetadata(ctx, &types.MsgUpdateFundMetadata{
		Manager:     s.creator.String(),
		FundID:      fundID,
		ContractURI: "ipfs://blue-v2",
		Description: "stable and link",
	})
	s.Require().NoError(err)

	_, err = srv.TransferManager(ctx, &types.MsgTransferManager{
		Manager:    s.creator.String(),
		FundID:     fundID,
		NewManager: s.bob.String(),
	})
	s.Require().NoError(err)

	s.advance(31 * 24 * time.Hour)
	ctx = sdk.WrapSDKContext(s.ctx)

	dist, err := srv.DistributeMgmtFee(ctx, &types.MsgDistributeMgmtFee{Sender: s.alice.String(), FundID: fundID})
	s.Require().NoError(err)
	s.Require().Equal(int64(1), dist.Months)

	claimed, err := srv.ClaimFee(ctx, &types.MsgClaimFee{
		Manager:     s.bob.String(),
		FundID:      fundID,
		ExpectedFee: dist.FeeAmount,
		Buffer:      100,
		Deadline:    s.deadline(),
	})
	s.Require().NoError(err)
	s.Require().Equal(dist.FeeAmount, claimed.LPAmount)

	_, err = srv.EmergencyStable(ctx, &types.MsgEmergencyStable{
		Manager:  s.bob.String(),
		FundID:   fundID,
		Assets:   []string{testAnchorDenom, testBaseDenom},
		Weights:  []uint32{9000, 1000},
		Buffer:   100,
		Deadline: s.deadline(),
	})
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestMsgServer_RejectsMalformedInput() {
	srv := NewMsgServerImpl(s.keeper)
	ctx := sdk.WrapSDKContext(s.ctx)

	_, err := srv.Contribute(ctx, &types.MsgContribute{Contributor: "not-an-address", FundID: "x", Amount: "1"})
	s.Require().Error(err)

	_, err = srv.Contribute(ctx, &types.MsgContribute{Contributor: s.alice.String(), FundID: "x", Amount: "-5"})
	s.Require().Error(err)

	_, err = srv.TransferManager(ctx, &types.MsgTransferManager{Manager: s.creator.String(), FundID: "x", NewManager: "bogus"})
	s.Require().ErrorIs(err, types.ErrInvalidRecipient)
}

func (s *KeeperTestSuite) TestQueryServer() {
	fundID := s.createFund()
	s.createFund()
	q := NewQueryServerImpl(s.keeper)
	ctx := sdk.WrapSDKContext(s.ctx)

	s.Require().Equal(types.DefaultParams().MaxAssets, q.Params(ctx).MaxAssets)

	fund, err := q.Fund(ctx, fundID)
	s.Require().NoError(err)
	s.Require().Equal("BLUE", fund.Symbol)

	page, total, err := q.Funds(ctx, 1, 10)
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), total)
	s.Require().Len(page, 1)

	page, _, err = q.Funds(ctx, 5, 10)
	s.Require().NoError(err)
	s.Require().Empty(page)

	fee, err := q.ManagementFee(ctx, fundID)
	s.Require().NoError(err)
	s.Require().True(fee.FeeAmount.IsZero())

	_, err = q.Ledger(ctx, "missing")
	s.Require().ErrorIs(err, types.ErrFundNotFound)
}
