package keeper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	basketmetrics "github.com/openalpha/basket-fund/metrics"
	"github.com/openalpha/basket-fund/x/basket/types"
)

var testGenesisTime = time.Unix(1_700_000_000, 0).UTC()

func tokens(n int64) math.Int {
	return math.NewIntWithDecimal(n, 18)
}

func testAddr(name string) sdk.AccAddress {
	bz := make([]byte, 20)
	copy(bz, name)
	return sdk.AccAddress(bz)
}

// setupKeeper creates a basket keeper and a mock bank sharing one in-memory multistore
func setupKeeper(tb testing.TB, collector sdk.AccAddress) (*Keeper, sdk.Context, *mockBankKeeper, *mockRouter, *mockRegistry) {
	tb.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	bankKey := storetypes.NewKVStoreKey("mockbank")
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		tb.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1, Time: testGenesisTime}, false, log.NewNopLogger())

	bank := &mockBankKeeper{key: bankKey}
	router := newMockRouter(bank)
	registry := newMockRegistry(collector)
	k := NewKeeper(storeKey, bank, registry, router, "authority", log.NewNopLogger())
	return k, ctx, bank, router, registry
}

type KeeperTestSuite struct {
	suite.Suite

	ctx      sdk.Context
	keeper   *Keeper
	bank     *mockBankKeeper
	router   *mockRouter
	registry *mockRegistry

	creator   sdk.AccAddress
	alice     sdk.AccAddress
	bob       sdk.AccAddress
	collector sdk.AccAddress
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

// SetupTest runs before each test
func (s *KeeperTestSuite) SetupTest() {
	s.creator = testAddr("creator")
	s.alice = testAddr("alice")
	s.bob = testAddr("bob")
	s.collector = testAddr("collector")

	s.keeper, s.ctx, s.bank, s.router, s.registry = setupKeeper(s.T(), s.collector)

	s.bank.mint(s.ctx, s.creator, sdk.NewCoins(sdk.NewCoin(testBaseDenom, tokens(1_000_000))))
	s.bank.mint(s.ctx, s.alice, sdk.NewCoins(sdk.NewCoin(testBaseDenom, tokens(1_000_000))))
}

func (s *KeeperTestSuite) deadline() int64 {
	return s.ctx.BlockTime().Unix() + 1200
}

func (s *KeeperTestSuite) advance(d time.Duration) {
	s.ctx = s.ctx.WithBlockTime(s.ctx.BlockTime().Add(d)).WithBlockHeight(s.ctx.BlockHeight() + 1)
}

func (s *KeeperTestSuite) balance(addr sdk.AccAddress, denom string) math.Int {
	return s.bank.GetBalance(s.ctx, addr, denom).Amount
}

func (s *KeeperTestSuite) defaultParams() types.FundParams {
	return types.FundParams{
		Name:        "Blue Chip",
		Symbol:      "BLUE",
		ID:          "blue-chip",
		ContractURI: "ipfs://blue",
		Description: "half stable, half bitcoin",
		Assets:      []string{testAnchorDenom, testBTCDenom},
		Weights:     []uint32{5000, 5000},
		Amount:      tokens(1000),
		Buffer:      100,
		Deadline:    s.deadline(),
	}
}

// createFund creates the default 50/50 fund seeded with 1000 base units
func (s *KeeperTestSuite) createFund() string {
	fundID, minted, err := s.keeper.CreateFund(s.ctx, s.creator, s.defaultParams())
	s.Require().NoError(err)
	s.Require().True(minted.Equal(types.BootstrapSupply))
	return fundID
}

func hasEvent(events sdk.Events, eventType string) bool {
	for _, e := range events {
		if e.Type == eventType {
			return true
		}
	}
	return false
}

func eventAttr(events sdk.Events, eventType, key string) (string, bool) {
	for _, e := range events {
		if e.Type != eventType {
			continue
		}
		for _, a := range e.Attributes {
			if a.Key == key {
				return a.Value, true
			}
		}
	}
	return "", false
}

func requireAmounts(t require.TestingT, expected, actual []math.Int) {
	require.Len(t, actual, len(expected))
	for i := range expected {
		require.Truef(t, expected[i].Equal(actual[i]), "index %d: expected %s, got %s", i, expected[i], actual[i])
	}
}

// ============ Fund creation ============

func (s *KeeperTestSuite) TestCreateFund() {
	s.ctx = s.ctx.WithEventManager(sdk.NewEventManager())
	fundID := s.createFund()

	fund := s.keeper.GetFund(s.ctx, fundID)
	s.Require().NotNil(fund)
	s.Require().Equal(s.creator.String(), fund.Manager)
	s.Require().Equal(s.creator.String(), fund.Creator)
	s.Require().Equal([]string{testAnchorDenom, testBTCDenom}, fund.Config.Denoms())
	s.Require().Equal(testAnchorDenom, fund.Config.AnchorDenom)

	// 500 base buys 1000 ausdc at 0.5, 500 base buys 250 awbtc at 2
	ledger := s.keeper.GetLedger(s.ctx, fundID)
	s.Require().NotNil(ledger)
	s.Require().Equal(types.FundAddress(fundID).String(), ledger.Owner)
	requireAmounts(s.T(), []math.Int{tokens(1000), tokens(250)}, ledger.Reserves)
	s.Require().True(ledger.TotalSupply.Equal(types.BootstrapSupply))
	s.Require().Equal(testGenesisTime.Unix(), ledger.LastAccrualAt)

	custody := types.LedgerAddress(fundID)
	s.Require().True(s.balance(custody, testAnchorDenom).Equal(tokens(1000)))
	s.Require().True(s.balance(custody, testBTCDenom).Equal(tokens(250)))

	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, s.creator).Equal(types.BootstrapSupply))
	s.Require().True(s.balance(s.creator, testBaseDenom).Equal(tokens(999_000)))
	s.Require().Equal(uint64(1), s.keeper.getFundSequence(s.ctx))
	s.Require().False(s.keeper.isLocked(s.ctx, fundID))

	events := s.ctx.EventManager().Events()
	s.Require().True(hasEvent(events, types.EventTypeFundCreated))
	s.Require().True(hasEvent(events, types.EventTypeContributionRecorded))
	// seed contributions pay no contribution fee
	s.Require().False(hasEvent(events, types.EventTypePlatformFeeDeducted))
}

func (s *KeeperTestSuite) TestCreateFund_DistinctIDs() {
	first := s.createFund()
	second := s.createFund()
	s.Require().NotEqual(first, second)
	s.Require().Len(s.keeper.GetAllFunds(s.ctx), 2)
	s.Require().Len(s.keeper.GetAllLedgers(s.ctx), 2)
}

func (s *KeeperTestSuite) TestCreateFund_CreationFee() {
	s.registry.feeConfig.CreationFeeBp = 100
	s.ctx = s.ctx.WithEventManager(sdk.NewEventManager())
	fundID := s.createFund()

	s.Require().True(s.balance(s.collector, testBaseDenom).Equal(tokens(10)))
	ledger := s.keeper.GetLedger(s.ctx, fundID)
	// 990 base after the fee: 495 base per side
	requireAmounts(s.T(), []math.Int{tokens(990), math.NewIntWithDecimal(2475, 17)}, ledger.Reserves)

	action, ok := eventAttr(s.ctx.EventManager().Events(), types.EventTypePlatformFeeDeducted, types.AttributeKeyAction)
	s.Require().True(ok)
	s.Require().Equal(types.ActionCreate, action)
}

func (s *KeeperTestSuite) TestCreateFund_Validation() {
	testCases := []struct {
		name   string
		modify func(p *types.FundParams)
		err    error
	}{
		{
			name:   "empty name",
			modify: func(p *types.FundParams) { p.Name = "" },
			err:    types.ErrEmptyStringParameter,
		},
		{
			name:   "length mismatch",
			modify: func(p *types.FundParams) { p.Weights = []uint32{10000} },
			err:    types.ErrInvalidLength,
		},
		{
			name:   "unlisted asset",
			modify: func(p *types.FundParams) { p.Assets = []string{testAnchorDenom, "afoo"} },
			err:    types.ErrInvalidContractAddress,
		},
		{
			name:   "duplicate asset",
			modify: func(p *types.FundParams) { p.Assets = []string{testAnchorDenom, testAnchorDenom} },
			err:    types.ErrDuplicateToken,
		},
		{
			name:   "weights do not sum to 10000",
			modify: func(p *types.FundParams) { p.Weights = []uint32{5000, 4000} },
			err:    types.ErrInvalidWeight,
		},
		{
			name: "no anchor",
			modify: func(p *types.FundParams) {
				p.Assets = []string{testBTCDenom, testLinkDenom}
			},
			err: types.ErrNoAnchorAssetIncluded,
		},
		{
			name:   "anchor below minimum",
			modify: func(p *types.FundParams) { p.Weights = []uint32{500, 9500} },
			err:    types.ErrInsufficientAnchorPercentage,
		},
		{
			name:   "deadline in the past",
			modify: func(p *types.FundParams) { p.Deadline = s.ctx.BlockTime().Unix() - 1 },
			err:    types.ErrDeadlineInPast,
		},
		{
			name:   "zero buffer",
			modify: func(p *types.FundParams) { p.Buffer = 0 },
			err:    types.ErrInvalidBuffer,
		},
		{
			name:   "zero amount",
			modify: func(p *types.FundParams) { p.Amount = math.ZeroInt() },
			err:    types.ErrZeroContributionAmount,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			p := s.defaultParams()
			tc.modify(&p)
			_, _, err := s.keeper.CreateFund(s.ctx, s.creator, p)
			s.Require().ErrorIs(err, tc.err)

			s.Require().Empty(s.keeper.GetAllFunds(s.ctx))
			s.Require().Empty(s.keeper.GetAllLedgers(s.ctx))
			s.Require().Equal(uint64(0), s.keeper.getFundSequence(s.ctx))
			s.Require().True(s.balance(s.creator, testBaseDenom).Equal(tokens(1_000_000)))
		})
	}
}

func (s *KeeperTestSuite) TestCreateFund_MinCreationAmount() {
	params := types.DefaultParams()
	params.MinCreationAmount = tokens(2000)
	s.Require().NoError(s.keeper.SetParams(s.ctx, params))

	_, _, err := s.keeper.CreateFund(s.ctx, s.creator, s.defaultParams())
	s.Require().ErrorIs(err, types.ErrInsufficientCreationAmount)
}

// ============ Contributions ============

func (s *KeeperTestSuite) TestContribute() {
	fundID := s.createFund()
	s.ctx = s.ctx.WithEventManager(sdk.NewEventManager())

	minted, err := s.keeper.Contribute(s.ctx, fundID, s.alice, tokens(100), 100, s.deadline())
	s.Require().NoError(err)

	// 0.5 base goes to the collector, 99.5 is split 50/50
	expectedMint := math.NewIntWithDecimal(995, 17)
	s.Require().True(minted.Equal(expectedMint), "minted %s", minted)
	s.Require().True(s.balance(s.collector, testBaseDenom).Equal(math.NewIntWithDecimal(5, 17)))
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, s.alice).Equal(expectedMint))

	ledger := s.keeper.GetLedger(s.ctx, fundID)
	requireAmounts(s.T(), []math.Int{math.NewIntWithDecimal(10995, 17), math.NewIntWithDecimal(274875, 15)}, ledger.Reserves)
	s.Require().True(ledger.TotalSupply.Equal(types.BootstrapSupply.Add(expectedMint)))

	// reserves are backed one to one by custody
	custody := types.LedgerAddress(fundID)
	for i, denom := range ledger.Assets {
		s.Require().True(ledger.Reserves[i].Equal(s.balance(custody, denom)))
	}
	// the controller keeps nothing
	s.Require().True(s.balance(types.FundAddress(fundID), testBaseDenom).IsZero())

	events := s.ctx.EventManager().Events()
	s.Require().True(hasEvent(events, types.EventTypeContributionRecorded))
	action, ok := eventAttr(events, types.EventTypePlatformFeeDeducted, types.AttributeKeyAction)
	s.Require().True(ok)
	s.Require().Equal(types.ActionContribute, action)
}

func (s *KeeperTestSuite) TestContribute_MintIsProportional() {
	fundID := s.createFund()
	s.registry.feeConfig.ContributionFeeBp = 0

	before := s.keeper.GetLedger(s.ctx, fundID)
	minted, err := s.keeper.Contribute(s.ctx, fundID, s.alice, tokens(250), 100, s.deadline())
	s.Require().NoError(err)

	// a quarter of the fund value mints a quarter of the supply
	s.Require().True(minted.Equal(before.TotalSupply.QuoRaw(4)), "minted %s", minted)
}

func (s *KeeperTestSuite) TestContribute_Errors() {
	fundID := s.createFund()
	broke := testAddr("broke")

	testCases := []struct {
		name        string
		fundID      string
		contributor sdk.AccAddress
		amount      math.Int
		buffer      uint32
		deadline    int64
		err         error
	}{
		{"unknown fund", "missing", s.alice, tokens(1), 100, s.deadline(), types.ErrFundNotFound},
		{"deadline passed", fundID, s.alice, tokens(1), 100, s.ctx.BlockTime().Unix() - 1, types.ErrDeadlineInPast},
		{"zero buffer", fundID, s.alice, tokens(1), 0, s.deadline(), types.ErrInvalidBuffer},
		{"buffer at maximum", fundID, s.alice, tokens(1), types.MaxBuffer, s.deadline(), types.ErrInvalidBuffer},
		{"zero amount", fundID, s.alice, math.ZeroInt(), 100, s.deadline(), types.ErrZeroContributionAmount},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.keeper.Contribute(s.ctx, tc.fundID, tc.contributor, tc.amount, tc.buffer, tc.deadline)
			s.Require().ErrorIs(err, tc.err)
		})
	}

	// insufficient base balance fails without touching state
	_, err := s.keeper.Contribute(s.ctx, fundID, broke, tokens(1), 100, s.deadline())
	s.Require().Error(err)
	ledger := s.keeper.GetLedger(s.ctx, fundID)
	s.Require().True(ledger.TotalSupply.Equal(types.BootstrapSupply))
}

func (s *KeeperTestSuite) TestContribute_SlippageRollsBack() {
	fundID := s.createFund()
	s.router.spreadBp = 200

	_, err := s.keeper.Contribute(s.ctx, fundID, s.alice, tokens(100), 100, s.deadline())
	s.Require().Error(err)

	s.Require().True(s.balance(s.alice, testBaseDenom).Equal(tokens(1_000_000)))
	s.Require().True(s.balance(s.collector, testBaseDenom).IsZero())
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, s.alice).IsZero())
	requireAmounts(s.T(), []math.Int{tokens(1000), tokens(250)}, s.keeper.GetLedger(s.ctx, fundID).Reserves)

	// a wider buffer accepts the spread
	_, err = s.keeper.Contribute(s.ctx, fundID, s.alice, tokens(100), 300, s.deadline())
	s.Require().NoError(err)
}

// ============ Withdrawals ============

func (s *KeeperTestSuite) TestWithdraw() {
	fundID := s.createFund()
	lp, err := s.keeper.Contribute(s.ctx, fundID, s.alice, tokens(100), 100, s.deadline())
	s.Require().NoError(err)
	collectorAnchor := s.balance(s.collector, testAnchorDenom)

	before := s.keeper.GetLedger(s.ctx, fundID)
	share := types.CalculateShareTokens(before, lp)
	s.ctx = s.ctx.WithEventManager(sdk.NewEventManager())

	assets, paid, err := s.keeper.Withdraw(s.ctx, fundID, s.alice, lp, 100, s.deadline())
	s.Require().NoError(err)
	s.Require().Equal(before.Assets, assets)

	for i, denom := range assets {
		fee := types.ApplyBp(share[i], 50)
		s.Require().True(paid[i].Equal(share[i].Sub(fee)), "%s paid %s", denom, paid[i])
		s.Require().True(s.balance(s.alice, denom).Equal(paid[i]))
	}
	s.Require().True(s.balance(s.collector, testAnchorDenom).Sub(collectorAnchor).Equal(types.ApplyBp(share[0], 50)))

	after := s.keeper.GetLedger(s.ctx, fundID)
	s.Require().True(after.TotalSupply.Equal(before.TotalSupply.Sub(lp)))
	for i := range after.Reserves {
		s.Require().True(after.Reserves[i].Equal(before.Reserves[i].Sub(share[i])))
	}
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, s.alice).IsZero())
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, types.LedgerAddress(fundID)).IsZero())

	events := s.ctx.EventManager().Events()
	s.Require().True(hasEvent(events, types.EventTypeWithdrawalRecorded))
	action, ok := eventAttr(events, types.EventTypePlatformFeeDeducted, types.AttributeKeyAction)
	s.Require().True(ok)
	s.Require().Equal(types.ActionWithdrawTokens, action)
}

func (s *KeeperTestSuite) TestWithdrawBase() {
	fundID := s.createFund()
	lp, err := s.keeper.Contribute(s.ctx, fundID, s.alice, tokens(100), 100, s.deadline())
	s.Require().NoError(err)
	baseBefore := s.balance(s.alice, testBaseDenom)

	s.ctx = s.ctx.WithEventManager(sdk.NewEventManager())
	paid, err := s.keeper.WithdrawBase(s.ctx, fundID, s.alice, lp, 100, s.deadline())
	s.Require().NoError(err)

	// 99.5 ausdc and 24.875 awbtc sell for 99.5 base, less 50 bp
	s.Require().True(paid.Equal(math.NewIntWithDecimal(990025, 14)), "paid %s", paid)
	s.Require().True(s.balance(s.alice, testBaseDenom).Sub(baseBefore).Equal(paid))
	s.Require().True(s.balance(types.FundAddress(fundID), testBaseDenom).IsZero())

	action, ok := eventAttr(s.ctx.EventManager().Events(), types.EventTypePlatformFeeDeducted, types.AttributeKeyAction)
	s.Require().True(ok)
	s.Require().Equal(types.ActionWithdrawBase, action)
}

func (s *KeeperTestSuite) TestWithdraw_Errors() {
	fundID := s.createFund()

	_, _, err := s.keeper.Withdraw(s.ctx, fundID, s.alice, math.ZeroInt(), 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrInvalidWithdrawalAmount)

	_, _, err = s.keeper.Withdraw(s.ctx, fundID, s.alice, tokens(1), 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)

	_, err = s.keeper.WithdrawBase(s.ctx, fundID, s.creator, tokens(1), 100, s.ctx.BlockTime().Unix()-1)
	s.Require().ErrorIs(err, types.ErrDeadlineInPast)

	_, err = s.keeper.WithdrawBase(s.ctx, "missing", s.creator, tokens(1), 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrFundNotFound)

	// failed router leg leaves the claim with the holder
	s.router.spreadBp = 500
	_, err = s.keeper.WithdrawBase(s.ctx, fundID, s.creator, tokens(1), 100, s.deadline())
	s.Require().Error(err)
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, s.creator).Equal(types.BootstrapSupply))
	s.Require().True(s.keeper.GetLedger(s.ctx, fundID).TotalSupply.Equal(types.BootstrapSupply))
}

func (s *KeeperTestSuite) TestWithdraw_InvalidBuffer() {
	fundID := s.createFund()

	for _, buffer := range []uint32{0, types.MaxBuffer, types.MaxBuffer + 1, types.BasisPoints} {
		_, _, err := s.keeper.Withdraw(s.ctx, fundID, s.creator, tokens(1), buffer, s.deadline())
		s.Require().ErrorIs(err, types.ErrInvalidBuffer, "withdraw buffer %d", buffer)

		_, err = s.keeper.WithdrawBase(s.ctx, fundID, s.creator, tokens(1), buffer, s.deadline())
		s.Require().ErrorIs(err, types.ErrInvalidBuffer, "withdraw base buffer %d", buffer)
	}

	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, s.creator).Equal(types.BootstrapSupply))
	requireAmounts(s.T(), []math.Int{tokens(1000), tokens(250)}, s.keeper.GetLedger(s.ctx, fundID).Reserves)

	// the widest accepted buffer still works
	_, _, err := s.keeper.Withdraw(s.ctx, fundID, s.creator, tokens(1), types.MaxBuffer-1, s.deadline())
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestWithdraw_ZeroAmountLeavesNoTrace() {
	fundID := s.createFund()
	custody := types.LedgerAddress(fundID)
	baseBefore := s.balance(s.creator, testBaseDenom)
	s.ctx = s.ctx.WithEventManager(sdk.NewEventManager())

	_, _, err := s.keeper.Withdraw(s.ctx, fundID, s.creator, math.ZeroInt(), 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrInvalidWithdrawalAmount)

	_, err = s.keeper.WithdrawBase(s.ctx, fundID, s.creator, math.ZeroInt(), 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrInvalidWithdrawalAmount)

	s.Require().Empty(s.ctx.EventManager().Events())
	s.Require().True(s.balance(s.creator, testBaseDenom).Equal(baseBefore))
	s.Require().True(s.balance(s.collector, testBaseDenom).IsZero())
	s.Require().True(s.balance(custody, testAnchorDenom).Equal(tokens(1000)))
	s.Require().True(s.balance(custody, testBTCDenom).Equal(tokens(250)))
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, s.creator).Equal(types.BootstrapSupply))
	s.Require().True(s.keeper.GetLedger(s.ctx, fundID).TotalSupply.Equal(types.BootstrapSupply))
}

func (s *KeeperTestSuite) TestWithdraw_FullExitEmptiesFund() {
	fundID := s.createFund()
	s.registry.feeConfig.WithdrawalFeeBp = 0

	_, paid, err := s.keeper.Withdraw(s.ctx, fundID, s.creator, types.BootstrapSupply, 100, s.deadline())
	s.Require().NoError(err)
	requireAmounts(s.T(), []math.Int{tokens(1000), tokens(250)}, paid)

	ledger := s.keeper.GetLedger(s.ctx, fundID)
	s.Require().True(ledger.TotalSupply.IsZero())
	requireAmounts(s.T(), []math.Int{math.ZeroInt(), math.ZeroInt()}, ledger.Reserves)

	// the next contribution bootstraps again
	s.registry.feeConfig.ContributionFeeBp = 0
	minted, err := s.keeper.Contribute(s.ctx, fundID, s.alice, tokens(10), 100, s.deadline())
	s.Require().NoError(err)
	s.Require().True(minted.Equal(types.BootstrapSupply))
}

// ============ Claim transfers ============

func (s *KeeperTestSuite) TestTransferClaim() {
	fundID := s.createFund()
	s.ctx = s.ctx.WithEventManager(sdk.NewEventManager())

	s.Require().NoError(s.keeper.TransferClaim(s.ctx, fundID, s.creator, s.bob, tokens(10)))
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, s.bob).Equal(tokens(10)))
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, s.creator).Equal(tokens(990)))
	s.Require().True(hasEvent(s.ctx.EventManager().Events(), types.EventTypeClaimTransferred))

	s.Require().ErrorIs(s.keeper.TransferClaim(s.ctx, fundID, s.bob, s.alice, tokens(11)), types.ErrInsufficientBalance)
	s.Require().ErrorIs(s.keeper.TransferClaim(s.ctx, fundID, s.bob, nil, tokens(1)), types.ErrInvalidRecipient)
	s.Require().ErrorIs(s.keeper.TransferClaim(s.ctx, "missing", s.bob, s.alice, tokens(1)), types.ErrFundNotFound)

	// bob redeems the transferred claim
	_, _, err := s.keeper.Withdraw(s.ctx, fundID, s.bob, tokens(10), 100, s.deadline())
	s.Require().NoError(err)
	s.Require().True(s.balance(s.bob, testAnchorDenom).IsPositive())
}

// ============ Manager operations ============

func (s *KeeperTestSuite) TestRebalance() {
	fundID := s.createFund()
	s.ctx = s.ctx.WithEventManager(sdk.NewEventManager())
	swaps := s.router.swaps

	err := s.keeper.Rebalance(s.ctx, fundID, s.creator, []string{testAnchorDenom, testBaseDenom}, []uint32{2000, 8000}, 100, s.deadline())
	s.Require().NoError(err)

	// 1000 base of proceeds: 200 buys 400 ausdc, 800 stays as base
	fund := s.keeper.GetFund(s.ctx, fundID)
	s.Require().Equal([]string{testAnchorDenom, testBaseDenom}, fund.Config.Denoms())
	s.Require().Equal([]uint32{2000, 8000}, fund.Config.Weights())

	ledger := s.keeper.GetLedger(s.ctx, fundID)
	s.Require().Equal([]string{testAnchorDenom, testBaseDenom}, ledger.Assets)
	requireAmounts(s.T(), []math.Int{tokens(400), tokens(800)}, ledger.Reserves)
	s.Require().True(ledger.TotalSupply.Equal(types.BootstrapSupply))

	custody := types.LedgerAddress(fundID)
	s.Require().True(s.balance(custody, testBTCDenom).IsZero())
	s.Require().True(s.balance(types.FundAddress(fundID), testBaseDenom).IsZero())
	s.Require().Equal(swaps+3, s.router.swaps)

	events := s.ctx.EventManager().Events()
	old, ok := eventAttr(events, types.EventTypeRebalanceRecorded, types.AttributeKeyOldAssets)
	s.Require().True(ok)
	s.Require().Equal("ausdc,awbtc", old)
	weights, ok := eventAttr(events, types.EventTypeRebalanceRecorded, types.AttributeKeyNewWeights)
	s.Require().True(ok)
	s.Require().Equal("2000,8000", weights)

	// holders redeem the new asset set
	_, paid, err := s.keeper.Withdraw(s.ctx, fundID, s.creator, tokens(100), 100, s.deadline())
	s.Require().NoError(err)
	s.Require().Len(paid, 2)
	s.Require().True(s.balance(s.creator, testAnchorDenom).IsPositive())
}

func (s *KeeperTestSuite) TestRebalance_Errors() {
	fundID := s.createFund()

	err := s.keeper.Rebalance(s.ctx, fundID, s.alice, []string{testAnchorDenom, testBTCDenom}, []uint32{5000, 5000}, 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrInvalidOwner)

	err = s.keeper.Rebalance(s.ctx, fundID, s.creator, []string{testAnchorDenom, testBTCDenom}, []uint32{500, 9500}, 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrInsufficientAnchorPercentage)

	err = s.keeper.Rebalance(s.ctx, fundID, s.creator, []string{testAnchorDenom, testBTCDenom}, []uint32{5000, 5000}, 0, s.deadline())
	s.Require().ErrorIs(err, types.ErrInvalidBuffer)

	err = s.keeper.Rebalance(s.ctx, "missing", s.creator, []string{testAnchorDenom}, []uint32{10000}, 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrFundNotFound)
}

func (s *KeeperTestSuite) TestRebalance_RouterFailureRollsBack() {
	fundID := s.createFund()
	s.router.spreadBp = 100

	err := s.keeper.Rebalance(s.ctx, fundID, s.creator, []string{testAnchorDenom, testLinkDenom}, []uint32{5000, 5000}, 50, s.deadline())
	s.Require().Error(err)

	fund := s.keeper.GetFund(s.ctx, fundID)
	s.Require().Equal([]string{testAnchorDenom, testBTCDenom}, fund.Config.Denoms())
	ledger := s.keeper.GetLedger(s.ctx, fundID)
	requireAmounts(s.T(), []math.Int{tokens(1000), tokens(250)}, ledger.Reserves)

	custody := types.LedgerAddress(fundID)
	s.Require().True(s.balance(custody, testAnchorDenom).Equal(tokens(1000)))
	s.Require().True(s.balance(custody, testBTCDenom).Equal(tokens(250)))
	s.Require().True(s.balance(types.FundAddress(fundID), testBaseDenom).IsZero())
	s.Require().False(s.keeper.isLocked(s.ctx, fundID))
}

func (s *KeeperTestSuite) TestEmergencyStable() {
	fundID := s.createFund()

	err := s.keeper.EmergencyStable(s.ctx, fundID, s.creator,
		[]string{testAnchorDenom, testBTCDenom, testLinkDenom}, []uint32{4000, 3000, 3000}, 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrInvalidEmergencyParams)

	err = s.keeper.EmergencyStable(s.ctx, fundID, s.alice, []string{testAnchorDenom, testLinkDenom}, []uint32{9000, 1000}, 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrInvalidOwner)

	err = s.keeper.EmergencyStable(s.ctx, fundID, s.creator, []string{testAnchorDenom, testLinkDenom}, []uint32{9000, 1000}, 100, s.deadline())
	s.Require().NoError(err)

	ledger := s.keeper.GetLedger(s.ctx, fundID)
	requireAmounts(s.T(), []math.Int{tokens(1800), tokens(400)}, ledger.Reserves)
}

func (s *KeeperTestSuite) TestTransferManager() {
	fundID := s.createFund()

	s.Require().ErrorIs(s.keeper.TransferManager(s.ctx, fundID, s.alice, s.bob), types.ErrInvalidOwner)
	s.Require().ErrorIs(s.keeper.TransferManager(s.ctx, fundID, s.creator, nil), types.ErrInvalidRecipient)
	s.Require().NoError(s.keeper.TransferManager(s.ctx, fundID, s.creator, s.alice))

	s.Require().Equal(s.alice.String(), s.keeper.GetFund(s.ctx, fundID).Manager)

	err := s.keeper.Rebalance(s.ctx, fundID, s.creator, []string{testAnchorDenom, testBTCDenom}, []uint32{6000, 4000}, 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrInvalidOwner)
	err = s.keeper.Rebalance(s.ctx, fundID, s.alice, []string{testAnchorDenom, testBTCDenom}, []uint32{6000, 4000}, 100, s.deadline())
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestUpdateFundMetadata() {
	fundID := s.createFund()

	s.Require().ErrorIs(s.keeper.UpdateFundMetadata(s.ctx, fundID, s.alice, "ipfs://x", "x"), types.ErrInvalidOwner)
	s.Require().ErrorIs(s.keeper.UpdateFundMetadata(s.ctx, fundID, s.creator, "", "x"), types.ErrEmptyStringParameter)
	s.Require().NoError(s.keeper.UpdateFundMetadata(s.ctx, fundID, s.creator, "ipfs://new", "rebranded"))

	fund := s.keeper.GetFund(s.ctx, fundID)
	s.Require().Equal("ipfs://new", fund.ContractURI)
	s.Require().Equal("rebranded", fund.Description)
}

// ============ Management fee ============

func (s *KeeperTestSuite) TestManagementFeeAccrual() {
	fundID := s.createFund()
	created := s.ctx.BlockTime().Unix()

	accrual, err := s.keeper.CalFee(s.ctx, fundID)
	s.Require().NoError(err)
	s.Require().Equal(int64(0), accrual.Months)
	s.Require().True(accrual.FeeAmount.IsZero())

	s.advance(2*30*24*time.Hour + 24*time.Hour)
	accrual, err = s.keeper.CalFee(s.ctx, fundID)
	s.Require().NoError(err)
	s.Require().Equal(int64(2), accrual.Months)
	expected := types.CalculateManagementFee(types.BootstrapSupply, types.DefaultMonthlyFeeRate, 2)
	s.Require().True(accrual.FeeAmount.Equal(expected))
	s.Require().True(expected.IsPositive())

	total, err := s.keeper.GetTotalMgmtFee(s.ctx, fundID)
	s.Require().NoError(err)
	s.Require().True(total.Equal(expected))

	s.ctx = s.ctx.WithEventManager(sdk.NewEventManager())
	_, err = s.keeper.DistMgmtFee(s.ctx, fundID)
	s.Require().NoError(err)
	s.Require().True(hasEvent(s.ctx.EventManager().Events(), types.EventTypeManagementFeeAccrued))

	ledger := s.keeper.GetLedger(s.ctx, fundID)
	s.Require().True(ledger.TotalSupply.Equal(types.BootstrapSupply.Add(expected)))
	s.Require().Equal(created+2*types.MonthDuration, ledger.LastAccrualAt)
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, types.FundAddress(fundID)).Equal(expected))

	// the partial month carries over
	again, err := s.keeper.DistMgmtFee(s.ctx, fundID)
	s.Require().NoError(err)
	s.Require().Equal(int64(0), again.Months)
	s.Require().True(s.keeper.GetLedger(s.ctx, fundID).TotalSupply.Equal(ledger.TotalSupply))
}

func (s *KeeperTestSuite) TestDistMgmtFee_QuarterOnFiveThousand() {
	fundID := s.createFund()

	// grow the supply to 5000 units, all held by bob beyond the seed
	ledger := s.keeper.GetLedger(s.ctx, fundID)
	ledger.TotalSupply = ledger.TotalSupply.Add(tokens(4000))
	s.keeper.SetLedger(s.ctx, ledger)
	s.keeper.addClaim(s.ctx, fundID, s.bob, tokens(4000))

	s.advance(3*30*24*time.Hour + time.Hour)
	s.ctx = s.ctx.WithEventManager(sdk.NewEventManager())

	accrual, err := s.keeper.DistMgmtFee(s.ctx, fundID)
	s.Require().NoError(err)
	s.Require().Equal(int64(3), accrual.Months)
	s.Require().True(accrual.Supply.Equal(tokens(5000)))

	// about 12.49 units at 1/1200 a month, compounded
	expected, ok := math.NewIntFromString("12489586226851850000")
	s.Require().True(ok)
	s.Require().True(accrual.FeeAmount.Equal(expected), "fee %s", accrual.FeeAmount)
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, types.FundAddress(fundID)).Equal(expected))

	again, err := s.keeper.DistMgmtFee(s.ctx, fundID)
	s.Require().NoError(err)
	s.Require().True(again.FeeAmount.IsZero())
	s.Require().True(s.keeper.GetLedger(s.ctx, fundID).TotalSupply.Equal(tokens(5000).Add(expected)))

	accruals := 0
	for _, e := range s.ctx.EventManager().Events() {
		if e.Type == types.EventTypeManagementFeeAccrued {
			accruals++
		}
	}
	s.Require().Equal(1, accruals)
}

func (s *KeeperTestSuite) TestClaimFee() {
	fundID := s.createFund()

	_, _, err := s.keeper.ClaimFee(s.ctx, fundID, s.creator, math.ZeroInt(), 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrInsufficientLiquidity)

	s.advance(30 * 24 * time.Hour)
	expected := types.CalculateManagementFee(types.BootstrapSupply, types.DefaultMonthlyFeeRate, 1)

	_, _, err = s.keeper.ClaimFee(s.ctx, fundID, s.alice, math.ZeroInt(), 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrInvalidOwner)

	_, _, err = s.keeper.ClaimFee(s.ctx, fundID, s.creator, expected.AddRaw(1), 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrFeeBelowExpected)
	// the failed claim did not accrue either
	s.Require().Equal(testGenesisTime.Unix(), s.keeper.GetLedger(s.ctx, fundID).LastAccrualAt)

	baseBefore := s.balance(s.creator, testBaseDenom)
	s.ctx = s.ctx.WithEventManager(sdk.NewEventManager())
	lp, paid, err := s.keeper.ClaimFee(s.ctx, fundID, s.creator, expected, 100, s.deadline())
	s.Require().NoError(err)
	s.Require().True(lp.Equal(expected))
	s.Require().True(paid.IsPositive())
	s.Require().True(s.balance(s.creator, testBaseDenom).Sub(baseBefore).Equal(paid))
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, types.FundAddress(fundID)).IsZero())

	// supply is back to the holders' claims
	s.Require().True(s.keeper.GetLedger(s.ctx, fundID).TotalSupply.Equal(types.BootstrapSupply))

	events := s.ctx.EventManager().Events()
	s.Require().True(hasEvent(events, types.EventTypeManagementFeeClaimed))
	action, ok := eventAttr(events, types.EventTypePlatformFeeDeducted, types.AttributeKeyAction)
	s.Require().True(ok)
	s.Require().Equal(types.ActionClaimFee, action)
}

func (s *KeeperTestSuite) TestEndBlocker() {
	fundID := s.createFund()

	s.Require().NoError(s.keeper.EndBlocker(s.ctx))
	s.Require().True(s.keeper.GetLedger(s.ctx, fundID).TotalSupply.Equal(types.BootstrapSupply))

	s.advance(30*24*time.Hour + time.Hour)
	s.ctx = s.ctx.WithEventManager(sdk.NewEventManager())
	s.Require().NoError(s.keeper.EndBlocker(s.ctx))

	ledger := s.keeper.GetLedger(s.ctx, fundID)
	expected := types.CalculateManagementFee(types.BootstrapSupply, types.DefaultMonthlyFeeRate, 1)
	s.Require().True(ledger.TotalSupply.Equal(types.BootstrapSupply.Add(expected)))
	s.Require().Equal(testGenesisTime.Unix()+types.MonthDuration, ledger.LastAccrualAt)

	accrued, ok := eventAttr(s.ctx.EventManager().Events(), types.EventTypeEndBlock, types.AttributeKeyFundsAccrued)
	s.Require().True(ok)
	s.Require().Equal("1", accrued)
}

// ============ Reentrancy ============

func (s *KeeperTestSuite) TestReentrantContributeRejected() {
	fundID := s.createFund()

	var inner error
	s.router.onSwap = func(c context.Context) error {
		s.router.onSwap = nil
		_, inner = s.keeper.Contribute(sdk.UnwrapSDKContext(c), fundID, s.alice, tokens(1), 100, s.deadline())
		return inner
	}

	_, err := s.keeper.Contribute(s.ctx, fundID, s.alice, tokens(100), 100, s.deadline())
	s.Require().ErrorIs(inner, types.ErrReentrantCall)
	s.Require().ErrorIs(err, types.ErrReentrantCall)

	// nothing of the outer call survives and the flag is clear
	s.Require().False(s.keeper.isLocked(s.ctx, fundID))
	s.Require().True(s.balance(s.alice, testBaseDenom).Equal(tokens(1_000_000)))
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, s.alice).IsZero())

	_, err = s.keeper.Contribute(s.ctx, fundID, s.alice, tokens(100), 100, s.deadline())
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestReentrantWithdrawRejected() {
	fundID := s.createFund()

	s.router.onSwap = func(c context.Context) error {
		s.router.onSwap = nil
		_, _, err := s.keeper.Withdraw(sdk.UnwrapSDKContext(c), fundID, s.creator, tokens(1), 100, s.deadline())
		return err
	}

	_, err := s.keeper.WithdrawBase(s.ctx, fundID, s.creator, tokens(10), 100, s.deadline())
	s.Require().ErrorIs(err, types.ErrReentrantCall)
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, s.creator).Equal(types.BootstrapSupply))
}

func (s *KeeperTestSuite) TestReentrantClaimFeeDuringRebalance() {
	fundID := s.createFund()
	s.advance(30*24*time.Hour + time.Hour)

	var inner error
	s.router.onSwap = func(c context.Context) error {
		s.router.onSwap = nil
		_, _, inner = s.keeper.ClaimFee(sdk.UnwrapSDKContext(c), fundID, s.creator, math.ZeroInt(), 100, s.deadline())
		return nil
	}

	err := s.keeper.Rebalance(s.ctx, fundID, s.creator, []string{testAnchorDenom, testBaseDenom}, []uint32{2000, 8000}, 100, s.deadline())
	s.Require().NoError(err)
	s.Require().ErrorIs(inner, types.ErrReentrantCall)

	// the rebalance committed, the nested claim left nothing behind
	s.Require().Equal([]string{testAnchorDenom, testBaseDenom}, s.keeper.GetFund(s.ctx, fundID).Config.Denoms())
	ledger := s.keeper.GetLedger(s.ctx, fundID)
	s.Require().Equal(testGenesisTime.Unix(), ledger.LastAccrualAt)
	s.Require().True(ledger.TotalSupply.Equal(types.BootstrapSupply))
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, types.FundAddress(fundID)).IsZero())
	s.Require().False(s.keeper.isLocked(s.ctx, fundID))
}

func (s *KeeperTestSuite) TestReentrantRebalanceDuringEmergencyStable() {
	fundID := s.createFund()

	var inner error
	s.router.onSwap = func(c context.Context) error {
		s.router.onSwap = nil
		inner = s.keeper.Rebalance(sdk.UnwrapSDKContext(c), fundID, s.creator,
			[]string{testAnchorDenom, testLinkDenom}, []uint32{5000, 5000}, 100, s.deadline())
		return inner
	}

	err := s.keeper.EmergencyStable(s.ctx, fundID, s.creator, []string{testAnchorDenom, testLinkDenom}, []uint32{9000, 1000}, 100, s.deadline())
	s.Require().ErrorIs(inner, types.ErrReentrantCall)
	s.Require().ErrorIs(err, types.ErrReentrantCall)

	s.Require().Equal([]string{testAnchorDenom, testBTCDenom}, s.keeper.GetFund(s.ctx, fundID).Config.Denoms())
	requireAmounts(s.T(), []math.Int{tokens(1000), tokens(250)}, s.keeper.GetLedger(s.ctx, fundID).Reserves)
	custody := types.LedgerAddress(fundID)
	s.Require().True(s.balance(custody, testAnchorDenom).Equal(tokens(1000)))
	s.Require().True(s.balance(custody, testBTCDenom).Equal(tokens(250)))
	s.Require().False(s.keeper.isLocked(s.ctx, fundID))
}

func (s *KeeperTestSuite) TestReentrantWithdrawDuringClaimFee() {
	fundID := s.createFund()
	s.advance(30*24*time.Hour + time.Hour)
	baseBefore := s.balance(s.creator, testBaseDenom)

	var inner error
	s.router.onSwap = func(c context.Context) error {
		s.router.onSwap = nil
		_, _, inner = s.keeper.Withdraw(sdk.UnwrapSDKContext(c), fundID, s.creator, tokens(1), 100, s.deadline())
		return inner
	}

	_, _, err := s.keeper.ClaimFee(s.ctx, fundID, s.creator, math.ZeroInt(), 100, s.deadline())
	s.Require().ErrorIs(inner, types.ErrReentrantCall)
	s.Require().ErrorIs(err, types.ErrReentrantCall)

	// neither the accrual nor the redemption survived
	ledger := s.keeper.GetLedger(s.ctx, fundID)
	s.Require().Equal(testGenesisTime.Unix(), ledger.LastAccrualAt)
	s.Require().True(ledger.TotalSupply.Equal(types.BootstrapSupply))
	requireAmounts(s.T(), []math.Int{tokens(1000), tokens(250)}, ledger.Reserves)
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, fundID, s.creator).Equal(types.BootstrapSupply))
	s.Require().True(s.balance(s.creator, testBaseDenom).Equal(baseBefore))
	s.Require().False(s.keeper.isLocked(s.ctx, fundID))
}

func (s *KeeperTestSuite) TestNestedCallOnOtherFundAllowed() {
	first := s.createFund()
	second := s.createFund()

	s.router.onSwap = func(c context.Context) error {
		s.router.onSwap = nil
		_, err := s.keeper.Contribute(sdk.UnwrapSDKContext(c), second, s.alice, tokens(10), 100, s.deadline())
		return err
	}

	_, err := s.keeper.Contribute(s.ctx, first, s.alice, tokens(10), 100, s.deadline())
	s.Require().NoError(err)
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, first, s.alice).IsPositive())
	s.Require().True(s.keeper.GetClaimBalance(s.ctx, second, s.alice).IsPositive())
}

// ============ Queries ============

func (s *KeeperTestSuite) TestQuotes() {
	fundID := s.createFund()

	value, err := s.keeper.GetFundValue(s.ctx, fundID)
	s.Require().NoError(err)
	s.Require().True(value.Equal(tokens(1000)), "value %s", value)

	lp, err := s.keeper.CalculateShareLP(s.ctx, fundID, tokens(100))
	s.Require().NoError(err)
	s.Require().True(lp.Equal(tokens(100)))

	worth, err := s.keeper.CalculateShareValue(s.ctx, fundID, tokens(100))
	s.Require().NoError(err)
	s.Require().True(worth.Equal(tokens(100)))

	share, err := s.keeper.CalculateShareTokens(s.ctx, fundID, tokens(100))
	s.Require().NoError(err)
	requireAmounts(s.T(), []math.Int{tokens(100), tokens(25)}, share)

	reserves, userBal, supply, err := s.keeper.GetTokenAndUserBal(s.ctx, fundID, s.creator)
	s.Require().NoError(err)
	requireAmounts(s.T(), []math.Int{tokens(1000), tokens(250)}, reserves)
	s.Require().True(userBal.Equal(types.BootstrapSupply))
	s.Require().True(supply.Equal(types.BootstrapSupply))

	_, err = s.keeper.GetFundValue(s.ctx, "missing")
	s.Require().ErrorIs(err, types.ErrFundNotFound)
}

func (s *KeeperTestSuite) TestQuotes_EvenReserves() {
	const fundID = "even"
	s.router.prices[testAnchorDenom] = math.LegacyOneDec()
	s.router.prices[testLinkDenom] = math.LegacyOneDec()

	_, err := s.keeper.InitializeLedger(s.ctx, fundID, s.creator, "Even", "EVEN", []string{testAnchorDenom, testLinkDenom}, types.DefaultMonthlyFeeRate)
	s.Require().NoError(err)
	s.bank.mint(s.ctx, types.LedgerAddress(fundID), sdk.NewCoins(
		sdk.NewCoin(testAnchorDenom, tokens(100)),
		sdk.NewCoin(testLinkDenom, tokens(100)),
	))
	minted, err := s.keeper.Mint(s.ctx, fundID, s.creator, s.alice, []math.Int{tokens(100), tokens(100)})
	s.Require().NoError(err)
	s.Require().True(minted.Equal(tokens(1000)))

	lp, err := s.keeper.CalculateShareLP(s.ctx, fundID, tokens(1))
	s.Require().NoError(err)
	s.Require().True(lp.Equal(tokens(5)), "lp %s", lp)

	value, err := s.keeper.CalculateShareValue(s.ctx, fundID, tokens(5))
	s.Require().NoError(err)
	s.Require().True(value.Equal(tokens(1)), "value %s", value)

	share, err := s.keeper.CalculateShareTokens(s.ctx, fundID, tokens(5))
	s.Require().NoError(err)
	requireAmounts(s.T(), []math.Int{math.NewIntWithDecimal(5, 17), math.NewIntWithDecimal(5, 17)}, share)
}

func (s *KeeperTestSuite) TestTokenDetails() {
	fundID := s.createFund()

	n, err := s.keeper.TotalTokens(s.ctx, fundID)
	s.Require().NoError(err)
	s.Require().Equal(2, n)

	details, err := s.keeper.GetTokenDetails(s.ctx, fundID)
	s.Require().NoError(err)
	s.Require().Len(details, 2)
	s.Require().Equal(testBTCDenom, details[1].Denom)
	s.Require().Equal(uint32(5000), details[1].WeightBp)
	s.Require().True(details[1].Reserve.Equal(tokens(250)))

	detail, err := s.keeper.GetTokenDetailsAt(s.ctx, fundID, 0)
	s.Require().NoError(err)
	s.Require().Equal(testAnchorDenom, detail.Denom)

	_, err = s.keeper.GetTokenDetailsAt(s.ctx, fundID, 2)
	s.Require().ErrorIs(err, types.ErrTokenIndexOutOfBounds)
}

// ============ Metrics ============

func (s *KeeperTestSuite) TestFeeMetricsCountCommittedOperationsOnly() {
	collector := basketmetrics.GetCollector()
	fundID := s.createFund()

	platformFees := func() float64 {
		return testutil.ToFloat64(collector.PlatformFeesTotal.WithLabelValues(types.ActionContribute))
	}
	minted := func() float64 {
		return testutil.ToFloat64(collector.ManagementFeeMinted.WithLabelValues(fundID))
	}

	before := platformFees()
	s.router.spreadBp = 200
	_, err := s.keeper.Contribute(s.ctx, fundID, s.alice, tokens(100), 100, s.deadline())
	s.Require().Error(err)
	s.Require().Equal(before, platformFees())

	_, err = s.keeper.Contribute(s.ctx, fundID, s.alice, tokens(100), 300, s.deadline())
	s.Require().NoError(err)
	s.Require().Equal(before+1, platformFees())

	s.advance(30*24*time.Hour + time.Hour)
	mintedBefore := minted()
	_, _, err = s.keeper.ClaimFee(s.ctx, fundID, s.creator, tokens(1_000_000), 300, s.deadline())
	s.Require().ErrorIs(err, types.ErrFeeBelowExpected)
	s.Require().Equal(mintedBefore, minted())

	accrual, err := s.keeper.DistMgmtFee(s.ctx, fundID)
	s.Require().NoError(err)
	s.Require().True(accrual.FeeAmount.IsPositive())
	s.Require().Greater(minted(), mintedBefore)
}

// ============ Genesis ============

func (s *KeeperTestSuite) TestGenesisRoundTrip() {
	fundID := s.createFund()
	s.Require().NoError(s.keeper.TransferClaim(s.ctx, fundID, s.creator, s.bob, tokens(5)))

	exported := s.keeper.ExportGenesis(s.ctx)
	s.Require().Len(exported.Funds, 1)
	s.Require().Len(exported.Ledgers, 1)
	s.Require().Len(exported.ClaimBalances, 2)
	s.Require().Equal(uint64(1), exported.FundSequence)

	k2, ctx2, _, _, _ := setupKeeper(s.T(), s.collector)
	s.Require().NoError(k2.InitGenesis(ctx2, *exported))

	reexported := k2.ExportGenesis(ctx2)
	want, err := json.Marshal(exported)
	s.Require().NoError(err)
	got, err := json.Marshal(reexported)
	s.Require().NoError(err)
	s.Require().JSONEq(string(want), string(got))
}

func (s *KeeperTestSuite) TestInitGenesis_Invalid() {
	gs := types.DefaultGenesis()
	gs.Params.MaxAssets = 1
	s.Require().Error(s.keeper.InitGenesis(s.ctx, *gs))
}
