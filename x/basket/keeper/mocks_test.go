package keeper

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/openalpha/basket-fund/x/basket/types"
)

const (
	testBaseDenom   = "aeth"
	testAnchorDenom = "ausdc"
	testBTCDenom    = "awbtc"
	testLinkDenom   = "alink"
)

// mockBankKeeper keeps balances in its own store so cached contexts roll them back
// together with the module state.
type mockBankKeeper struct {
	key storetypes.StoreKey
}

func balanceKey(addr sdk.AccAddress, denom string) []byte {
	return append(append(append([]byte{}, addr.Bytes()...), '/'), []byte(denom)...)
}

func (b *mockBankKeeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	bz := sdk.UnwrapSDKContext(ctx).KVStore(b.key).Get(balanceKey(addr, denom))
	if bz == nil {
		return sdk.NewCoin(denom, math.ZeroInt())
	}
	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		panic(err)
	}
	return sdk.NewCoin(denom, amount)
}

func (b *mockBankKeeper) setBalance(ctx context.Context, addr sdk.AccAddress, coin sdk.Coin) {
	store := sdk.UnwrapSDKContext(ctx).KVStore(b.key)
	if coin.Amount.IsZero() {
		store.Delete(balanceKey(addr, coin.Denom))
		return
	}
	bz, err := coin.Amount.Marshal()
	if err != nil {
		panic(err)
	}
	store.Set(balanceKey(addr, coin.Denom), bz)
}

func (b *mockBankKeeper) mint(ctx context.Context, addr sdk.AccAddress, coins sdk.Coins) {
	for _, c := range coins {
		b.setBalance(ctx, addr, b.GetBalance(ctx, addr, c.Denom).Add(c))
	}
}

func (b *mockBankKeeper) burn(ctx context.Context, addr sdk.AccAddress, coins sdk.Coins) error {
	for _, c := range coins {
		balance := b.GetBalance(ctx, addr, c.Denom)
		if balance.Amount.LT(c.Amount) {
			return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "%s < %s", balance, c)
		}
	}
	for _, c := range coins {
		b.setBalance(ctx, addr, b.GetBalance(ctx, addr, c.Denom).Sub(c))
	}
	return nil
}

func (b *mockBankKeeper) SendCoins(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error {
	if err := b.burn(ctx, from, amt); err != nil {
		return err
	}
	b.mint(ctx, to, amt)
	return nil
}

// mockRegistry is a fixed asset registry
type mockRegistry struct {
	feeConfig types.PlatformFeeConfig
	minAnchor uint32
	listed    map[string]bool
}

func newMockRegistry(collector sdk.AccAddress) *mockRegistry {
	return &mockRegistry{
		feeConfig: types.PlatformFeeConfig{
			CreationFeeBp:     0,
			ContributionFeeBp: 50,
			WithdrawalFeeBp:   50,
			FeeCollector:      collector.String(),
		},
		minAnchor: 1000,
		listed: map[string]bool{
			testBaseDenom:   true,
			testAnchorDenom: true,
			testBTCDenom:    true,
			testLinkDenom:   true,
		},
	}
}

func (r *mockRegistry) GetPlatformFeeConfig(ctx context.Context) types.PlatformFeeConfig {
	return r.feeConfig
}

func (r *mockRegistry) GetMinAnchorPercent(ctx context.Context) uint32 { return r.minAnchor }

func (r *mockRegistry) AnchorDenom(ctx context.Context) string { return testAnchorDenom }

func (r *mockRegistry) BaseDenom(ctx context.Context) string { return testBaseDenom }

func (r *mockRegistry) IsAssetValid(ctx context.Context, denom string) bool { return r.listed[denom] }

// mockRouter converts at fixed prices quoted in base currency per unit
type mockRouter struct {
	bank     *mockBankKeeper
	prices   map[string]math.LegacyDec
	spreadBp uint32
	swaps    int

	// onSwap runs before every conversion; a returned error aborts it
	onSwap func(ctx context.Context) error
}

func newMockRouter(bank *mockBankKeeper) *mockRouter {
	return &mockRouter{
		bank: bank,
		prices: map[string]math.LegacyDec{
			testAnchorDenom: math.LegacyNewDecWithPrec(5, 1), // 0.5
			testBTCDenom:    math.LegacyNewDec(2),
			testLinkDenom:   math.LegacyNewDecWithPrec(25, 2), // 0.25
		},
	}
}

func (r *mockRouter) check(ctx context.Context, denom string, maxSlippageBp uint32, deadline int64) (math.LegacyDec, error) {
	if r.onSwap != nil {
		if err := r.onSwap(ctx); err != nil {
			return math.LegacyDec{}, err
		}
	}
	if sdk.UnwrapSDKContext(ctx).BlockTime().Unix() > deadline {
		return math.LegacyDec{}, fmt.Errorf("router: expired")
	}
	if r.spreadBp > maxSlippageBp {
		return math.LegacyDec{}, fmt.Errorf("router: insufficient output amount")
	}
	price, ok := r.prices[denom]
	if !ok {
		return math.LegacyDec{}, fmt.Errorf("router: %s not listed", denom)
	}
	return price, nil
}

func (r *mockRouter) net(amount math.LegacyDec) math.Int {
	keep := math.LegacyNewDec(int64(types.BasisPoints - r.spreadBp)).QuoInt64(int64(types.BasisPoints))
	return amount.MulTruncate(keep).TruncateInt()
}

func (r *mockRouter) SwapExactBaseForAsset(ctx context.Context, trader, recipient sdk.AccAddress, denom string, baseIn math.Int, maxSlippageBp uint32, deadline int64) (math.Int, error) {
	price, err := r.check(ctx, denom, maxSlippageBp, deadline)
	if err != nil {
		return math.Int{}, err
	}
	if err := r.bank.burn(ctx, trader, sdk.NewCoins(sdk.NewCoin(testBaseDenom, baseIn))); err != nil {
		return math.Int{}, err
	}
	out := r.net(baseIn.ToLegacyDec().QuoTruncate(price))
	r.bank.mint(ctx, recipient, sdk.NewCoins(sdk.NewCoin(denom, out)))
	r.swaps++
	return out, nil
}

func (r *mockRouter) SwapExactAssetForBase(ctx context.Context, trader, recipient sdk.AccAddress, denom string, amountIn math.Int, maxSlippageBp uint32, deadline int64) (math.Int, error) {
	price, err := r.check(ctx, denom, maxSlippageBp, deadline)
	if err != nil {
		return math.Int{}, err
	}
	if err := r.bank.burn(ctx, trader, sdk.NewCoins(sdk.NewCoin(denom, amountIn))); err != nil {
		return math.Int{}, err
	}
	out := r.net(amountIn.ToLegacyDec().MulTruncate(price))
	r.bank.mint(ctx, recipient, sdk.NewCoins(sdk.NewCoin(testBaseDenom, out)))
	r.swaps++
	return out, nil
}

func (r *mockRouter) ValueOf(ctx context.Context, denom string, amount math.Int) (math.Int, error) {
	if denom == testBaseDenom {
		return amount, nil
	}
	price, ok := r.prices[denom]
	if !ok {
		return math.Int{}, fmt.Errorf("router: %s not listed", denom)
	}
	return amount.ToLegacyDec().MulTruncate(price).TruncateInt(), nil
}
