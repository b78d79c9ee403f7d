package app

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/btree"

	baskettypes "github.com/openalpha/basket-fund/x/basket/types"
)

// staticRegistry serves the platform fee configuration and asset listing from BasketConfig
type staticRegistry struct {
	cfg    BasketConfig
	router *oracleRouter
}

func newStaticRegistry(cfg BasketConfig, router *oracleRouter) baskettypes.Registry {
	return staticRegistry{cfg: cfg, router: router}
}

func (r staticRegistry) GetPlatformFeeConfig(ctx context.Context) baskettypes.PlatformFeeConfig {
	return baskettypes.PlatformFeeConfig{
		CreationFeeBp:     r.cfg.CreationFeeBp,
		ContributionFeeBp: r.cfg.ContributionFeeBp,
		WithdrawalFeeBp:   r.cfg.WithdrawalFeeBp,
		FeeCollector:      r.cfg.FeeCollector,
	}
}

func (r staticRegistry) GetMinAnchorPercent(ctx context.Context) uint32 {
	return r.cfg.MinAnchorBp
}

func (r staticRegistry) AnchorDenom(ctx context.Context) string {
	return r.cfg.AnchorDenom
}

func (r staticRegistry) BaseDenom(ctx context.Context) string {
	return r.cfg.BaseDenom
}

func (r staticRegistry) IsAssetValid(ctx context.Context, denom string) bool {
	if denom == r.cfg.BaseDenom {
		return true
	}
	_, ok := r.router.price(denom)
	return ok
}

// routerBankKeeper is the bank surface the router needs to settle conversions
type routerBankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
}

// pricePoint is one listed asset in the router's price book
type pricePoint struct {
	denom string
	price math.LegacyDec
}

// oracleRouter converts between the base denom and listed assets at fixed prices,
// burning the input and minting the output through its module account.
type oracleRouter struct {
	bank      routerBankKeeper
	baseDenom string
	spreadBp  uint32
	book      *btree.BTreeG[pricePoint]
}

func newOracleRouter(bank routerBankKeeper, cfg BasketConfig) (*oracleRouter, error) {
	prices, err := ParsePrices(cfg.Prices)
	if err != nil {
		return nil, err
	}
	if cfg.RouterSpreadBp >= baskettypes.BasisPoints {
		return nil, fmt.Errorf("router spread %d bp out of range", cfg.RouterSpreadBp)
	}

	book := btree.NewG[pricePoint](16, func(a, b pricePoint) bool { return a.denom < b.denom })
	for denom, price := range prices {
		book.ReplaceOrInsert(pricePoint{denom: denom, price: price})
	}
	return &oracleRouter{bank: bank, baseDenom: cfg.BaseDenom, spreadBp: cfg.RouterSpreadBp, book: book}, nil
}

func (r *oracleRouter) price(denom string) (math.LegacyDec, bool) {
	p, ok := r.book.Get(pricePoint{denom: denom})
	if !ok {
		return math.LegacyDec{}, false
	}
	return p.price, true
}

// Listed returns the listed denoms in order
func (r *oracleRouter) Listed() []string {
	denoms := make([]string, 0, r.book.Len())
	r.book.Ascend(func(p pricePoint) bool {
		denoms = append(denoms, p.denom)
		return true
	})
	return denoms
}

func (r *oracleRouter) checkExecution(ctx context.Context, maxSlippageBp uint32, deadline int64) error {
	if sdk.UnwrapSDKContext(ctx).BlockTime().Unix() > deadline {
		return fmt.Errorf("router: deadline %d passed", deadline)
	}
	if r.spreadBp > maxSlippageBp {
		return fmt.Errorf("router: insufficient output amount, spread %d bp exceeds slippage %d bp", r.spreadBp, maxSlippageBp)
	}
	return nil
}

func (r *oracleRouter) applySpread(amount math.LegacyDec) math.Int {
	keep := math.LegacyNewDec(int64(baskettypes.BasisPoints - r.spreadBp)).QuoInt64(int64(baskettypes.BasisPoints))
	return amount.MulTruncate(keep).TruncateInt()
}

func (r *oracleRouter) settle(ctx context.Context, trader, recipient sdk.AccAddress, in, out sdk.Coin) error {
	if err := r.bank.SendCoinsFromAccountToModule(ctx, trader, baskettypes.RouterName, sdk.NewCoins(in)); err != nil {
		return err
	}
	if err := r.bank.BurnCoins(ctx, baskettypes.RouterName, sdk.NewCoins(in)); err != nil {
		return err
	}
	if out.IsZero() {
		return nil
	}
	if err := r.bank.MintCoins(ctx, baskettypes.RouterName, sdk.NewCoins(out)); err != nil {
		return err
	}
	return r.bank.SendCoinsFromModuleToAccount(ctx, baskettypes.RouterName, recipient, sdk.NewCoins(out))
}

func (r *oracleRouter) SwapExactBaseForAsset(ctx context.Context, trader, recipient sdk.AccAddress, denom string, baseIn math.Int, maxSlippageBp uint32, deadline int64) (math.Int, error) {
	if err := r.checkExecution(ctx, maxSlippageBp, deadline); err != nil {
		return math.Int{}, err
	}
	price, ok := r.price(denom)
	if !ok {
		return math.Int{}, fmt.Errorf("router: %s is not listed", denom)
	}
	out := r.applySpread(baseIn.ToLegacyDec().QuoTruncate(price))
	if err := r.settle(ctx, trader, recipient, sdk.NewCoin(r.baseDenom, baseIn), sdk.NewCoin(denom, out)); err != nil {
		return math.Int{}, err
	}
	return out, nil
}

func (r *oracleRouter) SwapExactAssetForBase(ctx context.Context, trader, recipient sdk.AccAddress, denom string, amountIn math.Int, maxSlippageBp uint32, deadline int64) (math.Int, error) {
	if err := r.checkExecution(ctx, maxSlippageBp, deadline); err != nil {
		return math.Int{}, err
	}
	price, ok := r.price(denom)
	if !ok {
		return math.Int{}, fmt.Errorf("router: %s is not listed", denom)
	}
	out := r.applySpread(amountIn.ToLegacyDec().MulTruncate(price))
	if err := r.settle(ctx, trader, recipient, sdk.NewCoin(denom, amountIn), sdk.NewCoin(r.baseDenom, out)); err != nil {
		return math.Int{}, err
	}
	return out, nil
}

func (r *oracleRouter) ValueOf(ctx context.Context, denom string, amount math.Int) (math.Int, error) {
	if denom == r.baseDenom {
		return amount, nil
	}
	price, ok := r.price(denom)
	if !ok {
		return math.Int{}, fmt.Errorf("router: %s is not listed", denom)
	}
	return amount.ToLegacyDec().MulTruncate(price).TruncateInt(), nil
}
