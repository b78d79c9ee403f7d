package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// Registry supplies platform-wide configuration. Fee rates and the collector are
// read fresh at the start of every operation.
type Registry interface {
	GetPlatformFeeConfig(ctx context.Context) PlatformFeeConfig
	GetMinAnchorPercent(ctx context.Context) uint32
	AnchorDenom(ctx context.Context) string
	BaseDenom(ctx context.Context) string
	IsAssetValid(ctx context.Context, denom string) bool
}

// Router is the external conversion venue between the base currency and fund assets.
// Swaps move coins from trader and deliver the output to recipient.
type Router interface {
	SwapExactBaseForAsset(ctx context.Context, trader, recipient sdk.AccAddress, denom string, baseIn math.Int, maxSlippageBp uint32, deadline int64) (math.Int, error)
	SwapExactAssetForBase(ctx context.Context, trader, recipient sdk.AccAddress, denom string, amountIn math.Int, maxSlippageBp uint32, deadline int64) (math.Int, error)
	ValueOf(ctx context.Context, denom string, amount math.Int) (math.Int, error)
}
