package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "basket"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterName is the module account used by the conversion venue wired in app
	RouterName = "basket_router"
)

// Protocol constants
const (
	BasisPoints   uint32 = 10000
	MaxBuffer     uint32 = 5000
	MonthDuration int64  = 30 * 24 * 60 * 60
)

// Platform fee action tags
const (
	ActionCreate         = "create"
	ActionContribute     = "contribute"
	ActionWithdrawTokens = "withdrawTokens"
	ActionWithdrawBase   = "withdrawETH"
	ActionClaimFee       = "claimFee"
)

// BootstrapSupply is the claim supply minted on the first contribution (1000 units, 18 decimals)
var BootstrapSupply = math.NewIntWithDecimal(1000, 18)

// Store key prefixes
var (
	FundKeyPrefix         = []byte{0x01}
	LedgerKeyPrefix       = []byte{0x02}
	ClaimBalanceKeyPrefix = []byte{0x03}
	LockKeyPrefix         = []byte{0x04}
	ParamsKey             = []byte{0x05}
	FundSequenceKey       = []byte{0x06}
)

// FundKey returns the store key for a fund
func FundKey(fundID string) []byte {
	return append(append([]byte{}, FundKeyPrefix...), []byte(fundID)...)
}

// LedgerKey returns the store key for a ledger
func LedgerKey(fundID string) []byte {
	return append(append([]byte{}, LedgerKeyPrefix...), []byte(fundID)...)
}

// ClaimBalancePrefix returns the prefix for all claim balances of a fund
func ClaimBalancePrefix(fundID string) []byte {
	key := append(append([]byte{}, ClaimBalanceKeyPrefix...), []byte(fundID)...)
	return append(key, '/')
}

// ClaimBalanceKey returns the store key for a holder's claim balance in a fund
func ClaimBalanceKey(fundID string, holder sdk.AccAddress) []byte {
	return append(ClaimBalancePrefix(fundID), holder.Bytes()...)
}

// LockKey returns the store key for a fund's busy flag
func LockKey(fundID string) []byte {
	return append(append([]byte{}, LockKeyPrefix...), []byte(fundID)...)
}

// LedgerAddress is the custody account holding a fund's reserves
func LedgerAddress(fundID string) sdk.AccAddress {
	return address.Module(ModuleName, []byte("ledger"), []byte(fundID))
}

// FundAddress is the controller account that owns a fund's ledger
func FundAddress(fundID string) sdk.AccAddress {
	return address.Module(ModuleName, []byte("fund"), []byte(fundID))
}
