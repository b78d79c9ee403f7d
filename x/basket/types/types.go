package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AssetWeight is one entry of a fund's target allocation
type AssetWeight struct {
	Denom    string `json:"denom"`
	WeightBp uint32 `json:"weight_bp"`
}

// Configuration is the ordered target allocation of a fund.
// AnchorDenom tags the mandatory stable asset; its position in Assets is irrelevant.
type Configuration struct {
	Assets      []AssetWeight `json:"assets"`
	AnchorDenom string        `json:"anchor_denom"`
}

// NewConfiguration pairs denoms with weights. Lengths are not checked here.
func NewConfiguration(denoms []string, weights []uint32, anchorDenom string) Configuration {
	n := len(denoms)
	if len(weights) < n {
		n = len(weights)
	}
	assets := make([]AssetWeight, n)
	for i := 0; i < n; i++ {
		assets[i] = AssetWeight{Denom: denoms[i], WeightBp: weights[i]}
	}
	return Configuration{Assets: assets, AnchorDenom: anchorDenom}
}

// Denoms returns the asset denoms in configuration order
func (c Configuration) Denoms() []string {
	denoms := make([]string, len(c.Assets))
	for i, a := range c.Assets {
		denoms[i] = a.Denom
	}
	return denoms
}

// Weights returns the weights in configuration order
func (c Configuration) Weights() []uint32 {
	weights := make([]uint32, len(c.Assets))
	for i, a := range c.Assets {
		weights[i] = a.WeightBp
	}
	return weights
}

// Ledger is the reserve ledger of a fund: custodied assets, tracked reserves and claim supply
type Ledger struct {
	FundID         string         `json:"fund_id"`
	Name           string         `json:"name"`
	Symbol         string         `json:"symbol"`
	Owner          string         `json:"owner"`
	Assets         []string       `json:"assets"`
	Reserves       []math.Int     `json:"reserves"`
	TotalSupply    math.Int       `json:"total_supply"`
	LastAccrualAt  int64          `json:"last_accrual_at"`
	MonthlyFeeRate math.LegacyDec `json:"monthly_fee_rate"`
	CreatedAt      int64          `json:"created_at"`
}

// NewLedger creates a ledger with zero reserves and zero supply
func NewLedger(fundID, name, symbol string, owner sdk.AccAddress, assets []string, monthlyFeeRate math.LegacyDec, now int64) *Ledger {
	tracked := make([]string, len(assets))
	copy(tracked, assets)
	return &Ledger{
		FundID:         fundID,
		Name:           name,
		Symbol:         symbol,
		Owner:          owner.String(),
		Assets:         tracked,
		Reserves:       ZeroAmounts(len(assets)),
		TotalSupply:    math.ZeroInt(),
		LastAccrualAt:  now,
		MonthlyFeeRate: monthlyFeeRate,
		CreatedAt:      now,
	}
}

// IsOwner reports whether addr owns the ledger
func (l *Ledger) IsOwner(addr sdk.AccAddress) bool {
	return !addr.Empty() && l.Owner == addr.String()
}

// IndexOf returns the position of denom in the asset list, or -1
func (l *Ledger) IndexOf(denom string) int {
	for i, d := range l.Assets {
		if d == denom {
			return i
		}
	}
	return -1
}

// Fund is the controller state of a basket fund
type Fund struct {
	FundID      string        `json:"fund_id"`
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	ID          string        `json:"id"`
	ContractURI string        `json:"contract_uri,omitempty"`
	Description string        `json:"description,omitempty"`
	Creator     string        `json:"creator"`
	Manager     string        `json:"manager"`
	Config      Configuration `json:"config"`
	CreatedAt   int64         `json:"created_at"`
	UpdatedAt   int64         `json:"updated_at"`
}

// IsManager reports whether addr currently holds the fund's ownership right
func (f *Fund) IsManager(addr sdk.AccAddress) bool {
	return !addr.Empty() && f.Manager == addr.String()
}

// PlatformFeeConfig is the platform-wide fee configuration supplied by the registry
type PlatformFeeConfig struct {
	CreationFeeBp     uint32 `json:"creation_fee_bp"`
	ContributionFeeBp uint32 `json:"contribution_fee_bp"`
	WithdrawalFeeBp   uint32 `json:"withdrawal_fee_bp"`
	FeeCollector      string `json:"fee_collector"`
}

// FeeAccrual is the result of a management fee calculation
type FeeAccrual struct {
	Months    int64    `json:"months"`
	Supply    math.Int `json:"supply"`
	FeeAmount math.Int `json:"fee_amount"`
}

// TokenDetail describes one asset of a fund with its weight and tracked reserve
type TokenDetail struct {
	Denom    string   `json:"denom"`
	WeightBp uint32   `json:"weight_bp"`
	Reserve  math.Int `json:"reserve"`
}

// ClaimBalance is a holder's claim token balance in a fund
type ClaimBalance struct {
	FundID string   `json:"fund_id"`
	Holder string   `json:"holder"`
	Amount math.Int `json:"amount"`
}

// ZeroAmounts returns n zero amounts
func ZeroAmounts(n int) []math.Int {
	amounts := make([]math.Int, n)
	for i := range amounts {
		amounts[i] = math.ZeroInt()
	}
	return amounts
}

// SumAmounts adds all amounts
func SumAmounts(amounts []math.Int) math.Int {
	total := math.ZeroInt()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// ApplyBp returns amount * bp / 10000, rounded down
func ApplyBp(amount math.Int, bp uint32) math.Int {
	if bp == 0 || amount.IsZero() {
		return math.ZeroInt()
	}
	return amount.MulRaw(int64(bp)).QuoRaw(int64(BasisPoints))
}

// FundParams are the creator-supplied inputs of a new fund
type FundParams struct {
	Name        string
	Symbol      string
	ID          string
	ContractURI string
	Description string
	Assets      []string
	Weights     []uint32
	Amount      math.Int
	Buffer      uint32
	Deadline    int64
}
