package app

import (
	"fmt"
	"strings"

	"cosmossdk.io/math"
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/spf13/cast"

	baskettypes "github.com/openalpha/basket-fund/x/basket/types"
)

// app.toml keys of the [basket] section
const (
	flagBaseDenom         = "basket.base-denom"
	flagAnchorDenom       = "basket.anchor-denom"
	flagMinAnchorBp       = "basket.min-anchor-bp"
	flagFeeCollector      = "basket.fee-collector"
	flagCreationFeeBp     = "basket.creation-fee-bp"
	flagContributionFeeBp = "basket.contribution-fee-bp"
	flagWithdrawalFeeBp   = "basket.withdrawal-fee-bp"
	flagRouterSpreadBp    = "basket.router-spread-bp"
	flagPrices            = "basket.prices"
)

// BasketConfig is the node-level configuration of the fund registry and the conversion venue
type BasketConfig struct {
	BaseDenom         string   `mapstructure:"base-denom"`
	AnchorDenom       string   `mapstructure:"anchor-denom"`
	MinAnchorBp       uint32   `mapstructure:"min-anchor-bp"`
	FeeCollector      string   `mapstructure:"fee-collector"`
	CreationFeeBp     uint32   `mapstructure:"creation-fee-bp"`
	ContributionFeeBp uint32   `mapstructure:"contribution-fee-bp"`
	WithdrawalFeeBp   uint32   `mapstructure:"withdrawal-fee-bp"`
	RouterSpreadBp    uint32   `mapstructure:"router-spread-bp"`
	Prices            []string `mapstructure:"prices"`
}

// DefaultBasketConfig returns the default basket configuration
func DefaultBasketConfig() BasketConfig {
	return BasketConfig{
		BaseDenom:         "aeth",
		AnchorDenom:       "ausdc",
		MinAnchorBp:       1000,
		FeeCollector:      authtypes.NewModuleAddress(authtypes.FeeCollectorName).String(),
		CreationFeeBp:     0,
		ContributionFeeBp: 50,
		WithdrawalFeeBp:   50,
		RouterSpreadBp:    30,
		Prices:            []string{"ausdc=0.0004", "awbtc=20", "alink=0.005"},
	}
}

// BasketConfigTemplate is the app.toml section rendered for BasketConfig
const BasketConfigTemplate = `
###############################################################################
###                           Basket Configuration                          ###
###############################################################################

[basket]

# Denom contributions and base withdrawals are settled in.
base-denom = "{{ .Basket.BaseDenom }}"

# Mandatory anchor asset and its minimum weight in basis points.
anchor-denom = "{{ .Basket.AnchorDenom }}"
min-anchor-bp = {{ .Basket.MinAnchorBp }}

# Platform fees in basis points and the account receiving them.
fee-collector = "{{ .Basket.FeeCollector }}"
creation-fee-bp = {{ .Basket.CreationFeeBp }}
contribution-fee-bp = {{ .Basket.ContributionFeeBp }}
withdrawal-fee-bp = {{ .Basket.WithdrawalFeeBp }}

# Spread charged by the fixed-price router on every conversion.
router-spread-bp = {{ .Basket.RouterSpreadBp }}

# Listed assets as denom=price, price in base denom per unit.
prices = [{{ range $i, $p := .Basket.Prices }}{{ if $i }}, {{ end }}"{{ $p }}"{{ end }}]
`

// ReadBasketConfig reads the [basket] section, falling back to defaults for unset keys
func ReadBasketConfig(appOpts servertypes.AppOptions) (BasketConfig, error) {
	cfg := DefaultBasketConfig()
	if appOpts == nil {
		return cfg, cfg.Validate()
	}

	if v := cast.ToString(appOpts.Get(flagBaseDenom)); v != "" {
		cfg.BaseDenom = v
	}
	if v := cast.ToString(appOpts.Get(flagAnchorDenom)); v != "" {
		cfg.AnchorDenom = v
	}
	if v := appOpts.Get(flagMinAnchorBp); v != nil {
		cfg.MinAnchorBp = cast.ToUint32(v)
	}
	if v := cast.ToString(appOpts.Get(flagFeeCollector)); v != "" {
		cfg.FeeCollector = v
	}
	if v := appOpts.Get(flagCreationFeeBp); v != nil {
		cfg.CreationFeeBp = cast.ToUint32(v)
	}
	if v := appOpts.Get(flagContributionFeeBp); v != nil {
		cfg.ContributionFeeBp = cast.ToUint32(v)
	}
	if v := appOpts.Get(flagWithdrawalFeeBp); v != nil {
		cfg.WithdrawalFeeBp = cast.ToUint32(v)
	}
	if v := appOpts.Get(flagRouterSpreadBp); v != nil {
		cfg.RouterSpreadBp = cast.ToUint32(v)
	}
	if v := cast.ToStringSlice(appOpts.Get(flagPrices)); len(v) > 0 {
		cfg.Prices = v
	}
	return cfg, cfg.Validate()
}

// Validate checks denoms, the fee collector address and basis point bounds
func (c BasketConfig) Validate() error {
	if err := sdk.ValidateDenom(c.BaseDenom); err != nil {
		return fmt.Errorf("base denom: %w", err)
	}
	if err := sdk.ValidateDenom(c.AnchorDenom); err != nil {
		return fmt.Errorf("anchor denom: %w", err)
	}
	if _, err := sdk.AccAddressFromBech32(c.FeeCollector); err != nil {
		return fmt.Errorf("fee collector: %w", err)
	}
	for name, bp := range map[string]uint32{
		"min-anchor-bp":       c.MinAnchorBp,
		"creation-fee-bp":     c.CreationFeeBp,
		"contribution-fee-bp": c.ContributionFeeBp,
		"withdrawal-fee-bp":   c.WithdrawalFeeBp,
		"router-spread-bp":    c.RouterSpreadBp,
	} {
		if bp > baskettypes.BasisPoints {
			return fmt.Errorf("%s %d exceeds %d", name, bp, baskettypes.BasisPoints)
		}
	}
	prices, err := ParsePrices(c.Prices)
	if err != nil {
		return err
	}
	if _, ok := prices[c.AnchorDenom]; !ok && c.AnchorDenom != c.BaseDenom {
		return fmt.Errorf("anchor denom %s has no price", c.AnchorDenom)
	}
	return nil
}

// ParsePrices parses denom=price entries
func ParsePrices(entries []string) (map[string]math.LegacyDec, error) {
	prices := make(map[string]math.LegacyDec, len(entries))
	for _, entry := range entries {
		parts := strings.SplitN(strings.TrimSpace(entry), "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid price entry %q, expected denom=price", entry)
		}
		price, err := math.LegacyNewDecFromStr(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid price for %s: %w", parts[0], err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("price for %s must be positive", parts[0])
		}
		prices[parts[0]] = price
	}
	return prices, nil
}
