package types

import (
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Default parameter values
const (
	DefaultMaxAssets uint32 = 20
)

// DefaultMonthlyFeeRate is 1/1200 per month (1% a year before compounding), truncated to 18 decimals
var DefaultMonthlyFeeRate = math.LegacyNewDecWithPrec(833333333333333, 18)

// Params defines the basket module parameters
type Params struct {
	MaxAssets         uint32         `json:"max_assets"`
	MinCreationAmount math.Int       `json:"min_creation_amount"`
	MonthlyFeeRate    math.LegacyDec `json:"monthly_fee_rate"`
}

// DefaultParams returns the default module parameters
func DefaultParams() Params {
	return Params{
		MaxAssets:         DefaultMaxAssets,
		MinCreationAmount: math.ZeroInt(),
		MonthlyFeeRate:    DefaultMonthlyFeeRate,
	}
}

// Validate checks parameter bounds
func (p Params) Validate() error {
	if p.MaxAssets < 2 {
		return errors.Wrapf(ErrInvalidParams, "max assets %d below 2", p.MaxAssets)
	}
	if p.MinCreationAmount.IsNil() || p.MinCreationAmount.IsNegative() {
		return errors.Wrap(ErrInvalidParams, "min creation amount must be non-negative")
	}
	if p.MonthlyFeeRate.IsNil() || p.MonthlyFeeRate.IsNegative() || p.MonthlyFeeRate.GTE(math.LegacyOneDec()) {
		return errors.Wrapf(ErrInvalidParams, "monthly fee rate %s outside [0, 1)", p.MonthlyFeeRate)
	}
	return nil
}

// GenesisState defines the basket module genesis state
type GenesisState struct {
	Params        Params         `json:"params"`
	Funds         []Fund         `json:"funds"`
	Ledgers       []Ledger       `json:"ledgers"`
	ClaimBalances []ClaimBalance `json:"claim_balances"`
	FundSequence  uint64         `json:"fund_sequence"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	funds := make(map[string]struct{}, len(gs.Funds))
	for _, f := range gs.Funds {
		if f.FundID == "" {
			return errors.Wrap(ErrEmptyStringParameter, "fund id")
		}
		if _, ok := funds[f.FundID]; ok {
			return fmt.Errorf("duplicate fund %s in genesis", f.FundID)
		}
		funds[f.FundID] = struct{}{}
	}

	supplies := make(map[string]math.Int, len(gs.Ledgers))
	for _, l := range gs.Ledgers {
		if _, ok := funds[l.FundID]; !ok {
			return errors.Wrapf(ErrFundNotFound, "ledger %s", l.FundID)
		}
		if _, ok := supplies[l.FundID]; ok {
			return errors.Wrapf(ErrInvalidGenesis, "duplicate ledger %s", l.FundID)
		}
		if _, err := sdk.AccAddressFromBech32(l.Owner); err != nil {
			return errors.Wrapf(ErrInvalidOwner, "ledger %s owner %q", l.FundID, l.Owner)
		}
		if len(l.Assets) == 0 {
			return errors.Wrapf(ErrInvalidToken, "ledger %s has no assets", l.FundID)
		}
		if len(l.Assets) != len(l.Reserves) {
			return errors.Wrapf(ErrInvalidLength, "ledger %s", l.FundID)
		}
		seen := make(map[string]struct{}, len(l.Assets))
		for i, denom := range l.Assets {
			if _, ok := seen[denom]; ok {
				return errors.Wrapf(ErrDuplicateToken, "ledger %s asset %s", l.FundID, denom)
			}
			seen[denom] = struct{}{}
			if l.Reserves[i].IsNil() || l.Reserves[i].IsNegative() {
				return errors.Wrapf(ErrInvalidGenesis, "ledger %s reserve of %s", l.FundID, denom)
			}
		}
		if l.TotalSupply.IsNil() || l.TotalSupply.IsNegative() {
			return errors.Wrapf(ErrInvalidGenesis, "ledger %s total supply", l.FundID)
		}
		if l.MonthlyFeeRate.IsNil() || l.MonthlyFeeRate.IsNegative() || l.MonthlyFeeRate.GTE(math.LegacyOneDec()) {
			return errors.Wrapf(ErrInvalidGenesis, "ledger %s monthly fee rate", l.FundID)
		}
		supplies[l.FundID] = l.TotalSupply
	}

	claimed := make(map[string]math.Int, len(supplies))
	for _, b := range gs.ClaimBalances {
		if _, ok := funds[b.FundID]; !ok {
			return errors.Wrapf(ErrFundNotFound, "claim balance for %s", b.FundID)
		}
		if _, err := sdk.AccAddressFromBech32(b.Holder); err != nil {
			return errors.Wrapf(ErrInvalidGenesis, "claim holder %q in %s", b.Holder, b.FundID)
		}
		if b.Amount.IsNil() || b.Amount.IsNegative() {
			return fmt.Errorf("negative claim balance for %s in %s", b.Holder, b.FundID)
		}
		if total, ok := claimed[b.FundID]; ok {
			claimed[b.FundID] = total.Add(b.Amount)
		} else {
			claimed[b.FundID] = b.Amount
		}
	}

	for fundID, supply := range supplies {
		total, ok := claimed[fundID]
		if !ok {
			total = math.ZeroInt()
		}
		if !total.Equal(supply) {
			return errors.Wrapf(ErrInvalidGenesis, "fund %s claim balances %s do not sum to supply %s", fundID, total, supply)
		}
	}
	for fundID, total := range claimed {
		if _, ok := supplies[fundID]; !ok && total.IsPositive() {
			return errors.Wrapf(ErrInvalidGenesis, "fund %s has claims but no ledger", fundID)
		}
	}
	return nil
}
