package types

import (
	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AssetRules are the registry and param limits a configuration is checked against
type AssetRules struct {
	AnchorDenom    string
	MinAnchorBp    uint32
	MaxAssets      uint32
	IsAssetAllowed func(denom string) bool
}

// ValidateConfiguration checks a target allocation. The order of checks is part of
// the contract: callers rely on which error surfaces first.
func ValidateConfiguration(denoms []string, weights []uint32, rules AssetRules) error {
	if len(denoms) != len(weights) {
		return errors.Wrapf(ErrInvalidLength, "%d assets, %d weights", len(denoms), len(weights))
	}
	if len(denoms) == 0 {
		return ErrInvalidTokensAndWeights
	}
	if rules.MaxAssets > 0 && uint32(len(denoms)) > rules.MaxAssets {
		return errors.Wrapf(ErrTooManyAssets, "%d > %d", len(denoms), rules.MaxAssets)
	}

	for _, denom := range denoms {
		if denom == "" || sdk.ValidateDenom(denom) != nil {
			return errors.Wrapf(ErrInvalidContractAddress, "denom %q", denom)
		}
		if rules.IsAssetAllowed != nil && !rules.IsAssetAllowed(denom) {
			return errors.Wrapf(ErrInvalidContractAddress, "denom %s is not a listed asset", denom)
		}
	}

	seen := make(map[string]struct{}, len(denoms))
	for _, denom := range denoms {
		if _, ok := seen[denom]; ok {
			return errors.Wrap(ErrDuplicateToken, denom)
		}
		seen[denom] = struct{}{}
	}

	var total uint64
	for i, w := range weights {
		if w == 0 {
			return errors.Wrap(ErrZeroTokenWeight, denoms[i])
		}
		total += uint64(w)
	}
	if total != uint64(BasisPoints) {
		return errors.Wrapf(ErrInvalidWeight, "sum %d", total)
	}

	anchor := -1
	for i, denom := range denoms {
		if denom == rules.AnchorDenom {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return errors.Wrap(ErrNoAnchorAssetIncluded, rules.AnchorDenom)
	}
	if weights[anchor] < rules.MinAnchorBp {
		return errors.Wrapf(ErrInsufficientAnchorPercentage, "%d < %d", weights[anchor], rules.MinAnchorBp)
	}
	return nil
}

// ValidateBuffer requires 0 < buffer < MaxBuffer
func ValidateBuffer(buffer uint32) error {
	if buffer == 0 || buffer >= MaxBuffer {
		return errors.Wrapf(ErrInvalidBuffer, "buffer %d", buffer)
	}
	return nil
}

// ValidateDeadline fails once now is past the deadline
func ValidateDeadline(now, deadline int64) error {
	if now > deadline {
		return errors.Wrapf(ErrDeadlineInPast, "deadline %d, now %d", deadline, now)
	}
	return nil
}

// ValidateStrings fails on the first empty value
func ValidateStrings(values ...string) error {
	for _, v := range values {
		if v == "" {
			return ErrEmptyStringParameter
		}
	}
	return nil
}
