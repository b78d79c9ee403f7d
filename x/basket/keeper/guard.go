package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/metrics"
	"github.com/openalpha/basket-fund/x/basket/types"
)

// guardedKey marks a context derived from a guarded branch
type guardedKey struct{}

func isGuarded(ctx sdk.Context) bool {
	return ctx.Value(guardedKey{}) != nil
}

// nonReentrant runs fn on a cached branch of ctx while holding the fund's busy flag.
// The branch, events included, is written back only when fn succeeds. A nested call
// that reaches the keeper through the branch sees the flag and fails with ErrReentrantCall.
func (k *Keeper) nonReentrant(ctx sdk.Context, fundID, operation string, fn func(ctx sdk.Context) error) error {
	if k.isLocked(ctx, fundID) {
		k.metrics.RecordReentrancyRejected(operation)
		k.logger.Warn("Rejected reentrant call", "fund_id", fundID, "operation", operation)
		return types.ErrReentrantCall.Wrapf("%s on fund %s", operation, fundID)
	}

	timer := metrics.NewTimer()
	cacheCtx, write := ctx.CacheContext()
	cacheCtx = cacheCtx.WithValue(guardedKey{}, fundID)
	k.setLocked(cacheCtx, fundID, true)
	err := fn(cacheCtx)
	k.setLocked(cacheCtx, fundID, false)
	if err != nil {
		k.metrics.RecordOperation(operation, false, timer.ElapsedMs())
		return err
	}

	write()
	k.metrics.RecordOperation(operation, true, timer.ElapsedMs())
	// nested branches land in the outermost one, which records them once
	if !isGuarded(ctx) {
		k.recordCommitted(cacheCtx.EventManager().Events())
	}
	return nil
}

// recordCommitted feeds fee metrics from the events of a written branch
func (k *Keeper) recordCommitted(events sdk.Events) {
	for _, e := range events {
		switch e.Type {
		case types.EventTypePlatformFeeDeducted:
			k.metrics.RecordPlatformFee(
				attrValue(e, types.AttributeKeyAction),
				attrValue(e, types.AttributeKeyAsset),
				toFloat(attrAmount(e, types.AttributeKeyFeeAmount)),
			)
		case types.EventTypeManagementFeeAccrued:
			k.metrics.RecordManagementFee(
				attrValue(e, types.AttributeKeyFundID),
				toFloat(attrAmount(e, types.AttributeKeyFeeAmount)),
			)
		}
	}
}

func attrValue(e sdk.Event, key string) string {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

func attrAmount(e sdk.Event, key string) math.Int {
	amount, ok := math.NewIntFromString(attrValue(e, key))
	if !ok {
		return math.ZeroInt()
	}
	return amount
}

// toFloat converts an amount for metrics only
func toFloat(amount math.Int) float64 {
	if amount.IsNil() {
		return 0
	}
	f, err := amount.ToLegacyDec().Float64()
	if err != nil {
		return 0
	}
	return f
}
