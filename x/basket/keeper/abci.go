package keeper

import (
	"strconv"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

// EndBlocker accrues the management fee of every fund with at least one whole month
// outstanding. Each fund accrues on its own cached branch, so a failing fund is skipped.
func (k *Keeper) EndBlocker(ctx sdk.Context) error {
	start := time.Now()
	now := ctx.BlockTime().Unix()

	ledgers := k.GetAllLedgers(ctx)
	accrued := 0
	for _, ledger := range ledgers {
		if types.ElapsedMonths(ledger.LastAccrualAt, now) == 0 {
			continue
		}

		if _, err := k.DistMgmtFee(ctx, ledger.FundID); err != nil {
			k.logger.Error("Management fee accrual failed", "fund_id", ledger.FundID, "error", err)
			continue
		}
		accrued++

		if updated := k.GetLedger(ctx, ledger.FundID); updated != nil {
			if value, err := k.TotalReserveValue(ctx, updated); err == nil {
				k.metrics.RecordFundState(ledger.FundID, toFloat(value), toFloat(updated.TotalSupply))
			}
		}
	}

	duration := time.Since(start)
	k.metrics.RecordEndBlock(float64(duration.Microseconds())/1000.0, len(ledgers), accrued)
	k.logger.Debug("Basket EndBlocker completed",
		"block", ctx.BlockHeight(),
		"total_ms", duration.Milliseconds(),
		"funds", len(ledgers),
		"funds_accrued", accrued,
	)

	if accrued > 0 {
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeEndBlock,
				sdk.NewAttribute(types.AttributeKeyBlockHeight, strconv.FormatInt(ctx.BlockHeight(), 10)),
				sdk.NewAttribute(types.AttributeKeyFundsAccrued, strconv.Itoa(accrued)),
			),
		)
	}
	return nil
}
