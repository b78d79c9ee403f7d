package keeper

import (
	"encoding/binary"
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/metrics"
	"github.com/openalpha/basket-fund/x/basket/types"
)

// Keeper manages the basket module state: fund controllers, reserve ledgers and claim balances
type Keeper struct {
	storeKey   storetypes.StoreKey
	bankKeeper types.BankKeeper
	registry   types.Registry
	router     types.Router
	logger     log.Logger
	authority  string
	metrics    *metrics.Collector
}

// NewKeeper creates a new basket keeper
func NewKeeper(
	storeKey storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	registry types.Registry,
	router types.Router,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		storeKey:   storeKey,
		bankKeeper: bankKeeper,
		registry:   registry,
		router:     router,
		authority:  authority,
		logger:     logger.With("module", "x/basket"),
		metrics:    metrics.GetCollector(),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the governance authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Params ============

// GetParams returns the module params, or the defaults if none were set
func (k *Keeper) GetParams(ctx sdk.Context) types.Params {
	bz := k.GetStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.DefaultParams()
	}
	return params
}

// SetParams validates and stores the module params
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(params)
	if err != nil {
		return err
	}
	k.GetStore(ctx).Set(types.ParamsKey, bz)
	return nil
}

// ============ Fund Operations ============

// SetFund saves a fund to the store
func (k *Keeper) SetFund(ctx sdk.Context, fund *types.Fund) {
	bz, _ := json.Marshal(fund)
	k.GetStore(ctx).Set(types.FundKey(fund.FundID), bz)
}

// GetFund retrieves a fund from the store
func (k *Keeper) GetFund(ctx sdk.Context, fundID string) *types.Fund {
	bz := k.GetStore(ctx).Get(types.FundKey(fundID))
	if bz == nil {
		return nil
	}
	var fund types.Fund
	if err := json.Unmarshal(bz, &fund); err != nil {
		return nil
	}
	return &fund
}

// mustGetFund returns the fund or ErrFundNotFound
func (k *Keeper) mustGetFund(ctx sdk.Context, fundID string) (*types.Fund, error) {
	fund := k.GetFund(ctx, fundID)
	if fund == nil {
		return nil, types.ErrFundNotFound.Wrap(fundID)
	}
	return fund, nil
}

// GetAllFunds returns all funds
func (k *Keeper) GetAllFunds(ctx sdk.Context) []*types.Fund {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.FundKeyPrefix)
	defer iterator.Close()

	var funds []*types.Fund
	for ; iterator.Valid(); iterator.Next() {
		var fund types.Fund
		if err := json.Unmarshal(iterator.Value(), &fund); err != nil {
			continue
		}
		funds = append(funds, &fund)
	}
	return funds
}

func (k *Keeper) getFundSequence(ctx sdk.Context) uint64 {
	bz := k.GetStore(ctx).Get(types.FundSequenceKey)
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (k *Keeper) setFundSequence(ctx sdk.Context, seq uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, seq)
	k.GetStore(ctx).Set(types.FundSequenceKey, bz)
}

// ============ Ledger Operations ============

// SetLedger saves a ledger to the store
func (k *Keeper) SetLedger(ctx sdk.Context, ledger *types.Ledger) {
	bz, _ := json.Marshal(ledger)
	k.GetStore(ctx).Set(types.LedgerKey(ledger.FundID), bz)
}

// GetLedger retrieves a ledger from the store
func (k *Keeper) GetLedger(ctx sdk.Context, fundID string) *types.Ledger {
	bz := k.GetStore(ctx).Get(types.LedgerKey(fundID))
	if bz == nil {
		return nil
	}
	var ledger types.Ledger
	if err := json.Unmarshal(bz, &ledger); err != nil {
		return nil
	}
	return &ledger
}

func (k *Keeper) mustGetLedger(ctx sdk.Context, fundID string) (*types.Ledger, error) {
	ledger := k.GetLedger(ctx, fundID)
	if ledger == nil {
		return nil, types.ErrFundNotFound.Wrapf("ledger %s", fundID)
	}
	return ledger, nil
}

// GetAllLedgers returns all ledgers
func (k *Keeper) GetAllLedgers(ctx sdk.Context) []*types.Ledger {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.LedgerKeyPrefix)
	defer iterator.Close()

	var ledgers []*types.Ledger
	for ; iterator.Valid(); iterator.Next() {
		var ledger types.Ledger
		if err := json.Unmarshal(iterator.Value(), &ledger); err != nil {
			continue
		}
		ledgers = append(ledgers, &ledger)
	}
	return ledgers
}

// ============ Claim Balances ============

// GetClaimBalance returns a holder's claim token balance
func (k *Keeper) GetClaimBalance(ctx sdk.Context, fundID string, holder sdk.AccAddress) math.Int {
	bz := k.GetStore(ctx).Get(types.ClaimBalanceKey(fundID, holder))
	if bz == nil {
		return math.ZeroInt()
	}
	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		return math.ZeroInt()
	}
	return amount
}

func (k *Keeper) setClaimBalance(ctx sdk.Context, fundID string, holder sdk.AccAddress, amount math.Int) {
	store := k.GetStore(ctx)
	key := types.ClaimBalanceKey(fundID, holder)
	if amount.IsZero() {
		store.Delete(key)
		return
	}
	bz, _ := amount.Marshal()
	store.Set(key, bz)
}

// GetAllClaimBalances returns every non-zero claim balance of a fund
func (k *Keeper) GetAllClaimBalances(ctx sdk.Context, fundID string) []types.ClaimBalance {
	prefix := types.ClaimBalancePrefix(fundID)
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), prefix)
	defer iterator.Close()

	var balances []types.ClaimBalance
	for ; iterator.Valid(); iterator.Next() {
		var amount math.Int
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			continue
		}
		holder := sdk.AccAddress(iterator.Key()[len(prefix):])
		balances = append(balances, types.ClaimBalance{
			FundID: fundID,
			Holder: holder.String(),
			Amount: amount,
		})
	}
	return balances
}

// ============ Reentrancy Lock ============

func (k *Keeper) isLocked(ctx sdk.Context, fundID string) bool {
	return k.GetStore(ctx).Has(types.LockKey(fundID))
}

func (k *Keeper) setLocked(ctx sdk.Context, fundID string, locked bool) {
	store := k.GetStore(ctx)
	if locked {
		store.Set(types.LockKey(fundID), []byte{1})
		return
	}
	store.Delete(types.LockKey(fundID))
}
