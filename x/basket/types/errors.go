package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	// Configuration errors
	ErrInvalidLength                = errors.Register(ModuleName, 2, "invalid length")
	ErrInvalidWeight                = errors.Register(ModuleName, 3, "weights must sum to 10000 basis points")
	ErrZeroTokenWeight              = errors.Register(ModuleName, 4, "token weight must be greater than zero")
	ErrDuplicateToken               = errors.Register(ModuleName, 5, "duplicate token")
	ErrInvalidContractAddress       = errors.Register(ModuleName, 6, "invalid asset")
	ErrNoAnchorAssetIncluded        = errors.Register(ModuleName, 7, "anchor asset not included")
	ErrInsufficientAnchorPercentage = errors.Register(ModuleName, 8, "anchor asset weight below minimum")
	ErrInvalidTokensAndWeights      = errors.Register(ModuleName, 9, "empty tokens and weights")
	ErrEmptyStringParameter         = errors.Register(ModuleName, 10, "empty string parameter")
	ErrInvalidEmergencyParams       = errors.Register(ModuleName, 11, "emergency configuration must have exactly two assets")
	ErrInvalidToken                 = errors.Register(ModuleName, 12, "invalid token list")
	ErrTooManyAssets                = errors.Register(ModuleName, 13, "too many assets")
	ErrInsufficientCreationAmount   = errors.Register(ModuleName, 14, "creation amount below minimum")

	// Authorization errors
	ErrInvalidOwner = errors.Register(ModuleName, 20, "caller is not the owner")

	// Temporal errors
	ErrDeadlineInPast = errors.Register(ModuleName, 30, "deadline has passed")

	// State errors
	ErrInsufficientLiquidity   = errors.Register(ModuleName, 40, "insufficient liquidity")
	ErrInvalidWithdrawalAmount = errors.Register(ModuleName, 41, "invalid withdrawal amount")
	ErrZeroContributionAmount  = errors.Register(ModuleName, 42, "zero contribution amount")
	ErrInvalidRecipient        = errors.Register(ModuleName, 43, "invalid recipient")
	ErrTokenIndexOutOfBounds   = errors.Register(ModuleName, 44, "token index out of bounds")
	ErrInvalidBuffer           = errors.Register(ModuleName, 45, "buffer must be between 0 and 5000 basis points exclusive")
	ErrFundNotFound            = errors.Register(ModuleName, 46, "fund not found")
	ErrLedgerAlreadyExists     = errors.Register(ModuleName, 47, "ledger already initialized")
	ErrInsufficientBalance     = errors.Register(ModuleName, 48, "insufficient claim balance")
	ErrFeeBelowExpected        = errors.Register(ModuleName, 49, "accrued fee below expected amount")
	ErrInvalidParams           = errors.Register(ModuleName, 50, "invalid params")
	ErrInvalidGenesis          = errors.Register(ModuleName, 51, "invalid genesis state")

	// Reentrancy
	ErrReentrantCall = errors.Register(ModuleName, 60, "reentrant call")
)
