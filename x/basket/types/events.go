package types

// Event types
const (
	EventTypeFundCreated          = "basket_fund_created"
	EventTypeContributionRecorded = "basket_contribution_recorded"
	EventTypeWithdrawalRecorded   = "basket_withdrawal_recorded"
	EventTypeRebalanceRecorded    = "basket_rebalance_recorded"
	EventTypePlatformFeeDeducted  = "basket_platform_fee_deducted"
	EventTypeManagementFeeAccrued = "basket_management_fee_accrued"
	EventTypeManagementFeeClaimed = "basket_management_fee_claimed"
	EventTypeManagerTransferred   = "basket_manager_transferred"
	EventTypeClaimTransferred     = "basket_claim_transferred"
	EventTypeFundMetadataUpdated  = "basket_fund_metadata_updated"
	EventTypeEndBlock             = "basket_endblock"
)

// Event attribute keys
const (
	AttributeKeyFundID       = "fund_id"
	AttributeKeyContributor  = "contributor"
	AttributeKeyHolder       = "holder"
	AttributeKeyManager      = "manager"
	AttributeKeyNewManager   = "new_manager"
	AttributeKeyCreator      = "creator"
	AttributeKeyAmount       = "amount"
	AttributeKeyAmounts      = "amounts"
	AttributeKeyAssets       = "assets"
	AttributeKeyOldAssets    = "old_assets"
	AttributeKeyOldWeights   = "old_weights"
	AttributeKeyNewAssets    = "new_assets"
	AttributeKeyNewWeights   = "new_weights"
	AttributeKeyFeeAmount    = "fee_amount"
	AttributeKeyFeeRateBp    = "fee_rate_bp"
	AttributeKeyFeeCollector = "fee_collector"
	AttributeKeyAsset        = "asset"
	AttributeKeyAction       = "action"
	AttributeKeyLPAmount     = "lp_amount"
	AttributeKeyValue        = "value"
	AttributeKeyMonths       = "months"
	AttributeKeyFrom         = "from"
	AttributeKeyTo           = "to"
	AttributeKeyBlockHeight  = "block_height"
	AttributeKeyDurationMs   = "duration_ms"
	AttributeKeyFundsAccrued = "funds_accrued"
)
