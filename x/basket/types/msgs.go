package types

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgCreateFund         = "create_fund"
	TypeMsgContribute         = "contribute"
	TypeMsgWithdraw           = "withdraw"
	TypeMsgWithdrawBase       = "withdraw_base"
	TypeMsgRebalance          = "rebalance"
	TypeMsgEmergencyStable    = "emergency_stable"
	TypeMsgClaimFee           = "claim_fee"
	TypeMsgDistributeMgmtFee  = "distribute_mgmt_fee"
	TypeMsgTransferManager    = "transfer_manager"
	TypeMsgTransferClaim      = "transfer_claim"
	TypeMsgUpdateFundMetadata = "update_fund_metadata"
)

func validateSigner(addr string) error {
	_, err := sdk.AccAddressFromBech32(addr)
	return err
}

func signers(addr string) []sdk.AccAddress {
	a, _ := sdk.AccAddressFromBech32(addr)
	return []sdk.AccAddress{a}
}

// ParseAmount parses a non-negative integer amount
func ParseAmount(s string) (math.Int, error) {
	amt, ok := math.NewIntFromString(s)
	if !ok {
		return math.Int{}, fmt.Errorf("invalid amount %q", s)
	}
	if amt.IsNegative() {
		return math.Int{}, fmt.Errorf("negative amount %s", s)
	}
	return amt, nil
}

// MsgCreateFund creates a fund and seeds it with the creator's base currency
type MsgCreateFund struct {
	Creator     string   `json:"creator"`
	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	ID          string   `json:"id"`
	ContractURI string   `json:"contract_uri,omitempty"`
	Description string   `json:"description,omitempty"`
	Assets      []string `json:"assets"`
	Weights     []uint32 `json:"weights"`
	Amount      string   `json:"amount"`
	Buffer      uint32   `json:"buffer"`
	Deadline    int64    `json:"deadline"`
}

// Route implements sdk.Msg
func (msg MsgCreateFund) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreateFund) Type() string { return TypeMsgCreateFund }

// ValidateBasic implements sdk.Msg
func (msg MsgCreateFund) ValidateBasic() error {
	if err := validateSigner(msg.Creator); err != nil {
		return err
	}
	if err := ValidateStrings(msg.Name, msg.Symbol, msg.ID); err != nil {
		return err
	}
	if len(msg.Assets) != len(msg.Weights) {
		return ErrInvalidLength
	}
	_, err := ParseAmount(msg.Amount)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgCreateFund) GetSigners() []sdk.AccAddress { return signers(msg.Creator) }

// ProtoMessage implements proto.Message
func (*MsgCreateFund) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgCreateFund
func (*MsgCreateFund) XXX_MessageName() string { return "basket.v1.MsgCreateFund" }

// Reset implements proto.Message
func (msg *MsgCreateFund) Reset() { *msg = MsgCreateFund{} }

// String implements proto.Message
func (msg MsgCreateFund) String() string {
	return fmt.Sprintf("MsgCreateFund{Creator: %s, Name: %s, Symbol: %s, Assets: %v, Weights: %v, Amount: %s}",
		msg.Creator, msg.Name, msg.Symbol, msg.Assets, msg.Weights, msg.Amount)
}

// MsgCreateFundResponse defines the CreateFund response
type MsgCreateFundResponse struct {
	FundID   string `json:"fund_id"`
	LPAmount string `json:"lp_amount"`
}

// MsgContribute buys into a fund with base currency
type MsgContribute struct {
	Contributor string `json:"contributor"`
	FundID      string `json:"fund_id"`
	Amount      string `json:"amount"`
	Buffer      uint32 `json:"buffer"`
	Deadline    int64  `json:"deadline"`
}

// Route implements sdk.Msg
func (msg MsgContribute) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgContribute) Type() string { return TypeMsgContribute }

// ValidateBasic implements sdk.Msg
func (msg MsgContribute) ValidateBasic() error {
	if err := validateSigner(msg.Contributor); err != nil {
		return err
	}
	if msg.FundID == "" {
		return ErrFundNotFound
	}
	_, err := ParseAmount(msg.Amount)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgContribute) GetSigners() []sdk.AccAddress { return signers(msg.Contributor) }

// ProtoMessage implements proto.Message
func (*MsgContribute) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgContribute
func (*MsgContribute) XXX_MessageName() string { return "basket.v1.MsgContribute" }

// Reset implements proto.Message
func (msg *MsgContribute) Reset() { *msg = MsgContribute{} }

// String implements proto.Message
func (msg MsgContribute) String() string {
	return fmt.Sprintf("MsgContribute{Contributor: %s, FundID: %s, Amount: %s}", msg.Contributor, msg.FundID, msg.Amount)
}

// MsgContributeResponse defines the Contribute response
type MsgContributeResponse struct {
	LPAmount string `json:"lp_amount"`
}

// MsgWithdraw redeems claim tokens for the underlying assets in kind
type MsgWithdraw struct {
	Holder   string `json:"holder"`
	FundID   string `json:"fund_id"`
	LPAmount string `json:"lp_amount"`
	Buffer   uint32 `json:"buffer"`
	Deadline int64  `json:"deadline"`
}

// Route implements sdk.Msg
func (msg MsgWithdraw) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgWithdraw) Type() string { return TypeMsgWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgWithdraw) ValidateBasic() error {
	if err := validateSigner(msg.Holder); err != nil {
		return err
	}
	if msg.FundID == "" {
		return ErrFundNotFound
	}
	_, err := ParseAmount(msg.LPAmount)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgWithdraw) GetSigners() []sdk.AccAddress { return signers(msg.Holder) }

// ProtoMessage implements proto.Message
func (*MsgWithdraw) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgWithdraw
func (*MsgWithdraw) XXX_MessageName() string { return "basket.v1.MsgWithdraw" }

// Reset implements proto.Message
func (msg *MsgWithdraw) Reset() { *msg = MsgWithdraw{} }

// String implements proto.Message
func (msg MsgWithdraw) String() string {
	return fmt.Sprintf("MsgWithdraw{Holder: %s, FundID: %s, LPAmount: %s}", msg.Holder, msg.FundID, msg.LPAmount)
}

// MsgWithdrawResponse defines the Withdraw response
type MsgWithdrawResponse struct {
	Assets  []string `json:"assets"`
	Amounts []string `json:"amounts"`
}

// MsgWithdrawBase redeems claim tokens for base currency
type MsgWithdrawBase struct {
	Holder   string `json:"holder"`
	FundID   string `json:"fund_id"`
	LPAmount string `json:"lp_amount"`
	Buffer   uint32 `json:"buffer"`
	Deadline int64  `json:"deadline"`
}

// Route implements sdk.Msg
func (msg MsgWithdrawBase) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgWithdrawBase) Type() string { return TypeMsgWithdrawBase }

// ValidateBasic implements sdk.Msg
func (msg MsgWithdrawBase) ValidateBasic() error {
	if err := validateSigner(msg.Holder); err != nil {
		return err
	}
	if msg.FundID == "" {
		return ErrFundNotFound
	}
	_, err := ParseAmount(msg.LPAmount)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgWithdrawBase) GetSigners() []sdk.AccAddress { return signers(msg.Holder) }

// ProtoMessage implements proto.Message
func (*MsgWithdrawBase) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgWithdrawBase
func (*MsgWithdrawBase) XXX_MessageName() string { return "basket.v1.MsgWithdrawBase" }

// Reset implements proto.Message
func (msg *MsgWithdrawBase) Reset() { *msg = MsgWithdrawBase{} }

// String implements proto.Message
func (msg MsgWithdrawBase) String() string {
	return fmt.Sprintf("MsgWithdrawBase{Holder: %s, FundID: %s, LPAmount: %s}", msg.Holder, msg.FundID, msg.LPAmount)
}

// MsgWithdrawBaseResponse defines the WithdrawBase response
type MsgWithdrawBaseResponse struct {
	Amount string `json:"amount"`
}

// MsgRebalance replaces a fund's allocation
type MsgRebalance struct {
	Manager  string   `json:"manager"`
	FundID   string   `json:"fund_id"`
	Assets   []string `json:"assets"`
	Weights  []uint32 `json:"weights"`
	Buffer   uint32   `json:"buffer"`
	Deadline int64    `json:"deadline"`
}

// Route implements sdk.Msg
func (msg MsgRebalance) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRebalance) Type() string { return TypeMsgRebalance }

// ValidateBasic implements sdk.Msg
func (msg MsgRebalance) ValidateBasic() error {
	if err := validateSigner(msg.Manager); err != nil {
		return err
	}
	if msg.FundID == "" {
		return ErrFundNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgRebalance) GetSigners() []sdk.AccAddress { return signers(msg.Manager) }

// ProtoMessage implements proto.Message
func (*MsgRebalance) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgRebalance
func (*MsgRebalance) XXX_MessageName() string { return "basket.v1.MsgRebalance" }

// Reset implements proto.Message
func (msg *MsgRebalance) Reset() { *msg = MsgRebalance{} }

// String implements proto.Message
func (msg MsgRebalance) String() string {
	return fmt.Sprintf("MsgRebalance{Manager: %s, FundID: %s, Assets: %v, Weights: %v}", msg.Manager, msg.FundID, msg.Assets, msg.Weights)
}

// MsgRebalanceResponse defines the Rebalance response
type MsgRebalanceResponse struct{}

// MsgEmergencyStable moves a fund into a two-asset defensive allocation
type MsgEmergencyStable struct {
	Manager  string   `json:"manager"`
	FundID   string   `json:"fund_id"`
	Assets   []string `json:"assets"`
	Weights  []uint32 `json:"weights"`
	Buffer   uint32   `json:"buffer"`
	Deadline int64    `json:"deadline"`
}

// Route implements sdk.Msg
func (msg MsgEmergencyStable) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgEmergencyStable) Type() string { return TypeMsgEmergencyStable }

// ValidateBasic implements sdk.Msg
func (msg MsgEmergencyStable) ValidateBasic() error {
	if err := validateSigner(msg.Manager); err != nil {
		return err
	}
	if msg.FundID == "" {
		return ErrFundNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgEmergencyStable) GetSigners() []sdk.AccAddress { return signers(msg.Manager) }

// ProtoMessage implements proto.Message
func (*MsgEmergencyStable) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgEmergencyStable
func (*MsgEmergencyStable) XXX_MessageName() string { return "basket.v1.MsgEmergencyStable" }

// Reset implements proto.Message
func (msg *MsgEmergencyStable) Reset() { *msg = MsgEmergencyStable{} }

// String implements proto.Message
func (msg MsgEmergencyStable) String() string {
	return fmt.Sprintf("MsgEmergencyStable{Manager: %s, FundID: %s, Assets: %v, Weights: %v}", msg.Manager, msg.FundID, msg.Assets, msg.Weights)
}

// MsgEmergencyStableResponse defines the EmergencyStable response
type MsgEmergencyStableResponse struct{}

// MsgClaimFee pays the accrued management fee to the manager
type MsgClaimFee struct {
	Manager     string `json:"manager"`
	FundID      string `json:"fund_id"`
	ExpectedFee string `json:"expected_fee"`
	Buffer      uint32 `json:"buffer"`
	Deadline    int64  `json:"deadline"`
}

// Route implements sdk.Msg
func (msg MsgClaimFee) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClaimFee) Type() string { return TypeMsgClaimFee }

// ValidateBasic implements sdk.Msg
func (msg MsgClaimFee) ValidateBasic() error {
	if err := validateSigner(msg.Manager); err != nil {
		return err
	}
	if msg.FundID == "" {
		return ErrFundNotFound
	}
	_, err := ParseAmount(msg.ExpectedFee)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgClaimFee) GetSigners() []sdk.AccAddress { return signers(msg.Manager) }

// ProtoMessage implements proto.Message
func (*MsgClaimFee) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgClaimFee
func (*MsgClaimFee) XXX_MessageName() string { return "basket.v1.MsgClaimFee" }

// Reset implements proto.Message
func (msg *MsgClaimFee) Reset() { *msg = MsgClaimFee{} }

// String implements proto.Message
func (msg MsgClaimFee) String() string {
	return fmt.Sprintf("MsgClaimFee{Manager: %s, FundID: %s, ExpectedFee: %s}", msg.Manager, msg.FundID, msg.ExpectedFee)
}

// MsgClaimFeeResponse defines the ClaimFee response
type MsgClaimFeeResponse struct {
	LPAmount string `json:"lp_amount"`
	Amount   string `json:"amount"`
}

// MsgDistributeMgmtFee accrues a fund's management fee. Anyone may send it.
type MsgDistributeMgmtFee struct {
	Sender string `json:"sender"`
	FundID string `json:"fund_id"`
}

// Route implements sdk.Msg
func (msg MsgDistributeMgmtFee) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgDistributeMgmtFee) Type() string { return TypeMsgDistributeMgmtFee }

// ValidateBasic implements sdk.Msg
func (msg MsgDistributeMgmtFee) ValidateBasic() error {
	if err := validateSigner(msg.Sender); err != nil {
		return err
	}
	if msg.FundID == "" {
		return ErrFundNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgDistributeMgmtFee) GetSigners() []sdk.AccAddress { return signers(msg.Sender) }

// ProtoMessage implements proto.Message
func (*MsgDistributeMgmtFee) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgDistributeMgmtFee
func (*MsgDistributeMgmtFee) XXX_MessageName() string { return "basket.v1.MsgDistributeMgmtFee" }

// Reset implements proto.Message
func (msg *MsgDistributeMgmtFee) Reset() { *msg = MsgDistributeMgmtFee{} }

// String implements proto.Message
func (msg MsgDistributeMgmtFee) String() string {
	return fmt.Sprintf("MsgDistributeMgmtFee{Sender: %s, FundID: %s}", msg.Sender, msg.FundID)
}

// MsgDistributeMgmtFeeResponse defines the DistributeMgmtFee response
type MsgDistributeMgmtFeeResponse struct {
	Months    int64  `json:"months"`
	FeeAmount string `json:"fee_amount"`
}

// MsgTransferManager hands the fund's ownership right to a new manager
type MsgTransferManager struct {
	Manager    string `json:"manager"`
	FundID     string `json:"fund_id"`
	NewManager string `json:"new_manager"`
}

// Route implements sdk.Msg
func (msg MsgTransferManager) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgTransferManager) Type() string { return TypeMsgTransferManager }

// ValidateBasic implements sdk.Msg
func (msg MsgTransferManager) ValidateBasic() error {
	if err := validateSigner(msg.Manager); err != nil {
		return err
	}
	if msg.FundID == "" {
		return ErrFundNotFound
	}
	if _, err := sdk.AccAddressFromBech32(msg.NewManager); err != nil {
		return ErrInvalidRecipient
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgTransferManager) GetSigners() []sdk.AccAddress { return signers(msg.Manager) }

// ProtoMessage implements proto.Message
func (*MsgTransferManager) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgTransferManager
func (*MsgTransferManager) XXX_MessageName() string { return "basket.v1.MsgTransferManager" }

// Reset implements proto.Message
func (msg *MsgTransferManager) Reset() { *msg = MsgTransferManager{} }

// String implements proto.Message
func (msg MsgTransferManager) String() string {
	return fmt.Sprintf("MsgTransferManager{Manager: %s, FundID: %s, NewManager: %s}", msg.Manager, msg.FundID, msg.NewManager)
}

// MsgTransferManagerResponse defines the TransferManager response
type MsgTransferManagerResponse struct{}

// MsgTransferClaim moves claim tokens between holders
type MsgTransferClaim struct {
	From   string `json:"from"`
	FundID string `json:"fund_id"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgTransferClaim) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgTransferClaim) Type() string { return TypeMsgTransferClaim }

// ValidateBasic implements sdk.Msg
func (msg MsgTransferClaim) ValidateBasic() error {
	if err := validateSigner(msg.From); err != nil {
		return err
	}
	if msg.FundID == "" {
		return ErrFundNotFound
	}
	if _, err := sdk.AccAddressFromBech32(msg.To); err != nil {
		return ErrInvalidRecipient
	}
	_, err := ParseAmount(msg.Amount)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgTransferClaim) GetSigners() []sdk.AccAddress { return signers(msg.From) }

// ProtoMessage implements proto.Message
func (*MsgTransferClaim) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgTransferClaim
func (*MsgTransferClaim) XXX_MessageName() string { return "basket.v1.MsgTransferClaim" }

// Reset implements proto.Message
func (msg *MsgTransferClaim) Reset() { *msg = MsgTransferClaim{} }

// String implements proto.Message
func (msg MsgTransferClaim) String() string {
	return fmt.Sprintf("MsgTransferClaim{From: %s, FundID: %s, To: %s, Amount: %s}", msg.From, msg.FundID, msg.To, msg.Amount)
}

// MsgTransferClaimResponse defines the TransferClaim response
type MsgTransferClaimResponse struct{}

// MsgUpdateFundMetadata updates a fund's descriptive metadata
type MsgUpdateFundMetadata struct {
	Manager     string `json:"manager"`
	FundID      string `json:"fund_id"`
	ContractURI string `json:"contract_uri"`
	Description string `json:"description"`
}

// Route implements sdk.Msg
func (msg MsgUpdateFundMetadata) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUpdateFundMetadata) Type() string { return TypeMsgUpdateFundMetadata }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateFundMetadata) ValidateBasic() error {
	if err := validateSigner(msg.Manager); err != nil {
		return err
	}
	if msg.FundID == "" {
		return ErrFundNotFound
	}
	return ValidateStrings(msg.ContractURI, msg.Description)
}

// GetSigners implements sdk.Msg
func (msg MsgUpdateFundMetadata) GetSigners() []sdk.AccAddress { return signers(msg.Manager) }

// ProtoMessage implements proto.Message
func (*MsgUpdateFundMetadata) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgUpdateFundMetadata
func (*MsgUpdateFundMetadata) XXX_MessageName() string { return "basket.v1.MsgUpdateFundMetadata" }

// Reset implements proto.Message
func (msg *MsgUpdateFundMetadata) Reset() { *msg = MsgUpdateFundMetadata{} }

// String implements proto.Message
func (msg MsgUpdateFundMetadata) String() string {
	return fmt.Sprintf("MsgUpdateFundMetadata{Manager: %s, FundID: %s}", msg.Manager, msg.FundID)
}

// MsgUpdateFundMetadataResponse defines the UpdateFundMetadata response
type MsgUpdateFundMetadataResponse struct{}

// Ensure all messages implement sdk.Msg interface
var (
	_ sdk.Msg = &MsgCreateFund{}
	_ sdk.Msg = &MsgContribute{}
	_ sdk.Msg = &MsgWithdraw{}
	_ sdk.Msg = &MsgWithdrawBase{}
	_ sdk.Msg = &MsgRebalance{}
	_ sdk.Msg = &MsgEmergencyStable{}
	_ sdk.Msg = &MsgClaimFee{}
	_ sdk.Msg = &MsgDistributeMgmtFee{}
	_ sdk.Msg = &MsgTransferManager{}
	_ sdk.Msg = &MsgTransferClaim{}
	_ sdk.Msg = &MsgUpdateFundMetadata{}
)

// MsgServer defines the basket module's message service
type MsgServer interface {
	CreateFund(context.Context, *MsgCreateFund) (*MsgCreateFundResponse, error)
	Contribute(context.Context, *MsgContribute) (*MsgContributeResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
	WithdrawBase(context.Context, *MsgWithdrawBase) (*MsgWithdrawBaseResponse, error)
	Rebalance(context.Context, *MsgRebalance) (*MsgRebalanceResponse, error)
	EmergencyStable(context.Context, *MsgEmergencyStable) (*MsgEmergencyStableResponse, error)
	ClaimFee(context.Context, *MsgClaimFee) (*MsgClaimFeeResponse, error)
	DistributeMgmtFee(context.Context, *MsgDistributeMgmtFee) (*MsgDistributeMgmtFeeResponse, error)
	TransferManager(context.Context, *MsgTransferManager) (*MsgTransferManagerResponse, error)
	TransferClaim(context.Context, *MsgTransferClaim) (*MsgTransferClaimResponse, error)
	UpdateFundMetadata(context.Context, *MsgUpdateFundMetadata) (*MsgUpdateFundMetadataResponse, error)
}
