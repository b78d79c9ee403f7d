package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterLegacyAminoCodec registers the module's messages on the given LegacyAmino codec
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgCreateFund{}, "basket/MsgCreateFund", nil)
	cdc.RegisterConcrete(&MsgContribute{}, "basket/MsgContribute", nil)
	cdc.RegisterConcrete(&MsgWithdraw{}, "basket/MsgWithdraw", nil)
	cdc.RegisterConcrete(&MsgWithdrawBase{}, "basket/MsgWithdrawBase", nil)
	cdc.RegisterConcrete(&MsgRebalance{}, "basket/MsgRebalance", nil)
	cdc.RegisterConcrete(&MsgEmergencyStable{}, "basket/MsgEmergencyStable", nil)
	cdc.RegisterConcrete(&MsgClaimFee{}, "basket/MsgClaimFee", nil)
	cdc.RegisterConcrete(&MsgDistributeMgmtFee{}, "basket/MsgDistributeMgmtFee", nil)
	cdc.RegisterConcrete(&MsgTransferManager{}, "basket/MsgTransferManager", nil)
	cdc.RegisterConcrete(&MsgTransferClaim{}, "basket/MsgTransferClaim", nil)
	cdc.RegisterConcrete(&MsgUpdateFundMetadata{}, "basket/MsgUpdateFundMetadata", nil)
}

// RegisterInterfaces registers the module's interface types
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgCreateFund{},
		&MsgContribute{},
		&MsgWithdraw{},
		&MsgWithdrawBase{},
		&MsgRebalance{},
		&MsgEmergencyStable{},
		&MsgClaimFee{},
		&MsgDistributeMgmtFee{},
		&MsgTransferManager{},
		&MsgTransferClaim{},
		&MsgUpdateFundMetadata{},
	)
}
