package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/basket-fund/x/basket/types"
)

const (
	FlagBuffer      = "buffer"
	FlagDeadline    = "deadline"
	FlagContractURI = "contract-uri"
	FlagDescription = "description"

	defaultBuffer   = 100
	defaultDeadline = 20 * time.Minute
)

// GetTxCmd returns the transaction commands for the basket module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Basket fund transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdCreateFund(),
		CmdContribute(),
		CmdWithdraw(),
		CmdWithdrawBase(),
		CmdRebalance(),
		CmdEmergencyStable(),
		CmdClaimFee(),
		CmdDistributeMgmtFee(),
		CmdTransferManager(),
		CmdTransferClaim(),
		CmdUpdateFundMetadata(),
	)

	return cmd
}

func addExecutionFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32(FlagBuffer, defaultBuffer, "Maximum conversion slippage in basis points (1-4999)")
	cmd.Flags().Int64(FlagDeadline, 0, "Unix deadline; defaults to 20 minutes from now")
}

func executionParams(cmd *cobra.Command) (uint32, int64, error) {
	buffer, err := cmd.Flags().GetUint32(FlagBuffer)
	if err != nil {
		return 0, 0, err
	}
	deadline, err := cmd.Flags().GetInt64(FlagDeadline)
	if err != nil {
		return 0, 0, err
	}
	if deadline == 0 {
		deadline = time.Now().Add(defaultDeadline).Unix()
	}
	return buffer, deadline, nil
}

// ParseAllocation parses "denom:weight,denom:weight" into parallel slices
func ParseAllocation(s string) ([]string, []uint32, error) {
	var (
		denoms  []string
		weights []uint32
	)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pair := strings.SplitN(part, ":", 2)
		if len(pair) != 2 {
			return nil, nil, fmt.Errorf("invalid allocation entry %q, expected denom:weight", part)
		}
		w, err := strconv.ParseUint(pair[1], 10, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid weight for %s: %v", pair[0], err)
		}
		denoms = append(denoms, pair[0])
		weights = append(weights, uint32(w))
	}
	if len(denoms) == 0 {
		return nil, nil, fmt.Errorf("empty allocation")
	}
	return denoms, weights, nil
}

// CmdCreateFund returns the command to create a fund
func CmdCreateFund() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-fund [name] [symbol] [id] [allocation] [amount]",
		Short: "Create a basket fund seeded with base currency",
		Long:  "Allocation is a comma separated list of denom:weight_bp pairs summing to 10000, e.g. uusdc:3000,aatom:7000",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			denoms, weights, err := ParseAllocation(args[3])
			if err != nil {
				return err
			}
			buffer, deadline, err := executionParams(cmd)
			if err != nil {
				return err
			}
			contractURI, _ := cmd.Flags().GetString(FlagContractURI)
			description, _ := cmd.Flags().GetString(FlagDescription)

			msg := &types.MsgCreateFund{
				Creator:     clientCtx.GetFromAddress().String(),
				Name:        args[0],
				Symbol:      args[1],
				ID:          args[2],
				ContractURI: contractURI,
				Description: description,
				Assets:      denoms,
				Weights:     weights,
				Amount:      args[4],
				Buffer:      buffer,
				Deadline:    deadline,
			}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	addExecutionFlags(cmd)
	cmd.Flags().String(FlagContractURI, "", "Fund metadata URI")
	cmd.Flags().String(FlagDescription, "", "Fund description")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdContribute returns the command to contribute base currency to a fund
func CmdContribute() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contribute [fund-id] [amount]",
		Short: "Contribute base currency to a fund",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			buffer, deadline, err := executionParams(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgContribute{
				Contributor: clientCtx.GetFromAddress().String(),
				FundID:      args[0],
				Amount:      args[1],
				Buffer:      buffer,
				Deadline:    deadline,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	addExecutionFlags(cmd)
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdraw returns the command to redeem claim tokens in kind
func CmdWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [fund-id] [lp-amount]",
		Short: "Redeem claim tokens for the underlying assets",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			buffer, deadline, err := executionParams(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgWithdraw{
				Holder:   clientCtx.GetFromAddress().String(),
				FundID:   args[0],
				LPAmount: args[1],
				Buffer:   buffer,
				Deadline: deadline,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	addExecutionFlags(cmd)
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdrawBase returns the command to redeem claim tokens for base currency
func CmdWithdrawBase() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw-base [fund-id] [lp-amount]",
		Short: "Redeem claim tokens for base currency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			buffer, deadline, err := executionParams(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgWithdrawBase{
				Holder:   clientCtx.GetFromAddress().String(),
				FundID:   args[0],
				LPAmount: args[1],
				Buffer:   buffer,
				Deadline: deadline,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	addExecutionFlags(cmd)
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRebalance returns the command to rebalance a fund
func CmdRebalance() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebalance [fund-id] [allocation]",
		Short: "Move a fund into a new weighted allocation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			denoms, weights, err := ParseAllocation(args[1])
			if err != nil {
				return err
			}
			buffer, deadline, err := executionParams(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgRebalance{
				Manager:  clientCtx.GetFromAddress().String(),
				FundID:   args[0],
				Assets:   denoms,
				Weights:  weights,
				Buffer:   buffer,
				Deadline: deadline,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	addExecutionFlags(cmd)
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdEmergencyStable returns the command to move a fund into a two-asset allocation
func CmdEmergencyStable() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emergency-stable [fund-id] [allocation]",
		Short: "Move a fund into a two-asset defensive allocation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			denoms, weights, err := ParseAllocation(args[1])
			if err != nil {
				return err
			}
			buffer, deadline, err := executionParams(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgEmergencyStable{
				Manager:  clientCtx.GetFromAddress().String(),
				FundID:   args[0],
				Assets:   denoms,
				Weights:  weights,
				Buffer:   buffer,
				Deadline: deadline,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	addExecutionFlags(cmd)
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClaimFee returns the command to claim the accrued management fee
func CmdClaimFee() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim-fee [fund-id] [expected-fee]",
		Short: "Claim the accrued management fee in base currency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			buffer, deadline, err := executionParams(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgClaimFee{
				Manager:     clientCtx.GetFromAddress().String(),
				FundID:      args[0],
				ExpectedFee: args[1],
				Buffer:      buffer,
				Deadline:    deadline,
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	addExecutionFlags(cmd)
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdDistributeMgmtFee returns the command to accrue a fund's management fee
func CmdDistributeMgmtFee() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distribute-mgmt-fee [fund-id]",
		Short: "Accrue the management fee of a fund",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgDistributeMgmtFee{
				Sender: clientCtx.GetFromAddress().String(),
				FundID: args[0],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdTransferManager returns the command to hand over a fund
func CmdTransferManager() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer-manager [fund-id] [new-manager]",
		Short: "Transfer the fund's ownership right",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgTransferManager{
				Manager:    clientCtx.GetFromAddress().String(),
				FundID:     args[0],
				NewManager: args[1],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdTransferClaim returns the command to send claim tokens
func CmdTransferClaim() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer-claim [fund-id] [to] [amount]",
		Short: "Send claim tokens to another account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgTransferClaim{
				From:   clientCtx.GetFromAddress().String(),
				FundID: args[0],
				To:     args[1],
				Amount: args[2],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdateFundMetadata returns the command to update fund metadata
func CmdUpdateFundMetadata() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-metadata [fund-id] [contract-uri] [description]",
		Short: "Update the fund's metadata URI and description",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgUpdateFundMetadata{
				Manager:     clientCtx.GetFromAddress().String(),
				FundID:      args[0],
				ContractURI: args[1],
				Description: args[2],
			}
			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
