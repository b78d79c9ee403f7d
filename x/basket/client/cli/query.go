package cli

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/basket-fund/x/basket/types"
)

// GetQueryCmd returns the cli query commands for the basket module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the basket module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryParams(),
		CmdQueryFund(),
		CmdQueryLedger(),
		CmdQueryClaimBalance(),
	)

	return cmd
}

// queryRaw reads a raw value from the basket store
func queryRaw(cmd *cobra.Command, key []byte) ([]byte, error) {
	clientCtx, err := client.GetClientQueryContext(cmd)
	if err != nil {
		return nil, err
	}
	bz, _, err := clientCtx.QueryStore(key, types.StoreKey)
	return bz, err
}

func printJSON(v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

// CmdQueryParams returns the command to query module params
func CmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query basket module parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := queryRaw(cmd, types.ParamsKey)
			if err != nil {
				return err
			}
			params := types.DefaultParams()
			if bz != nil {
				if err := json.Unmarshal(bz, &params); err != nil {
					return err
				}
			}
			return printJSON(params)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryFund returns the command to query a fund
func CmdQueryFund() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund [fund-id]",
		Short: "Query a fund's configuration and manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := queryRaw(cmd, types.FundKey(args[0]))
			if err != nil {
				return err
			}
			if bz == nil {
				return fmt.Errorf("fund not found: %s", args[0])
			}
			var fund types.Fund
			if err := json.Unmarshal(bz, &fund); err != nil {
				return err
			}
			return printJSON(fund)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryLedger returns the command to query a fund's reserve ledger
func CmdQueryLedger() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger [fund-id]",
		Short: "Query a fund's reserves and claim supply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := queryRaw(cmd, types.LedgerKey(args[0]))
			if err != nil {
				return err
			}
			if bz == nil {
				return fmt.Errorf("ledger not found: %s", args[0])
			}
			var ledger types.Ledger
			if err := json.Unmarshal(bz, &ledger); err != nil {
				return err
			}
			return printJSON(ledger)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryClaimBalance returns the command to query a holder's claim balance
func CmdQueryClaimBalance() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim-balance [fund-id] [holder]",
		Short: "Query a holder's claim token balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			holder, err := sdk.AccAddressFromBech32(args[1])
			if err != nil {
				return err
			}
			bz, err := queryRaw(cmd, types.ClaimBalanceKey(args[0], holder))
			if err != nil {
				return err
			}
			amount := math.ZeroInt()
			if bz != nil {
				if err := amount.Unmarshal(bz); err != nil {
					return err
				}
			}
			return printJSON(types.ClaimBalance{FundID: args[0], Holder: holder.String(), Amount: amount})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
