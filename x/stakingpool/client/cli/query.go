package cli

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"

	"github.com/openalpha/poolstake/x/stakingpool/keeper"
	"github.com/openalpha/poolstake/x/stakingpool/types"
)

// GetQueryCmd returns the cli query commands for the stakingpool module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "stakingpool",
		Short:                      "Querying commands for the stakingpool module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryPool(),
		CmdQueryPosition(),
		CmdQueryExchangeRate(),
		CmdQueryCurrentEpoch(),
	)

	return cmd
}

// queryStore fetches a raw value from the stakingpool KVStore
func queryStore(clientCtx client.Context, key []byte) ([]byte, error) {
	bz, _, err := clientCtx.QueryStore(key, types.StoreKey)
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, fmt.Errorf("not found")
	}
	return bz, nil
}

// printJSON pretty-prints a stored JSON value
func printJSON(bz []byte) error {
	var v interface{}
	if err := json.Unmarshal(bz, &v); err != nil {
		return err
	}
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
	return nil
}

// CmdQueryPool returns the command to query a staking pool
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query a staking pool's balances and lifecycle state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			key := append(keeper.PoolKeyPrefix, []byte(args[0])...)
			bz, err := queryStore(clientCtx, key)
			if err != nil {
				return fmt.Errorf("pool not found: %s", args[0])
			}
			return printJSON(bz)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPosition returns the command to query a staked position
func CmdQueryPosition() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position [position-id]",
		Short: "Query a staked position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			key := append(keeper.PositionKeyPrefix, []byte(args[0])...)
			bz, err := queryStore(clientCtx, key)
			if err != nil {
				return fmt.Errorf("position not found: %s", args[0])
			}
			return printJSON(bz)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryExchangeRate returns the command to query a recorded exchange rate
func CmdQueryExchangeRate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exchange-rate [pool-id] [epoch]",
		Short: "Query the exchange rate recorded for a pool at an epoch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			var epoch uint64
			if _, err := fmt.Sscanf(args[1], "%d", &epoch); err != nil {
				return fmt.Errorf("invalid epoch: %s", args[1])
			}

			key := append(keeper.ExchangeRateKeyPrefix, []byte(args[0]+":")...)
			epochBz := make([]byte, 8)
			binary.BigEndian.PutUint64(epochBz, epoch)
			key = append(key, epochBz...)

			bz, err := queryStore(clientCtx, key)
			if err != nil {
				return fmt.Errorf("no exchange rate recorded for pool %s at epoch %d", args[0], epoch)
			}
			return printJSON(bz)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryCurrentEpoch returns the command to query the current epoch
func CmdQueryCurrentEpoch() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epoch",
		Short: "Query the current staking epoch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			var epoch uint64
			if bz, _, err := clientCtx.QueryStore(keeper.CurrentEpochKey, types.StoreKey); err == nil && len(bz) == 8 {
				epoch = binary.BigEndian.Uint64(bz)
			}
			fmt.Println(epoch)
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
