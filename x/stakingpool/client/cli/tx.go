package cli

import (
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/poolstake/x/stakingpool/types"
)

// GetTxCmd returns the transaction commands for the stakingpool module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "stakingpool",
		Short:                      "Staking pool transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdStake(),
		CmdWithdrawStake(),
		CmdSplitPosition(),
		CmdJoinPositions(),
		CmdCreatePool(),
		CmdDeactivatePool(),
	)

	return cmd
}

// CmdStake returns the command to stake into a pool
func CmdStake() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake [pool-id] [amount]",
		Short: "Stake SUI into a pool (amount in mist)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgStake{
				Staker: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
				Amount: args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdrawStake returns the command to withdraw a staked position
func CmdWithdrawStake() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [position-id]",
		Short: "Withdraw a staked position (principal plus earned rewards)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgWithdrawStake{
				Staker:     clientCtx.GetFromAddress().String(),
				PositionID: args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSplitPosition returns the command to split a staked position
func CmdSplitPosition() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split [position-id] [amount]",
		Short: "Split a staked position, carving off the given principal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgSplitPosition{
				Owner:      clientCtx.GetFromAddress().String(),
				PositionID: args[0],
				Amount:     args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdJoinPositions returns the command to merge two staked positions
func CmdJoinPositions() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join [position-id] [source-position-id]",
		Short: "Merge two staked positions with identical pool and activation epoch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgJoinPositions{
				Owner:            clientCtx.GetFromAddress().String(),
				PositionID:       args[0],
				SourcePositionID: args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCreatePool returns the command to create a new staking pool (authority only)
func CmdCreatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool [pool-id]",
		Short: "Create a new preactive staking pool (authority only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgCreatePool{
				Authority: clientCtx.GetFromAddress().String(),
				PoolID:    args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdDeactivatePool returns the command to deactivate a staking pool (authority only)
func CmdDeactivatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate-pool [pool-id]",
		Short: "Flag a staking pool for deactivation at the next epoch boundary (authority only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgDeactivatePool{
				Authority: clientCtx.GetFromAddress().String(),
				PoolID:    args[0],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
