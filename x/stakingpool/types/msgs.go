package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgStake          = "stake"
	TypeMsgWithdrawStake  = "withdraw_stake"
	TypeMsgSplitPosition  = "split_position"
	TypeMsgJoinPositions  = "join_positions"
	TypeMsgCreatePool     = "create_pool"
	TypeMsgDeactivatePool = "deactivate_pool"
)

// MsgStake defines the Stake message
type MsgStake struct {
	Staker string `json:"staker"`
	PoolID string `json:"pool_id"`
	Amount string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgStake) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgStake) Type() string { return TypeMsgStake }

// ValidateBasic implements sdk.Msg
func (msg MsgStake) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Staker); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Amount == "" {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgStake) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Staker)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgStake) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgStake) Reset() { *msg = MsgStake{} }

// String implements proto.Message
func (msg MsgStake) String() string {
	return fmt.Sprintf("MsgStake{Staker: %s, PoolID: %s, Amount: %s}", msg.Staker, msg.PoolID, msg.Amount)
}

// MsgStakeResponse defines the Stake response
type MsgStakeResponse struct {
	PositionID      string `json:"position_id"`
	Principal       string `json:"principal"`
	ActivationEpoch uint64 `json:"activation_epoch"`
}

// MsgWithdrawStake defines the WithdrawStake message
type MsgWithdrawStake struct {
	Staker     string `json:"staker"`
	PositionID string `json:"position_id"`
}

// Route implements sdk.Msg
func (msg MsgWithdrawStake) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgWithdrawStake) Type() string { return TypeMsgWithdrawStake }

// ValidateBasic implements sdk.Msg
func (msg MsgWithdrawStake) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Staker); err != nil {
		return err
	}
	if msg.PositionID == "" {
		return ErrPositionNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgWithdrawStake) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Staker)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgWithdrawStake) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgWithdrawStake) Reset() { *msg = MsgWithdrawStake{} }

// String implements proto.Message
func (msg MsgWithdrawStake) String() string {
	return fmt.Sprintf("MsgWithdrawStake{Staker: %s, PositionID: %s}", msg.Staker, msg.PositionID)
}

// MsgWithdrawStakeResponse defines the WithdrawStake response
type MsgWithdrawStakeResponse struct {
	Principal   string `json:"principal"`
	Reward      string `json:"reward"`
	TotalAmount string `json:"total_amount"`
}

// MsgSplitPosition defines the SplitPosition message
type MsgSplitPosition struct {
	Owner      string `json:"owner"`
	PositionID string `json:"position_id"`
	Amount     string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgSplitPosition) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSplitPosition) Type() string { return TypeMsgSplitPosition }

// ValidateBasic implements sdk.Msg
func (msg MsgSplitPosition) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if msg.PositionID == "" {
		return ErrPositionNotFound
	}
	if msg.Amount == "" {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSplitPosition) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSplitPosition) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSplitPosition) Reset() { *msg = MsgSplitPosition{} }

// String implements proto.Message
func (msg MsgSplitPosition) String() string {
	return fmt.Sprintf("MsgSplitPosition{Owner: %s, PositionID: %s, Amount: %s}", msg.Owner, msg.PositionID, msg.Amount)
}

// MsgSplitPositionResponse defines the SplitPosition response
type MsgSplitPositionResponse struct {
	NewPositionID      string `json:"new_position_id"`
	NewPrincipal       string `json:"new_principal"`
	RemainingPrincipal string `json:"remaining_principal"`
}

// MsgJoinPositions defines the JoinPositions message
type MsgJoinPositions struct {
	Owner            string `json:"owner"`
	PositionID       string `json:"position_id"`
	SourcePositionID string `json:"source_position_id"`
}

// Route implements sdk.Msg
func (msg MsgJoinPositions) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgJoinPositions) Type() string { return TypeMsgJoinPositions }

// ValidateBasic implements sdk.Msg
func (msg MsgJoinPositions) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if msg.PositionID == "" || msg.SourcePositionID == "" {
		return ErrPositionNotFound
	}
	if msg.PositionID == msg.SourcePositionID {
		return ErrMetadataMismatch
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgJoinPositions) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgJoinPositions) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgJoinPositions) Reset() { *msg = MsgJoinPositions{} }

// String implements proto.Message
func (msg MsgJoinPositions) String() string {
	return fmt.Sprintf("MsgJoinPositions{Owner: %s, PositionID: %s, SourcePositionID: %s}", msg.Owner, msg.PositionID, msg.SourcePositionID)
}

// MsgJoinPositionsResponse defines the JoinPositions response
type MsgJoinPositionsResponse struct {
	PositionID string `json:"position_id"`
	Principal  string `json:"principal"`
}

// MsgCreatePool defines the CreatePool message (authority only)
type MsgCreatePool struct {
	Authority string `json:"authority"`
	PoolID    string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgCreatePool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreatePool) Type() string { return TypeMsgCreatePool }

// ValidateBasic implements sdk.Msg
func (msg MsgCreatePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCreatePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreatePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreatePool) Reset() { *msg = MsgCreatePool{} }

// String implements proto.Message
func (msg MsgCreatePool) String() string {
	return fmt.Sprintf("MsgCreatePool{Authority: %s, PoolID: %s}", msg.Authority, msg.PoolID)
}

// MsgCreatePoolResponse defines the CreatePool response
type MsgCreatePoolResponse struct {
	PoolID string `json:"pool_id"`
}

// MsgDeactivatePool defines the DeactivatePool message (authority only)
type MsgDeactivatePool struct {
	Authority string `json:"authority"`
	PoolID    string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgDeactivatePool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgDeactivatePool) Type() string { return TypeMsgDeactivatePool }

// ValidateBasic implements sdk.Msg
func (msg MsgDeactivatePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgDeactivatePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgDeactivatePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgDeactivatePool) Reset() { *msg = MsgDeactivatePool{} }

// String implements proto.Message
func (msg MsgDeactivatePool) String() string {
	return fmt.Sprintf("MsgDeactivatePool{Authority: %s, PoolID: %s}", msg.Authority, msg.PoolID)
}

// MsgDeactivatePoolResponse defines the DeactivatePool response
type MsgDeactivatePoolResponse struct {
	PoolID            string `json:"pool_id"`
	DeactivationEpoch uint64 `json:"deactivation_epoch"`
}

// Ensure all messages implement sdk.Msg interface
var (
	_ sdk.Msg = &MsgStake{}
	_ sdk.Msg = &MsgWithdrawStake{}
	_ sdk.Msg = &MsgSplitPosition{}
	_ sdk.Msg = &MsgJoinPositions{}
	_ sdk.Msg = &MsgCreatePool{}
	_ sdk.Msg = &MsgDeactivatePool{}
)
