package contract

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// DealCreated is the decoded DealCreated event.
type DealCreated struct {
	DealID        uint64
	DepositToken  common.Address
	MinDeposit    *big.Int
	MaxDeposit    *big.Int
	StartTime     uint64
	Duration      uint64
	ExpectedYield *big.Int
}

// Deposited is the decoded Deposited event.
type Deposited struct {
	DealID     uint64
	User       common.Address
	PositionID uint64
	Amount     *big.Int
}

// DealLocked is the decoded DealLocked event.
type DealLocked struct {
	DealID    uint64
	ChannelID string
}

// RewardsClaimed is the decoded RewardsClaimedFromProtocol event.
type RewardsClaimed struct {
	DealID       uint64
	TotalRewards *big.Int
}

// DecodeDealCreated reads DealCreated arguments.
func DecodeDealCreated(args map[string]any) (DealCreated, error) {
	var (
		ev  DealCreated
		err error
	)

	if ev.DealID, err = Uint64Arg(args, "dealId"); err != nil {
		return ev, err
	}
	if ev.DepositToken, err = addressArg(args, "depositToken"); err != nil {
		return ev, err
	}
	if ev.MinDeposit, err = BigArg(args, "minDeposit"); err != nil {
		return ev, err
	}
	if ev.MaxDeposit, err = BigArg(args, "maxDeposit"); err != nil {
		return ev, err
	}
	if ev.StartTime, err = Uint64Arg(args, "startTime"); err != nil {
		return ev, err
	}
	if ev.Duration, err = Uint64Arg(args, "duration"); err != nil {
		return ev, err
	}
	if ev.ExpectedYield, err = BigArg(args, "expectedYield"); err != nil {
		return ev, err
	}

	return ev, nil
}

// DecodeDeposited reads Deposited arguments.
func DecodeDeposited(args map[string]any) (Deposited, error) {
	var (
		ev  Deposited
		err error
	)

	if ev.DealID, err = Uint64Arg(args, "dealId"); err != nil {
		return ev, err
	}
	if ev.User, err = addressArg(args, "user"); err != nil {
		return ev, err
	}
	if ev.PositionID, err = Uint64Arg(args, "positionId"); err != nil {
		return ev, err
	}
	if ev.Amount, err = BigArg(args, "amount"); err != nil {
		return ev, err
	}

	return ev, nil
}

// DecodeDealLocked reads DealLocked arguments. A missing channel id decodes as empty.
func DecodeDealLocked(args map[string]any) (DealLocked, error) {
	dealID, err := Uint64Arg(args, "dealId")
	if err != nil {
		return DealLocked{}, err
	}

	ev := DealLocked{DealID: dealID}
	if raw, ok := args["channelId"]; ok && raw != nil {
		channelID, ok := raw.(string)
		if !ok {
			return DealLocked{}, fmt.Errorf("argument channelId: unexpected type %T", raw)
		}
		ev.ChannelID = channelID
	}

	return ev, nil
}

// DecodeRewardsClaimed reads RewardsClaimedFromProtocol arguments.
func DecodeRewardsClaimed(args map[string]any) (RewardsClaimed, error) {
	var (
		ev  RewardsClaimed
		err error
	)

	if ev.DealID, err = Uint64Arg(args, "dealId"); err != nil {
		return ev, err
	}
	if ev.TotalRewards, err = BigArg(args, "totalRewards"); err != nil {
		return ev, err
	}

	return ev, nil
}

// BigArg returns a uint256 argument as *big.Int.
func BigArg(args map[string]any, name string) (*big.Int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return nil, fmt.Errorf("argument %s: missing", name)
	}

	switch v := raw.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int64:
		return big.NewInt(v), nil
	case int:
		return big.NewInt(int64(v)), nil
	case string:
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, fmt.Errorf("argument %s: invalid integer %q", name, v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("argument %s: unexpected type %T", name, raw)
	}
}

// Uint64Arg returns an integer argument that must fit in 64 bits.
func Uint64Arg(args map[string]any, name string) (uint64, error) {
	n, err := BigArg(args, name)
	if err != nil {
		return 0, err
	}
	if n.Sign() < 0 || !n.IsUint64() {
		return 0, fmt.Errorf("argument %s: %s does not fit in uint64", name, n)
	}

	return n.Uint64(), nil
}

func addressArg(args map[string]any, name string) (common.Address, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return common.Address{}, fmt.Errorf("argument %s: missing", name)
	}

	switch v := raw.(type) {
	case common.Address:
		return v, nil
	case string:
		if !common.IsHexAddress(v) {
			return common.Address{}, fmt.Errorf("argument %s: invalid address %q", name, v)
		}
		return common.HexToAddress(v), nil
	default:
		return common.Address{}, fmt.Errorf("argument %s: unexpected type %T", name, raw)
	}
}
