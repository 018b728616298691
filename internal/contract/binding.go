package contract

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	pkgrpc "github.com/goran-ethernal/DealIndexor/pkg/rpc"
)

// Compile-time check to ensure Binding implements pkgrpc.LogDecoder interface.
var _ pkgrpc.LogDecoder = (*Binding)(nil)

var (
	ErrUnknownEvent  = errors.New("unknown event")
	ErrTopicMismatch = errors.New("log topic does not match event")
)

// Binding decodes logs of the deal vault contract.
type Binding struct {
	abi abi.ABI
}

// NewBinding parses the given ABI JSON.
func NewBinding(abiJSON string) (*Binding, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	return &Binding{abi: parsed}, nil
}

// LoadBinding loads the ABI from path, or the embedded DealVaultABI when path is empty.
func LoadBinding(path string) (*Binding, error) {
	if path == "" {
		return NewBinding(DealVaultABI)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract ABI: %w", err)
	}

	return NewBinding(string(data))
}

// ABI returns the parsed contract ABI.
func (b *Binding) ABI() abi.ABI {
	return b.abi
}

// EventNames returns the names of all events in the ABI, sorted.
func (b *Binding) EventNames() []string {
	names := make([]string, 0, len(b.abi.Events))
	for name := range b.abi.Events {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Signature returns the canonical signature of the named event, e.g. "DealLocked(uint256,string)".
func (b *Binding) Signature(eventName string) (string, error) {
	ev, ok := b.abi.Events[eventName]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEvent, eventName)
	}

	return ev.Sig, nil
}

// Topic returns the topic0 of the named event.
func (b *Binding) Topic(eventName string) (common.Hash, error) {
	ev, ok := b.abi.Events[eventName]
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrUnknownEvent, eventName)
	}

	return ev.ID, nil
}

// Decode decodes both indexed and non-indexed arguments of a log into a map keyed by argument name.
func (b *Binding) Decode(eventName string, log types.Log) (map[string]any, error) {
	ev, ok := b.abi.Events[eventName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, eventName)
	}

	if len(log.Topics) == 0 || log.Topics[0] != ev.ID {
		return nil, fmt.Errorf("%w: %s", ErrTopicMismatch, eventName)
	}

	args := make(map[string]any, len(ev.Inputs))

	if len(ev.Inputs.NonIndexed()) > 0 {
		if err := b.abi.UnpackIntoMap(args, eventName, log.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack %s data: %w", eventName, err)
		}
	}

	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}

	if len(log.Topics)-1 != len(indexed) {
		return nil, fmt.Errorf("%s: expected %d indexed topics, got %d", eventName, len(indexed), len(log.Topics)-1)
	}

	if err := abi.ParseTopicsIntoMap(args, indexed, log.Topics[1:]); err != nil {
		return nil, fmt.Errorf("failed to parse %s topics: %w", eventName, err)
	}

	return args, nil
}

// PackTotalDeposited packs a totalDeposited(dealId) call.
func (b *Binding) PackTotalDeposited(dealID uint64) ([]byte, error) {
	return b.abi.Pack(methodTotalDeposited, new(big.Int).SetUint64(dealID))
}

// UnpackTotalDeposited unpacks the result of a totalDeposited call.
func (b *Binding) UnpackTotalDeposited(data []byte) (*big.Int, error) {
	out, err := b.abi.Unpack(methodTotalDeposited, data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack totalDeposited: %w", err)
	}

	total := abi.ConvertType(out[0], new(big.Int)).(*big.Int) //nolint:forcetypeassert

	return total, nil
}
