package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	pkgrpc "github.com/goran-ethernal/DealIndexor/pkg/rpc"
)

// TotalsReader reads the authoritative deposit total of a deal from the contract.
type TotalsReader interface {
	// TotalDeposited returns the deal total as of the end of blockNum.
	TotalDeposited(ctx context.Context, dealID uint64, blockNum uint64) (*big.Int, error)
}

// Compile-time check to ensure Reader implements TotalsReader interface.
var _ TotalsReader = (*Reader)(nil)

// Reader performs read-only calls against the deal vault contract.
type Reader struct {
	address common.Address
	binding *Binding
	caller  pkgrpc.EthClient
}

// NewReader creates a Reader for the contract at address.
func NewReader(address common.Address, binding *Binding, caller pkgrpc.EthClient) *Reader {
	return &Reader{
		address: address,
		binding: binding,
		caller:  caller,
	}
}

// Address returns the contract address.
func (r *Reader) Address() common.Address {
	return r.address
}

// TotalDeposited calls totalDeposited(dealId) at blockNum.
func (r *Reader) TotalDeposited(ctx context.Context, dealID uint64, blockNum uint64) (*big.Int, error) {
	data, err := r.binding.PackTotalDeposited(dealID)
	if err != nil {
		return nil, err
	}

	msg := ethereum.CallMsg{
		To:   &r.address,
		Data: data,
	}

	result, err := r.caller.CallContract(ctx, msg, new(big.Int).SetUint64(blockNum))
	if err != nil {
		return nil, fmt.Errorf("totalDeposited(%d) at block %d: %w", dealID, blockNum, err)
	}

	return r.binding.UnpackTotalDeposited(result)
}
