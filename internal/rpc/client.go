package rpc

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	itypes "github.com/goran-ethernal/DealIndexor/internal/types"
	"github.com/goran-ethernal/DealIndexor/pkg/config"
	pkgrpc "github.com/goran-ethernal/DealIndexor/pkg/rpc"
)

// Compile-time check to ensure Client implements pkgrpc.EthClient interface.
var _ pkgrpc.EthClient = (*Client)(nil)

// Client wraps the Ethereum RPC client with retries and metrics.
// It implements the pkgrpc.EthClient interface.
type Client struct {
	eth   *ethclient.Client
	rpc   *rpc.Client
	retry *config.RetryConfig
}

// NewClient creates a new RPC client connected to the given endpoint.
// A nil retry config executes every call once.
func NewClient(ctx context.Context, endpoint string, retryCfg *config.RetryConfig) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, &ConnectivityError{Op: "dial", Err: err}
	}

	return &Client{
		eth:   ethclient.NewClient(rpcClient),
		rpc:   rpcClient,
		retry: retryCfg,
	}, nil
}

// Close closes the RPC client connection.
func (c *Client) Close() {
	c.eth.Close()
}

// GetLogs retrieves logs matching the given filter query.
func (c *Client) GetLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	var logs []types.Log
	err := c.call(ctx, "eth_getLogs", func() error {
		var err error
		logs, err = c.eth.FilterLogs(ctx, query)
		return err
	})

	return logs, err
}

// GetBlockHeader retrieves the header for a specific block number.
func (c *Client) GetBlockHeader(ctx context.Context, blockNum uint64) (*types.Header, error) {
	return c.headerByNumber(ctx, new(big.Int).SetUint64(blockNum))
}

// GetHeadHeader retrieves the head header for the given finality mode.
func (c *Client) GetHeadHeader(ctx context.Context, finality itypes.BlockFinality) (*types.Header, error) {
	return c.headerByNumber(ctx, big.NewInt(finality.BlockNumber().Int64()))
}

// CallContract executes a read-only contract call at the given block.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNum *big.Int) ([]byte, error) {
	var out []byte
	err := c.call(ctx, "eth_call", func() error {
		var err error
		out, err = c.eth.CallContract(ctx, msg, blockNum)
		return err
	})

	return out, err
}

func (c *Client) headerByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	var header *types.Header
	err := c.call(ctx, "eth_getBlockByNumber", func() error {
		var err error
		header, err = c.eth.HeaderByNumber(ctx, number)
		return err
	})

	return header, err
}

// call runs one RPC operation with retries, recording request metrics.
// Retryable failures that survive every attempt are reported as ConnectivityError.
func (c *Client) call(ctx context.Context, method string, fn func() error) error {
	err := retryWithBackoff(ctx, c.retry, method, func() error {
		RPCMethodInc(method)
		start := time.Now()
		err := fn()
		RPCMethodDuration(method, time.Since(start))
		if err != nil {
			RPCMethodError(method, errorType(err))
		}
		return err
	})
	if err == nil {
		return nil
	}

	if retryableError(err) {
		return &ConnectivityError{Op: method, Err: err}
	}

	return fmt.Errorf("%s: %w", method, err)
}

// errorType returns a coarse label for RPC error metrics.
func errorType(err error) string {
	if ok, _ := IsTooManyResultsError(err); ok {
		return "too_many_results"
	}
	if retryableError(err) {
		return "connectivity"
	}
	return "other"
}
