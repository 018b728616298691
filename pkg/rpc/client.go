package rpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	itypes "github.com/goran-ethernal/DealIndexor/internal/types"
)

// EthClient defines the interface for the low level Ethereum RPC operations the indexer needs.
// This abstraction allows for easier testing and alternative implementations.
type EthClient interface {
	// Close closes the RPC client connection.
	Close()

	// GetLogs retrieves logs matching the given filter query.
	GetLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)

	// GetBlockHeader retrieves the header for a specific block number.
	GetBlockHeader(ctx context.Context, blockNum uint64) (*types.Header, error)

	// GetHeadHeader retrieves the head header for the given finality mode.
	GetHeadHeader(ctx context.Context, finality itypes.BlockFinality) (*types.Header, error)

	// CallContract executes a read-only contract call at the given block (nil means latest).
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNum *big.Int) ([]byte, error)
}

// LogDecoder turns raw logs of the monitored contract into named arguments.
type LogDecoder interface {
	// Topic returns the topic0 of the named event.
	Topic(eventName string) (common.Hash, error)

	// Decode decodes indexed and non-indexed arguments of the named event.
	Decode(eventName string, log types.Log) (map[string]any, error)
}

// ChainClient is the indexer-facing view of the chain.
type ChainClient interface {
	// CurrentHeight returns the head block number the indexer follows.
	CurrentHeight(ctx context.Context) (uint64, error)

	// Subscribe opens a stream of decoded events of one type, starting at fromBlock.
	Subscribe(ctx context.Context, contract common.Address, eventName string, fromBlock uint64) (Subscription, error)

	// BlockTimestamp returns the timestamp of the given block.
	BlockTimestamp(ctx context.Context, blockNum uint64) (uint64, error)
}

// Subscription is a lazy, infinite and non-restartable stream of events.
type Subscription interface {
	// Events delivers events ordered by (block number, log index). Closed after Unsubscribe.
	Events() <-chan RawEvent

	// Err delivers non-fatal errors observed while polling. The stream keeps going.
	Err() <-chan error

	// Unsubscribe stops polling and waits for the poller to exit.
	Unsubscribe()
}

// TimestampFunc resolves the timestamp of the block an event was emitted in.
type TimestampFunc func(ctx context.Context) (uint64, error)

// RawEvent is one decoded contract event as delivered by a subscription.
type RawEvent struct {
	EventName   string
	Args        map[string]any
	TxHash      common.Hash
	BlockNumber uint64
	BlockHash   common.Hash
	LogIndex    uint
	Address     common.Address
	// Log is the undecoded log, kept so the event can be parked and replayed
	Log types.Log

	timestamp TimestampFunc
}

// NewRawEvent creates a RawEvent from a decoded log.
func NewRawEvent(eventName string, args map[string]any, log types.Log, ts TimestampFunc) RawEvent {
	return RawEvent{
		EventName:   eventName,
		Args:        args,
		TxHash:      log.TxHash,
		BlockNumber: log.BlockNumber,
		BlockHash:   log.BlockHash,
		LogIndex:    log.Index,
		Address:     log.Address,
		Log:         log,
		timestamp:   ts,
	}
}

// Timestamp returns the block timestamp of the event, looking it up on first use.
// Returns 0 when no lookup is available.
func (e RawEvent) Timestamp(ctx context.Context) (uint64, error) {
	if e.timestamp == nil {
		return 0, nil
	}
	return e.timestamp(ctx)
}
