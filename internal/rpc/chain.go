package rpc

import (
	"context"
	"fmt"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/lru"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	itypes "github.com/goran-ethernal/DealIndexor/internal/types"
	"github.com/goran-ethernal/DealIndexor/pkg/config"
	pkgrpc "github.com/goran-ethernal/DealIndexor/pkg/rpc"
)

// Compile-time check to ensure ChainClient implements pkgrpc.ChainClient interface.
var _ pkgrpc.ChainClient = (*ChainClient)(nil)

// ChainClient follows the head of the chain and turns contract logs into event streams.
type ChainClient struct {
	eth     pkgrpc.EthClient
	decoder pkgrpc.LogDecoder
	log     *logger.Logger

	finality     itypes.BlockFinality
	lag          uint64
	pollInterval time.Duration
	chunkSize    uint64

	timestamps *lru.Cache[uint64, uint64]
}

// NewChainClient creates a ChainClient on top of a low level client.
func NewChainClient(
	cfg config.ChainConfig,
	eth pkgrpc.EthClient,
	decoder pkgrpc.LogDecoder,
	log *logger.Logger,
) (*ChainClient, error) {
	finality, err := itypes.ParseBlockFinality(cfg.Finality)
	if err != nil {
		return nil, err
	}

	chunkSize := cfg.ChunkSize
	if chunkSize == 0 {
		chunkSize = 1
	}

	cacheSize := cfg.HeaderCacheSize
	if cacheSize <= 0 {
		cacheSize = 1
	}

	return &ChainClient{
		eth:          eth,
		decoder:      decoder,
		log:          log,
		finality:     finality,
		lag:          cfg.ConfirmationLag,
		pollInterval: cfg.PollInterval.Duration,
		chunkSize:    chunkSize,
		timestamps:   lru.NewCache[uint64, uint64](cacheSize),
	}, nil
}

// CurrentHeight returns the head block for the configured finality mode.
// In "latest" mode the confirmation lag is subtracted, bottoming out at genesis.
func (c *ChainClient) CurrentHeight(ctx context.Context) (uint64, error) {
	header, err := c.eth.GetHeadHeader(ctx, c.finality)
	if err != nil {
		return 0, fmt.Errorf("failed to get %s head: %w", c.finality, err)
	}
	if header == nil {
		return 0, fmt.Errorf("failed to get %s head: empty header", c.finality)
	}

	head := header.Number.Uint64()
	if c.finality == itypes.FinalityLatest && c.lag > 0 {
		if head < c.lag {
			return 0, nil
		}
		head -= c.lag
	}

	return head, nil
}

// BlockTimestamp returns the timestamp of a block, served from cache when possible.
func (c *ChainClient) BlockTimestamp(ctx context.Context, blockNum uint64) (uint64, error) {
	if ts, ok := c.timestamps.Get(blockNum); ok {
		HeaderCacheLookup(true)
		return ts, nil
	}
	HeaderCacheLookup(false)

	header, err := c.eth.GetBlockHeader(ctx, blockNum)
	if err != nil {
		return 0, fmt.Errorf("failed to get header of block %d: %w", blockNum, err)
	}
	if header == nil {
		return 0, fmt.Errorf("block %d not found", blockNum)
	}

	c.timestamps.Add(blockNum, header.Time)

	return header.Time, nil
}

// Subscribe starts polling logs of one event type from fromBlock onwards.
// The subscription stops when ctx is cancelled or Unsubscribe is called.
func (c *ChainClient) Subscribe(
	ctx context.Context,
	contract ethcommon.Address,
	eventName string,
	fromBlock uint64,
) (pkgrpc.Subscription, error) {
	topic, err := c.decoder.Topic(eventName)
	if err != nil {
		return nil, err
	}

	sub := newSubscription(c, contract, eventName, topic, fromBlock)
	sub.start(ctx)

	c.log.Infow("subscription opened",
		"event", eventName,
		"contract", contract.Hex(),
		"from_block", fromBlock,
	)

	return sub, nil
}
