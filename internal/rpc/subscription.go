package rpc

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	pkgrpc "github.com/goran-ethernal/DealIndexor/pkg/rpc"
)

const errBufferSize = 16

// Compile-time check to ensure Subscription implements pkgrpc.Subscription interface.
var _ pkgrpc.Subscription = (*Subscription)(nil)

// Subscription polls eth_getLogs for one event of one contract and delivers
// decoded events in (block number, log index) order.
type Subscription struct {
	client    *ChainClient
	contract  ethcommon.Address
	eventName string
	topic     ethcommon.Hash
	next      uint64

	events chan pkgrpc.RawEvent
	errs   chan error

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func newSubscription(
	client *ChainClient,
	contract ethcommon.Address,
	eventName string,
	topic ethcommon.Hash,
	fromBlock uint64,
) *Subscription {
	return &Subscription{
		client:    client,
		contract:  contract,
		eventName: eventName,
		topic:     topic,
		next:      fromBlock,
		events:    make(chan pkgrpc.RawEvent),
		errs:      make(chan error, errBufferSize),
		done:      make(chan struct{}),
	}
}

// Events returns the event stream. It is closed once the subscription stops.
func (s *Subscription) Events() <-chan pkgrpc.RawEvent {
	return s.events
}

// Err returns non-fatal polling errors. Errors are dropped when nobody reads them.
func (s *Subscription) Err() <-chan error {
	return s.errs
}

// Unsubscribe stops the poller and waits for it to exit.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
	<-s.done
}

func (s *Subscription) start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
}

func (s *Subscription) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.events)

	log := s.client.log

	for {
		if ctx.Err() != nil {
			return
		}

		head, err := s.client.CurrentHeight(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warnf("%s subscription: failed to get head, retrying in %s: %v",
				s.eventName, s.client.pollInterval, err)
			s.report(err)
			if !s.wait(ctx) {
				return
			}
			continue
		}

		if s.next > head {
			if !s.wait(ctx) {
				return
			}
			continue
		}

		toBlock := min(s.next+s.client.chunkSize-1, head)

		logs, fetchedTo, err := s.fetchLogs(ctx, s.next, toBlock)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warnf("%s subscription: failed to fetch logs from %d to %d, retrying in %s: %v",
				s.eventName, s.next, toBlock, s.client.pollInterval, err)
			s.report(err)
			if !s.wait(ctx) {
				return
			}
			continue
		}

		if !s.deliver(ctx, logs) {
			return
		}

		SubscriptionHeadSet(s.eventName, fetchedTo)
		s.next = fetchedTo + 1

		// Caught up with head, wait for new blocks
		if fetchedTo == head {
			if !s.wait(ctx) {
				return
			}
		}
	}
}

// fetchLogs fetches logs for [fromBlock, toBlock] and shrinks the range when the
// node reports too many results. Returns the last block actually covered.
func (s *Subscription) fetchLogs(ctx context.Context, fromBlock, toBlock uint64) ([]types.Log, uint64, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []ethcommon.Address{s.contract},
		Topics:    [][]ethcommon.Hash{{s.topic}},
	}

	logs, err := s.client.eth.GetLogs(ctx, query)
	if err == nil {
		return logs, toBlock, nil
	}

	ok, errData := IsTooManyResultsError(err)
	if !ok {
		return nil, 0, err
	}

	newTo := toBlock
	if _, suggestedTo, ok := ParseSuggestedBlockRange(errData); ok && suggestedTo >= fromBlock && suggestedTo < toBlock {
		newTo = suggestedTo
	} else {
		const splitBy = 2
		mid := fromBlock + (toBlock-fromBlock)/splitBy
		if mid == toBlock {
			return nil, 0, fmt.Errorf("cannot split range further, block %d has too many logs", fromBlock)
		}
		newTo = mid
	}

	s.client.log.Infof("%s subscription: too many logs, retrying with block range %d to %d (original range %d to %d)",
		s.eventName, fromBlock, newTo, fromBlock, toBlock)

	return s.fetchLogs(ctx, fromBlock, newTo)
}

// deliver decodes and sends logs in chain order. Returns false if ctx was cancelled.
func (s *Subscription) deliver(ctx context.Context, logs []types.Log) bool {
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})

	delivered := 0
	for _, l := range logs {
		if l.Removed {
			continue
		}

		args, err := s.client.decoder.Decode(s.eventName, l)
		if err != nil {
			SubscriptionDecodeErrorInc(s.eventName)
			s.client.log.Errorf("%s subscription: failed to decode log tx=%s index=%d: %v",
				s.eventName, l.TxHash.Hex(), l.Index, err)
			s.report(fmt.Errorf("decode %s at tx %s index %d: %w", s.eventName, l.TxHash.Hex(), l.Index, err))
			continue
		}

		blockNum := l.BlockNumber
		ev := pkgrpc.NewRawEvent(s.eventName, args, l, func(ctx context.Context) (uint64, error) {
			return s.client.BlockTimestamp(ctx, blockNum)
		})

		select {
		case s.events <- ev:
			delivered++
		case <-ctx.Done():
			SubscriptionLogsAdd(s.eventName, delivered)
			return false
		}
	}

	SubscriptionLogsAdd(s.eventName, delivered)

	return true
}

func (s *Subscription) report(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

func (s *Subscription) wait(ctx context.Context) bool {
	timer := time.NewTimer(s.client.pollInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
