// Package indexer wires subscriptions to event handlers.
package indexer

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	internalcommon "github.com/goran-ethernal/DealIndexor/internal/common"
	"github.com/goran-ethernal/DealIndexor/internal/handlers"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/internal/metrics"
	irpc "github.com/goran-ethernal/DealIndexor/internal/rpc"
	"github.com/goran-ethernal/DealIndexor/internal/store"
	"github.com/goran-ethernal/DealIndexor/pkg/config"
	pkgrpc "github.com/goran-ethernal/DealIndexor/pkg/rpc"
	"golang.org/x/sync/errgroup"
)

// EventProcessor applies one delivered event.
type EventProcessor interface {
	// Handles reports whether a handler is registered for the event.
	Handles(eventName string) bool
	// Process applies the event; failures are logged and reported through the outcome.
	Process(ctx context.Context, raw pkgrpc.RawEvent) (handlers.Outcome, error)
}

// Coordinator opens one subscription per configured event and dispatches every
// delivered event to its handler. It holds no business state.
type Coordinator struct {
	chain     pkgrpc.ChainClient
	store     *store.Store
	processor EventProcessor
	locks     *DealLocker
	contract  common.Address
	events    []string
	retry     *config.RetryConfig
	log       *logger.Logger

	mu         sync.RWMutex
	startBlock uint64
	running    bool
}

// NewCoordinator creates a Coordinator for the given event names.
func NewCoordinator(
	chain pkgrpc.ChainClient,
	st *store.Store,
	processor EventProcessor,
	locks *DealLocker,
	contract common.Address,
	events []string,
	retry *config.RetryConfig,
	log *logger.Logger,
) *Coordinator {
	return &Coordinator{
		chain:     chain,
		store:     st,
		processor: processor,
		locks:     locks,
		contract:  contract,
		events:    events,
		retry:     retry,
		log:       log,
	}
}

// Status describes a running coordinator.
type Status struct {
	Running    bool     `json:"running"`
	StartBlock uint64   `json:"start_block"`
	Events     []string `json:"events"`
}

// Status returns the current status.
func (c *Coordinator) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Status{
		Running:    c.running,
		StartBlock: c.startBlock,
		Events:     c.events,
	}
}

// Run resolves the start height, subscribes to every event and consumes the streams
// until ctx is cancelled. In-flight handlers always complete before Run returns.
// Only failures to start are returned.
func (c *Coordinator) Run(ctx context.Context) error {
	for _, name := range c.events {
		if !c.processor.Handles(name) {
			return fmt.Errorf("%w %s", handlers.ErrUnknownEvent, name)
		}
	}

	height, err := c.startHeight(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	c.logRestartGap(ctx, height)

	subs := make(map[string]pkgrpc.Subscription, len(c.events))
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
		c.setRunning(false, height)
		metrics.ComponentHealthSet(internalcommon.ComponentCoordinator, false)
	}()

	for _, name := range c.events {
		sub, err := c.chain.Subscribe(ctx, c.contract, name, height)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", name, err)
		}
		subs[name] = sub
	}

	c.setRunning(true, height)
	metrics.ComponentHealthSet(internalcommon.ComponentCoordinator, true)
	c.log.Infof("following %d event streams of %s from block %d", len(subs), c.contract.Hex(), height)

	g, gctx := errgroup.WithContext(ctx)
	for name, sub := range subs {
		g.Go(func() error {
			c.consume(gctx, name, sub)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	c.log.Info("all event streams drained")

	return nil
}

func (c *Coordinator) startHeight(ctx context.Context) (uint64, error) {
	var height uint64

	err := irpc.RetryUntilCancelled(ctx, c.retry, "current height",
		func(attempt int, err error) {
			c.log.Warnf("chain unreachable at startup (attempt %d), retrying: %v", attempt, err)
		},
		func() error {
			h, err := c.chain.CurrentHeight(ctx)
			if err != nil {
				return err
			}
			height = h
			return nil
		})
	if err != nil {
		return 0, fmt.Errorf("failed to resolve start height: %w", err)
	}

	return height, nil
}

// logRestartGap reports blocks that were never observed because the process was down.
// Those blocks are not backfilled.
func (c *Coordinator) logRestartGap(ctx context.Context, height uint64) {
	cursors, err := c.store.GetCursors(ctx)
	if err != nil {
		c.log.Warnf("failed to load subscription cursors: %v", err)
		return
	}

	for _, name := range c.events {
		last, ok := cursors[name]
		if !ok || last+1 >= height {
			metrics.RestartGapSet(name, 0)
			continue
		}

		gap := height - last - 1
		metrics.RestartGapSet(name, gap)
		c.log.Warnw("events in blocks between the last run and the start height are not indexed",
			"event", name, "from_block", last+1, "to_block", height-1, "blocks", gap)
	}
}

func (c *Coordinator) consume(ctx context.Context, name string, sub pkgrpc.Subscription) {
	log := c.log.With("event", name)

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-sub.Err():
			if ok {
				metrics.StreamErrorsInc(name)
				log.Warnf("subscription error: %v", err)
			}
		case ev, ok := <-sub.Events():
			if !ok {
				log.Info("event stream closed")
				return
			}
			metrics.EventsDeliveredInc(name)
			// Detached so shutdown never interrupts a transaction
			c.dispatch(context.WithoutCancel(ctx), ev)
			metrics.LastProcessedBlockSet(name, ev.BlockNumber)
		}
	}
}

// dispatch runs the handler of ev while holding the lock of its deal.
func (c *Coordinator) dispatch(ctx context.Context, ev pkgrpc.RawEvent) handlers.Outcome {
	if dealID, err := handlers.DealID(ev); err == nil {
		unlock := c.locks.Lock(dealID)
		defer unlock()
	}

	outcome, _ := c.processor.Process(ctx, ev)

	return outcome
}

func (c *Coordinator) setRunning(running bool, height uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.running = running
	c.startBlock = height
}
