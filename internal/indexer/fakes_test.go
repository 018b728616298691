package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	internalcommon "github.com/goran-ethernal/DealIndexor/internal/common"
	"github.com/goran-ethernal/DealIndexor/internal/contract"
	"github.com/goran-ethernal/DealIndexor/internal/db"
	"github.com/goran-ethernal/DealIndexor/internal/handlers"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/internal/migrations"
	irpc "github.com/goran-ethernal/DealIndexor/internal/rpc"
	"github.com/goran-ethernal/DealIndexor/internal/store"
	"github.com/goran-ethernal/DealIndexor/pkg/config"
	pkgrpc "github.com/goran-ethernal/DealIndexor/pkg/rpc"
	"github.com/stretchr/testify/require"
)

var vaultAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

type fakeSubscription struct {
	events chan pkgrpc.RawEvent
	errs   chan error
	stop   chan struct{}
	once   sync.Once
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{
		events: make(chan pkgrpc.RawEvent),
		errs:   make(chan error, 4),
		stop:   make(chan struct{}),
	}
}

func (s *fakeSubscription) Events() <-chan pkgrpc.RawEvent { return s.events }
func (s *fakeSubscription) Err() <-chan error              { return s.errs }
func (s *fakeSubscription) Unsubscribe()                   { s.once.Do(func() { close(s.stop) }) }

// send delivers events in order, giving up when the subscription is stopped.
func (s *fakeSubscription) send(events ...pkgrpc.RawEvent) {
	for _, ev := range events {
		select {
		case s.events <- ev:
		case <-s.stop:
			return
		}
	}
}

func (s *fakeSubscription) stopped() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

type fakeChain struct {
	mu           sync.Mutex
	height       uint64
	heightErrs   int
	heightCalls  int
	subscribeErr map[string]error
	subs         map[string]*fakeSubscription
	fromBlocks   map[string]uint64
}

func newFakeChain(height uint64) *fakeChain {
	return &fakeChain{
		height:       height,
		subscribeErr: make(map[string]error),
		subs:         make(map[string]*fakeSubscription),
		fromBlocks:   make(map[string]uint64),
	}
}

func (c *fakeChain) CurrentHeight(ctx context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.heightCalls++
	if c.heightErrs > 0 {
		c.heightErrs--
		return 0, &irpc.ConnectivityError{Op: "eth_getBlockByNumber", Err: errors.New("connection refused")}
	}
	return c.height, nil
}

func (c *fakeChain) Subscribe(ctx context.Context, contract common.Address, eventName string, fromBlock uint64) (pkgrpc.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.subscribeErr[eventName]; err != nil {
		return nil, err
	}
	sub := newFakeSubscription()
	c.subs[eventName] = sub
	c.fromBlocks[eventName] = fromBlock
	return sub, nil
}

func (c *fakeChain) BlockTimestamp(ctx context.Context, blockNum uint64) (uint64, error) {
	return 1_700_000_000 + blockNum*12, nil
}

func (c *fakeChain) sub(t *testing.T, eventName string) *fakeSubscription {
	t.Helper()

	var sub *fakeSubscription
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		sub = c.subs[eventName]
		return sub != nil
	}, 5*time.Second, time.Millisecond)

	return sub
}

// stubDecoder returns the arguments registered for a transaction hash.
type stubDecoder struct {
	mu   sync.Mutex
	args map[common.Hash]map[string]any
}

func newStubDecoder() *stubDecoder {
	return &stubDecoder{args: make(map[common.Hash]map[string]any)}
}

func (d *stubDecoder) Topic(eventName string) (common.Hash, error) {
	return common.BytesToHash([]byte(eventName)), nil
}

func (d *stubDecoder) Decode(eventName string, log types.Log) (map[string]any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	args, ok := d.args[log.TxHash]
	if !ok {
		return nil, fmt.Errorf("unknown log %s", log.TxHash.Hex())
	}
	return args, nil
}

func (d *stubDecoder) event(name string, block uint64, index uint, args map[string]any) pkgrpc.RawEvent {
	log := types.Log{
		Address:     vaultAddress,
		Topics:      []common.Hash{common.BytesToHash([]byte(name))},
		Data:        []byte{},
		BlockNumber: block,
		TxHash:      common.BigToHash(new(big.Int).SetUint64(block*1000 + uint64(index))),
		BlockHash:   common.BigToHash(new(big.Int).SetUint64(block)),
		Index:       index,
	}

	d.mu.Lock()
	d.args[log.TxHash] = args
	d.mu.Unlock()

	return pkgrpc.NewRawEvent(name, args, log, nil)
}

func (d *stubDecoder) dealCreated(dealID, block uint64) pkgrpc.RawEvent {
	return d.event(contract.EventDealCreated, block, 0, map[string]any{
		"dealId":        new(big.Int).SetUint64(dealID),
		"depositToken":  common.HexToAddress("0xaa"),
		"minDeposit":    big.NewInt(1),
		"maxDeposit":    big.NewInt(1_000_000),
		"startTime":     big.NewInt(1_700_000_000),
		"duration":      big.NewInt(86400),
		"expectedYield": big.NewInt(500),
	})
}

func (d *stubDecoder) deposited(dealID, positionID uint64, user common.Address, amount int64, block uint64) pkgrpc.RawEvent {
	return d.event(contract.EventDeposited, block, 1, map[string]any{
		"dealId":     new(big.Int).SetUint64(dealID),
		"user":       user,
		"positionId": new(big.Int).SetUint64(positionID),
		"amount":     big.NewInt(amount),
	})
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	sqlDB, err := db.NewSQLiteDB(filepath.Join(t.TempDir(), "deals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, migrations.RunMigrationsDB(logger.NewNopLogger(), sqlDB))

	return store.New(sqlDB, nil, logger.NewNopLogger())
}

func testLogger() *logger.Logger {
	return logger.NewNopLogger().WithComponent(internalcommon.ComponentCoordinator)
}

func fastRetry() *config.RetryConfig {
	return &config.RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    internalcommon.NewDuration(time.Millisecond),
		MaxBackoff:        internalcommon.NewDuration(5 * time.Millisecond),
		BackoffMultiplier: 2,
	}
}

// recordingProcessor tracks concurrent handling per deal.
type recordingProcessor struct {
	mu          sync.Mutex
	inFlight    map[uint64]int
	maxInFlight map[uint64]int
	processed   []pkgrpc.RawEvent
	delay       time.Duration
	block       chan struct{}
	entered     chan context.Context
	unknown     map[string]bool
}

func newRecordingProcessor() *recordingProcessor {
	return &recordingProcessor{
		inFlight:    make(map[uint64]int),
		maxInFlight: make(map[uint64]int),
		unknown:     make(map[string]bool),
	}
}

func (p *recordingProcessor) Handles(eventName string) bool {
	return !p.unknown[eventName]
}

func (p *recordingProcessor) Process(ctx context.Context, raw pkgrpc.RawEvent) (handlers.Outcome, error) {
	dealID, _ := handlers.DealID(raw)

	p.mu.Lock()
	p.inFlight[dealID]++
	p.maxInFlight[dealID] = max(p.maxInFlight[dealID], p.inFlight[dealID])
	p.mu.Unlock()

	if p.entered != nil {
		p.entered <- ctx
	}
	if p.block != nil {
		<-p.block
	}
	time.Sleep(p.delay)

	p.mu.Lock()
	p.inFlight[dealID]--
	p.processed = append(p.processed, raw)
	p.mu.Unlock()

	return handlers.OutcomeApplied, nil
}

func (p *recordingProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.processed)
}

func mustLogJSON(t *testing.T, log types.Log) string {
	t.Helper()

	data, err := json.Marshal(&log)
	require.NoError(t, err)
	return string(data)
}
