package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goran-ethernal/DealIndexor/internal/common"
	"github.com/goran-ethernal/DealIndexor/internal/contract"
	"github.com/goran-ethernal/DealIndexor/internal/db"
	"github.com/goran-ethernal/DealIndexor/internal/handlers"
	"github.com/goran-ethernal/DealIndexor/internal/indexer"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/internal/metrics"
	"github.com/goran-ethernal/DealIndexor/internal/migrations"
	"github.com/goran-ethernal/DealIndexor/internal/rpc"
	"github.com/goran-ethernal/DealIndexor/internal/store"
	pkgconfig "github.com/goran-ethernal/DealIndexor/pkg/config"
)

// app holds the process scoped resources. They are created once at startup and
// released by Close in reverse order.
type app struct {
	database    *sql.DB
	maintenance db.Maintenance
	ethClient   *rpc.Client
	store       *store.Store
	coordinator *indexer.Coordinator
	reconciler  *indexer.Reconciler
	events      []string
	log         *logger.Logger
}

// newApp opens the database, connects to the chain and wires the indexing pipeline.
// Every error returned here is fatal.
func newApp(ctx context.Context, cfg *pkgconfig.Config) (*app, error) {
	log := logger.NewComponentLoggerFromConfig(common.ComponentCoordinator, cfg.Logging)

	binding, err := contract.LoadBinding(cfg.Chain.ABIPath)
	if err != nil {
		return nil, err
	}

	events := cfg.Chain.Events
	if len(events) == 0 {
		events = handlers.NewRegistry(nil, log).Names()
	}
	for _, name := range events {
		if _, err := binding.Topic(name); err != nil {
			return nil, fmt.Errorf("configured event %q: %w", name, err)
		}
	}

	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	database, err := db.NewSQLiteDBFromConfig(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	a := &app{database: database, events: events, log: log}

	a.maintenance = db.NewMaintenanceCoordinator(
		cfg.DB.Path,
		database,
		cfg.Maintenance,
		logger.NewComponentLoggerFromConfig(common.ComponentMaintenance, cfg.Logging),
	)

	a.store = store.New(database, a.maintenance, logger.NewComponentLoggerFromConfig(common.ComponentStore, cfg.Logging))

	log.Info("Connecting to Ethereum node...")
	a.ethClient, err = rpc.NewClient(ctx, cfg.Chain.RPCURL, cfg.Chain.Retry)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}
	log.Infof("Connected to Ethereum node: %s", cfg.Chain.RPCURL)

	chain, err := rpc.NewChainClient(
		cfg.Chain,
		a.ethClient,
		binding,
		logger.NewComponentLoggerFromConfig(common.ComponentSubscription, cfg.Logging),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create chain client: %w", err)
	}

	contractAddress := cfg.Chain.Contract()
	handlersLog := logger.NewComponentLoggerFromConfig(common.ComponentHandlers, cfg.Logging)
	registry := handlers.NewRegistry(contract.NewReader(contractAddress, binding, a.ethClient), handlersLog)
	processor := handlers.NewProcessor(a.store, registry, handlersLog)
	locks := indexer.NewDealLocker()

	a.coordinator = indexer.NewCoordinator(
		chain,
		a.store,
		processor,
		locks,
		contractAddress,
		events,
		cfg.Chain.Retry,
		log,
	)

	a.reconciler = indexer.NewReconciler(
		a.store,
		processor,
		binding,
		chain,
		locks,
		*cfg.Reconciliation,
		logger.NewComponentLoggerFromConfig(common.ComponentReconciler, cfg.Logging),
	)

	return a, nil
}

// health reports an error when the store is unreachable or the coordinator stopped.
func (a *app) health(ctx context.Context) error {
	if err := a.database.PingContext(ctx); err != nil {
		metrics.ComponentHealthSet(common.ComponentStore, false)
		return fmt.Errorf("store: %w", err)
	}
	metrics.ComponentHealthSet(common.ComponentStore, true)

	if !a.coordinator.Status().Running {
		return errors.New("coordinator is not running")
	}

	return nil
}

// Close releases resources in reverse order of creation.
func (a *app) Close() {
	if a.ethClient != nil {
		a.ethClient.Close()
	}

	if a.maintenance != nil {
		if err := a.maintenance.Stop(); err != nil {
			a.log.Warnf("Failed to stop database maintenance: %v", err)
		}
	}

	if err := a.database.Close(); err != nil {
		a.log.Warnf("Failed to close database: %v", err)
	}
}
