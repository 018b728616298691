package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/goran-ethernal/DealIndexor/internal/common"
	"github.com/goran-ethernal/DealIndexor/internal/config"
	"github.com/goran-ethernal/DealIndexor/internal/contract"
	"github.com/goran-ethernal/DealIndexor/internal/handlers"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/internal/metrics"
	"github.com/goran-ethernal/DealIndexor/pkg/api"
	pkgconfig "github.com/goran-ethernal/DealIndexor/pkg/config"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║           DealIndexor v%s              ║
║     Deal vault event indexing service     ║
╚═══════════════════════════════════════════╝
`
)

var (
	configPath string
	abiPath    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "indexer",
	Short: "DealIndexor - deal vault event indexer",
	Long: `DealIndexor follows the deal vault contract and maintains a queryable projection
of deals, deposits and rewards. Every event is applied exactly once, out of order
deliveries are parked and reconciled, and reward splits are computed pro rata.`,
	Version: version,
	RunE:    runIndexer,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the indexer",
	RunE:  runIndexer,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Replay parked events once and exit",
	RunE:  runReconcile,
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List contract events and whether they are handled",
	RunE: func(cmd *cobra.Command, args []string) error {
		binding, err := contract.LoadBinding(abiPath)
		if err != nil {
			return err
		}

		registry := handlers.NewRegistry(nil, logger.NewNopLogger())

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Contract events:")
		for _, name := range binding.EventNames() {
			signature, err := binding.Signature(name)
			if err != nil {
				return err
			}
			topic, err := binding.Topic(name)
			if err != nil {
				return err
			}

			handled := " "
			if _, ok := registry.Get(name); ok {
				handled = "✓"
			}
			fmt.Fprintf(out, "  [%s] %s %s\n", handled, signature, topic.Hex())
		}

		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		reflector := &jsonschema.Reflector{
			FieldNameTag:               "json",
			RequiredFromJSONSchemaTags: true,
		}
		schema := reflector.Reflect(&pkgconfig.Config{})
		schema.Title = "DealIndexor configuration"

		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	eventsCmd.Flags().StringVar(&abiPath, "abi", "", "path to a contract ABI overriding the embedded one")

	rootCmd.AddCommand(runCmd, reconcileCmd, eventsCmd, schemaCmd)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Println("\n\nShutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func runIndexer(cmd *cobra.Command, args []string) error {
	fmt.Printf(banner, version)

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	log := logger.NewComponentLoggerFromConfig(common.ComponentCoordinator, cfg.Logging)
	logger.SetDefaultLogger(log)

	app, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.maintenance.Start(ctx); err != nil {
		return fmt.Errorf("failed to start database maintenance: %w", err)
	}

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics, app.health, log)
		if err := metricsServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			if err := metricsServer.Stop(context.Background()); err != nil {
				log.Warnf("Failed to stop metrics server: %v", err)
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.coordinator.Run(gctx)
	})
	g.Go(func() error {
		return app.reconciler.Run(gctx)
	})

	if cfg.API != nil && cfg.API.Enabled {
		apiServer := api.NewServer(
			cfg.API,
			app.store,
			app.coordinator.Status,
			logger.NewComponentLoggerFromConfig(common.ComponentAPI, cfg.Logging),
		)
		g.Go(func() error {
			return apiServer.Start(gctx)
		})
	}

	log.Infow("Starting DealIndexor",
		"contract", cfg.Chain.ContractAddress,
		"events", app.events,
		"finality", cfg.Chain.Finality,
	)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("indexer failed: %w", err)
	}

	log.Info("DealIndexor stopped successfully")
	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	app, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.reconciler.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"replayed=%d applied=%d duplicate=%d parked=%d dropped=%d failed=%d remaining=%d\n",
		result.Replayed, result.Applied, result.Duplicate, result.Parked,
		result.Dropped, result.Failed, result.Remaining,
	)

	return nil
}
