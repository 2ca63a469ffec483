package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"aegis-hq/aegis/pkg/config"
	"aegis-hq/aegis/pkg/governor"
	"aegis-hq/aegis/pkg/router"
	"aegis-hq/aegis/pkg/secrets"
	"aegis-hq/aegis/pkg/server"
	"aegis-hq/aegis/pkg/telemetry/logging"
	"aegis-hq/aegis/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	secretsDir    string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the decision service",
	Long: `Start the decision service with the specified configuration.

The service loads policy definitions, opens the ledger (verifying the
existing hash chain before issuing any decision), and exposes the decision
API, health probes, and metrics over HTTP.

The ledger chain secret is resolved from the AEGIS_SECRET_ environment
namespace, or from a secrets directory when --secrets-dir is given.

Examples:
  # Start with default config
  aegis serve

  # Start with custom config
  aegis serve --config /etc/aegis/config.yaml

  # Override listen address
  aegis serve --listen 0.0.0.0:8710

  # Read secrets from mounted files
  aegis serve --secrets-dir /var/run/secrets/aegis`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveFlags.secretsDir, "secrets-dir", "", "directory of mounted secret files")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger := logging.Setup(cfg.Telemetry.Logging)

	provider, err := buildSecretProvider()
	if err != nil {
		return err
	}

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
	bus := router.NewBus(cfg.Router.BusBuffer)

	service, err := governor.Build(cfg, provider, bus, collector)
	if err != nil {
		return fmt.Errorf("failed to build decision service: %w", err)
	}
	defer service.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := service.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize decision service: %w", err)
	}

	srv := server.NewServer(&cfg.Server, service, collector)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return srv.Shutdown(context.Background())
	}
}

// buildSecretProvider selects the secret backend: mounted files when
// --secrets-dir is given, the AEGIS_SECRET_ environment namespace
// otherwise.
func buildSecretProvider() (secrets.Provider, error) {
	if serveFlags.secretsDir != "" {
		provider, err := secrets.NewFileProvider(serveFlags.secretsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open secrets directory: %w", err)
		}
		return provider, nil
	}
	return secrets.NewEnvProvider("AEGIS_SECRET_"), nil
}
