package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aegis-hq/aegis/pkg/config"
	"aegis-hq/aegis/pkg/governor"
	"aegis-hq/aegis/pkg/ledger"
	"aegis-hq/aegis/pkg/ledger/storage"
)

var verifyFlags struct {
	ledgerPath string
	secretsDir string
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the ledger hash chain",
	Long: `Walk the entire ledger from the genesis entry, recomputing every hash
from its predecessor and comparing against the stored value.

Any single-field mutation anywhere in the history makes verification fail.
Verification is always complete, never sampled.

Examples:
  # Verify the ledger from the config file
  aegis verify

  # Verify an explicit ledger file
  aegis verify --ledger data/ledger.db

  # Read the chain secret from mounted files
  aegis verify --secrets-dir /var/run/secrets/aegis`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyFlags.ledgerPath, "ledger", "", "ledger database path (uses config if not specified)")
	verifyCmd.Flags().StringVar(&verifyFlags.secretsDir, "secrets-dir", "", "directory of mounted secret files")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}
	if verifyFlags.ledgerPath != "" {
		cfg.Ledger.Path = verifyFlags.ledgerPath
	}

	serveFlags.secretsDir = verifyFlags.secretsDir
	provider, err := buildSecretProvider()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{
		Path:        cfg.Ledger.Path,
		BusyTimeout: cfg.Ledger.BusyTimeout,
	})
	if err != nil {
		return err
	}

	chain := ledger.New[governor.DecisionOutcome](store, provider, cfg.Ledger.SecretName)
	defer chain.Close()

	ctx := context.Background()
	if err := chain.Initialize(ctx); err != nil {
		return err
	}

	count, err := chain.EntryCount(ctx)
	if err != nil {
		return err
	}

	if err := chain.Verify(ctx); err != nil {
		fmt.Printf("ledger FAILED verification: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ledger verified: %d entries, chain intact\n", count)
	return nil
}
