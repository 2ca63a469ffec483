package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "aegis",
	Short: "Aegis - governance decision core for AI-agent actions",
	Long: `Aegis renders auditable allow/deny/escalate decisions for proposed
AI-agent actions.

Every decision is risk-classified against a loaded policy rule set, routed
to an evaluation tier, resolved with fail-closed escalation, and appended
to a tamper-evident hash-chained ledger. Adapters (tool-call proxies, HTTP
proxies, command wrappers) translate their own protocols into the same
decision request/response contract.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
