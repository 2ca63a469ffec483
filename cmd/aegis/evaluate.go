package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"aegis-hq/aegis/pkg/config"
	"aegis-hq/aegis/pkg/governor"
)

var evaluateFlags struct {
	requestID  string
	actorID    string
	action     string
	target     string
	content    string
	secretsDir string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Render a one-shot decision",
	Long: `Build the decision service locally, evaluate a single action, print
the decision as JSON, and exit. The outcome is appended to the configured
ledger exactly as it would be in service mode.

Examples:
  # Low-risk read
  aegis evaluate --action read --target docs/readme.md

  # Mutation of authentication code
  aegis evaluate --action write --target src/auth/credential-service.ts`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evaluateFlags.requestID, "request-id", "", "correlation key (generated if omitted)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.actorID, "actor", "cli", "acting agent identifier")
	evaluateCmd.Flags().StringVar(&evaluateFlags.action, "action", "", "action kind: read, write, execute, tool_call")
	evaluateCmd.Flags().StringVar(&evaluateFlags.target, "target", "", "target path")
	evaluateCmd.Flags().StringVar(&evaluateFlags.content, "content", "", "action content for keyword classification")
	evaluateCmd.Flags().StringVar(&evaluateFlags.secretsDir, "secrets-dir", "", "directory of mounted secret files")

	_ = evaluateCmd.MarkFlagRequired("action")
	_ = evaluateCmd.MarkFlagRequired("target")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}

	serveFlags.secretsDir = evaluateFlags.secretsDir
	provider, err := buildSecretProvider()
	if err != nil {
		return err
	}

	service, err := governor.Build(cfg, provider, nil, nil)
	if err != nil {
		return err
	}
	defer service.Close()

	ctx := context.Background()
	if err := service.Initialize(ctx); err != nil {
		return err
	}

	requestID := evaluateFlags.requestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	resp, err := service.Evaluate(ctx, &governor.DecisionRequest{
		RequestID:  requestID,
		ActorID:    evaluateFlags.actorID,
		Action:     governor.Action(evaluateFlags.action),
		TargetPath: evaluateFlags.target,
		Content:    evaluateFlags.content,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}

	if resp.Decision == governor.DecisionDeny {
		fmt.Fprintln(os.Stderr, "action denied")
		os.Exit(2)
	}
	return nil
}
