package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aegis-hq/aegis/pkg/config"
	"aegis-hq/aegis/pkg/policy"
)

var validateFlags struct {
	policyDir string
	format    string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate policy definitions",
	Long: `Validate a directory of policy definition files without starting the
service. Intended for pre-deploy checks and release gates.

The validation pass is pure: it parses and checks every definition file
but never applies anything.

Examples:
  # Validate the policy directory from the config file
  aegis validate

  # Validate an explicit directory
  aegis validate --policy-dir policies/

  # Machine-readable output
  aegis validate --policy-dir policies/ --format json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.policyDir, "policy-dir", "", "policy directory (uses config if not specified)")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir := validateFlags.policyDir
	if dir == "" {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		dir = cfg.Policy.Dir
	}

	result := policy.ValidateDefinitions(dir, policy.LoadOptions{})

	if validateFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		if result.Valid {
			fmt.Printf("policy definitions in %s are valid\n", dir)
		} else {
			fmt.Printf("policy definitions in %s are INVALID:\n", dir)
			for _, e := range result.Errors {
				fmt.Printf("  - %s\n", e)
			}
		}
	}

	if !result.Valid {
		os.Exit(1)
	}
	return nil
}
