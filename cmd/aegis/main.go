// Aegis is a governance decision core for AI-agent actions.
//
// Given a proposed action it classifies the action's risk, routes it to an
// evaluation tier, renders an auditable allow/deny/escalate decision, and
// appends the decision to a tamper-evident hash-chained ledger.
//
// Usage:
//
//	# Start the decision service with default configuration
//	aegis serve
//
//	# Start with a custom configuration file
//	aegis serve --config /etc/aegis/config.yaml
//
//	# Validate policy definitions before deploying them
//	aegis validate --policy-dir policies/
//
//	# Verify the ledger hash chain offline
//	aegis verify --ledger data/ledger.db
//
//	# Render a one-shot decision from the command line
//	aegis evaluate --action write --target src/auth/login.go
//
//	# Show version information
//	aegis version
package main

func main() {
	Execute()
}
