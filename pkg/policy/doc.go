// Package policy loads risk-classification rules from a directory of YAML
// definitions and evaluates them.
//
// Loading is a parse-then-validate pipeline: a structurally invalid
// definition set fails as a whole and is never partially applied. The
// loaded Definition is immutable for the process lifetime; picking up rule
// changes requires re-initializing the service.
//
// Classification is a pure function of its inputs. Unknown paths degrade
// to the configured default grade rather than erroring.
package policy
