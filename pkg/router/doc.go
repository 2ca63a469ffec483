// Package router assigns evaluation tiers and triage to incoming events.
//
// Routing is rule-driven and deterministic: events whose target path
// matches a sensitive pattern are forced to tier 3 regardless of category;
// everything else falls back to the tier implied by its risk grade. The
// router can publish routing events to an in-process bus for observers;
// the bus is a side channel and never part of the decision contract.
package router
