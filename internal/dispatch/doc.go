// Package dispatch provides the care-content dispatch subsystem: a pure
// rule engine that selects educational materials for a patient snapshot,
// and the push ledger service that records every delivery and enforces
// the cooldown dedup that makes automatic evaluation idempotent.
package dispatch
