// Package care holds the pieces shared by the triage and dispatch
// subsystems: the domain error taxonomy, the event idempotency key, and
// the per-patient lock set.
package care
