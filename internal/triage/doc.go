// Package triage provides the business boundary for Aftercare's alert
// triage subsystem. It defines the Service (threshold banding, in-place
// re-triage, operator transitions, derived patient status), the Store
// interface (persistence), and the domain models.
package triage
