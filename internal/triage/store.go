package triage

import "context"

// Store is the persistence interface for alerts. Each call is a single
// durable all-or-nothing write or read; the Service layers locking and
// state-machine rules on top.
type Store interface {
	Get(ctx context.Context, id string) (*Alert, bool, error)

	// OpenByPatient returns the patient's unresolved alert, if any. The
	// store maintains at most one.
	OpenByPatient(ctx context.Context, patientID string) (*Alert, bool, error)

	// Put inserts or updates an alert and keeps the open-alert index
	// consistent with its status.
	Put(ctx context.Context, a *Alert) error

	// ListPending returns pending alerts, optionally filtered by level
	// (empty = all), ordered by created_at ascending.
	ListPending(ctx context.Context, level Level) ([]*Alert, error)

	// PendingCounts returns the number of pending alerts per level.
	PendingCounts(ctx context.Context) (map[Level]int, error)
}
