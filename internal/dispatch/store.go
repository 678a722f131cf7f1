package dispatch

import (
	"context"
	"time"

	"github.com/linnemanlabs/aftercare/internal/patient"
)

// Ledger is the persistence interface for push records. Append-only in
// spirit: Put exists solely for the sent -> read status change.
type Ledger interface {
	Append(ctx context.Context, p *PushRecord) error
	Get(ctx context.Context, id string) (*PushRecord, bool, error)
	Put(ctx context.Context, p *PushRecord) error

	// History returns the patient's pushes with pushed_at >= since,
	// newest first.
	History(ctx context.Context, patientID string, since time.Time) ([]*PushRecord, error)

	// CountSince returns total and read push counts since the cutoff,
	// for reporting.
	CountSince(ctx context.Context, since time.Time) (total, read int, err error)
}

// RuleSource supplies the active rule set per evaluation. Rules are
// configuration owned outside the engine.
type RuleSource interface {
	ActiveRules(ctx context.Context) ([]Rule, error)
}

// StaticRules is a RuleSource over a fixed in-memory rule set.
type StaticRules []Rule

// ActiveRules implements RuleSource. Disabled rules are kept; the engine
// filters them, so toggling a rule is a data change only.
func (r StaticRules) ActiveRules(_ context.Context) ([]Rule, error) {
	out := make([]Rule, len(r))
	copy(out, r)
	return out, nil
}

// SnapshotSource assembles the patient snapshot the engine evaluates.
type SnapshotSource interface {
	Snapshot(ctx context.Context, patientID string) (*patient.Snapshot, error)
}
