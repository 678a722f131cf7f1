package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/aftercare/internal/care"
	"github.com/linnemanlabs/aftercare/internal/catalog"
	"github.com/linnemanlabs/aftercare/internal/patient"
)

// Service wraps the pure engine with per-patient locking, catalog
// validation, and ledger writes.
type Service struct {
	ledger    Ledger
	rules     RuleSource
	snapshots SnapshotSource
	patients  patient.Store
	catalog   catalog.Catalog
	locks     *care.PatientLocks
	cooldown  time.Duration
	logger    log.Logger
	metrics   *Metrics
}

// NewService creates a new dispatch service. metrics may be nil.
func NewService(ledger Ledger, rules RuleSource, snapshots SnapshotSource, patients patient.Store, cat catalog.Catalog, locks *care.PatientLocks, cooldown time.Duration, logger log.Logger, metrics *Metrics) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		ledger:    ledger,
		rules:     rules,
		snapshots: snapshots,
		patients:  patients,
		catalog:   cat,
		locks:     locks,
		cooldown:  cooldown,
		logger:    logger,
		metrics:   metrics,
	}
}

// RunAuto evaluates the rule set for one patient and appends a sent
// PushRecord per surviving candidate. Re-running with unchanged state is
// a no-op: everything pushed the first time is inside the cooldown
// window on the second.
func (s *Service) RunAuto(ctx context.Context, patientID string) ([]*PushRecord, error) {
	release, err := s.locks.Acquire(patientID)
	if err != nil {
		s.metrics.evaluation("conflict")
		return nil, err
	}
	defer release()

	snap, err := s.snapshots.Snapshot(ctx, patientID)
	if err != nil {
		return nil, err
	}
	rules, err := s.rules.ActiveRules(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	history, err := s.ledger.History(ctx, patientID, now.Add(-s.cooldown))
	if err != nil {
		return nil, err
	}

	var pushed []*PushRecord
	for _, materialID := range Evaluate(snap, rules, history, now, s.cooldown) {
		if _, err := s.catalog.Get(materialID); err != nil {
			// a rule references a material the catalog no longer has;
			// surface it in logs and metrics, keep the rest of the run
			s.metrics.push(PushAuto, "unknown_material")
			s.logger.Error(ctx, err, "skipping rule material missing from catalog",
				"patient_id", patientID,
				"material_id", materialID,
			)
			continue
		}

		rec := &PushRecord{
			ID:         ulid.Make().String(),
			PatientID:  patientID,
			MaterialID: materialID,
			PushType:   PushAuto,
			PushedBy:   SystemOperator,
			PushedAt:   now,
			Status:     PushSent,
		}
		if err := s.ledger.Append(ctx, rec); err != nil {
			return pushed, err
		}
		pushed = append(pushed, rec)
		s.metrics.push(PushAuto, "sent")
	}

	s.metrics.evaluation("ok")
	s.logger.Info(ctx, "dispatch evaluation complete",
		"patient_id", patientID,
		"post_op_day", snap.PostOpDay,
		"pushed", len(pushed),
	)
	return pushed, nil
}

// Push records a manual, operator-initiated push. It is never filtered by
// the cooldown (an operator may deliberately re-send) but fails with
// UnknownMaterial on a catalog miss and NotFound for an unknown patient.
func (s *Service) Push(ctx context.Context, patientID, materialID, operator string) (*PushRecord, error) {
	if _, err := s.catalog.Get(materialID); err != nil {
		s.metrics.push(PushManual, "unknown_material")
		return nil, err
	}
	if _, ok, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	} else if !ok {
		return nil, care.NotFoundf("patient %s", patientID)
	}

	rec := &PushRecord{
		ID:         ulid.Make().String(),
		PatientID:  patientID,
		MaterialID: materialID,
		PushType:   PushManual,
		PushedBy:   operator,
		PushedAt:   time.Now(),
		Status:     PushSent,
	}
	if err := s.ledger.Append(ctx, rec); err != nil {
		return nil, err
	}

	s.metrics.push(PushManual, "sent")
	s.logger.Info(ctx, "manual push recorded",
		"push_id", rec.ID,
		"patient_id", patientID,
		"material_id", materialID,
		"operator", operator,
	)
	return rec, nil
}

// MarkRead acknowledges a sent push. A second acknowledgement is an
// InvalidTransition, not a silent no-op, so double-ack bugs are visible
// to callers.
func (s *Service) MarkRead(ctx context.Context, pushID string) (*PushRecord, error) {
	rec, ok, err := s.ledger.Get(ctx, pushID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, care.NotFoundf("push %s", pushID)
	}

	release, err := s.locks.Acquire(rec.PatientID)
	if err != nil {
		return nil, err
	}
	defer release()

	// re-read under the lock
	rec, ok, err = s.ledger.Get(ctx, pushID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, care.NotFoundf("push %s", pushID)
	}
	if rec.Status != PushSent {
		return nil, care.InvalidTransitionf("push %s is %s, cannot mark read", pushID, rec.Status)
	}

	rec.Status = PushRead
	if err := s.ledger.Put(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// History returns the patient's pushes within the window, newest first.
func (s *Service) History(ctx context.Context, patientID string, window time.Duration) ([]*PushRecord, error) {
	return s.ledger.History(ctx, patientID, time.Now().Add(-window))
}

// CountSince reports total and read pushes since the cutoff.
func (s *Service) CountSince(ctx context.Context, since time.Time) (total, read int, err error) {
	return s.ledger.CountSince(ctx, since)
}

// RunAll evaluates every patient, for the periodic tick. Per-patient
// conflicts are skipped (the holder is doing the same work); other
// failures are logged and the sweep continues.
func (s *Service) RunAll(ctx context.Context) error {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return err
	}

	for _, p := range patients {
		if _, err := s.RunAuto(ctx, p.ID); err != nil {
			if errors.Is(err, care.ErrConflict) {
				continue
			}
			s.logger.Error(ctx, err, "dispatch sweep failed for patient", "patient_id", p.ID)
		}
	}
	return nil
}
