package triage

import (
	"context"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/aftercare/internal/care"
	"github.com/linnemanlabs/aftercare/internal/patient"
)

// Notifier is told about red alerts. Failures are logged, never allowed
// to fail the triage write.
type Notifier interface {
	Send(ctx context.Context, a *Alert) error
}

// Service is the business boundary for triage operations. All mutations
// for one patient are serialized through the shared lock set; contention
// surfaces as care.ErrConflict.
type Service struct {
	store      Store
	patients   patient.Store
	locks      *care.PatientLocks
	thresholds Thresholds
	logger     log.Logger
	metrics    *Metrics
	notifier   Notifier
}

// NewService creates a new triage service. metrics and notifier may be nil.
func NewService(store Store, patients patient.Store, locks *care.PatientLocks, th Thresholds, logger log.Logger, metrics *Metrics, notifier Notifier) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:      store,
		patients:   patients,
		locks:      locks,
		thresholds: th,
		logger:     logger,
		metrics:    metrics,
		notifier:   notifier,
	}
}

// Create classifies a scored report. Below the yellow threshold it is a
// silent no-op (nil alert, nil error). If the patient already has an
// unresolved alert the report re-triages it in place instead of creating
// a duplicate; otherwise a new pending alert is created. The patient's
// derived status is recomputed either way.
func (s *Service) Create(ctx context.Context, report *SymptomReport) (*Alert, error) {
	level, ok := s.thresholds.LevelFor(report.Score)
	if !ok {
		s.metrics.reportOutcome("below_threshold")
		return nil, nil
	}

	if _, found, err := s.patients.Get(ctx, report.PatientID); err != nil {
		return nil, err
	} else if !found {
		s.metrics.reportOutcome("unknown_patient")
		return nil, care.NotFoundf("patient %s", report.PatientID)
	}

	release, err := s.locks.Acquire(report.PatientID)
	if err != nil {
		s.metrics.reportOutcome("conflict")
		return nil, err
	}
	defer release()

	now := report.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	open, exists, err := s.store.OpenByPatient(ctx, report.PatientID)
	if err != nil {
		return nil, err
	}

	var al *Alert
	if exists {
		// re-triage in place: refresh classification, keep identity and
		// original created_at so queue ordering is stable
		wasRed := open.Level == LevelRed
		open.Level = level
		open.Score = report.Score
		open.Symptoms = report.Symptoms
		open.StatusChangedAt = now
		if err := s.store.Put(ctx, open); err != nil {
			return nil, err
		}
		al = open
		s.metrics.reportOutcome("retriaged")
		s.metrics.retriage()
		s.logger.Info(ctx, "alert re-triaged",
			"alert_id", al.ID,
			"patient_id", al.PatientID,
			"level", al.Level,
			"score", al.Score,
		)
		if level == LevelRed && !wasRed {
			s.notify(ctx, al)
		}
	} else {
		al = &Alert{
			ID:              ulid.Make().String(),
			PatientID:       report.PatientID,
			Level:           level,
			Score:           report.Score,
			Symptoms:        report.Symptoms,
			CreatedAt:       now,
			Status:          StatusPending,
			StatusChangedAt: now,
		}
		if err := s.store.Put(ctx, al); err != nil {
			return nil, err
		}
		s.metrics.reportOutcome("created")
		s.metrics.alertCreated(level)
		s.logger.Info(ctx, "alert created",
			"alert_id", al.ID,
			"patient_id", al.PatientID,
			"level", al.Level,
			"score", al.Score,
		)
		if level == LevelRed {
			s.notify(ctx, al)
		}
	}

	if err := s.syncPatientStatus(ctx, report.PatientID); err != nil {
		return nil, err
	}
	return al, nil
}

// MarkContacted moves a pending alert to contacted, recording the
// operator. Any other starting state is an InvalidTransition.
func (s *Service) MarkContacted(ctx context.Context, alertID, operator string) (*Alert, error) {
	return s.transition(ctx, alertID, operator, StatusContacted)
}

// Resolve closes an alert from pending or contacted. Resolution is
// terminal: resolving twice fails rather than silently succeeding.
func (s *Service) Resolve(ctx context.Context, alertID, operator string) (*Alert, error) {
	return s.transition(ctx, alertID, operator, StatusResolved)
}

// ListPending returns pending alerts oldest first, optionally filtered by
// level, so the oldest unaddressed risk surfaces first.
func (s *Service) ListPending(ctx context.Context, level Level) ([]*Alert, error) {
	return s.store.ListPending(ctx, level)
}

// Get retrieves an alert by id.
func (s *Service) Get(ctx context.Context, id string) (*Alert, bool, error) {
	return s.store.Get(ctx, id)
}

// OpenSymptoms implements patient.OpenAlertSource for dispatch snapshots.
func (s *Service) OpenSymptoms(ctx context.Context, patientID string) ([]string, error) {
	open, ok, err := s.store.OpenByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return open.Symptoms, nil
}

// PendingCounts returns pending alert counts per level, for reporting.
func (s *Service) PendingCounts(ctx context.Context) (map[Level]int, error) {
	return s.store.PendingCounts(ctx)
}

func (s *Service) transition(ctx context.Context, alertID, operator string, to Status) (*Alert, error) {
	al, ok, err := s.store.Get(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, care.NotFoundf("alert %s", alertID)
	}

	release, err := s.locks.Acquire(al.PatientID)
	if err != nil {
		s.metrics.transition(to, "conflict")
		return nil, err
	}
	defer release()

	// re-read under the lock; another operator may have raced us here
	al, ok, err = s.store.Get(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, care.NotFoundf("alert %s", alertID)
	}

	if !legalTransition(al.Status, to) {
		s.metrics.transition(to, "illegal")
		return nil, care.InvalidTransitionf("alert %s is %s, cannot become %s", alertID, al.Status, to)
	}

	al.Status = to
	al.StatusChangedAt = time.Now()
	switch to {
	case StatusContacted:
		al.ContactedBy = operator
	case StatusResolved:
		al.ResolvedBy = operator
	}

	if err := s.store.Put(ctx, al); err != nil {
		return nil, err
	}
	if err := s.syncPatientStatus(ctx, al.PatientID); err != nil {
		return nil, err
	}

	s.metrics.transition(to, "ok")
	s.logger.Info(ctx, "alert transitioned",
		"alert_id", al.ID,
		"patient_id", al.PatientID,
		"status", al.Status,
		"operator", operator,
	)
	return al, nil
}

func legalTransition(from, to Status) bool {
	switch to {
	case StatusContacted:
		return from == StatusPending
	case StatusResolved:
		return from == StatusPending || from == StatusContacted
	default:
		return false
	}
}

// syncPatientStatus recomputes the derived patient status from the open
// alert (at most one exists): red -> alert, yellow -> warning, none ->
// normal.
func (s *Service) syncPatientStatus(ctx context.Context, patientID string) error {
	open, ok, err := s.store.OpenByPatient(ctx, patientID)
	if err != nil {
		return err
	}

	status := patient.StatusNormal
	if ok {
		if open.Level == LevelRed {
			status = patient.StatusAlert
		} else {
			status = patient.StatusWarning
		}
	}
	return s.patients.SetStatus(ctx, patientID, status)
}

func (s *Service) notify(ctx context.Context, al *Alert) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, al); err != nil {
		s.logger.Error(ctx, err, "red alert notification failed", "alert_id", al.ID)
	}
}
