// Package intervention records operator contact notes against patients.
// Records are append-only audit data; nothing in the engine reads them
// back for decisions.
package intervention

import (
	"context"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/aftercare/internal/care"
	"github.com/linnemanlabs/aftercare/internal/patient"
)

// Record is one operator intervention note.
type Record struct {
	ID        string        `json:"id"`
	PatientID string        `json:"patient_id"`
	Operator  string        `json:"operator"`
	Method    string        `json:"method"`
	Duration  time.Duration `json:"duration"`
	Content   string        `json:"content"`
	Referral  string        `json:"referral,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// Store is the persistence contract for intervention records.
type Store interface {
	Append(ctx context.Context, r *Record) error

	// ListByPatient returns the patient's records newest first.
	ListByPatient(ctx context.Context, patientID string) ([]*Record, error)
}

// Service validates and records interventions.
type Service struct {
	store    Store
	patients patient.Store
	logger   log.Logger
}

// NewService creates a new intervention service.
func NewService(store Store, patients patient.Store, logger log.Logger) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{store: store, patients: patients, logger: logger}
}

// Record stores an intervention note for an existing patient. The id and
// creation time are assigned here.
func (s *Service) Record(ctx context.Context, r *Record) (*Record, error) {
	if _, ok, err := s.patients.Get(ctx, r.PatientID); err != nil {
		return nil, err
	} else if !ok {
		return nil, care.NotFoundf("patient %s", r.PatientID)
	}

	cp := *r
	cp.ID = ulid.Make().String()
	cp.CreatedAt = time.Now()
	if err := s.store.Append(ctx, &cp); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "intervention recorded",
		"intervention_id", cp.ID,
		"patient_id", cp.PatientID,
		"operator", cp.Operator,
		"method", cp.Method,
	)
	return &cp, nil
}

// ListByPatient returns the patient's intervention history newest first.
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Record, error) {
	if _, ok, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	} else if !ok {
		return nil, care.NotFoundf("patient %s", patientID)
	}
	return s.store.ListByPatient(ctx, patientID)
}
