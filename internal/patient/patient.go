// Package patient defines the patient snapshot model and store contract.
// The patient record is owned by the surrounding application; the engine
// reads it and writes back only the derived status.
package patient

import "context"

// Status is the derived monitoring status written back by triage.
type Status string

const (
	// StatusNormal means no unresolved alert.
	StatusNormal Status = "normal"

	// StatusWarning means an unresolved yellow alert and no red.
	StatusWarning Status = "warning"

	// StatusAlert means an unresolved red alert.
	StatusAlert Status = "alert"
)

// Patient is the engine's view of a monitored patient.
type Patient struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	SurgeryType   string `json:"surgery_type,omitempty"`
	TreatmentPlan string `json:"treatment_plan,omitempty"`
	PostOpDay     int    `json:"post_op_day"`
	Status        Status `json:"status"`
}

// Snapshot is the per-evaluation view the dispatch engine consumes.
// ActiveSymptoms are the symptoms of the patient's current unresolved
// alert, empty when there is none.
type Snapshot struct {
	PatientID      string
	PostOpDay      int
	TreatmentPlan  string
	ActiveSymptoms []string
}

// Store is the persistence contract for patient records.
type Store interface {
	Get(ctx context.Context, id string) (*Patient, bool, error)
	List(ctx context.Context) ([]*Patient, error)
	Put(ctx context.Context, p *Patient) error

	// SetStatus writes back the derived status for id. Unknown ids are an
	// error: the engine never creates patients.
	SetStatus(ctx context.Context, id string, status Status) error
}
