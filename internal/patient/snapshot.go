package patient

import "context"

// OpenAlertSource reports the symptom set of a patient's unresolved
// alert, if any. Implemented by the triage service.
type OpenAlertSource interface {
	OpenSymptoms(ctx context.Context, patientID string) ([]string, error)
}

// SnapshotProvider composes the patient store with the triage open-alert
// view to produce dispatch evaluation snapshots.
type SnapshotProvider struct {
	Store  Store
	Alerts OpenAlertSource
}

// Snapshot assembles the evaluation snapshot for patientID. A missing
// patient surfaces as care.ErrNotFound from the store contract.
func (p *SnapshotProvider) Snapshot(ctx context.Context, patientID string) (*Snapshot, error) {
	pt, ok, err := p.Store.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound(patientID)
	}

	var symptoms []string
	if p.Alerts != nil {
		symptoms, err = p.Alerts.OpenSymptoms(ctx, patientID)
		if err != nil {
			return nil, err
		}
	}

	return &Snapshot{
		PatientID:      pt.ID,
		PostOpDay:      pt.PostOpDay,
		TreatmentPlan:  pt.TreatmentPlan,
		ActiveSymptoms: symptoms,
	}, nil
}
