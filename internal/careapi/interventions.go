package careapi

import (
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/aftercare/internal/authmw"
	"github.com/linnemanlabs/aftercare/internal/intervention"
)

func (a *API) handleRecordIntervention(w http.ResponseWriter, r *http.Request) {
	var rec intervention.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	if rec.PatientID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "patient_id is required"})
		return
	}

	// operator identity always comes from auth, never the body
	rec.Operator = authmw.Operator(r.Context())
	if rec.Operator == "" {
		rec.Operator = anonymousOperator
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("aftercare.patient.id", rec.PatientID))

	stored, err := a.interventions.Record(r.Context(), &rec)
	if err != nil {
		a.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (a *API) handleListInterventions(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "id")

	records, err := a.interventions.ListByPatient(r.Context(), patientID)
	if err != nil {
		a.writeError(r.Context(), w, err)
		return
	}
	if records == nil {
		records = []*intervention.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"interventions": records})
}
