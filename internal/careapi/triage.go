package careapi

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/aftercare/internal/authmw"
	"github.com/linnemanlabs/aftercare/internal/triage"
)

func (a *API) handleIngestReport(w http.ResponseWriter, r *http.Request) {
	var report triage.SymptomReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	if report.PatientID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "patient_id is required"})
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("aftercare.patient.id", report.PatientID),
		attribute.Int("aftercare.report.score", report.Score),
	)

	al, err := a.triage.Create(r.Context(), &report)
	if err != nil {
		a.writeError(r.Context(), w, err)
		return
	}
	if al == nil {
		// score below the yellow threshold, nothing to triage
		w.WriteHeader(http.StatusNoContent)
		return
	}

	span.SetAttributes(attribute.String("aftercare.alert.id", al.ID))
	writeJSON(w, http.StatusCreated, al)
}

func (a *API) handleListPending(w http.ResponseWriter, r *http.Request) {
	level := triage.Level(r.URL.Query().Get("level"))
	switch level {
	case "", triage.LevelYellow, triage.LevelRed:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid level parameter"})
		return
	}

	alerts, err := a.triage.ListPending(r.Context(), level)
	if err != nil {
		a.writeError(r.Context(), w, err)
		return
	}
	if alerts == nil {
		alerts = []*triage.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (a *API) handleContactAlert(w http.ResponseWriter, r *http.Request) {
	a.transitionAlert(w, r, a.triage.MarkContacted)
}

func (a *API) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	a.transitionAlert(w, r, a.triage.Resolve)
}

func (a *API) transitionAlert(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, alertID, operator string) (*triage.Alert, error)) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("aftercare.alert.id", id))

	operator := authmw.Operator(r.Context())
	if operator == "" {
		operator = anonymousOperator
	}

	al, err := fn(r.Context(), id, operator)
	if err != nil {
		a.writeError(r.Context(), w, err)
		return
	}

	span.SetAttributes(attribute.String("aftercare.alert.status", string(al.Status)))
	writeJSON(w, http.StatusOK, al)
}
