package careapi

import (
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/aftercare/internal/authmw"
	"github.com/linnemanlabs/aftercare/internal/dispatch"
)

func (a *API) handleRunDispatch(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("aftercare.patient.id", patientID))

	pushed, err := a.dispatch.RunAuto(r.Context(), patientID)
	if err != nil {
		a.writeError(r.Context(), w, err)
		return
	}
	if pushed == nil {
		pushed = []*dispatch.PushRecord{}
	}

	span.SetAttributes(attribute.Int("aftercare.dispatch.pushed", len(pushed)))
	writeJSON(w, http.StatusOK, map[string]any{"pushed": pushed})
}

func (a *API) handlePushHistory(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "id")

	window, err := windowParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	pushes, err := a.dispatch.History(r.Context(), patientID, window)
	if err != nil {
		a.writeError(r.Context(), w, err)
		return
	}
	if pushes == nil {
		pushes = []*dispatch.PushRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"pushes": pushes})
}

func (a *API) handleManualPush(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientID  string `json:"patient_id"`
		MaterialID string `json:"material_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	if req.PatientID == "" || req.MaterialID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "patient_id and material_id are required"})
		return
	}

	operator := authmw.Operator(r.Context())
	if operator == "" {
		operator = anonymousOperator
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("aftercare.patient.id", req.PatientID),
		attribute.String("aftercare.material.id", req.MaterialID),
	)

	rec, err := a.dispatch.Push(r.Context(), req.PatientID, req.MaterialID, operator)
	if err != nil {
		a.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (a *API) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("aftercare.push.id", id))

	rec, err := a.dispatch.MarkRead(r.Context(), id)
	if err != nil {
		a.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	writeJSON(w, http.StatusOK, map[string]any{"materials": a.catalog.List(category)})
}
