// Package careapi exposes the triage and dispatch engines over HTTP.
package careapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/aftercare/internal/care"
	"github.com/linnemanlabs/aftercare/internal/catalog"
	"github.com/linnemanlabs/aftercare/internal/dispatch"
	"github.com/linnemanlabs/aftercare/internal/intervention"
	"github.com/linnemanlabs/aftercare/internal/triage"
)

// anonymousOperator is recorded when no auth middleware is installed.
const anonymousOperator = "anonymous"

// defaultHistoryWindow bounds push history queries without an explicit
// window parameter.
const defaultHistoryWindow = 7 * 24 * time.Hour

// TriageService defines the triage operations careapi needs.
type TriageService interface {
	Create(ctx context.Context, report *triage.SymptomReport) (*triage.Alert, error)
	MarkContacted(ctx context.Context, alertID, operator string) (*triage.Alert, error)
	Resolve(ctx context.Context, alertID, operator string) (*triage.Alert, error)
	ListPending(ctx context.Context, level triage.Level) ([]*triage.Alert, error)
	PendingCounts(ctx context.Context) (map[triage.Level]int, error)
}

// DispatchService defines the dispatch operations careapi needs.
type DispatchService interface {
	RunAuto(ctx context.Context, patientID string) ([]*dispatch.PushRecord, error)
	Push(ctx context.Context, patientID, materialID, operator string) (*dispatch.PushRecord, error)
	MarkRead(ctx context.Context, pushID string) (*dispatch.PushRecord, error)
	History(ctx context.Context, patientID string, window time.Duration) ([]*dispatch.PushRecord, error)
	CountSince(ctx context.Context, since time.Time) (total, read int, err error)
}

// InterventionService defines the intervention operations careapi needs.
type InterventionService interface {
	Record(ctx context.Context, r *intervention.Record) (*intervention.Record, error)
	ListByPatient(ctx context.Context, patientID string) ([]*intervention.Record, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger        log.Logger
	triage        TriageService
	dispatch      DispatchService
	interventions InterventionService
	catalog       catalog.Catalog
}

// New creates a new API handler.
func New(logger log.Logger, ts TriageService, ds DispatchService, is InterventionService, cat catalog.Catalog) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if ts == nil {
		panic(xerrors.New("triage service is required"))
	}
	if ds == nil {
		panic(xerrors.New("dispatch service is required"))
	}
	if is == nil {
		panic(xerrors.New("intervention service is required"))
	}
	if cat == nil {
		panic(xerrors.New("catalog is required"))
	}
	return &API{
		logger:        logger,
		triage:        ts,
		dispatch:      ds,
		interventions: is,
		catalog:       cat,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/reports", a.handleIngestReport)
		r.Get("/alerts/pending", a.handleListPending)
		r.Post("/alerts/{id}/contact", a.handleContactAlert)
		r.Post("/alerts/{id}/resolve", a.handleResolveAlert)
		r.Post("/patients/{id}/dispatch", a.handleRunDispatch)
		r.Get("/patients/{id}/pushes", a.handlePushHistory)
		r.Post("/pushes", a.handleManualPush)
		r.Post("/pushes/{id}/read", a.handleMarkRead)
		r.Get("/materials", a.handleListMaterials)
		r.Post("/interventions", a.handleRecordIntervention)
		r.Get("/patients/{id}/interventions", a.handleListInterventions)
		r.Get("/stats", a.handleStats)
	})
}

// writeError maps domain errors onto HTTP statuses.
func (a *API) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, care.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, care.ErrInvalidTransition), errors.Is(err, care.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, care.ErrUnknownMaterial):
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
		a.logger.Error(ctx, err, "request failed")
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func windowParam(r *http.Request) (time.Duration, error) {
	raw := r.URL.Query().Get("window")
	if raw == "" {
		return defaultHistoryWindow, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid window parameter")
	}
	return d, nil
}
