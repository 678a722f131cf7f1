package careapi

import (
	"net/http"
	"time"

	"github.com/linnemanlabs/aftercare/internal/triage"
)

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	window, err := windowParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	counts, err := a.triage.PendingCounts(r.Context())
	if err != nil {
		a.writeError(r.Context(), w, err)
		return
	}

	total, read, err := a.dispatch.CountSince(r.Context(), time.Now().Add(-window))
	if err != nil {
		a.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pending_alerts": map[string]int{
			"yellow": counts[triage.LevelYellow],
			"red":    counts[triage.LevelRed],
		},
		"pushes": map[string]int{
			"total": total,
			"read":  read,
		},
	})
}
