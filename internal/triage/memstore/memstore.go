// Package memstore provides an in-memory implementation of triage.Store.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/linnemanlabs/aftercare/internal/care"
	"github.com/linnemanlabs/aftercare/internal/triage"
)

// Store holds alerts in memory. Suitable for dev/testing.
type Store struct {
	mu     sync.RWMutex
	alerts map[string]*triage.Alert
	open   map[string]string // care.OpenAlertKey(patient) -> alert ID
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		alerts: make(map[string]*triage.Alert),
		open:   make(map[string]string),
	}
}

// Get retrieves an alert by id. Returns a copy.
func (s *Store) Get(_ context.Context, id string) (*triage.Alert, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alerts[id]
	if !ok {
		return nil, false, nil
	}
	return copyAlert(a), true, nil
}

// OpenByPatient retrieves the patient's unresolved alert via the
// idempotency index. Returns a copy.
func (s *Store) OpenByPatient(_ context.Context, patientID string) (*triage.Alert, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.open[care.OpenAlertKey(patientID)]
	if !ok {
		return nil, false, nil
	}
	return copyAlert(s.alerts[id]), true, nil
}

// Put upserts a copy of the alert and maintains the open-alert index.
func (s *Store) Put(_ context.Context, a *triage.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := copyAlert(a)
	s.alerts[a.ID] = cp

	key := care.OpenAlertKey(a.PatientID)
	if cp.Open() {
		s.open[key] = a.ID
	} else if s.open[key] == a.ID {
		delete(s.open, key)
	}
	return nil
}

// ListPending returns pending alerts oldest first, optionally filtered by
// level.
func (s *Store) ListPending(_ context.Context, level triage.Level) ([]*triage.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*triage.Alert
	for _, a := range s.alerts {
		if a.Status != triage.StatusPending {
			continue
		}
		if level != "" && a.Level != level {
			continue
		}
		out = append(out, copyAlert(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// PendingCounts returns pending alert counts per level.
func (s *Store) PendingCounts(_ context.Context) (map[triage.Level]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[triage.Level]int)
	for _, a := range s.alerts {
		if a.Status == triage.StatusPending {
			counts[a.Level]++
		}
	}
	return counts, nil
}

func copyAlert(a *triage.Alert) *triage.Alert {
	cp := *a
	cp.Symptoms = append([]string(nil), a.Symptoms...)
	return &cp
}
