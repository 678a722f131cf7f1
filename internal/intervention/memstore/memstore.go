// Package memstore provides an in-memory implementation of
// intervention.Store.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/linnemanlabs/aftercare/internal/intervention"
)

// Store holds intervention records in memory. Suitable for dev/testing.
type Store struct {
	mu      sync.RWMutex
	records []*intervention.Record
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{}
}

// Append stores a copy of a new record.
func (s *Store) Append(_ context.Context, r *intervention.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.records = append(s.records, &cp)
	return nil
}

// ListByPatient returns the patient's records newest first.
func (s *Store) ListByPatient(_ context.Context, patientID string) ([]*intervention.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*intervention.Record
	for _, r := range s.records {
		if r.PatientID != patientID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
