// Package memstore provides an in-memory implementation of patient.Store.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/linnemanlabs/aftercare/internal/care"
	"github.com/linnemanlabs/aftercare/internal/patient"
)

// Store holds patient records in memory. Suitable for dev/testing.
type Store struct {
	mu       sync.RWMutex
	patients map[string]*patient.Patient
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{patients: make(map[string]*patient.Patient)}
}

// Get retrieves a patient by id. Returns a copy.
func (s *Store) Get(_ context.Context, id string) (*patient.Patient, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, false, nil
	}
	cp := *p
	return &cp, true, nil
}

// List returns all patients ordered by id.
func (s *Store) List(_ context.Context) ([]*patient.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*patient.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Put stores a copy of the patient record.
func (s *Store) Put(_ context.Context, p *patient.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	if cp.Status == "" {
		cp.Status = patient.StatusNormal
	}
	s.patients[p.ID] = &cp
	return nil
}

// SetStatus writes back the derived status.
func (s *Store) SetStatus(_ context.Context, id string, status patient.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		return care.NotFoundf("patient %s", id)
	}
	p.Status = status
	return nil
}
