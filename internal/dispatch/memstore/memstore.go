// Package memstore provides an in-memory implementation of
// dispatch.Ledger.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/linnemanlabs/aftercare/internal/dispatch"
)

// Ledger holds push records in memory. Suitable for dev/testing.
type Ledger struct {
	mu      sync.RWMutex
	records map[string]*dispatch.PushRecord
	order   []string // append order, for stable history
}

// New initializes a new in-memory Ledger.
func New() *Ledger {
	return &Ledger{records: make(map[string]*dispatch.PushRecord)}
}

// Append stores a copy of a new push record.
func (l *Ledger) Append(_ context.Context, p *dispatch.PushRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *p
	l.records[p.ID] = &cp
	l.order = append(l.order, p.ID)
	return nil
}

// Get retrieves a push record by id. Returns a copy.
func (l *Ledger) Get(_ context.Context, id string) (*dispatch.PushRecord, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.records[id]
	if !ok {
		return nil, false, nil
	}
	cp := *p
	return &cp, true, nil
}

// Put updates an existing record (status changes only).
func (l *Ledger) Put(_ context.Context, p *dispatch.PushRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *p
	l.records[p.ID] = &cp
	return nil
}

// History returns the patient's pushes since the cutoff, newest first.
func (l *Ledger) History(_ context.Context, patientID string, since time.Time) ([]*dispatch.PushRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*dispatch.PushRecord
	for _, id := range l.order {
		p := l.records[id]
		if p.PatientID != patientID || p.PushedAt.Before(since) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PushedAt.After(out[j].PushedAt)
	})
	return out, nil
}

// CountSince returns total and read push counts since the cutoff.
func (l *Ledger) CountSince(_ context.Context, since time.Time) (total, read int, err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, p := range l.records {
		if p.PushedAt.Before(since) {
			continue
		}
		total++
		if p.Status == dispatch.PushRead {
			read++
		}
	}
	return total, read, nil
}
