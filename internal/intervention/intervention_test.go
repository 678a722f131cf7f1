package intervention

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/aftercare/internal/care"
	"github.com/linnemanlabs/aftercare/internal/patient"
)

// mockStore implements Store for testing.
type mockStore struct {
	mu      sync.Mutex
	records []*Record
	err     error
}

func (m *mockStore) Append(_ context.Context, r *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *r
	m.records = append(m.records, &cp)
	return nil
}

func (m *mockStore) ListByPatient(_ context.Context, patientID string) ([]*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Record
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].PatientID == patientID {
			cp := *m.records[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

// mockPatients implements patient.Store for testing.
type mockPatients map[string]*patient.Patient

func (m mockPatients) Get(_ context.Context, id string) (*patient.Patient, bool, error) {
	p, ok := m[id]
	if !ok {
		return nil, false, nil
	}
	cp := *p
	return &cp, true, nil
}

func (m mockPatients) List(_ context.Context) ([]*patient.Patient, error) { return nil, nil }

func (m mockPatients) Put(_ context.Context, p *patient.Patient) error { return nil }

func (m mockPatients) SetStatus(_ context.Context, id string, status patient.Status) error {
	return nil
}

func TestRecord_AssignsIDAndTime(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	svc := NewService(store, mockPatients{"p-1": {ID: "p-1"}}, log.Nop())

	got, err := svc.Record(context.Background(), &Record{
		PatientID: "p-1",
		Operator:  "nurse-kim",
		Method:    "phone",
		Duration:  10 * time.Minute,
		Content:   "checked wound site",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.ID == "" {
		t.Error("expected non-empty ID")
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if len(store.records) != 1 {
		t.Errorf("stored records = %d, want 1", len(store.records))
	}
}

func TestRecord_UnknownPatient(t *testing.T) {
	t.Parallel()

	svc := NewService(&mockStore{}, mockPatients{}, log.Nop())

	_, err := svc.Record(context.Background(), &Record{PatientID: "ghost", Operator: "nurse-kim"})
	if !errors.Is(err, care.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecord_StoreError(t *testing.T) {
	t.Parallel()

	store := &mockStore{err: errors.New("db down")}
	svc := NewService(store, mockPatients{"p-1": {ID: "p-1"}}, log.Nop())

	_, err := svc.Record(context.Background(), &Record{PatientID: "p-1", Operator: "nurse-kim"})
	if err == nil {
		t.Fatal("expected error from store")
	}
}

func TestListByPatient(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	svc := NewService(store, mockPatients{"p-1": {ID: "p-1"}}, log.Nop())

	if _, err := svc.Record(context.Background(), &Record{PatientID: "p-1", Operator: "nurse-kim", Method: "phone"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := svc.Record(context.Background(), &Record{PatientID: "p-1", Operator: "dr-lee", Method: "visit"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := svc.ListByPatient(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("ListByPatient: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records = %d, want 2", len(got))
	}
	if got[0].Method != "visit" {
		t.Errorf("newest Method = %q, want %q", got[0].Method, "visit")
	}
}

func TestListByPatient_UnknownPatient(t *testing.T) {
	t.Parallel()

	svc := NewService(&mockStore{}, mockPatients{}, log.Nop())

	_, err := svc.ListByPatient(context.Background(), "ghost")
	if !errors.Is(err, care.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
