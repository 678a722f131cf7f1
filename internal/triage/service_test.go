package triage

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
	mu     sync.Mutex
	alerts map[string]*Alert
	open   map[string]string
	putErr error
	getErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		alerts: make(map[string]*Alert),
		open:   make(map[string]string),
	}
}

func (m *mockStore) Get(_ context.Context, id string) (*Alert, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	a, ok := m.alerts[id]
	if !ok {
		return nil, false, nil
	}
	cp := *a
	return &cp, true, nil
}

func (m *mockStore) OpenByPatient(_ context.Context, patientID string) (*Alert, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	id, ok := m.open[patientID]
	if !ok {
		return nil, false, nil
	}
	cp := *m.alerts[id]
	return &cp, true, nil
}

func (m *mockStore) Put(_ context.Context, a *Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	cp := *a
	m.alerts[a.ID] = &cp
	if cp.Open() {
		m.open[a.PatientID] = a.ID
	} else if m.open[a.PatientID] == a.ID {
		delete(m.open, a.PatientID)
	}
	return nil
}

func (m *mockStore) ListPending(_ context.Context, level Level) ([]*Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Alert
	for _, a := range m.alerts {
		if a.Status != StatusPending {
			continue
		}
		if level != "" && a.Level != level {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockStore) PendingCounts(_ context.Context) (map[Level]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[Level]int)
	for _, a := range m.alerts {
		if a.Status == StatusPending {
			counts[a.Level]++
		}
	}
	return counts, nil
}

// mockPatients implements patient.Store for testing.
type mockPatients struct {
	mu       sync.Mutex
	patients map[string]*patient.Patient
	statuses map[string]patient.Status
}

func newMockPatients(ids ...string) *mockPatients {
	m := &mockPatients{
		patients: make(map[string]*patient.Patient),
		statuses: make(map[string]patient.Status),
	}
	for _, id := range ids {
		m.patients[id] = &patient.Patient{ID: id, Status: patient.StatusNormal}
	}
	return m
}

func (m *mockPatients) Get(_ context.Context, id string) (*patient.Patient, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[id]
	if !ok {
		return nil, false, nil
	}
	cp := *p
	return &cp, true, nil
}

func (m *mockPatients) List(_ context.Context) ([]*patient.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*patient.Patient
	for _, p := range m.patients {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockPatients) Put(_ context.Context, p *patient.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockPatients) SetStatus(_ context.Context, id string, status patient.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.patients[id]; !ok {
		return care.NotFoundf("patient %s", id)
	}
	m.statuses[id] = status
	m.patients[id].Status = status
	return nil
}

func (m *mockPatients) status(id string) patient.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statuses[id]
}

// mockNotifier records red alert notifications.
type mockNotifier struct {
	mu   sync.Mutex
	sent []*Alert
	err  error
}

func (m *mockNotifier) Send(_ context.Context, a *Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *a
	m.sent = append(m.sent, &cp)
	return nil
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newTestService(store Store, patients patient.Store, notifier Notifier) *Service {
	return NewService(store, patients, care.NewPatientLocks(), Thresholds{Yellow: 4, Red: 7}, log.Nop(), nil, notifier)
}

func TestCreate_BelowThresholdIsNoOp(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	svc := newTestService(store, newMockPatients("p-1"), nil)

	al, err := svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: 3})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if al != nil {
		t.Errorf("alert = %+v, want nil for score below yellow threshold", al)
	}
	if len(store.alerts) != 0 {
		t.Errorf("stored alerts = %d, want 0", len(store.alerts))
	}
}

func TestCreate_ScoreBanding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  Level
	}{
		{4, LevelYellow},
		{6, LevelYellow},
		{7, LevelRed},
		{12, LevelRed},
	}
	for _, tt := range tests {
		svc := newTestService(newMockStore(), newMockPatients("p-1"), nil)
		al, err := svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: tt.score})
		if err != nil {
			t.Fatalf("Create(score=%d): %v", tt.score, err)
		}
		if al == nil {
			t.Fatalf("Create(score=%d) = nil, want %s alert", tt.score, tt.want)
		}
		if al.Level != tt.want {
			t.Errorf("Create(score=%d).Level = %q, want %q", tt.score, al.Level, tt.want)
		}
		if al.Status != StatusPending {
			t.Errorf("Create(score=%d).Status = %q, want %q", tt.score, al.Status, StatusPending)
		}
	}
}

func TestCreate_UnknownPatient(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockStore(), newMockPatients(), nil)

	_, err := svc.Create(context.Background(), &SymptomReport{PatientID: "ghost", Score: 5})
	if !errors.Is(err, care.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreate_RetriagesOpenAlertInPlace(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	svc := newTestService(store, newMockPatients("p-1"), nil)

	first, err := svc.Create(context.Background(), &SymptomReport{
		PatientID: "p-1",
		Score:     5,
		Symptoms:  []string{"cough"},
		Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}

	second, err := svc.Create(context.Background(), &SymptomReport{
		PatientID: "p-1",
		Score:     8,
		Symptoms:  []string{"cough", "fever"},
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("re-triage created new alert %q, want update of %q", second.ID, first.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt = %v, want original %v", second.CreatedAt, first.CreatedAt)
	}
	if second.Level != LevelRed {
		t.Errorf("Level = %q, want %q after escalation", second.Level, LevelRed)
	}
	if second.Score != 8 {
		t.Errorf("Score = %d, want 8", second.Score)
	}
	if len(store.alerts) != 1 {
		t.Errorf("stored alerts = %d, want 1", len(store.alerts))
	}
}

func TestCreate_NotifiesOnRed(t *testing.T) {
	t.Parallel()

	notifier := &mockNotifier{}
	svc := newTestService(newMockStore(), newMockPatients("p-1"), notifier)

	if _, err := svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: 9}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if notifier.count() != 1 {
		t.Errorf("notifications = %d, want 1", notifier.count())
	}
}

func TestCreate_NotifiesOnEscalationOnly(t *testing.T) {
	t.Parallel()

	notifier := &mockNotifier{}
	svc := newTestService(newMockStore(), newMockPatients("p-1"), notifier)

	// yellow: no notification
	if _, err := svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: 5}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if notifier.count() != 0 {
		t.Fatalf("notifications after yellow = %d, want 0", notifier.count())
	}

	// escalation to red: one notification
	if _, err := svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: 8}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if notifier.count() != 1 {
		t.Fatalf("notifications after escalation = %d, want 1", notifier.count())
	}

	// still red: no repeat
	if _, err := svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: 10}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if notifier.count() != 1 {
		t.Errorf("notifications after second red = %d, want 1", notifier.count())
	}
}

func TestCreate_NotifierFailureDoesNotFailWrite(t *testing.T) {
	t.Parallel()

	notifier := &mockNotifier{err: errors.New("webhook down")}
	store := newMockStore()
	svc := newTestService(store, newMockPatients("p-1"), notifier)

	al, err := svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: 9})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if al == nil {
		t.Fatal("expected alert despite notifier failure")
	}
	if len(store.alerts) != 1 {
		t.Errorf("stored alerts = %d, want 1", len(store.alerts))
	}
}

func TestCreate_ConflictWhenPatientLocked(t *testing.T) {
	t.Parallel()

	locks := care.NewPatientLocks()
	svc := NewService(newMockStore(), newMockPatients("p-1"), locks, Thresholds{Yellow: 4, Red: 7}, log.Nop(), nil, nil)

	release, err := locks.Acquire("p-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer release()

	_, err = svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: 5})
	if !errors.Is(err, care.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestMarkContacted_FromPending(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockStore(), newMockPatients("p-1"), nil)

	al, err := svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.MarkContacted(context.Background(), al.ID, "nurse-kim")
	if err != nil {
		t.Fatalf("MarkContacted: %v", err)
	}
	if got.Status != StatusContacted {
		t.Errorf("Status = %q, want %q", got.Status, StatusContacted)
	}
	if got.ContactedBy != "nurse-kim" {
		t.Errorf("ContactedBy = %q, want %q", got.ContactedBy, "nurse-kim")
	}
}

func TestResolve_FromPendingAndContacted(t *testing.T) {
	t.Parallel()

	for _, contactFirst := range []bool{false, true} {
		svc := newTestService(newMockStore(), newMockPatients("p-1"), nil)
		al, err := svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: 5})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if contactFirst {
			if _, err := svc.MarkContacted(context.Background(), al.ID, "nurse-kim"); err != nil {
				t.Fatalf("MarkContacted: %v", err)
			}
		}
		got, err := svc.Resolve(context.Background(), al.ID, "dr-lee")
		if err != nil {
			t.Fatalf("Resolve(contactFirst=%v): %v", contactFirst, err)
		}
		if got.Status != StatusResolved {
			t.Errorf("Status = %q, want %q", got.Status, StatusResolved)
		}
		if got.ResolvedBy != "dr-lee" {
			t.Errorf("ResolvedBy = %q, want %q", got.ResolvedBy, "dr-lee")
		}
	}
}

func TestResolve_TwiceIsInvalid(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockStore(), newMockPatients("p-1"), nil)

	al, err := svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), al.ID, "dr-lee"); err != nil {
		t.Fatalf("first Resolve: %v", err)
	}

	_, err = svc.Resolve(context.Background(), al.ID, "dr-lee")
	if !errors.Is(err, care.ErrInvalidTransition) {
		t.Errorf("second Resolve err = %v, want ErrInvalidTransition", err)
	}
}

func TestMarkContacted_AfterResolveIsInvalid(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockStore(), newMockPatients("p-1"), nil)

	al, err := svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), al.ID, "dr-lee"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	_, err = svc.MarkContacted(context.Background(), al.ID, "nurse-kim")
	if !errors.Is(err, care.ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestTransition_UnknownAlert(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockStore(), newMockPatients("p-1"), nil)

	_, err := svc.MarkContacted(context.Background(), "nonexistent", "nurse-kim")
	if !errors.Is(err, care.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPatientStatusFollowsAlertLifecycle(t *testing.T) {
	t.Parallel()

	patients := newMockPatients("p-1")
	svc := newTestService(newMockStore(), patients, nil)

	al, err := svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := patients.status("p-1"); got != patient.StatusWarning {
		t.Errorf("status after yellow = %q, want %q", got, patient.StatusWarning)
	}

	if _, err := svc.Create(context.Background(), &SymptomReport{PatientID: "p-1", Score: 9}); err != nil {
		t.Fatalf("escalating Create: %v", err)
	}
	if got := patients.status("p-1"); got != patient.StatusAlert {
		t.Errorf("status after red = %q, want %q", got, patient.StatusAlert)
	}

	if _, err := svc.Resolve(context.Background(), al.ID, "dr-lee"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := patients.status("p-1"); got != patient.StatusNormal {
		t.Errorf("status after resolve = %q, want %q", got, patient.StatusNormal)
	}
}

func TestOpenSymptoms(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockStore(), newMockPatients("p-1"), nil)

	syms, err := svc.OpenSymptoms(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("OpenSymptoms: %v", err)
	}
	if len(syms) != 0 {
		t.Errorf("symptoms with no open alert = %v, want empty", syms)
	}

	if _, err := svc.Create(context.Background(), &SymptomReport{
		PatientID: "p-1",
		Score:     5,
		Symptoms:  []string{"fatigue", "pain"},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	syms, err = svc.OpenSymptoms(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("OpenSymptoms: %v", err)
	}
	if len(syms) != 2 || syms[0] != "fatigue" || syms[1] != "pain" {
		t.Errorf("symptoms = %v, want [fatigue pain]", syms)
	}
}

func TestLevelFor(t *testing.T) {
	t.Parallel()

	th := Thresholds{Yellow: 4, Red: 7}

	if _, ok := th.LevelFor(3); ok {
		t.Error("LevelFor(3) ok = true, want false")
	}
	if lvl, ok := th.LevelFor(4); !ok || lvl != LevelYellow {
		t.Errorf("LevelFor(4) = %q, %v, want yellow, true", lvl, ok)
	}
	if lvl, ok := th.LevelFor(7); !ok || lvl != LevelRed {
		t.Errorf("LevelFor(7) = %q, %v, want red, true", lvl, ok)
	}
}
