package care

import "sync"

// PatientLocks serializes engine operations per patient. Acquire is a
// try-lock: a second caller for the same patient gets ErrConflict instead
// of blocking, so contention is surfaced for the caller to retry and two
// concurrent reports can never both write the same patient's state.
// Different patients never contend.
type PatientLocks struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewPatientLocks initializes an empty lock set.
func NewPatientLocks() *PatientLocks {
	return &PatientLocks{inflight: make(map[string]struct{})}
}

// Acquire claims the lock for patientID. It returns a release func on
// success and ErrConflict if the patient is already locked.
func (l *PatientLocks) Acquire(patientID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.inflight[patientID]; busy {
		return nil, Conflictf("patient %s busy", patientID)
	}
	l.inflight[patientID] = struct{}{}

	return func() {
		l.mu.Lock()
		delete(l.inflight, patientID)
		l.mu.Unlock()
	}, nil
}
