package triage

import "time"

// Level classifies an alert's severity.
type Level string

const (
	// LevelYellow means the score reached the yellow threshold.
	LevelYellow Level = "yellow"

	// LevelRed means the score reached the red threshold.
	LevelRed Level = "red"
)

// Status tracks where an alert is in its lifecycle. Transitions are
// linear: pending -> contacted -> resolved, with pending -> resolved also
// legal. Resolution is terminal.
type Status string

const (
	// StatusPending means created, no operator action yet.
	StatusPending Status = "pending"

	// StatusContacted means an operator has reached the patient.
	StatusContacted Status = "contacted"

	// StatusResolved means the alert is closed. Kept for audit, never deleted.
	StatusResolved Status = "resolved"
)

// SymptomReport is a scored patient symptom report. Immutable input to
// the triage state machine; the score arrives pre-computed.
type SymptomReport struct {
	PatientID string    `json:"patient_id"`
	Timestamp time.Time `json:"timestamp"`
	Symptoms  []string  `json:"symptoms"`
	Score     int       `json:"score"`
}

// Alert is a leveled, operator-tracked classification of one or more
// symptom reports. At most one unresolved alert exists per patient;
// qualifying reports while one is open re-triage it in place.
type Alert struct {
	ID              string    `json:"id"`
	PatientID       string    `json:"patient_id"`
	Level           Level     `json:"level"`
	Score           int       `json:"score"`
	Symptoms        []string  `json:"symptoms"`
	CreatedAt       time.Time `json:"created_at"`
	Status          Status    `json:"status"`
	ContactedBy     string    `json:"contacted_by,omitempty"`
	ResolvedBy      string    `json:"resolved_by,omitempty"`
	StatusChangedAt time.Time `json:"status_changed_at"`
}

// Open reports whether the alert still needs operator attention.
func (a *Alert) Open() bool {
	return a.Status == StatusPending || a.Status == StatusContacted
}

// Thresholds are the score cutoffs for alert creation. A score below
// Yellow produces no alert; Yellow..Red-1 is yellow; Red and above is red.
type Thresholds struct {
	Yellow int
	Red    int
}

// LevelFor bands a score. ok is false below the yellow threshold.
func (t Thresholds) LevelFor(score int) (level Level, ok bool) {
	switch {
	case score >= t.Red:
		return LevelRed, true
	case score >= t.Yellow:
		return LevelYellow, true
	default:
		return "", false
	}
}
