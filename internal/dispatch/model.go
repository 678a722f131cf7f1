package dispatch

import "time"

// TriggerKind discriminates the rule trigger variant.
type TriggerKind string

const (
	// TriggerPostOpDay fires when the patient's post-op day equals the
	// rule's day exactly. Re-firing on later evaluations the same day is
	// absorbed by the cooldown dedup, not by the match.
	TriggerPostOpDay TriggerKind = "post_op_day"

	// TriggerSymptom fires when the symptom appears in the patient's
	// active (open alert) symptom set.
	TriggerSymptom TriggerKind = "symptom"

	// TriggerTreatment fires when the patient's treatment plan equals the
	// rule's treatment.
	TriggerTreatment TriggerKind = "treatment"
)

// Trigger is the tagged variant a rule matches on. Exactly one payload
// field is meaningful, selected by Kind.
type Trigger struct {
	Kind      TriggerKind `json:"kind"`
	Day       int         `json:"day,omitempty"`
	Symptom   string      `json:"symptom,omitempty"`
	Treatment string      `json:"treatment,omitempty"`
}

// Rule maps a trigger to an ordered material list. Rules are
// configuration input; the engine never mutates them.
type Rule struct {
	ID        string   `json:"id"`
	Trigger   Trigger  `json:"trigger"`
	Materials []string `json:"materials"`
	Priority  int      `json:"priority"`
	Enabled   bool     `json:"enabled"`
}

// PushType distinguishes operator pushes from rule-engine pushes.
type PushType string

const (
	// PushManual is an operator-initiated push. Not cooldown-deduped.
	PushManual PushType = "manual"

	// PushAuto is a rule-engine push, attributed to "system".
	PushAuto PushType = "auto"
)

// PushStatus tracks delivery acknowledgement.
type PushStatus string

const (
	// PushSent means delivered, not yet acknowledged by the patient.
	PushSent PushStatus = "sent"

	// PushRead means the patient acknowledged the material.
	PushRead PushStatus = "read"
)

// SystemOperator is the pushed_by value for automatic pushes.
const SystemOperator = "system"

// PushRecord is one ledger entry. The ledger is append-only; only Status
// may change after the fact (sent -> read).
type PushRecord struct {
	ID         string     `json:"id"`
	PatientID  string     `json:"patient_id"`
	MaterialID string     `json:"material_id"`
	PushType   PushType   `json:"push_type"`
	PushedBy   string     `json:"pushed_by"`
	PushedAt   time.Time  `json:"pushed_at"`
	Status     PushStatus `json:"status"`
}
