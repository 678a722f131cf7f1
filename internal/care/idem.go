package care

import "strings"

// EventKey builds the idempotency key for a state transition driven by an
// external event. Both dedup requirements in the engine are instances of
// this: the single open alert per patient and the push cooldown.
func EventKey(kind string, parts ...string) string {
	return kind + ":" + strings.Join(parts, ":")
}

// OpenAlertKey is the idempotency key for a patient's unresolved alert.
func OpenAlertKey(patientID string) string {
	return EventKey("alert", patientID)
}

// PushKey is the idempotency key for an automatic push of a material to a
// patient. The dispatch engine builds one set of these keys from the
// in-cooldown push history and another from the current evaluation pass;
// membership in either drops the candidate.
func PushKey(patientID, materialID string) string {
	return EventKey("push", patientID, materialID)
}
