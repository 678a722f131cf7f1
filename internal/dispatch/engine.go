package dispatch

import (
	"sort"
	"time"

	"github.com/linnemanlabs/aftercare/internal/care"
	"github.com/linnemanlabs/aftercare/internal/patient"
)

// Evaluate selects the materials to push for one patient. It is a pure
// function of its inputs: identical (snapshot, rules, history) triples
// produce identical ordered output.
//
// Order of the result: matched rules by priority descending, ties broken
// by rule evaluation (input) order, then each rule's internal material
// order. Candidates already auto-pushed within the cooldown window, and
// repeats within the same pass, are dropped (first occurrence wins).
func Evaluate(snap *patient.Snapshot, rules []Rule, history []*PushRecord, now time.Time, cooldown time.Duration) []string {
	matched := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Enabled && matches(r.Trigger, snap) {
			matched = append(matched, r)
		}
	}

	// stable: evaluation order is the tie-break within equal priority
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority > matched[j].Priority
	})

	cutoff := now.Add(-cooldown)
	recent := make(map[string]struct{}, len(history))
	for _, p := range history {
		if p.PushType == PushAuto && !p.PushedAt.Before(cutoff) {
			recent[care.PushKey(p.PatientID, p.MaterialID)] = struct{}{}
		}
	}

	var out []string
	seen := make(map[string]struct{})
	for _, r := range matched {
		for _, materialID := range r.Materials {
			key := care.PushKey(snap.PatientID, materialID)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if _, cooled := recent[key]; cooled {
				continue
			}
			out = append(out, materialID)
		}
	}
	return out
}

// matches evaluates a trigger against the snapshot. The switch is
// exhaustive over TriggerKind; unknown kinds never match.
func matches(t Trigger, snap *patient.Snapshot) bool {
	switch t.Kind {
	case TriggerPostOpDay:
		return snap.PostOpDay == t.Day
	case TriggerSymptom:
		for _, s := range snap.ActiveSymptoms {
			if s == t.Symptom {
				return true
			}
		}
		return false
	case TriggerTreatment:
		return snap.TreatmentPlan != "" && snap.TreatmentPlan == t.Treatment
	default:
		return false
	}
}
