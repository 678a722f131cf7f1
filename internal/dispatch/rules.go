package dispatch

// DefaultRules is the standard care-pathway rule set, matched to the
// builtin catalog. Deployments replace it through a custom RuleSource.
func DefaultRules() StaticRules {
	return StaticRules{
		{
			ID:        "day-1-early-recovery",
			Trigger:   Trigger{Kind: TriggerPostOpDay, Day: 1},
			Materials: []string{"BREATHING_EXERCISE", "PAIN_MANAGEMENT", "EARLY_AMBULATION"},
			Priority:  10,
			Enabled:   true,
		},
		{
			ID:        "day-3-breathing",
			Trigger:   Trigger{Kind: TriggerPostOpDay, Day: 3},
			Materials: []string{"BREATHING_EXERCISE"},
			Priority:  10,
			Enabled:   true,
		},
		{
			ID:        "day-5-discharge-prep",
			Trigger:   Trigger{Kind: TriggerPostOpDay, Day: 5},
			Materials: []string{"HOME_CARE", "WARNING_SIGNS", "WOUND_CARE"},
			Priority:  10,
			Enabled:   true,
		},
		{
			ID:        "day-14-follow-up",
			Trigger:   Trigger{Kind: TriggerPostOpDay, Day: 14},
			Materials: []string{"FOLLOW_UP", "PHYSICAL_ACTIVITY", "NUTRITION"},
			Priority:  10,
			Enabled:   true,
		},
		{
			ID:        "day-30-long-term",
			Trigger:   Trigger{Kind: TriggerPostOpDay, Day: 30},
			Materials: []string{"EMOTIONAL_SUPPORT", "SMOKING_CESSATION"},
			Priority:  10,
			Enabled:   true,
		},
		{
			ID:        "symptom-fatigue",
			Trigger:   Trigger{Kind: TriggerSymptom, Symptom: "fatigue"},
			Materials: []string{"FATIGUE_GUIDE"},
			Priority:  5,
			Enabled:   true,
		},
		{
			ID:        "symptom-dyspnea",
			Trigger:   Trigger{Kind: TriggerSymptom, Symptom: "shortness of breath"},
			Materials: []string{"BREATHING_EXERCISE", "WARNING_SIGNS"},
			Priority:  5,
			Enabled:   true,
		},
		{
			ID:        "symptom-pain",
			Trigger:   Trigger{Kind: TriggerSymptom, Symptom: "pain"},
			Materials: []string{"PAIN_MANAGEMENT"},
			Priority:  5,
			Enabled:   true,
		},
		{
			ID:        "treatment-adjuvant-chemo",
			Trigger:   Trigger{Kind: TriggerTreatment, Treatment: "adjuvant_chemotherapy"},
			Materials: []string{"NUTRITION", "EMOTIONAL_SUPPORT"},
			Priority:  3,
			Enabled:   true,
		},
		{
			ID:        "treatment-targeted",
			Trigger:   Trigger{Kind: TriggerTreatment, Treatment: "targeted_therapy"},
			Materials: []string{"FOLLOW_UP"},
			Priority:  3,
			Enabled:   true,
		},
	}
}
