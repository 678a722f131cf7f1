package catalog

// Builtin returns the standard post-operative education material set.
// Deployments with their own content management plug in a different
// Catalog; this set covers the default care pathway.
func Builtin() *Static {
	return NewStatic([]Material{
		{ID: "BREATHING_EXERCISE", Category: "respiratory", Title: "Breathing Exercise Training", Summary: "Incentive spirometer and deep breathing routine for the early post-op days."},
		{ID: "PAIN_MANAGEMENT", Category: "pain", Title: "Post-operative Pain Control", Summary: "Pain scale self-assessment and analgesic schedule guidance."},
		{ID: "EARLY_AMBULATION", Category: "rehabilitation", Title: "Early Ambulation", Summary: "Getting out of bed safely from post-op day 1 to speed recovery."},
		{ID: "HOME_CARE", Category: "home-care", Title: "Home Care Guide", Summary: "What to prepare and watch for after discharge."},
		{ID: "WARNING_SIGNS", Category: "home-care", Title: "Warning Signs", Summary: "Symptoms that require contacting the care team immediately."},
		{ID: "WOUND_CARE", Category: "home-care", Title: "Wound Care", Summary: "Dressing changes and incision monitoring at home."},
		{ID: "FOLLOW_UP", Category: "follow-up", Title: "Follow-up Visits", Summary: "Outpatient follow-up schedule and what to bring."},
		{ID: "PHYSICAL_ACTIVITY", Category: "rehabilitation", Title: "Graded Physical Activity", Summary: "Progressive exercise plan for weeks two and beyond."},
		{ID: "NUTRITION", Category: "nutrition", Title: "Recovery Nutrition", Summary: "Protein and calorie targets that support wound healing."},
		{ID: "FATIGUE_GUIDE", Category: "symptom", Title: "Managing Fatigue", Summary: "Energy conservation and sleep hygiene after surgery."},
		{ID: "EMOTIONAL_SUPPORT", Category: "psychosocial", Title: "Emotional Adjustment", Summary: "Coping strategies and support resources for long-term care."},
		{ID: "SMOKING_CESSATION", Category: "prevention", Title: "Smoking Cessation", Summary: "Quitting support to reduce recurrence risk."},
	})
}
