package adaptation

const (
	reasonBaseline   = "Keeping today supportive and realistic."
	reasonStress     = "Pacing today with extra calm and support."
	reasonRecovery   = "Leaning into recovery and smaller wins today."
	reasonLowEnergy  = "Keeping today lighter to match your energy."
	worstSleepScore  = 1
	highStressLevel  = 4
	lowEnergyLevel   = 2
	lowEnergyMinutes = -10
)

// DerivePlanModifiers applies the check-in rules in fixed order. Later rules may replace the reasoning
// but never clear fields set by earlier ones. Reasoning priority: poor sleep, high stress, low energy.
func DerivePlanModifiers(c NormalizedCheckin) PlanModifiers {
	out := PlanModifiers{
		AddMicroActions: []MicroAction{},
		ReasoningShort:  reasonBaseline,
	}

	poorSleep := c.SleepQualityScore != nil && *c.SleepQualityScore == worstSleepScore
	highStress := valueOr(c.StressLevel, 0) >= highStressLevel
	// missing energy counts as full so absence of data never lightens the day.
	lowEnergy := valueOr(c.EnergyLevel, 5) <= lowEnergyLevel

	if poorSleep || highStress || lowEnergy {
		out.IntensityModifier = -1
	}
	if highStress {
		out.Focus = focusPtr(FocusStressSupport)
		out.AddMicroActions = []MicroAction{MicroActionBreathwork5Min}
		out.ReasoningShort = reasonStress
	}
	if poorSleep {
		out.Focus = focusPtr(FocusRecovery)
		out.ReasoningShort = reasonRecovery
	}
	if lowEnergy {
		minutes := lowEnergyMinutes
		out.TimeBudgetModifierMinutes = &minutes
		if !poorSleep && !highStress {
			out.ReasoningShort = reasonLowEnergy
		}
	}
	if c.HasTag(TagInjury) {
		constraint := ExerciseAvoidImpact
		out.ExerciseConstraint = &constraint
	}
	return out
}

func valueOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func focusPtr(f Focus) *Focus {
	return &f
}
