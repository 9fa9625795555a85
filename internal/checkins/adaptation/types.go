package adaptation

import (
	"bytes"
	"encoding/json"
)

const (
	DateLayout     = "2006-01-02"
	maxContextTags = 3
)

// RawCheckin is the daily check-in form as submitted by the client.
type RawCheckin struct {
	Mood              *int     `json:"mood"`
	SleepQuality      *int     `json:"sleepQuality"`
	Stress            *int     `json:"stress"`
	Energy            *int     `json:"energy"`
	SleepHours        *float64 `json:"sleepHours"`
	SleepHoursTouched bool     `json:"sleepHoursTouched"`
	ContextTags       TagList  `json:"contextTags"`
	UserNote          string   `json:"userNote"`
}

// TagList decodes leniently: an array keeps its string members, a bare string becomes a single tag,
// and any other JSON value becomes an empty list.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	var list []json.RawMessage
	if err := json.Unmarshal(trimmed, &list); err == nil {
		out := make(TagList, 0, len(list))
		for _, raw := range list {
			if len(raw) == 0 || raw[0] != '"' {
				continue
			}
			var tag string
			if err := json.Unmarshal(raw, &tag); err == nil {
				out = append(out, tag)
			}
		}
		*t = out
		return nil
	}
	var single string
	if err := json.Unmarshal(trimmed, &single); err == nil {
		*t = TagList{single}
		return nil
	}
	*t = TagList{}
	return nil
}

// NormalizedCheckin is the canonical stored shape of a check-in. Nil scores mean unanswered.
type NormalizedCheckin struct {
	Date              string   `json:"date"`
	MoodScore         *int     `json:"mood_score"`
	SleepQualityScore *int     `json:"sleep_quality_score"`
	StressLevel       *int     `json:"stress_level"`
	EnergyLevel       *int     `json:"energy_level"`
	SleepHours        *float64 `json:"sleep_hours"`
	ContextTags       []string `json:"context_tags"`
	UserNote          *string  `json:"user_note"`
}

// HasTag reports whether the check-in carries tag.
func (c NormalizedCheckin) HasTag(tag string) bool {
	for _, t := range c.ContextTags {
		if t == tag {
			return true
		}
	}
	return false
}

type Focus string

const (
	FocusStressSupport Focus = "stress_support"
	FocusRecovery      Focus = "recovery"
)

type ExerciseConstraint string

const ExerciseAvoidImpact ExerciseConstraint = "avoid_impact"

type MicroAction string

const MicroActionBreathwork5Min MicroAction = "breathwork_5min"

const TagInjury = "injury"

// PlanModifiers are the same-day adjustments derived from a check-in.
type PlanModifiers struct {
	IntensityModifier         int                 `json:"intensity_modifier"`
	Focus                     *Focus              `json:"focus"`
	TimeBudgetModifierMinutes *int                `json:"time_budget_modifier_minutes"`
	ExerciseConstraint        *ExerciseConstraint `json:"exercise_constraint"`
	AddMicroActions           []MicroAction       `json:"add_micro_actions"`
	ReasoningShort            string              `json:"reasoning_short"`
}

// Adjusted reports whether any rule moved the plan away from the baseline.
func (m PlanModifiers) Adjusted() bool {
	return m.IntensityModifier != 0 ||
		m.Focus != nil ||
		m.TimeBudgetModifierMinutes != nil ||
		m.ExerciseConstraint != nil ||
		len(m.AddMicroActions) > 0
}
