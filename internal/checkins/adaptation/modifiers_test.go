package adaptation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestDerivePlanModifiersScenarios(t *testing.T) {
	cases := []struct {
		name    string
		checkin NormalizedCheckin
		want    string
	}{
		{
			name: "poor_sleep_high_stress_low_energy_injury",
			checkin: NormalizedCheckin{
				MoodScore:         intPtr(2),
				SleepQualityScore: intPtr(1),
				SleepHours:        floatPtr(4.5),
				StressLevel:       intPtr(5),
				EnergyLevel:       intPtr(2),
				ContextTags:       []string{"injury"},
			},
			want: `{"intensity_modifier":-1,"focus":"recovery","time_budget_modifier_minutes":-10,
				"exercise_constraint":"avoid_impact","add_micro_actions":["breathwork_5min"],
				"reasoning_short":"Leaning into recovery and smaller wins today."}`,
		},
		{
			name: "baseline",
			checkin: NormalizedCheckin{
				SleepQualityScore: intPtr(3),
				StressLevel:       intPtr(1),
				EnergyLevel:       intPtr(5),
				ContextTags:       []string{},
			},
			want: `{"intensity_modifier":0,"focus":null,"time_budget_modifier_minutes":null,
				"exercise_constraint":null,"add_micro_actions":[],
				"reasoning_short":"Keeping today supportive and realistic."}`,
		},
		{
			name: "high_stress_only",
			checkin: NormalizedCheckin{
				SleepQualityScore: intPtr(2),
				StressLevel:       intPtr(4),
				EnergyLevel:       intPtr(3),
				ContextTags:       []string{},
			},
			want: `{"intensity_modifier":-1,"focus":"stress_support","time_budget_modifier_minutes":null,
				"exercise_constraint":null,"add_micro_actions":["breathwork_5min"],
				"reasoning_short":"Pacing today with extra calm and support."}`,
		},
		{
			name: "low_energy_only",
			checkin: NormalizedCheckin{
				SleepQualityScore: intPtr(4),
				StressLevel:       intPtr(2),
				EnergyLevel:       intPtr(1),
			},
			want: `{"intensity_modifier":-1,"focus":null,"time_budget_modifier_minutes":-10,
				"exercise_constraint":null,"add_micro_actions":[],
				"reasoning_short":"Keeping today lighter to match your energy."}`,
		},
		{
			name: "high_stress_keeps_reason_over_low_energy",
			checkin: NormalizedCheckin{
				StressLevel: intPtr(4),
				EnergyLevel: intPtr(2),
			},
			want: `{"intensity_modifier":-1,"focus":"stress_support","time_budget_modifier_minutes":-10,
				"exercise_constraint":null,"add_micro_actions":["breathwork_5min"],
				"reasoning_short":"Pacing today with extra calm and support."}`,
		},
		{
			name: "poor_sleep_only",
			checkin: NormalizedCheckin{
				SleepQualityScore: intPtr(1),
			},
			want: `{"intensity_modifier":-1,"focus":"recovery","time_budget_modifier_minutes":null,
				"exercise_constraint":null,"add_micro_actions":[],
				"reasoning_short":"Leaning into recovery and smaller wins today."}`,
		},
		{
			name:    "unanswered_is_baseline",
			checkin: NormalizedCheckin{},
			want: `{"intensity_modifier":0,"focus":null,"time_budget_modifier_minutes":null,
				"exercise_constraint":null,"add_micro_actions":[],
				"reasoning_short":"Keeping today supportive and realistic."}`,
		},
		{
			name: "injury_alone_only_constrains_exercise",
			checkin: NormalizedCheckin{
				EnergyLevel: intPtr(4),
				ContextTags: []string{"travel", "injury"},
			},
			want: `{"intensity_modifier":0,"focus":null,"time_budget_modifier_minutes":null,
				"exercise_constraint":"avoid_impact","add_micro_actions":[],
				"reasoning_short":"Keeping today supportive and realistic."}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(DerivePlanModifiers(tc.checkin))
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestPlanModifiersAdjusted(t *testing.T) {
	assert.False(t, DerivePlanModifiers(NormalizedCheckin{}).Adjusted())
	assert.True(t, DerivePlanModifiers(NormalizedCheckin{StressLevel: intPtr(5)}).Adjusted())
	assert.True(t, DerivePlanModifiers(NormalizedCheckin{ContextTags: []string{TagInjury}}).Adjusted())
}

func TestDerivePlanModifiersIsDeterministic(t *testing.T) {
	checkin := NormalizedCheckin{SleepQualityScore: intPtr(1), StressLevel: intPtr(5), EnergyLevel: intPtr(2)}
	assert.Equal(t, DerivePlanModifiers(checkin), DerivePlanModifiers(checkin))
}
