package adaptation

import (
	"strings"
	"time"
)

// Normalize converts raw answers into a NormalizedCheckin dated in local time.
func Normalize(raw RawCheckin, date time.Time) NormalizedCheckin {
	return NormalizeForDay(raw, date.Local().Format(DateLayout))
}

// NormalizeForDay is Normalize with a caller-formatted yyyy-MM-dd day, used verbatim.
// Sleep hours are only kept when the user touched the field; an untouched slider default is not an answer.
func NormalizeForDay(raw RawCheckin, day string) NormalizedCheckin {
	out := NormalizedCheckin{
		Date:              day,
		MoodScore:         cloneInt(raw.Mood),
		SleepQualityScore: cloneInt(raw.SleepQuality),
		StressLevel:       cloneInt(raw.Stress),
		EnergyLevel:       cloneInt(raw.Energy),
		ContextTags:       firstTags(raw.ContextTags, maxContextTags),
	}
	if raw.SleepHoursTouched && raw.SleepHours != nil {
		hours := *raw.SleepHours
		out.SleepHours = &hours
	}
	if note := strings.TrimSpace(raw.UserNote); note != "" {
		out.UserNote = &note
	}
	return out
}

func firstTags(tags []string, limit int) []string {
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return append(make([]string, 0, len(tags)), tags...)
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
