package checkins

import (
	"time"

	"wellness-backend/internal/checkins/adaptation"
)

// Checkin is a stored daily check-in with the plan modifiers derived from it.
// A user has at most one check-in per date.
type Checkin struct {
	ID         string                       `json:"id"`
	UserID     string                       `json:"userId"`
	Normalized adaptation.NormalizedCheckin `json:"checkin"`
	Modifiers  adaptation.PlanModifiers     `json:"modifiers"`
	CreatedAt  time.Time                    `json:"createdAt"`
	UpdatedAt  time.Time                    `json:"updatedAt"`
}

// Date is the yyyy-MM-dd day the check-in belongs to.
func (c Checkin) Date() string {
	return c.Normalized.Date
}

// Streak summarizes consecutive check-in days.
type Streak struct {
	Days            int    `json:"days"`
	CheckedInToday  bool   `json:"checkedInToday"`
	LastCheckinDate string `json:"lastCheckinDate,omitempty"`
}
