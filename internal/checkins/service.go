package checkins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"wellness-backend/internal/checkins/adaptation"
	"wellness-backend/internal/shared/metrics"
	"wellness-backend/internal/shared/telemetry"
)

const (
	DefaultListLimit = 30
	MaxListLimit     = 366

	minScore      = 1
	maxScore      = 5
	maxSleepHours = 24
)

// Service records daily check-ins and derives same-day plan modifiers.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// Submit normalizes raw answers for day, derives plan modifiers and stores the result.
// An empty day means today in server local time. Resubmitting a day replaces its answers.
func (s *Service) Submit(ctx context.Context, userID string, raw adaptation.RawCheckin, day string) (Checkin, error) {
	if s == nil || s.Repo == nil {
		return Checkin{}, errors.New("checkins service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Checkin{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	normalized, mods, err := s.Preview(raw, day)
	if err != nil {
		return Checkin{}, err
	}

	now := s.now().UTC()
	rec, err := s.Repo.Upsert(ctx, Checkin{
		ID:         uuid.NewString(),
		UserID:     userID,
		Normalized: normalized,
		Modifiers:  mods,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return Checkin{}, fmt.Errorf("store checkin: %w", err)
	}

	metrics.IncCheckinRecorded(mods.Adjusted())
	telemetry.Info("checkin.recorded", map[string]any{
		"user_id":            userID,
		"checkin_id":         rec.ID,
		"checkin_date":       rec.Date(),
		"intensity_modifier": mods.IntensityModifier,
		"adjusted":           mods.Adjusted(),
	})
	return rec, nil
}

// Preview normalizes and derives modifiers without storing anything.
func (s *Service) Preview(raw adaptation.RawCheckin, day string) (adaptation.NormalizedCheckin, adaptation.PlanModifiers, error) {
	if err := validateAnswers(raw); err != nil {
		return adaptation.NormalizedCheckin{}, adaptation.PlanModifiers{}, err
	}

	var normalized adaptation.NormalizedCheckin
	day = strings.TrimSpace(day)
	if day == "" {
		normalized = adaptation.Normalize(raw, s.now())
	} else {
		if err := s.validateDay(day); err != nil {
			return adaptation.NormalizedCheckin{}, adaptation.PlanModifiers{}, err
		}
		normalized = adaptation.NormalizeForDay(raw, day)
	}
	return normalized, adaptation.DerivePlanModifiers(normalized), nil
}

// Get returns the user's check-in for a yyyy-MM-dd date.
func (s *Service) Get(ctx context.Context, userID, day string) (Checkin, error) {
	if s == nil || s.Repo == nil {
		return Checkin{}, errors.New("checkins service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Checkin{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if _, err := time.Parse(adaptation.DateLayout, day); err != nil {
		return Checkin{}, fmt.Errorf("%w: date must be yyyy-MM-dd", ErrInvalidInput)
	}
	return s.Repo.GetByDate(ctx, userID, day)
}

// List returns the most recent check-ins, newest first. Limits outside (0, MaxListLimit] are clamped.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Checkin, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("checkins service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	out, err := s.Repo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Checkin{}
	}
	return out, nil
}

// Streak counts consecutive check-in days ending today, or ending yesterday while today is still open.
// Streaks longer than MaxListLimit days are reported as MaxListLimit.
func (s *Service) Streak(ctx context.Context, userID string, today time.Time) (Streak, error) {
	recent, err := s.List(ctx, userID, MaxListLimit)
	if err != nil {
		return Streak{}, err
	}
	if len(recent) == 0 {
		return Streak{}, nil
	}

	seen := make(map[string]struct{}, len(recent))
	for _, c := range recent {
		seen[c.Date()] = struct{}{}
	}

	local := today.Local()
	cursor := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	out := Streak{LastCheckinDate: recent[0].Date()}
	if _, ok := seen[cursor.Format(adaptation.DateLayout)]; ok {
		out.CheckedInToday = true
	} else {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for {
		if _, ok := seen[cursor.Format(adaptation.DateLayout)]; !ok {
			break
		}
		out.Days++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return out, nil
}

func (s *Service) validateDay(day string) error {
	parsed, err := time.Parse(adaptation.DateLayout, day)
	if err != nil {
		return fmt.Errorf("%w: date must be yyyy-MM-dd", ErrInvalidInput)
	}
	today := s.now().Local().Format(adaptation.DateLayout)
	if parsed.Format(adaptation.DateLayout) > today {
		return fmt.Errorf("%w: date %s is in the future", ErrInvalidInput, day)
	}
	return nil
}

func validateAnswers(raw adaptation.RawCheckin) error {
	scores := []struct {
		name  string
		value *int
	}{
		{"mood", raw.Mood},
		{"sleepQuality", raw.SleepQuality},
		{"stress", raw.Stress},
		{"energy", raw.Energy},
	}
	for _, score := range scores {
		if score.value == nil {
			continue
		}
		if *score.value < minScore || *score.value > maxScore {
			return fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidInput, score.name, minScore, maxScore)
		}
	}
	if raw.SleepHoursTouched && raw.SleepHours != nil {
		if *raw.SleepHours < 0 || *raw.SleepHours > maxSleepHours {
			return fmt.Errorf("%w: sleepHours must be between 0 and %d", ErrInvalidInput, maxSleepHours)
		}
	}
	return nil
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
