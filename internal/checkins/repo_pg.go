package checkins

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wellness-backend/internal/checkins/adaptation"
)

type PGRepo struct {
	DB *sql.DB
}

const checkinColumns = `id, user_id, checkin_date, mood_score, sleep_quality_score, stress_level, energy_level,
  sleep_hours, context_tags, user_note, plan_modifiers, created_at, updated_at`

func (r *PGRepo) Upsert(ctx context.Context, c Checkin) (Checkin, error) {
	const query = `
INSERT INTO daily_checkins (` + checkinColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (user_id, checkin_date) DO UPDATE SET
  mood_score = EXCLUDED.mood_score,
  sleep_quality_score = EXCLUDED.sleep_quality_score,
  stress_level = EXCLUDED.stress_level,
  energy_level = EXCLUDED.energy_level,
  sleep_hours = EXCLUDED.sleep_hours,
  context_tags = EXCLUDED.context_tags,
  user_note = EXCLUDED.user_note,
  plan_modifiers = EXCLUDED.plan_modifiers,
  updated_at = EXCLUDED.updated_at
RETURNING id, created_at, updated_at`

	tags, err := json.Marshal(nonNilTags(c.Normalized.ContextTags))
	if err != nil {
		return Checkin{}, fmt.Errorf("encode context tags: %w", err)
	}
	mods, err := json.Marshal(c.Modifiers)
	if err != nil {
		return Checkin{}, fmt.Errorf("encode plan modifiers: %w", err)
	}

	n := c.Normalized
	err = r.DB.QueryRowContext(ctx, query,
		c.ID,
		c.UserID,
		n.Date,
		nullableInt(n.MoodScore),
		nullableInt(n.SleepQualityScore),
		nullableInt(n.StressLevel),
		nullableInt(n.EnergyLevel),
		nullableFloat(n.SleepHours),
		tags,
		nullableText(n.UserNote),
		mods,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Checkin{}, err
	}
	return c, nil
}

func (r *PGRepo) GetByDate(ctx context.Context, userID, date string) (Checkin, error) {
	query := `SELECT ` + checkinColumns + `
FROM daily_checkins
WHERE user_id = $1 AND checkin_date = $2`
	c, err := scanCheckin(r.DB.QueryRowContext(ctx, query, userID, date))
	if errors.Is(err, sql.ErrNoRows) {
		return Checkin{}, ErrNotFound
	}
	return c, err
}

func (r *PGRepo) ListRecent(ctx context.Context, userID string, limit int) ([]Checkin, error) {
	query := `SELECT ` + checkinColumns + `
FROM daily_checkins
WHERE user_id = $1
ORDER BY checkin_date DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Checkin
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckin(row rowScanner) (Checkin, error) {
	var (
		c                                  Checkin
		day                                time.Time
		mood, sleepQuality, stress, energy sql.NullInt32
		sleepHours                         sql.NullFloat64
		note                               sql.NullString
		tags, mods                         []byte
	)
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&day,
		&mood,
		&sleepQuality,
		&stress,
		&energy,
		&sleepHours,
		&tags,
		&note,
		&mods,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return Checkin{}, err
	}

	c.Normalized = adaptation.NormalizedCheckin{
		Date:              day.Format(adaptation.DateLayout),
		MoodScore:         intPtr(mood),
		SleepQualityScore: intPtr(sleepQuality),
		StressLevel:       intPtr(stress),
		EnergyLevel:       intPtr(energy),
		ContextTags:       []string{},
	}
	if sleepHours.Valid {
		hours := sleepHours.Float64
		c.Normalized.SleepHours = &hours
	}
	if note.Valid {
		text := note.String
		c.Normalized.UserNote = &text
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &c.Normalized.ContextTags); err != nil {
			return Checkin{}, fmt.Errorf("decode checkin %s tags: %w", c.ID, err)
		}
	}
	if err := json.Unmarshal(mods, &c.Modifiers); err != nil {
		return Checkin{}, fmt.Errorf("decode checkin %s modifiers: %w", c.ID, err)
	}
	if c.Modifiers.AddMicroActions == nil {
		c.Modifiers.AddMicroActions = []adaptation.MicroAction{}
	}
	return c, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableText(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int32)
	return &n
}
