package protocols

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, batch BatchRecord) error {
	const query = `
INSERT INTO recommendation_batches (id, user_id, source_type, source_assessment_id, items, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	items, err := json.Marshal(batch.Items)
	if err != nil {
		return fmt.Errorf("encode batch items: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		batch.ID,
		batch.UserID,
		batch.SourceType,
		nullableString(batch.SourceAssessmentID),
		items,
		batch.CreatedAt,
	)
	return err
}

// ListByUser orders batches sharing a created_at by insertion sequence.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]BatchRecord, error) {
	const query = `
SELECT id, user_id, source_type, source_assessment_id, items, created_at
FROM recommendation_batches
WHERE user_id = $1
ORDER BY created_at ASC, seq ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BatchRecord
	for rows.Next() {
		var rec BatchRecord
		var assessmentID sql.NullString
		var items []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.SourceType, &assessmentID, &items, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if assessmentID.Valid {
			rec.SourceAssessmentID = assessmentID.String
		}
		if len(items) > 0 {
			if err := json.Unmarshal(items, &rec.Items); err != nil {
				return nil, fmt.Errorf("decode batch %s items: %w", rec.ID, err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
