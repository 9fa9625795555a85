package checkins

import "context"

// Repo persists check-ins keyed by user and date.
type Repo interface {
	// Upsert stores c, replacing answers and modifiers of an existing check-in for the same date.
	// The returned record keeps the original ID and CreatedAt on replacement.
	Upsert(ctx context.Context, c Checkin) (Checkin, error)
	GetByDate(ctx context.Context, userID, date string) (Checkin, error)
	// ListRecent returns up to limit check-ins, newest date first.
	ListRecent(ctx context.Context, userID string, limit int) ([]Checkin, error)
}
