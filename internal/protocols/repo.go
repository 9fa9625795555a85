package protocols

import "context"

// Repo persists recommendation batches.
type Repo interface {
	Create(ctx context.Context, batch BatchRecord) error
	// ListByUser returns the user's batches oldest first.
	ListByUser(ctx context.Context, userID string) ([]BatchRecord, error)
}
