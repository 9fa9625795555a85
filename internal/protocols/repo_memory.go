package protocols

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	batches map[string][]BatchRecord
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{batches: make(map[string][]BatchRecord)}
}

func (r *MemoryRepo) Create(ctx context.Context, batch BatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[batch.UserID] = append(r.batches[batch.UserID], batch)
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]BatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := append([]BatchRecord(nil), r.batches[userID]...)
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
