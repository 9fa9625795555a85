package checkins

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	checkins map[string]map[string]Checkin
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{checkins: make(map[string]map[string]Checkin)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, c Checkin) (Checkin, error) {
	if err := ctx.Err(); err != nil {
		return Checkin{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byDate, ok := r.checkins[c.UserID]
	if !ok {
		byDate = make(map[string]Checkin)
		r.checkins[c.UserID] = byDate
	}
	if existing, ok := byDate[c.Date()]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	}
	byDate[c.Date()] = c
	return c, nil
}

func (r *MemoryRepo) GetByDate(ctx context.Context, userID, date string) (Checkin, error) {
	if err := ctx.Err(); err != nil {
		return Checkin{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.checkins[userID][date]
	if !ok {
		return Checkin{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) ListRecent(ctx context.Context, userID string, limit int) ([]Checkin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Checkin, 0, len(r.checkins[userID]))
	for _, c := range r.checkins[userID] {
		out = append(out, c)
	}
	r.mu.RUnlock()

	// yyyy-MM-dd sorts lexically.
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date() > out[j].Date()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
