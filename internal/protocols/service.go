package protocols

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"wellness-backend/internal/protocols/consolidation"
	"wellness-backend/internal/shared/metrics"
	"wellness-backend/internal/shared/telemetry"
)

// Service records recommendation batches and serves each user's consolidated protocol.
type Service struct {
	Repo         Repo
	Consolidator consolidation.Consolidator
	// Cache holds consolidated protocols by user ID; nil disables caching.
	Cache *cache.Cache
	Now   func() time.Time

	// generations counts recorded batches per user. A consolidation only fills the cache when no batch
	// was recorded since it read the user's batches.
	mu          sync.Mutex
	generations map[string]uint64
}

// NewService builds a Service whose protocol cache entries live for ttl. A non-positive ttl disables the cache.
func NewService(repo Repo, consolidator consolidation.Consolidator, ttl time.Duration) *Service {
	svc := &Service{Repo: repo, Consolidator: consolidator, Now: time.Now}
	if ttl > 0 {
		svc.Cache = cache.New(ttl, 2*ttl)
	}
	return svc
}

// RecordBatch validates and stores a batch, then drops the user's cached protocol.
func (s *Service) RecordBatch(ctx context.Context, userID string, in NewBatch) (BatchRecord, error) {
	if s == nil || s.Repo == nil {
		return BatchRecord{}, errors.New("protocols service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return BatchRecord{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	sourceType := strings.TrimSpace(in.SourceType)
	if sourceType == "" {
		return BatchRecord{}, fmt.Errorf("%w: sourceType is required", ErrInvalidInput)
	}
	if in.Items.Len() == 0 {
		return BatchRecord{}, fmt.Errorf("%w: batch has no items", ErrInvalidInput)
	}
	if err := validateItems(in.Items); err != nil {
		return BatchRecord{}, err
	}

	createdAt := s.now()
	if in.CreatedAt != nil && !in.CreatedAt.IsZero() {
		createdAt = in.CreatedAt.UTC()
	}
	rec := BatchRecord{
		ID:                 uuid.NewString(),
		UserID:             userID,
		SourceType:         sourceType,
		SourceAssessmentID: strings.TrimSpace(in.SourceAssessmentID),
		CreatedAt:          createdAt,
		Items:              in.Items,
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return BatchRecord{}, fmt.Errorf("store batch: %w", err)
	}
	s.invalidate(userID)

	metrics.IncBatchesRecorded()
	telemetry.Info("protocol.batch_recorded", map[string]any{
		"user_id":     userID,
		"batch_id":    rec.ID,
		"source_type": rec.SourceType,
		"items":       rec.Items.Len(),
	})
	return rec, nil
}

// ListBatches returns the user's stored batches oldest first.
func (s *Service) ListBatches(ctx context.Context, userID string) ([]BatchRecord, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("protocols service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Protocol consolidates every stored batch of the user. Results are cached until the next RecordBatch.
// The returned protocol is a copy the caller may modify.
func (s *Service) Protocol(ctx context.Context, userID string) (consolidation.Protocol, error) {
	if s == nil || s.Repo == nil {
		return consolidation.Protocol{}, errors.New("protocols service not configured")
	}
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(userID); ok {
			return cached.(consolidation.Protocol).Clone(), nil
		}
	}

	generation := s.generation(userID)
	records, err := s.ListBatches(ctx, userID)
	if err != nil {
		return consolidation.Protocol{}, err
	}
	batches := make([]consolidation.Batch, 0, len(records))
	for _, rec := range records {
		batches = append(batches, rec.Batch())
	}

	protocol, err := s.consolidate(batches)
	if err != nil {
		telemetry.Error("protocol.consolidate_failed", map[string]any{"user_id": userID, "error": err})
		return consolidation.Protocol{}, err
	}
	s.store(userID, generation, protocol.Clone())
	return protocol, nil
}

// Preview consolidates caller-supplied batches without touching storage.
func (s *Service) Preview(batches []consolidation.Batch) (consolidation.Protocol, error) {
	protocol, err := s.consolidate(batches)
	if err != nil {
		return consolidation.Protocol{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return protocol, nil
}

func (s *Service) consolidate(batches []consolidation.Batch) (consolidation.Protocol, error) {
	start := time.Now()
	protocol, err := s.Consolidator.Consolidate(batches)
	metrics.ObserveConsolidation(float64(time.Since(start).Microseconds())/1000.0, err)
	return protocol, err
}

func (s *Service) generation(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[userID]
}

// invalidate drops the cached protocol and fences out consolidations that read older batches.
func (s *Service) invalidate(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations == nil {
		s.generations = make(map[string]uint64)
	}
	s.generations[userID]++
	if s.Cache != nil {
		s.Cache.Delete(userID)
	}
}

func (s *Service) store(userID string, generation uint64, protocol consolidation.Protocol) {
	if s.Cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[userID] != generation {
		return
	}
	s.Cache.SetDefault(userID, protocol)
}

func validateItems(items consolidation.Items) error {
	for _, tier := range consolidation.Tiers() {
		for i, item := range items.List(tier) {
			if strings.TrimSpace(item.Name) == "" {
				return fmt.Errorf("%w: %s[%d] name is required", ErrInvalidInput, tier, i)
			}
			if item.Category == "" {
				continue
			}
			if _, err := consolidation.ParseTier(string(item.Category)); err != nil {
				return fmt.Errorf("%w: %s[%d]: %w", ErrInvalidInput, tier, i, err)
			}
		}
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
