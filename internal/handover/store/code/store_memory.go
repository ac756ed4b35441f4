package code

import (
	"context"
	"fmt"
	"sync"
	"time"

	"handover/internal/handover/models"
	"handover/pkg/platform/sentinel"
)

// InMemoryStore keeps handover records in a map for single-instance
// deployments and tests. All record mutation happens under one mutex, which
// is what makes Claim linearizable here.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]*models.HandoverRecord
}

// NewInMemory constructs an empty in-memory handover store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]*models.HandoverRecord),
	}
}

func (s *InMemoryStore) Put(_ context.Context, record *models.HandoverRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.Code]; exists {
		return fmt.Errorf("handover code already exists: %w", sentinel.ErrConflict)
	}
	s.records[record.Code] = record.Clone()
	return nil
}

// Claim finds the record, validates it, and marks it consumed as one step
// under the store lock. Concurrent claims on the same code see exactly one
// success; the rest observe ErrAlreadyUsed.
func (s *InMemoryStore) Claim(_ context.Context, code string, now time.Time) (*models.HandoverRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[code]
	if !ok {
		return nil, fmt.Errorf("handover code not found: %w", sentinel.ErrNotFound)
	}
	if err := record.ValidateForClaim(now); err != nil {
		return nil, err
	}
	record.MarkConsumed(now)
	return record.Clone(), nil
}

// DeleteExpired removes records past their expiry. Consumed records inside
// their window are kept so replays still report "already used".
func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for code, record := range s.records {
		if record.ExpiresAt.Before(now) {
			delete(s.records, code)
			deleted++
		}
	}
	return deleted, nil
}
