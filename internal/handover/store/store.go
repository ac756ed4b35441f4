// Package store defines the persistence contract for handover records.
package store

import (
	"context"
	"time"

	"handover/internal/handover/models"
)

// Error Contract:
// All store methods follow this pattern:
// - Return sentinel.ErrNotFound when no record exists for the code
// - Return sentinel.ErrConflict from Put when the code already exists
// - Return sentinel.ErrExpired / sentinel.ErrAlreadyUsed from Claim when the
//   record is past its window or was consumed earlier
// - Return wrapped infrastructure errors for backend failures; these must
//   never be conflated with ErrNotFound

// Store persists handover records keyed by code.
type Store interface {
	// Put inserts a new record. The code must not already exist.
	Put(ctx context.Context, record *models.HandoverRecord) error

	// Claim atomically consumes the record for the code: exactly one call
	// per code may succeed, regardless of interleaving. The returned record
	// is a copy detached from store state.
	Claim(ctx context.Context, code string, now time.Time) (*models.HandoverRecord, error)

	// DeleteExpired removes records whose expiry has passed. It is a
	// resource-management sweep only; Claim enforces expiry on its own.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
