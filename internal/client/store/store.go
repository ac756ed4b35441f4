// Package store provides the registered-client directory lookup.
package store

import (
	"context"

	"handover/internal/client/models"
)

// Directory looks up registered clients by their public identifier. The
// handover core only reads; registration is an administrative concern.
//
// FindByClientID returns sentinel.ErrNotFound (wrapped) when the identifier
// is not registered. Infrastructure failures are returned wrapped and must
// not be reported as not-found.
type Directory interface {
	FindByClientID(ctx context.Context, clientID string) (*models.RegisteredClient, error)
}
