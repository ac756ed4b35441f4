package store

import (
	"context"
	"fmt"
	"sync"

	"handover/internal/client/models"
	"handover/pkg/platform/sentinel"
)

// InMemoryDirectory holds registered clients in a map. Suitable for a single
// instance seeded from configuration, and for tests.
type InMemoryDirectory struct {
	mu      sync.RWMutex
	clients map[string]*models.RegisteredClient
}

func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{clients: make(map[string]*models.RegisteredClient)}
}

// Register adds or replaces a client entry.
func (d *InMemoryDirectory) Register(client *models.RegisteredClient) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clients[client.ClientID] = client
}

func (d *InMemoryDirectory) FindByClientID(_ context.Context, clientID string) (*models.RegisteredClient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if client, ok := d.clients[clientID]; ok {
		return client, nil
	}
	return nil, fmt.Errorf("client not registered: %w", sentinel.ErrNotFound)
}
