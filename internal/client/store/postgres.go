package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"handover/internal/client/models"
	"handover/pkg/platform/sentinel"
)

// PostgresDirectory reads registered clients from PostgreSQL. This store is
// pure I/O; redirect selection and origin stripping live in the resolver.
type PostgresDirectory struct {
	db *sql.DB
}

// NewPostgresDirectory constructs a PostgreSQL-backed client directory.
func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

// Schema returns the DDL for the clients table.
func Schema() string {
	return `
		CREATE TABLE IF NOT EXISTS registered_clients (
			id            UUID PRIMARY KEY,
			client_id     TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL,
			secret_hash   TEXT NOT NULL DEFAULT '',
			redirect_uris TEXT[] NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL
		)`
}

func (d *PostgresDirectory) FindByClientID(ctx context.Context, clientID string) (*models.RegisteredClient, error) {
	var client models.RegisteredClient
	err := d.db.QueryRowContext(ctx,
		`SELECT id, client_id, name, secret_hash, redirect_uris, created_at, updated_at
		 FROM registered_clients
		 WHERE client_id = $1`,
		clientID,
	).Scan(
		&client.ID,
		&client.ClientID,
		&client.Name,
		&client.SecretHash,
		pq.Array(&client.RedirectURIs),
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client not registered: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find registered client: %w", err)
	}
	return &client, nil
}

// Upsert writes a client entry. Used for seeding deployments.
func (d *PostgresDirectory) Upsert(ctx context.Context, client *models.RegisteredClient) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO registered_clients (id, client_id, name, secret_hash, redirect_uris, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (client_id) DO UPDATE SET
			name = EXCLUDED.name,
			secret_hash = EXCLUDED.secret_hash,
			redirect_uris = EXCLUDED.redirect_uris,
			updated_at = EXCLUDED.updated_at`,
		client.ID,
		client.ClientID,
		client.Name,
		client.SecretHash,
		pq.Array(client.RedirectURIs),
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert registered client: %w", err)
	}
	return nil
}
