package code

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"handover/internal/handover/models"
	"handover/pkg/platform/sentinel"
)

// uniqueViolation is the Postgres error code for duplicate-key inserts.
const uniqueViolation = "23505"

// PostgresStore persists handover records in PostgreSQL. The claim is a
// conditional UPDATE, so the consume-once guarantee comes from the database
// and holds across service instances.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed handover store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema returns the DDL for the records table. Deployments own migrations;
// tests apply this directly.
func Schema() string {
	return `
		CREATE TABLE IF NOT EXISTS handover_records (
			code        TEXT PRIMARY KEY,
			payload     JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL,
			expires_at  TIMESTAMPTZ NOT NULL,
			consumed_at TIMESTAMPTZ
		)`
}

func (s *PostgresStore) Put(ctx context.Context, record *models.HandoverRecord) error {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return fmt.Errorf("marshal handover payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO handover_records (code, payload, created_at, expires_at, consumed_at)
		 VALUES ($1, $2, $3, $4, NULL)`,
		record.Code, payload, record.CreatedAt, record.ExpiresAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("handover code already exists: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("store handover record: %w", err)
	}
	return nil
}

// Claim marks the record consumed if and only if it is live. The UPDATE's
// WHERE clause is the atomic check-and-mark; the follow-up SELECT only
// classifies the failure for diagnostics.
func (s *PostgresStore) Claim(ctx context.Context, codeValue string, now time.Time) (*models.HandoverRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE handover_records
		 SET consumed_at = $2
		 WHERE code = $1 AND consumed_at IS NULL AND expires_at > $2
		 RETURNING code, payload, created_at, expires_at, consumed_at`,
		codeValue, now,
	)

	record, err := scanRecord(row)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("claim handover record: %w", err)
	}

	return nil, s.classifyClaimFailure(ctx, codeValue, now)
}

func (s *PostgresStore) classifyClaimFailure(ctx context.Context, codeValue string, now time.Time) error {
	var consumedAt sql.NullTime
	var expiresAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT consumed_at, expires_at FROM handover_records WHERE code = $1`,
		codeValue,
	).Scan(&consumedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("handover code not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("inspect handover record: %w", err)
	}
	if consumedAt.Valid {
		return fmt.Errorf("handover code consumed at %s: %w", consumedAt.Time.Format(time.RFC3339), sentinel.ErrAlreadyUsed)
	}
	if !now.Before(expiresAt) {
		return fmt.Errorf("handover code expired at %s: %w", expiresAt.Format(time.RFC3339), sentinel.ErrExpired)
	}
	// The record became claimable between UPDATE and SELECT; treat the lost
	// race as consumed-by-another.
	return fmt.Errorf("handover code claimed concurrently: %w", sentinel.ErrAlreadyUsed)
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM handover_records WHERE expires_at < $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired handover records: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted handover records: %w", err)
	}
	return int(affected), nil
}

func scanRecord(row *sql.Row) (*models.HandoverRecord, error) {
	var record models.HandoverRecord
	var payload []byte
	var consumedAt sql.NullTime

	if err := row.Scan(&record.Code, &payload, &record.CreatedAt, &record.ExpiresAt, &consumedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &record.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal handover payload: %w", err)
	}
	if consumedAt.Valid {
		record.ConsumedAt = &consumedAt.Time
	}
	return &record, nil
}
