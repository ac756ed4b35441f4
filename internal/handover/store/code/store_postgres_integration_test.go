//go:build integration

package code_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"handover/internal/handover/models"
	"handover/internal/handover/store/code"
	"handover/pkg/platform/sentinel"
	"handover/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *code.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.pg = mgr.GetPostgres(s.T())

	_, err := s.pg.DB.Exec(code.Schema())
	s.Require().NoError(err)

	s.store = code.NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pg.DB.Exec(`TRUNCATE handover_records`)
	s.Require().NoError(err)
}

func pgRecord(codeValue string, now time.Time) *models.HandoverRecord {
	return &models.HandoverRecord{
		Code: codeValue,
		Payload: models.AuthenticationPayload{
			SubjectReference: "case-123",
			Principal: models.Principal{
				Identifier: "practitioner-1",
				AccessMode: models.AccessModeReadOnly,
			},
			Authorities: []string{"ROLE_HANDOVER"},
		},
		CreatedAt: now,
		ExpiresAt: now.Add(5 * time.Minute),
	}
}

func (s *PostgresStoreSuite) TestPutRejectsDuplicates() {
	ctx := context.Background()
	now := time.Now()

	s.Require().NoError(s.store.Put(ctx, pgRecord("dup", now)))
	err := s.store.Put(ctx, pgRecord("dup", now))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestClaimRoundTrip() {
	ctx := context.Background()
	now := time.Now().Truncate(time.Microsecond)

	s.Require().NoError(s.store.Put(ctx, pgRecord("round-trip", now)))

	record, err := s.store.Claim(ctx, "round-trip", now.Add(time.Second))
	s.Require().NoError(err)
	s.True(record.Consumed())
	s.Equal("case-123", record.Payload.SubjectReference)
	s.Equal([]string{"ROLE_HANDOVER"}, record.Payload.Authorities)
}

func (s *PostgresStoreSuite) TestClaimFailures() {
	ctx := context.Background()
	now := time.Now()

	s.Run("unknown code", func() {
		_, err := s.store.Claim(ctx, "missing", now)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("replayed code", func() {
		s.Require().NoError(s.store.Put(ctx, pgRecord("replay", now)))
		_, err := s.store.Claim(ctx, "replay", now)
		s.Require().NoError(err)
		_, err = s.store.Claim(ctx, "replay", now)
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("expired code", func() {
		s.Require().NoError(s.store.Put(ctx, pgRecord("stale", now.Add(-10*time.Minute))))
		_, err := s.store.Claim(ctx, "stale", now)
		s.Require().ErrorIs(err, sentinel.ErrExpired)
	})
}

// TestConcurrentClaims verifies the conditional UPDATE serializes claims
// across connections: N parallel redemptions produce exactly one success.
func (s *PostgresStoreSuite) TestConcurrentClaims() {
	const claimers = 20
	ctx := context.Background()
	now := time.Now()

	s.Require().NoError(s.store.Put(ctx, pgRecord("race", now)))

	var wg sync.WaitGroup
	results := make(chan error, claimers)
	for range claimers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Claim(ctx, "race", now)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	}
	s.Equal(1, successes)
}

func (s *PostgresStoreSuite) TestDeleteExpired() {
	ctx := context.Background()
	now := time.Now()

	s.Require().NoError(s.store.Put(ctx, pgRecord("live", now)))
	s.Require().NoError(s.store.Put(ctx, pgRecord("dead", now.Add(-time.Hour))))

	deleted, err := s.store.DeleteExpired(ctx, now)
	s.Require().NoError(err)
	s.Equal(1, deleted)

	_, err = s.store.Claim(ctx, "live", now)
	s.Require().NoError(err)
}
