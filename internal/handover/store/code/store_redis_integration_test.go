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

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *code.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = code.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func redisRecord(codeValue string, now time.Time) *models.HandoverRecord {
	return &models.HandoverRecord{
		Code: codeValue,
		Payload: models.AuthenticationPayload{
			SubjectReference: "case-123",
			Principal: models.Principal{
				Identifier: "practitioner-1",
				AccessMode: models.AccessModeReadWrite,
			},
			Authorities: []string{"ROLE_HANDOVER"},
			Attributes:  map[string]string{"source": "assessment"},
		},
		CreatedAt: now,
		ExpiresAt: now.Add(5 * time.Minute),
	}
}

func (s *RedisStoreSuite) TestPutRejectsDuplicates() {
	ctx := context.Background()
	now := time.Now()

	s.Require().NoError(s.store.Put(ctx, redisRecord("dup", now)))
	err := s.store.Put(ctx, redisRecord("dup", now))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *RedisStoreSuite) TestClaimRoundTrip() {
	ctx := context.Background()
	now := time.Now()

	s.Require().NoError(s.store.Put(ctx, redisRecord("round-trip", now)))

	record, err := s.store.Claim(ctx, "round-trip", now)
	s.Require().NoError(err)
	s.True(record.Consumed())
	s.Equal("case-123", record.Payload.SubjectReference)
	s.Equal(models.AccessModeReadWrite, record.Payload.Principal.AccessMode)
	s.Equal("assessment", record.Payload.Attributes["source"])
}

func (s *RedisStoreSuite) TestClaimFailures() {
	ctx := context.Background()
	now := time.Now()

	s.Run("unknown code", func() {
		_, err := s.store.Claim(ctx, "missing", now)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("replayed code", func() {
		s.Require().NoError(s.store.Put(ctx, redisRecord("replay", now)))
		_, err := s.store.Claim(ctx, "replay", now)
		s.Require().NoError(err)
		_, err = s.store.Claim(ctx, "replay", now)
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("expired code", func() {
		record := redisRecord("stale", now.Add(-10*time.Minute))
		s.Require().NoError(s.store.Put(ctx, record))
		_, err := s.store.Claim(ctx, "stale", now)
		s.Require().ErrorIs(err, sentinel.ErrExpired)
	})
}

// TestConcurrentClaims verifies the Lua script serializes claims: N parallel
// redemptions of one code produce exactly one success.
func (s *RedisStoreSuite) TestConcurrentClaims() {
	const claimers = 20
	ctx := context.Background()
	now := time.Now()

	s.Require().NoError(s.store.Put(ctx, redisRecord("race", now)))

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
