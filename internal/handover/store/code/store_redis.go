package code

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"handover/internal/handover/models"
	"handover/pkg/platform/sentinel"
)

const (
	recordKeyPrefix = "handover:code:"

	// claimRetention keeps consumed and expired records around past their
	// window so replayed codes surface "already used" / "expired" instead of
	// "not found". After retention lapses the key vanishes and replays become
	// not-found, which the boundary reports identically anyway.
	claimRetention = time.Hour
)

// claimScript performs find+validate+mark as one server-side step. Hash
// fields: record (JSON), expires_at (unix nanos), consumed_at (unix nanos,
// 0 while unclaimed). Returns a status string, plus the record JSON on "ok".
var claimScript = redis.NewScript(`
local expires = redis.call('HGET', KEYS[1], 'expires_at')
if not expires then
	return {'missing'}
end
local consumed = redis.call('HGET', KEYS[1], 'consumed_at')
if consumed and consumed ~= '0' then
	return {'used'}
end
if tonumber(ARGV[1]) >= tonumber(expires) then
	return {'expired'}
end
redis.call('HSET', KEYS[1], 'consumed_at', ARGV[1])
return {'ok', redis.call('HGET', KEYS[1], 'record')}
`)

// RedisStore is the distributed implementation. The claim path runs a Lua
// script, so the consume-once guarantee holds across instances sharing one
// Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed handover store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, record *models.HandoverRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal handover record: %w", err)
	}

	key := recordKeyPrefix + record.Code
	created, err := s.client.HSetNX(ctx, key, "record", raw).Result()
	if err != nil {
		return fmt.Errorf("store handover record: %w", err)
	}
	if !created {
		return fmt.Errorf("handover code already exists: %w", sentinel.ErrConflict)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		"expires_at", record.ExpiresAt.UnixNano(),
		"consumed_at", 0,
	)
	pipe.ExpireAt(ctx, key, record.ExpiresAt.Add(claimRetention))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store handover record metadata: %w", err)
	}
	return nil
}

func (s *RedisStore) Claim(ctx context.Context, code string, now time.Time) (*models.HandoverRecord, error) {
	key := recordKeyPrefix + code
	reply, err := claimScript.Run(ctx, s.client, []string{key}, now.UnixNano()).Slice()
	if err != nil {
		return nil, fmt.Errorf("claim handover record: %w", err)
	}
	if len(reply) == 0 {
		return nil, fmt.Errorf("claim handover record: empty script reply: %w", sentinel.ErrUnavailable)
	}

	status, _ := reply[0].(string)
	switch status {
	case "missing":
		return nil, fmt.Errorf("handover code not found: %w", sentinel.ErrNotFound)
	case "used":
		return nil, fmt.Errorf("handover code already consumed: %w", sentinel.ErrAlreadyUsed)
	case "expired":
		return nil, fmt.Errorf("handover code expired: %w", sentinel.ErrExpired)
	case "ok":
		raw, _ := reply[1].(string)
		var record models.HandoverRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("unmarshal handover record: %w", err)
		}
		record.MarkConsumed(now)
		return &record, nil
	default:
		return nil, fmt.Errorf("claim handover record: unexpected status %q: %w", status, sentinel.ErrUnavailable)
	}
}

// DeleteExpired is a no-op for Redis: key TTLs reclaim terminal records.
func (s *RedisStore) DeleteExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}
