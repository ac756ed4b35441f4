package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "handover/pkg/domain-errors"
	"handover/pkg/platform/sentinel"
)

func validRequest() *HandoverRequest {
	return &HandoverRequest{
		SubjectReference: "case-123",
		Principal: Principal{
			Identifier:  "practitioner-1",
			DisplayName: "A Practitioner",
			AccessMode:  AccessModeReadWrite,
		},
	}
}

func TestHandoverRequestValidate(t *testing.T) {
	t.Run("accepts valid request", func(t *testing.T) {
		require.NoError(t, validRequest().Validate())
	})

	t.Run("rejects empty subject reference", func(t *testing.T) {
		req := validRequest()
		req.SubjectReference = "  "
		err := req.Validate()
		assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
	})

	t.Run("rejects overlong subject reference", func(t *testing.T) {
		req := validRequest()
		req.SubjectReference = string(make([]byte, 65))
		assert.True(t, dErrors.Is(req.Validate(), dErrors.CodeValidation))
	})

	t.Run("rejects missing principal identifier", func(t *testing.T) {
		req := validRequest()
		req.Principal.Identifier = ""
		assert.True(t, dErrors.Is(req.Validate(), dErrors.CodeValidation))
	})

	t.Run("rejects unknown access mode", func(t *testing.T) {
		req := validRequest()
		req.Principal.AccessMode = "FULL_CONTROL"
		assert.True(t, dErrors.Is(req.Validate(), dErrors.CodeValidation))
	})

	t.Run("allows empty access mode", func(t *testing.T) {
		req := validRequest()
		req.Principal.AccessMode = ""
		require.NoError(t, req.Validate())
	})
}

func TestValidateForClaim(t *testing.T) {
	now := time.Now()

	t.Run("fresh record is claimable", func(t *testing.T) {
		record := &HandoverRecord{Code: "c", CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
		require.NoError(t, record.ValidateForClaim(now))
	})

	t.Run("expired record is rejected", func(t *testing.T) {
		record := &HandoverRecord{Code: "c", CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(-time.Minute)}
		assert.ErrorIs(t, record.ValidateForClaim(now), sentinel.ErrExpired)
	})

	t.Run("record expiring exactly now is rejected", func(t *testing.T) {
		record := &HandoverRecord{Code: "c", ExpiresAt: now}
		assert.ErrorIs(t, record.ValidateForClaim(now), sentinel.ErrExpired)
	})

	t.Run("consumed wins over expired", func(t *testing.T) {
		consumedAt := now.Add(-2 * time.Minute)
		record := &HandoverRecord{
			Code:       "c",
			ExpiresAt:  now.Add(-time.Minute),
			ConsumedAt: &consumedAt,
		}
		assert.ErrorIs(t, record.ValidateForClaim(now), sentinel.ErrAlreadyUsed)
	})
}

func TestMarkConsumedIsTerminal(t *testing.T) {
	now := time.Now()
	record := &HandoverRecord{Code: "c", ExpiresAt: now.Add(time.Minute)}

	record.MarkConsumed(now)
	require.True(t, record.Consumed())
	assert.ErrorIs(t, record.ValidateForClaim(now), sentinel.ErrAlreadyUsed)
}

func TestCloneDoesNotAlias(t *testing.T) {
	now := time.Now()
	record := &HandoverRecord{
		Code:      "c",
		ExpiresAt: now.Add(time.Minute),
		Payload: AuthenticationPayload{
			SubjectReference: "case-123",
			Authorities:      []string{"ROLE_HANDOVER"},
			Attributes:       map[string]string{"source": "oastub"},
		},
	}

	clone := record.Clone()
	clone.Payload.Authorities[0] = "ROLE_OTHER"
	clone.Payload.Attributes["source"] = "changed"
	clone.MarkConsumed(now)

	assert.Equal(t, "ROLE_HANDOVER", record.Payload.Authorities[0])
	assert.Equal(t, "oastub", record.Payload.Attributes["source"])
	assert.False(t, record.Consumed())
}
