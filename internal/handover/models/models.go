package models

import (
	"fmt"
	"strings"
	"time"

	dErrors "handover/pkg/domain-errors"
	"handover/pkg/platform/sentinel"
)

// AccessMode limits what the receiving service may do with the handed-over
// session.
type AccessMode string

const (
	AccessModeReadOnly  AccessMode = "READ_ONLY"
	AccessModeReadWrite AccessMode = "READ_WRITE"
)

func (m AccessMode) IsValid() bool {
	return m == AccessModeReadOnly || m == AccessModeReadWrite
}

// Principal identifies the practitioner on whose behalf the handover is
// created. It is carried through the record verbatim and surfaces in the
// authentication result on redemption.
type Principal struct {
	Identifier  string     `json:"identifier"`
	DisplayName string     `json:"displayName"`
	AccessMode  AccessMode `json:"accessMode"`
}

// HandoverRequest is the input to handover creation. Immutable once accepted.
//
// Invariants:
//   - SubjectReference is non-empty and at most 64 characters
//   - Principal.Identifier is non-empty
//   - Principal.AccessMode is a known mode (defaults to READ_ONLY when empty)
type HandoverRequest struct {
	SubjectReference string            `json:"subjectReference"`
	Principal        Principal         `json:"principal"`
	Authorities      []string          `json:"authorities,omitempty"`
	Attributes       map[string]string `json:"attributes,omitempty"`
}

// Validate checks creation input. Returns CodeValidation errors so the
// transport layer maps them to 400 without inspecting messages.
func (r *HandoverRequest) Validate() error {
	if strings.TrimSpace(r.SubjectReference) == "" {
		return dErrors.New(dErrors.CodeValidation, "subjectReference cannot be empty")
	}
	if len(r.SubjectReference) > 64 {
		return dErrors.New(dErrors.CodeValidation, "subjectReference must be 64 characters or less")
	}
	if strings.TrimSpace(r.Principal.Identifier) == "" {
		return dErrors.New(dErrors.CodeValidation, "principal identifier cannot be empty")
	}
	if r.Principal.AccessMode != "" && !r.Principal.AccessMode.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown access mode")
	}
	return nil
}

// AuthenticationPayload is everything needed to materialize an authenticated
// session once the code is claimed. No secrets beyond the opaque code itself.
type AuthenticationPayload struct {
	SubjectReference string            `json:"subject_reference"`
	Principal        Principal         `json:"principal"`
	Authorities      []string          `json:"authorities,omitempty"`
	Attributes       map[string]string `json:"attributes,omitempty"`
}

// HandoverRecord is the persisted unit keyed by its code.
//
// State machine: Created -> (Claimed | Expired), both terminal. ConsumedAt is
// set exactly once, under the store's claim primitive; there is no transition
// back.
type HandoverRecord struct {
	Code       string                `json:"code"`
	Payload    AuthenticationPayload `json:"payload"`
	CreatedAt  time.Time             `json:"created_at"`
	ExpiresAt  time.Time             `json:"expires_at"`
	ConsumedAt *time.Time            `json:"consumed_at,omitempty"`
}

func (r *HandoverRecord) Consumed() bool {
	return r.ConsumedAt != nil
}

// ValidateForClaim reports whether the record can still be claimed at the
// given instant. Returns sentinel errors so stores pass the result through
// unchanged. Consumed is checked before expiry: a replayed code stays
// "already used" even after its window lapses.
func (r *HandoverRecord) ValidateForClaim(now time.Time) error {
	if r.Consumed() {
		return fmt.Errorf("handover code consumed at %s: %w", r.ConsumedAt.Format(time.RFC3339), sentinel.ErrAlreadyUsed)
	}
	if !now.Before(r.ExpiresAt) {
		return fmt.Errorf("handover code expired at %s: %w", r.ExpiresAt.Format(time.RFC3339), sentinel.ErrExpired)
	}
	return nil
}

// MarkConsumed records the claim instant. Callers must hold the store's
// claim primitive; the method itself does no synchronization.
func (r *HandoverRecord) MarkConsumed(now time.Time) {
	t := now
	r.ConsumedAt = &t
}

// Clone returns a deep copy so claimed records can leave the store without
// aliasing its internal state.
func (r *HandoverRecord) Clone() *HandoverRecord {
	clone := *r
	if r.ConsumedAt != nil {
		t := *r.ConsumedAt
		clone.ConsumedAt = &t
	}
	clone.Payload.Authorities = append([]string(nil), r.Payload.Authorities...)
	if r.Payload.Attributes != nil {
		clone.Payload.Attributes = make(map[string]string, len(r.Payload.Attributes))
		for k, v := range r.Payload.Attributes {
			clone.Payload.Attributes[k] = v
		}
	}
	return &clone
}

// CreateHandoverLinkResponse is returned from handover creation. The URL
// embeds the opaque code and nothing else.
type CreateHandoverLinkResponse struct {
	URL string `json:"url"`
}

// AuthenticationResult is produced by a successful redemption. The transport
// layer binds it to whatever session mechanism it uses; the core never touches
// ambient session state.
type AuthenticationResult struct {
	SubjectReference string            `json:"subject_reference"`
	Principal        Principal         `json:"principal"`
	Authorities      []string          `json:"authorities,omitempty"`
	Attributes       map[string]string `json:"attributes,omitempty"`
	IssuedAt         time.Time         `json:"issued_at"`
}
