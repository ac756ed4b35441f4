// Package audit captures security-relevant handover lifecycle events. Events
// are emitted from domain logic and fanned out to a store by the publisher;
// emission must never block or fail a foreground handover operation.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event records one auditable action. Subject is the case reference the
// handover concerns, never the code itself: codes are bearer secrets and do
// not belong in audit logs.
type Event struct {
	ID        uuid.UUID
	Timestamp time.Time
	Subject   string
	Action    string
	Reason    string
	ClientID  string
	Principal string
	RequestID string
	// Device is a human-readable description of the redeeming browser,
	// derived from the User-Agent header.
	Device string
}

type AuditEvent string

const (
	EventHandoverCreated     AuditEvent = "handover_created"
	EventHandoverClaimed     AuditEvent = "handover_claimed"
	EventHandoverClaimDenied AuditEvent = "handover_claim_denied"
	EventUnknownClient       AuditEvent = "unknown_client"
)
