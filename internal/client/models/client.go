package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "handover/pkg/domain-errors"
)

// RegisteredClient is a consuming service allowed to receive handed-over
// sessions. The handover core reads this directory; registration is managed
// elsewhere.
//
// Invariants:
//   - ClientID is non-empty (the public identifier used in redemption URLs)
//   - Name is non-empty and at most 128 characters
//   - RedirectURIs is non-empty; the first entry is the one redirects use
type RegisteredClient struct {
	ID           uuid.UUID `json:"id"`
	ClientID     string    `json:"client_id"`
	Name         string    `json:"name"`
	SecretHash   string    `json:"-"` // bcrypt hash, never serialized
	RedirectURIs []string  `json:"redirect_uris"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewRegisteredClient(clientID, name, secretHash string, redirectURIs []string, now time.Time) (*RegisteredClient, error) {
	if clientID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client_id cannot be empty")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client name must be 128 characters or less")
	}
	if len(redirectURIs) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "redirect_uris cannot be empty")
	}
	return &RegisteredClient{
		ID:           uuid.New(),
		ClientID:     clientID,
		Name:         name,
		SecretHash:   secretHash,
		RedirectURIs: append([]string(nil), redirectURIs...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// PrimaryRedirectURI returns the URI redirects resolve against. Selection is
// positional: the first registered URI wins.
func (c *RegisteredClient) PrimaryRedirectURI() string {
	return c.RedirectURIs[0]
}
