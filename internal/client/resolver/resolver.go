// Package resolver turns a client identifier into the origin a redeemed
// handover may redirect to.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"handover/internal/client/store"
	dErrors "handover/pkg/domain-errors"
	"handover/pkg/platform/sentinel"
)

// Resolver resolves redirect origins from the registered-client directory.
type Resolver struct {
	directory store.Directory
}

func New(directory store.Directory) *Resolver {
	return &Resolver{directory: directory}
}

// ResolveRedirectOrigin returns scheme://host[:port] of the client's first
// registered redirect URI. Path, query and fragment are discarded so a
// redemption can never be steered to an attacker-chosen path under a
// legitimately registered host. Unknown clients fail with CodeNotFound; the
// caller must not redirect at all in that case.
func (r *Resolver) ResolveRedirectOrigin(ctx context.Context, clientID string) (string, error) {
	client, err := r.directory.FindByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.Wrap(err, dErrors.CodeNotFound, "unknown client")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "client directory unavailable")
	}

	return StripToOrigin(client.PrimaryRedirectURI())
}

// StripToOrigin reduces a URI to scheme://host[:port].
func StripToOrigin(rawURI string) (string, error) {
	parsed, err := url.Parse(rawURI)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "registered redirect URI is malformed")
	}
	if parsed.Scheme == "" || parsed.Hostname() == "" {
		return "", dErrors.New(dErrors.CodeInternal, "registered redirect URI has no scheme or host")
	}

	if port := parsed.Port(); port != "" {
		return fmt.Sprintf("%s://%s:%s", parsed.Scheme, parsed.Hostname(), port), nil
	}
	return fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Hostname()), nil
}
