package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// ClientCredentials are the claims the token validator vouches for.
type ClientCredentials struct {
	ClientID  string
	GrantType string
}

// TokenValidator checks a bearer token issued under the client credentials
// grant.
type TokenValidator interface {
	ValidateClientCredentials(tokenString string) (*ClientCredentials, error)
}

// RequireClientCredentials gates routes behind a valid client credentials
// bearer token. The authenticated client ID is placed on the context for
// handlers and audit.
func RequireClientCredentials(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			creds, err := validator.ValidateClientCredentials(token)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClientID, creds.ClientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
