// Package jwttoken validates the machine-to-machine bearer tokens that gate
// handover creation. Tokens are issued by the trusted authorization server;
// this service only verifies them.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "handover/pkg/domain-errors"
)

// Claims are the claims expected on a client-credentials token.
type Claims struct {
	ClientID  string `json:"client_id"`
	GrantType string `json:"grant_type"`
	jwt.RegisteredClaims
}

// Service verifies inbound bearer tokens against a shared signing key and
// issuer.
type Service struct {
	signingKey []byte
	issuer     string
}

func NewService(signingKey, issuer string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// ValidateClientCredentials parses and verifies a token and confirms it was
// issued by the trusted authority through a client-credentials grant. Any
// signature or claim failure is CodeUnauthorized; a valid token with the
// wrong grant type is CodeForbidden.
func (s *Service) ValidateClientCredentials(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if claims.GrantType != "client_credentials" {
		return nil, dErrors.New(dErrors.CodeForbidden, "token was not issued through a client_credentials grant")
	}
	return claims, nil
}

// GenerateClientToken mints a client-credentials token signed with the
// service key. Intended for local development and tests; production tokens
// come from the authorization server.
func (s *Service) GenerateClientToken(clientID string, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ClientID:  clientID,
		GrantType: "client_credentials",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}
