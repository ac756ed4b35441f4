// Package session binds a redeemed authentication result to the browser via
// a signed cookie. The handover core hands over the result as a value; this
// package is the only place that touches response cookies, replacing the
// ambient security-context holder the consuming services used to rely on.
package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"handover/internal/handover/models"
	dErrors "handover/pkg/domain-errors"
)

// Claims are the session cookie claims derived from an AuthenticationResult.
type Claims struct {
	SubjectReference string            `json:"subject_reference"`
	Principal        models.Principal  `json:"principal"`
	Authorities      []string          `json:"authorities,omitempty"`
	Attributes       map[string]string `json:"attributes,omitempty"`
	jwt.RegisteredClaims
}

// Writer issues session cookies. The same signing key verifies them in the
// consuming services.
type Writer struct {
	signingKey []byte
	issuer     string
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewWriter constructs a session Writer. secure controls the cookie's Secure
// flag and should only be false for local development over plain HTTP.
func NewWriter(signingKey, issuer, cookieName string, ttl time.Duration, secure bool) *Writer {
	return &Writer{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// Establish signs the authentication result into a session cookie on the
// response. The cookie is HttpOnly and SameSite=Lax; the token inside
// carries its own expiry so a copied cookie cannot outlive the session.
func (w *Writer) Establish(rw http.ResponseWriter, result *models.AuthenticationResult) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SubjectReference: result.SubjectReference,
		Principal:        result.Principal,
		Authorities:      result.Authorities,
		Attributes:       result.Attributes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(w.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    w.issuer,
			Subject:   result.SubjectReference,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(w.signingKey)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session token")
	}

	http.SetCookie(rw, &http.Cookie{
		Name:     w.cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(w.ttl.Seconds()),
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Parse verifies a session token and returns its claims. Consuming services
// use this to read the handed-over session.
func (w *Writer) Parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return w.signingKey, nil
	}, jwt.WithIssuer(w.issuer))
	if err != nil || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	return claims, nil
}
