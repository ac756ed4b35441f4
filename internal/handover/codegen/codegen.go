// Package codegen produces handover codes. Codes are bearer material: anyone
// holding one can redeem it, so they come from crypto/rand, never math/rand.
package codegen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// codeBytes gives 256 bits of entropy, comfortably past the point where
// enumeration within a code's lifetime is feasible.
const codeBytes = 32

// Generate creates a URL-safe handover code. The store still rejects
// duplicates; callers regenerate on conflict rather than failing.
func Generate() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate handover code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
