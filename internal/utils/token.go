package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Token sizes in random bytes. Verification and reset tokens carry 256 bits
// of entropy, session tokens 384; both are far above the 128-bit floor that
// makes enumeration infeasible.
const (
	VerificationTokenBytes = 32
	SessionTokenBytes      = 48
)

// GenerateRandomToken returns a URL-safe opaque token with size bytes of
// cryptographically secure randomness. A read failure from the system
// entropy source is the only error case and callers treat it as fatal,
// never as retryable.
func GenerateRandomToken(size int) (string, error) {
	buffer := make([]byte, size)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// HashToken returns the digest under which a token is stored. Only hashes
// are persisted; the raw token is surfaced to the client exactly once.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// NormalizeEmail lower-cases and trims an address so uniqueness checks and
// lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
