package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

const tokenByteLength = 32

var tokenPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// MintToken generates a cryptographically random, URL-safe token suitable
// for single-use verification links.
func MintToken() (string, error) {
	buf := make([]byte, tokenByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// IsWellFormedToken checks token syntax without touching storage.
func IsWellFormedToken(token string) bool {
	return tokenPattern.MatchString(token)
}
