package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// NewSessionToken returns a URL-safe random token carrying 32 bytes of entropy.
func NewSessionToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}
