// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSecureToken returns a URL-safe random token. Used for the OAuth
// state parameter; all credential handling lives with the identity provider.
func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

func GenerateStateToken() (string, error) {
	return GenerateSecureToken(32)
}
