// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// privateKey and publicKey sign and verify session tokens. Sessions are
// ephemeral by design: a fresh key pair per process invalidates all cookies
// on restart, which matches the TTL-bounded lifetime of the rooms themselves.
var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
)

// Init generates the runtime ed25519 key pair.
func Init() error {
	var err error
	publicKey, privateKey, err = ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}
	return nil
}

// CreateSessionToken signs a JWT with "sub" = sessionID. Tokens carry no exp
// claim; the per-process key pair already bounds their useful life.
func CreateSessionToken(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": sessionID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// AuthenticateSessionToken verifies a token string and returns its "sub".
func AuthenticateSessionToken(tokenString string) (string, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid jwt claims")
	}
	sessionID, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("missing sub in jwt")
	}
	return sessionID, nil
}
