// internal/handlers/session.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mlevan/scrawl/internal/auth"
)

const sessionCookieName = "auth_token"

// extractCookieToken pulls a named cookie value out of a Cookie header, or
// returns empty if not present.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// EnsureSession returns the caller's session ID, minting a fresh one (and
// setting the signed cookie) when the request carries no valid token. The
// session ID survives reconnects; the per-connection ID does not.
func EnsureSession(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	token := extractCookieToken(r.Header.Get("Cookie"), sessionCookieName)
	if token != "" {
		if sub, err := auth.AuthenticateSessionToken(token); err == nil {
			if id, err := uuid.Parse(sub); err == nil {
				return id, nil
			}
		}
	}

	id := uuid.New()
	newToken, err := auth.CreateSessionToken(id.String())
	if err != nil {
		return uuid.Nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    newToken,
		HttpOnly: true,
		Path:     "/",
	})
	return id, nil
}
