package auth

import (
	"net/http"
	"strings"
)

// SessionCookie is the HTTP-only cookie carrying the session token for
// page navigation. API clients may use an Authorization bearer header
// instead; both carry the same token.
const SessionCookie = "kp_session"

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// TokenFromRequest extracts the raw session token from a request.
// Bearer header wins over the cookie; returns "" when neither is present.
func TokenFromRequest(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get(authorizationHeader))
	if strings.HasPrefix(raw, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(raw, bearerPrefix))
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

// SetSessionCookie writes the HTTP-only session cookie.
// maxAge should match the token TTL so the browser drops it at expiry.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie on sign-out.
// Tokens are stateless; the server keeps no revocation state.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
