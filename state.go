package oauthproxy

import (
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

// StateCookieName is the cookie carrying the CSRF state token between the
// authorize redirect and the provider's callback.
const StateCookieName = "cms_oauth_state"

// stateTokenBytes is the entropy drawn per state token. 32 bytes hex-encode
// to 64 characters, comfortably unguessable.
const stateTokenBytes = 32

var loopbackHostPattern = regexp.MustCompile(`(?i)^(localhost|127\.0\.0\.1)(:\d+)?$`)

// isLoopbackHost reports whether a Host header names a development host.
// Loopback hosts are exempt from the Secure cookie attribute and from the
// redirect URL requirement.
func isLoopbackHost(host string) bool {
	return loopbackHostPattern.MatchString(host)
}

// newStateToken draws stateTokenBytes from r and hex-encodes them.
func newStateToken(r io.Reader) (string, error) {
	buf := make([]byte, stateTokenBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// issueStateCookie builds the Set-Cookie value binding token to the login
// attempt. HttpOnly keeps it away from page script; Secure is dropped for
// loopback hosts so the flow works over plain http in development.
func issueStateCookie(host, token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     StateCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isLoopbackHost(host),
	}
}

// clearStateCookie builds the Set-Cookie value that expires the state cookie
// immediately. Attributes must mirror issueStateCookie or user agents treat
// it as a different cookie.
func clearStateCookie(host string) *http.Cookie {
	return &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isLoopbackHost(host),
	}
}

// readStateCookie returns the state token carried by the request, or the
// empty string when the cookie is absent. Values are percent-decoded since
// some user agents round-trip encoded cookie values.
func readStateCookie(r *http.Request) string {
	c, err := r.Cookie(StateCookieName)
	if err != nil {
		return ""
	}
	if v, err := url.QueryUnescape(c.Value); err == nil {
		return v
	}
	return c.Value
}
