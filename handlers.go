package oauthproxy

import (
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// HandleAuthorize initiates the authorization-code flow: it generates a
// state token, persists it in an HTTP-only cookie, and redirects the browser
// to the provider's authorization endpoint with that state embedded.
//
// Issuing the redirect is idempotent and side-effect-free on the server, so
// misconfiguration simply answers 500 with a diagnostic.
func (s *Server) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.cfg.ClientID == "" {
		s.logger.Error("authorize: client ID not configured")
		http.Error(w, "GITHUB_CLIENT_ID not configured", http.StatusInternalServerError)
		return
	}

	redirectURL := s.cfg.RedirectURL
	if redirectURL == "" {
		// Loopback carve-out for development; any other host fails closed
		// rather than guessing a callback URL.
		if !isLoopbackHost(r.Host) {
			s.logger.Error("authorize: no callback URL configured for host %q", r.Host)
			http.Error(w, "OAUTH_CALLBACK_URL not configured", http.StatusInternalServerError)
			return
		}
		redirectURL = "http://" + r.Host + "/callback"
	}

	state, err := newStateToken(s.cfg.Rand)
	if err != nil {
		s.logger.Error("authorize: state generation failed: %v", err)
		http.Error(w, "Failed to generate state token", http.StatusInternalServerError)
		return
	}

	// AuthCodeURL percent-encodes every parameter, which matters for the
	// redirect URI; never build this query string by concatenation.
	authCfg := &oauth2.Config{
		ClientID:    s.cfg.ClientID,
		Endpoint:    s.cfg.Endpoint,
		RedirectURL: redirectURL,
		Scopes:      []string{s.cfg.Scope},
	}
	authURL := authCfg.AuthCodeURL(state)

	http.SetCookie(w, issueStateCookie(r.Host, state, s.cfg.StateTTL))
	w.Header().Set("Cache-Control", "no-store")
	s.logger.Info("authorize: redirecting to provider (state %s)", truncate(state, 8))
	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleCallback completes the flow: it validates the echoed state against
// the cookie, exchanges the code for a token, and answers with the relay
// page that posts the outcome to the opener window. Every relay response
// clears the state cookie so a token is single-use regardless of outcome.
func (s *Server) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	code := query.Get("code")
	state := query.Get("state")

	// Without a code there is no flow to report back on, so this is the one
	// failure that bypasses the relay page.
	if code == "" {
		http.Error(w, "Missing code parameter", http.StatusBadRequest)
		return
	}

	if state == "" {
		s.logger.Warn("callback: missing state parameter")
		s.writeRelay(w, r, "error", `{"error":"missing_state"}`)
		return
	}

	// Plain comparison: the token is single-use and high-entropy, so timing
	// leaks buy an attacker nothing.
	if cookieState := readStateCookie(r); cookieState == "" || cookieState != state {
		s.logger.Warn("callback: state mismatch (state %s)", truncate(state, 8))
		s.writeRelay(w, r, "error", `{"error":"invalid_state"}`)
		return
	}

	if s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
		s.logger.Error("callback: OAuth credentials not configured")
		http.Error(w, "OAuth credentials not configured", http.StatusInternalServerError)
		return
	}

	result, err := s.exchangeCode(r.Context(), code)
	if err != nil {
		s.logger.Error("callback: token exchange failed: %v", err)
		s.writeRelay(w, r, "error", err.Error())
		return
	}

	if result.Error != "" {
		s.logger.Warn("callback: provider rejected the code: %s", result.Error)
		s.writeRelay(w, r, "error", string(result.raw))
		return
	}

	payload, err := json.Marshal(struct {
		Token    string `json:"token"`
		Provider string `json:"provider"`
	}{
		Token:    result.AccessToken,
		Provider: Provider,
	})
	if err != nil {
		s.logger.Error("callback: encode relay payload failed: %v", err)
		s.writeRelay(w, r, "error", `{"error":"internal"}`)
		return
	}

	s.logger.Info("callback: token exchange succeeded")
	s.writeRelay(w, r, "success", string(payload))
}

// writeRelay renders the relay page and invalidates the state cookie.
func (s *Server) writeRelay(w http.ResponseWriter, r *http.Request, status, payload string) {
	http.SetCookie(w, clearStateCookie(r.Host))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = io.WriteString(w, renderRelayPage(status, payload, s.cfg.AllowedOrigin))
}

// truncate shortens a value for logging so state tokens never land in logs
// whole.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
