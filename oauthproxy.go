// Package oauthproxy implements the GitHub OAuth handshake behind a headless
// CMS admin login. It exposes two handlers: an authorize handler that issues
// a CSRF state cookie and redirects the browser to GitHub, and a callback
// handler that validates the returned state, exchanges the authorization
// code for an access token, and relays the outcome to the window that opened
// the login popup via origin-pinned postMessage.
//
// Handlers are stateless; all configuration is carried by Config, so servers
// can be constructed in tests without touching the process environment.
package oauthproxy

import (
	"fmt"
	"net/http"
)

// Server holds the configured OAuth proxy handlers.
type Server struct {
	cfg    *Config
	logger Logger
}

// NewServer validates cfg, fills in its defaults, and returns a proxy server
// ready to have its handlers mounted.
func NewServer(cfg *Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = &defaultLogger{}
	}

	return &Server{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// RegisterHandlers mounts the OAuth endpoints on mux. The bare /callback
// path is registered alongside /api/callback because production deployments
// rewrite it to the callback function and the loopback default redirect URI
// points at it.
func (s *Server) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth", s.HandleAuthorize)
	mux.HandleFunc("/api/callback", s.HandleCallback)
	mux.HandleFunc("/callback", s.HandleCallback)
}
