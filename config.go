package oauthproxy

import (
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// Provider is the backend identifier embedded in relay messages. CMS admin
// windows key their message handling on it.
const Provider = "github"

// Defaults applied by Validate.
const (
	// DefaultScope is the minimal GitHub scope the CMS needs: public repo
	// content plus the user profile. Deployments managing private repos
	// widen it via OAUTH_SCOPE.
	DefaultScope = "public_repo,user"

	// DefaultAllowedOrigin is the production site origin relay pages post
	// messages to when none is configured.
	DefaultAllowedOrigin = "https://www.davidoncloud.com"

	// DefaultStateTTL bounds how long an issued state cookie stays valid.
	DefaultStateTTL = 10 * time.Minute

	// defaultExchangeTimeout caps the server-to-server token exchange so a
	// hung upstream cannot park the callback handler indefinitely.
	defaultExchangeTimeout = 10 * time.Second
)

// Config holds everything the two handlers need. Handlers read configuration
// from here only, never from ambient environment lookups.
type Config struct {
	// ClientID and ClientSecret identify the GitHub OAuth app. ClientID is
	// required by both handlers, ClientSecret only by the callback; the
	// handlers fail closed with HTTP 500 when they are missing.
	ClientID     string `envconfig:"GITHUB_CLIENT_ID"`
	ClientSecret string `envconfig:"GITHUB_CLIENT_SECRET"`

	// RedirectURL is the callback URL registered with the OAuth app. It may
	// stay empty only for loopback development hosts, where
	// http://<host>/callback is assumed.
	RedirectURL string `envconfig:"OAUTH_CALLBACK_URL"`

	// AllowedOrigin is the sole origin relay pages will exchange messages
	// with. Trailing slashes are trimmed.
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN"`

	// Scope requested from the provider, comma-separated per GitHub's
	// contract.
	Scope string `envconfig:"OAUTH_SCOPE"`

	// StateTTL is the Max-Age of the issued state cookie.
	StateTTL time.Duration `envconfig:"OAUTH_STATE_TTL"`

	// Endpoint points at the upstream provider. Defaults to GitHub; tests
	// point TokenURL at a local fake.
	Endpoint oauth2.Endpoint `ignored:"true"`

	// Rand is the entropy source for state tokens. Defaults to crypto/rand.
	Rand io.Reader `ignored:"true"`

	// HTTPClient performs the token exchange. Defaults to a client with a
	// 10 second timeout.
	HTTPClient *http.Client `ignored:"true"`

	// Logger allows a custom logging implementation. If nil, a default
	// logger backed by log.Printf with level prefixes is used.
	Logger Logger `ignored:"true"`
}

// FromEnv builds a Config from process environment variables.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &cfg, nil
}

// Validate normalizes the configuration and applies defaults. Credential
// presence is deliberately not checked here: the handlers check it per
// request and answer with a diagnostic, matching a serverless deployment
// where a misconfigured function must still respond.
func (c *Config) Validate() error {
	if c.Scope == "" {
		c.Scope = DefaultScope
	}

	c.AllowedOrigin = strings.TrimRight(strings.TrimSpace(c.AllowedOrigin), "/")
	if c.AllowedOrigin == "" {
		c.AllowedOrigin = DefaultAllowedOrigin
	}

	if c.StateTTL <= 0 {
		c.StateTTL = DefaultStateTTL
	}

	if c.Endpoint.AuthURL == "" && c.Endpoint.TokenURL == "" {
		c.Endpoint = github.Endpoint
	}
	if c.Endpoint.AuthURL == "" || c.Endpoint.TokenURL == "" {
		return fmt.Errorf("endpoint must set both AuthURL and TokenURL")
	}

	if c.Rand == nil {
		c.Rand = rand.Reader
	}

	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: defaultExchangeTimeout}
	}

	return nil
}
