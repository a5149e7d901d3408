package oauthproxy

import (
	"testing"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

func TestConfigValidateDefaults(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if cfg.Scope != DefaultScope {
		t.Errorf("scope = %q, want %q", cfg.Scope, DefaultScope)
	}
	if cfg.AllowedOrigin != DefaultAllowedOrigin {
		t.Errorf("allowed origin = %q, want %q", cfg.AllowedOrigin, DefaultAllowedOrigin)
	}
	if cfg.StateTTL != DefaultStateTTL {
		t.Errorf("state TTL = %v, want %v", cfg.StateTTL, DefaultStateTTL)
	}
	if cfg.Endpoint != github.Endpoint {
		t.Errorf("endpoint = %+v, want the GitHub endpoint", cfg.Endpoint)
	}
	if cfg.Rand == nil {
		t.Error("random source was not defaulted")
	}
	if cfg.HTTPClient == nil {
		t.Fatal("HTTP client was not defaulted")
	}
	if cfg.HTTPClient.Timeout != defaultExchangeTimeout {
		t.Errorf("HTTP client timeout = %v, want %v", cfg.HTTPClient.Timeout, defaultExchangeTimeout)
	}
}

func TestConfigValidateTrimsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		expected string
	}{
		{"trailing slash", "https://example.com/", "https://example.com"},
		{"several trailing slashes", "https://example.com///", "https://example.com"},
		{"surrounding whitespace", "  https://example.com/ ", "https://example.com"},
		{"only slashes falls back to default", "///", DefaultAllowedOrigin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AllowedOrigin: tt.origin}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if cfg.AllowedOrigin != tt.expected {
				t.Errorf("allowed origin = %q, want %q", cfg.AllowedOrigin, tt.expected)
			}
		})
	}
}

func TestConfigValidateRejectsHalfConfiguredEndpoint(t *testing.T) {
	cfg := &Config{
		Endpoint: oauth2.Endpoint{AuthURL: "https://provider.example/authorize"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for an endpoint without a token URL")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GITHUB_CLIENT_ID", "env-client-id")
	t.Setenv("GITHUB_CLIENT_SECRET", "env-client-secret")
	t.Setenv("OAUTH_CALLBACK_URL", "https://site.example/callback")
	t.Setenv("ALLOWED_ORIGIN", "https://site.example/")
	t.Setenv("OAUTH_SCOPE", "repo,user")
	t.Setenv("OAUTH_STATE_TTL", "5m")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.ClientID != "env-client-id" {
		t.Errorf("client ID = %q", cfg.ClientID)
	}
	if cfg.ClientSecret != "env-client-secret" {
		t.Errorf("client secret = %q", cfg.ClientSecret)
	}
	if cfg.RedirectURL != "https://site.example/callback" {
		t.Errorf("redirect URL = %q", cfg.RedirectURL)
	}
	if cfg.Scope != "repo,user" {
		t.Errorf("scope = %q", cfg.Scope)
	}
	if cfg.StateTTL != 5*time.Minute {
		t.Errorf("state TTL = %v, want 5m", cfg.StateTTL)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.AllowedOrigin != "https://site.example" {
		t.Errorf("allowed origin = %q, want trailing slash trimmed", cfg.AllowedOrigin)
	}
}
