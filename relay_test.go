package oauthproxy

import (
	"strings"
	"testing"
)

func TestSanitizeStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		expected string
	}{
		{"success passes through", "success", "success"},
		{"error passes through", "error", "error"},
		{"uppercase is lowered", "SUCCESS", "success"},
		{"script breakout is stripped", "success'};alert(1);//", "successalert"},
		{"digits are stripped", "err0r", "errr"},
		{"empty falls back to error", "", "error"},
		{"no letters falls back to error", "123!", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeStatus(tt.status); got != tt.expected {
				t.Errorf("sanitizeStatus(%q) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestEscapePayload(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected string
	}{
		{"plain JSON untouched", `{"token":"abc"}`, `{"token":"abc"}`},
		{"single quotes escaped", `it's`, `it\'s`},
		{"backslashes escaped", `a\b`, `a\\b`},
		{"newline collapsed", "line1\nline2", `line1\nline2`},
		{"crlf collapsed once", "line1\r\nline2", `line1\nline2`},
		{"escaped quote not double-handled", `\'`, `\\\'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapePayload(tt.payload); got != tt.expected {
				t.Errorf("escapePayload(%q) = %q, want %q", tt.payload, got, tt.expected)
			}
		})
	}
}

func TestRenderRelayPage(t *testing.T) {
	page := renderRelayPage("success", `{"token":"abc123","provider":"github"}`, "https://www.davidoncloud.com")

	if !strings.Contains(page, `var targetOrigin = "https://www.davidoncloud.com";`) {
		t.Error("page does not pin the configured target origin")
	}
	if !strings.Contains(page, `'authorization:github:success:{"token":"abc123","provider":"github"}'`) {
		t.Error("page does not carry the relay message")
	}
	if !strings.Contains(page, `window.opener.postMessage("authorizing:github", targetOrigin)`) {
		t.Error("page does not announce itself to the opener")
	}
	if !strings.Contains(page, `if (e.origin !== targetOrigin) return;`) {
		t.Error("page does not check the ping origin")
	}
}

// Tokens must never be broadcast: every postMessage call has to name the
// configured origin, not the wildcard target.
func TestRenderRelayPageNeverUsesWildcardTarget(t *testing.T) {
	pages := []string{
		renderRelayPage("success", `{"token":"abc123","provider":"github"}`, "https://www.davidoncloud.com"),
		renderRelayPage("error", `{"error":"invalid_state"}`, "https://www.davidoncloud.com"),
		renderRelayPage("error", "connection refused", "http://localhost:3000"),
	}

	for _, page := range pages {
		if strings.Contains(page, `'*'`) || strings.Contains(page, `"*"`) {
			t.Errorf("relay page contains a wildcard postMessage target:\n%s", page)
		}
		if !strings.Contains(page, ", targetOrigin)") {
			t.Error("relay page does not target the pinned origin")
		}
	}
}

func TestRenderRelayPageEscapesHostilePayload(t *testing.T) {
	page := renderRelayPage("error", `pay'load\with
newline`, "https://www.davidoncloud.com")

	if !strings.Contains(page, `'authorization:github:error:pay\'load\\with\nnewline'`) {
		t.Error("payload was not escaped into the single-quoted script string")
	}
	if strings.Contains(page, "load\\with\nnewline") {
		t.Error("raw newline survived into the script string")
	}
}
