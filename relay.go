package oauthproxy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Relay message grammar consumed by the CMS admin window:
//
//	authorizing:<provider>                      handshake, posted on load
//	authorization:<provider>:<status>:<payload> final result
//
// Both messages are posted only to the configured origin, and the page's
// listener only accepts pings from that origin. Posting to "*" would hand
// the token to whatever page embedded the opener and must never happen.

// relayPageTemplate is the popup document delivering the flow outcome. Verbs
// in order: JSON-encoded target origin, provider, provider, status, payload.
const relayPageTemplate = `<!DOCTYPE html>
<html>
<head><title>CMS OAuth</title></head>
<body>
<script>
(function() {
  var targetOrigin = %s;
  if (!window.opener) {
    setTimeout(function() { window.close(); }, 100);
    return;
  }

  function receiveMessage(e) {
    if (e.origin !== targetOrigin) return;
    window.removeEventListener("message", receiveMessage, false);
    window.opener.postMessage(
      'authorization:%s:%s:%s',
      targetOrigin
    );
    setTimeout(function() { window.close(); }, 250);
  }

  window.addEventListener("message", receiveMessage, false);
  window.opener.postMessage("authorizing:%s", targetOrigin);
})();
</script>
</body>
</html>
`

// renderRelayPage emits the HTML document the callback handler answers with.
// All escaping for the three interpolated values is centralized here.
func renderRelayPage(status, payload, allowedOrigin string) string {
	origin, _ := json.Marshal(allowedOrigin) // marshaling a string cannot fail
	return fmt.Sprintf(relayPageTemplate,
		origin,
		Provider,
		sanitizeStatus(status),
		escapePayload(payload),
		Provider,
	)
}

// sanitizeStatus reduces status to lowercase ASCII letters. The only legal
// values are "success" and "error"; anything unexpected collapses to a token
// that cannot break out of the script string.
func sanitizeStatus(status string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(status) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "error"
	}
	return b.String()
}

// escapePayload makes payload safe inside a single-quoted script string:
// backslashes and single quotes get escaped and newlines collapse to literal
// \n sequences.
func escapePayload(payload string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		"\r\n", `\n`,
		"\r", `\n`,
		"\n", `\n`,
	).Replace(payload)
}
