package oauthproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxTokenResponseBytes caps how much of the upstream response is read.
const maxTokenResponseBytes = 1 << 20

// tokenExchangeRequest is the JSON body GitHub's access_token endpoint
// accepts when asked for a JSON response.
type tokenExchangeRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
}

// tokenExchangeResult is the decoded upstream response. The raw body is kept
// so error responses can be relayed verbatim.
type tokenExchangeResult struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
	raw         []byte
}

// exchangeCode trades an authorization code for an access token with a
// server-to-server call. Transport and decode failures come back as errors;
// an upstream body carrying an "error" field is a completed call whose
// result reports it.
func (s *Server) exchangeCode(ctx context.Context, code string) (*tokenExchangeResult, error) {
	body, err := json.Marshal(tokenExchangeRequest{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		Code:         code,
	})
	if err != nil {
		return nil, fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint.TokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token endpoint request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	var result tokenExchangeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	result.raw = raw

	return &result, nil
}
