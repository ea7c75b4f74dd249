// Package qinglong implements the PanelClient port against the QingLong
// panel's open API.
package qinglong

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/qlbridge/qlbridge/internal/domain/model"
	"github.com/qlbridge/qlbridge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PanelClient = (*Client)(nil)

// envelope is the panel's uniform response wrapper. code 200 is success;
// anything else carries a machine-readable rejection.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client implements driven.PanelClient. Each method performs a fresh
// authenticated request; on an authorization failure the credential is
// invalidated and the request retried exactly once with a new token.
type Client struct {
	httpc        *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	tokens       *tokenSource
	logger       *slog.Logger

	attempts atomic.Uint64 // outbound request attempts, for diagnostics
}

// NewClient creates a panel client with the following transport stack:
//  1. httpcache (conditional request caching; the panel sends no cache
//     headers on entity listings, so reads stay fresh)
//  2. net/http with a bounded per-request timeout
//
// cache may be nil to keep the credential in memory only.
func NewClient(host, clientID, clientSecret string, timeout time.Duration, cache driven.CredentialStore) *Client {
	httpc := &http.Client{
		Transport: httpcache.NewMemoryCacheTransport(),
		Timeout:   timeout,
	}
	return newClient(httpc, host, clientID, clientSecret, cache)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an
// httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, clientID, clientSecret string, cache driven.CredentialStore) *Client {
	return newClient(httpClient, baseURL, clientID, clientSecret, cache)
}

func newClient(httpc *http.Client, baseURL, clientID, clientSecret string, cache driven.CredentialStore) *Client {
	c := &Client{
		httpc:        httpc,
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       slog.Default(),
	}
	c.tokens = newTokenSource(c.issueToken, cache)
	return c
}

// RequestCount returns the number of outbound request attempts made so
// far, including the token exchange and auth retries.
func (c *Client) RequestCount() uint64 { return c.attempts.Load() }

// issueToken performs the credential-issuance exchange. Every failure mode
// (transport, rejection, malformed response) is an *model.AuthError: a
// command cannot proceed without a credential and the operator should
// check the configured client ID and secret.
func (c *Client) issueToken(ctx context.Context) (model.Credential, error) {
	query := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/open/auth/token?"+query.Encode(), nil)
	if err != nil {
		return model.Credential{}, &model.AuthError{Reason: "building token request", Err: err}
	}

	c.attempts.Add(1)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return model.Credential{}, &model.AuthError{Reason: "token exchange unreachable", Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return model.Credential{}, &model.AuthError{Reason: "malformed token response", Err: err}
	}
	if env.Code != http.StatusOK {
		return model.Credential{}, &model.AuthError{
			Reason: fmt.Sprintf("token exchange rejected (code %d): %s", env.Code, env.Message),
		}
	}

	var data struct {
		Token      string `json:"token"`
		TokenType  string `json:"token_type"`
		Expiration int64  `json:"expiration"` // unix seconds; may be absent
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return model.Credential{}, &model.AuthError{Reason: "malformed token payload", Err: err}
	}
	if data.Token == "" {
		return model.Credential{}, &model.AuthError{Reason: "token response carried no token"}
	}

	expiresAt := time.Unix(data.Expiration, 0)
	if data.Expiration == 0 {
		expiresAt = time.Now().Add(fallbackLifetime)
	}
	return model.Credential{Token: data.Token, ExpiresAt: expiresAt}, nil
}

// do executes one authenticated request against the panel, decoding the
// response envelope into out (when non-nil). An authorization failure
// triggers token invalidation and exactly one retry; a second failure is
// surfaced as *model.AuthError without further attempts.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	token, err := c.tokens.EnsureValid(ctx)
	if err != nil {
		return err
	}

	env, authFailed, err := c.send(ctx, method, path, query, payload, token)
	if err != nil {
		return err
	}
	if authFailed {
		c.tokens.Invalidate()
		token, err = c.tokens.EnsureValid(ctx)
		if err != nil {
			return err
		}
		env, authFailed, err = c.send(ctx, method, path, query, payload, token)
		if err != nil {
			return err
		}
		if authFailed {
			return &model.AuthError{Reason: "panel rejected a freshly issued token"}
		}
	}

	if env.Code != http.StatusOK {
		return &model.APIError{Code: env.Code, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s %s payload: %w", method, path, err)
		}
	}
	return nil
}

// send performs a single request attempt. Transport failures map to
// *model.NetworkError; authorization rejections are reported via the
// authFailed flag so do can apply its bounded retry.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload any, token string) (envelope, bool, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return envelope{}, false, fmt.Errorf("encode %s %s payload: %w", method, path, err)
		}
		body = bytes.NewReader(encoded)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return envelope{}, false, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	attempt := c.attempts.Add(1)
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Debug("panel request failed", "method", method, "path", path, "attempt", attempt, "error", err)
		return envelope{}, false, &model.NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("panel request", "method", method, "path", path, "attempt", attempt, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		return envelope{}, true, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return envelope{}, false, &model.APIError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return envelope{}, false, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	if env.Code == http.StatusUnauthorized {
		return envelope{}, true, nil
	}
	return env, false, nil
}

// decodeList unmarshals a list payload that the panel serves either as a
// bare array or wrapped as {"data": [...]}.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var direct []T
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct, nil
	}
	var wrapped struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode list payload: %w", err)
	}
	return wrapped.Data, nil
}
