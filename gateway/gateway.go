// Package gateway provides uniform request dispatch for the marketplace REST
// API: bearer-token injection, envelope decoding, and error normalization.
// The gateway never mutates session state itself; a 401-class response is
// surfaced to registered listeners and passed through to the caller unchanged.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-storefront-client/internal/config"
	errs "github.com/jrsteele09/go-storefront-client/internal/errors"
)

const (
	contentTypeJSON   = "application/json"
	requestIDHeader   = "X-Request-ID"
	defaultUserAgent  = "go-storefront-client"
	maxErrorBodyBytes = 64 * 1024
)

// Client dispatches requests to the backend. All resource clients and stores
// call through a single shared instance so that every request carries the
// same credentials, cookies, and error contract.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenHolder
	userAgent  string

	unauthorizedMu sync.Mutex
	onUnauthorized []func()
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for testing).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// New creates a gateway Client from configuration.
func New(cfg config.Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.GetBaseURL()), "/")
	if baseURL == "" {
		return nil, errors.New("[gateway.New] base URL is required")
	}

	httpClient := &http.Client{Timeout: cfg.GetRequestTimeout()}
	if cfg.GetWithCredentials() {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "[gateway.New] cookie jar")
		}
		httpClient.Jar = jar
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		tokens:     NewTokenHolder(),
		userAgent:  defaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Tokens returns the holder the session store writes credentials into.
func (c *Client) Tokens() *TokenHolder {
	return c.tokens
}

// OnUnauthorized registers a listener invoked whenever the backend answers
// with 401. Listeners must not issue backend calls (that could loop).
func (c *Client) OnUnauthorized(fn func()) {
	if fn == nil {
		return
	}
	c.unauthorizedMu.Lock()
	defer c.unauthorizedMu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

// Get performs a GET request and decodes the envelope's data field into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[Client.do] marshal %s %s body", method, path)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] build %s %s", method, path)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}

	log.Debug().Str("method", method).Str("path", path).Str("request_id", requestID).Msg("dispatching request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(errs.ErrTransport, "[Client.do] %s %s: %s", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.notifyUnauthorized()
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Failure bodies are only mined for a message; cap them so a
		// misbehaving backend cannot make the client buffer arbitrarily.
		errBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if err != nil {
			return errors.Wrapf(errs.ErrTransport, "[Client.do] read %s %s response: %s", method, path, err)
		}
		apiErr := newAPIError(resp.StatusCode, errBody)
		log.Warn().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
			Str("request_id", requestID).Str("message", apiErr.Message).Msg("request rejected")
		return apiErr
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(errs.ErrTransport, "[Client.do] read %s %s response: %s", method, path, err)
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	var env Envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return errors.Wrapf(err, "[Client.do] decode %s %s envelope", method, path)
	}

	// Business-rule rejection: 2xx transport, success:false in the envelope.
	if !env.Success {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out != nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrapf(err, "[Client.do] decode %s %s data", method, path)
		}
	}

	return nil
}

func (c *Client) notifyUnauthorized() {
	c.unauthorizedMu.Lock()
	listeners := make([]func(), len(c.onUnauthorized))
	copy(listeners, c.onUnauthorized)
	c.unauthorizedMu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
