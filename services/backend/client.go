// Package backend is the authenticated REST client for the scheduling backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"barberbook/models"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// APIError is a non-2xx answer from the backend. Message is the backend's
// own text when it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// MessageOf returns the backend's message for err, or fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// envelope is the {success, message, data} wrapper used by every endpoint.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Tokens            TokenStore
	Navigator         models.Navigator
	Logger            *zap.Logger
	HTTPClient        *http.Client
}

// Client talks to the scheduling backend on behalf of the current user.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    TokenStore
	navigator models.Navigator
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewClient builds a Client. A zero RequestsPerSecond disables the limiter.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), int(opts.RequestsPerSecond)+1)
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = NewMemoryTokenStore("", "")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      httpClient,
		tokens:    tokens,
		navigator: opts.Navigator,
		limiter:   limiter,
		logger:    logger,
	}
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    interface{}
	headers map[string]string
}

// do sends req and decodes the envelope's data into out. A 401 triggers a
// single token refresh and retry.
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if err := c.refresh(ctx); err != nil {
			return err
		}
		if resp, err = c.send(ctx, req); err != nil {
			return err
		}
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func (c *Client) send(ctx context.Context, req request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(raw)
	}

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if token := c.tokens.AccessToken(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", req.method), zap.String("path", req.path), zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	return resp, nil
}

func decode(resp *http.Response, out interface{}) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	if resp.StatusCode >= 300 || (env.Success != nil && !*env.Success) {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// refresh swaps the refresh token for a new access token. When that fails
// the stored tokens are dropped and the user is sent to the login page.
func (c *Client) refresh(ctx context.Context) error {
	refreshToken := c.tokens.RefreshToken(ctx)
	if refreshToken == "" {
		c.signOut(ctx)
		return &APIError{Status: http.StatusUnauthorized, Message: "Session expired. Please log in again."}
	}

	resp, err := c.send(ctx, request{
		method: http.MethodPost,
		path:   "/auth/refresh-token",
		body:   map[string]string{"refreshToken": refreshToken},
	})
	if err != nil {
		c.signOut(ctx)
		return err
	}
	defer resp.Body.Close()

	// The token may arrive bare or inside the data envelope.
	var payload struct {
		AccessToken string `json:"accessToken"`
		Data        struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if resp.StatusCode >= 300 {
		c.signOut(ctx)
		return &APIError{Status: resp.StatusCode, Message: "Session expired. Please log in again."}
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.signOut(ctx)
		return &APIError{Status: http.StatusUnauthorized, Message: "Session expired. Please log in again."}
	}
	token := payload.AccessToken
	if token == "" {
		token = payload.Data.AccessToken
	}
	if token == "" {
		c.signOut(ctx)
		return &APIError{Status: http.StatusUnauthorized, Message: "Session expired. Please log in again."}
	}
	c.tokens.SetAccessToken(ctx, token)
	c.logger.Debug("access token refreshed")
	return nil
}

func (c *Client) signOut(ctx context.Context) {
	c.tokens.Clear(ctx)
	if c.navigator != nil {
		c.navigator.Navigate(ctx, "/login")
	}
}

// Ping reports whether the backend answers at all. Any status below 500
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return nil
}
