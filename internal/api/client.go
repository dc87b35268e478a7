package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Rate tiers for outbound calls, strictest for auth endpoints.
const (
	limitStrict  = rate.Limit(2)
	burstStrict  = 5
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

// TokenSource supplies the bearer token attached to every request and is
// cleared by the 401 interceptor. Satisfied by credentials.Store.
type TokenSource interface {
	Token() string
	Clear() error
}

// Client wraps HTTP calls to the storefront API: base URL, JSON codec, bearer
// auth, per-tier throttling and a global 401 interceptor.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource

	onUnauthorized func()

	strict  *rate.Limiter
	general *rate.Limiter
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: &logger.Transport{},
		},
		tokens:  tokens,
		strict:  rate.NewLimiter(limitStrict, burstStrict),
		general: rate.NewLimiter(limitGeneral, burstGeneral),
	}
}

// SetUnauthorizedHook registers the callback fired after any 401 has cleared
// the persisted credentials. The hook owns the redirect decision.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiterFor(path).Wait(ctx); err != nil {
		return NewError(KindNetwork, 0, "request cancelled")
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return NewError(KindNetwork, 0, fmt.Sprintf("encode request: %v", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return NewError(KindNetwork, 0, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return NewError(KindNetwork, 0, "network error: unable to reach server")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.failure(ctx, method, path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewError(KindNetwork, resp.StatusCode, "malformed response payload")
	}
	return nil
}

func (c *Client) failure(ctx context.Context, method, path string, resp *http.Response) error {
	message := extractMessage(resp)
	kind := classify(resp.StatusCode, message)

	logger.FromCtx(ctx).Warn("api call failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("kind", kind.String()),
	)

	if kind == KindUnauthenticated {
		// Same clear-and-redirect sequence regardless of which store made
		// the call: credentials first, then the registered hook.
		_ = c.tokens.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}

	return NewError(kind, resp.StatusCode, message)
}

// extractMessage pulls the server's "message" field when present, else falls
// back to the standard status text.
func extractMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		if jsonErr := json.Unmarshal(data, &body); jsonErr == nil && body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("request failed: %s", http.StatusText(resp.StatusCode))
}

func (c *Client) limiterFor(path string) *rate.Limiter {
	if strings.HasPrefix(path, "/auth") {
		return c.strict
	}
	return c.general
}
