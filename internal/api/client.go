// Package api talks to the forum's REST backend. Every resource group gets
// its own Client bound to <API_BASE>/<group>/ and every outgoing call passes
// through the client's request interceptors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"forumweb/internal/session"
	"forumweb/internal/utils"

	"go.uber.org/zap"
)

// Backend resource groups.
const (
	GroupAuth   = "authentification"
	GroupTopics = "topics"
	GroupSearch = "search"
)

const maxResponseBytes = 4 << 20

// RequestInterceptor may modify an outgoing request. Returning an error
// rejects the request before it reaches the network.
type RequestInterceptor func(req *http.Request) error

// TokenInterceptor reads the session token right before each request and,
// when present, sends it as "Authorization: Token <token>".
func TokenInterceptor(store session.Store) RequestInterceptor {
	return func(req *http.Request) error {
		token, err := session.Token(store)
		if err != nil {
			return fmt.Errorf("read session token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Token "+token)
		}
		return nil
	}
}

// Client issues requests against one resource group.
type Client struct {
	base         *url.URL
	http         *http.Client
	interceptors []RequestInterceptor
}

// NewClient binds a client to <apiBase>/<group>/.
func NewClient(apiBase, group string, hc *http.Client, interceptors ...RequestInterceptor) (*Client, error) {
	raw := strings.TrimRight(apiBase, "/") + "/" + strings.Trim(group, "/") + "/"
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", raw, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base %q must be absolute", apiBase)
	}
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{base: base, http: hc, interceptors: interceptors}, nil
}

// BaseURL is the group root, always ending with "/".
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s %s payload: %w", method, path, err)
	}
	return c.do(ctx, method, path, nil, bytes.NewReader(b), "application/json", out)
}

// do resolves path against the group root, runs the interceptors, sends the
// request and decodes a successful JSON answer into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	u := c.base.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, u, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for _, intercept := range c.interceptors {
		if err := intercept(req); err != nil {
			return fmt.Errorf("%s %s rejected: %w", method, u.Path, err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		utils.Logger.Debug("api request failed",
			zap.String("method", method), zap.String("url", u.String()), zap.Error(err))
		return &NetworkError{Method: method, URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{Method: method, URL: u.String(), Err: err}
	}

	utils.Logger.Debug("api request",
		zap.String("method", method),
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		return errorFromResponse(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Target: fmt.Sprintf("%s %s", method, u.Path), Err: err}
	}
	return nil
}

type validator interface {
	Validate() error
}

// check validates a decoded value and wraps failures as DecodeError.
func check(target string, v validator) error {
	if err := v.Validate(); err != nil {
		return &DecodeError{Target: target, Err: err}
	}
	return nil
}

// checkAll validates every element of a decoded list.
func checkAll[T any, PT interface {
	*T
	validator
}](target string, items []T) error {
	for i := range items {
		if err := PT(&items[i]).Validate(); err != nil {
			return &DecodeError{Target: fmt.Sprintf("%s[%d]", target, i), Err: err}
		}
	}
	return nil
}
