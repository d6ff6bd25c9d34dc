package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/reoring/nsconnector/internal/logattr"
)

// DefaultTimeout bounds a whole request when no http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// RequestIDHeader carries a per-request id for correlation.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody caps how much of a failed response is kept on StatusError.
const maxErrorBody = 64 << 10

// Session performs authenticated JSON requests against the API. Paths are
// relative to the session's base URL.
type Session interface {
	// Do sends body (JSON-encoded when non-nil) and decodes a 2xx response
	// into out when out is non-nil. Non-2xx responses return *StatusError.
	Do(ctx context.Context, method, path string, body, out any) error
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Client is the net/http implementation of Session.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
	log     *slog.Logger
	newID   func() string
	now     func() time.Time
}

var _ Session = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger for request records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRequestIDFunc overrides how request ids are generated.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// NewClient returns a Session bound to baseURL that authenticates with tokens.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, &ConfigError{Component: "session", Reason: "empty base URL"}
	}
	if tokens == nil {
		return nil, &ConfigError{Component: "session", Reason: "nil token source"}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     slog.Default(),
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the URL every path is resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("httpapi: token: %w", err)
	}
	if tok.Expired(c.now()) {
		return ErrTokenExpired
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpapi: encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), rdr)
	if err != nil {
		return fmt.Errorf("httpapi: build %s %s: %w", method, path, err)
	}
	id := c.newID()
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, id)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.LogAttrs(ctx, slog.LevelWarn, "request failed",
			slog.String("method", method), slog.String("path", path),
			logattr.RequestID(id), logattr.Latency(time.Since(start)), logattr.Error(err))
		return fmt.Errorf("httpapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.LogAttrs(ctx, slog.LevelDebug, "request",
		slog.String("method", method), slog.String("path", path),
		logattr.Status(resp.StatusCode), logattr.RequestID(id), logattr.Latency(time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: b, RequestID: id}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpapi: read %s %s: %w", method, path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("httpapi: decode %s %s: %w", method, path, err)
	}
	return nil
}
