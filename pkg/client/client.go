// Package client is the HTTP access layer for the asset catalog API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 1 << 20
)

// Client is the asset catalog API client. It reads the session token through
// its TokenSource and never changes session state itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
	messages   Messages
	logger     zerolog.Logger
}

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	tokens     TokenSource
	messages   Messages
	logger     zerolog.Logger
	userAgent  string
}

// Option configures a Client.
type Option func(*options)

// WithTokenSource sets where the bearer token is read from.
func WithTokenSource(ts TokenSource) Option {
	return func(o *options) { o.tokens = ts }
}

// WithHTTPClient supplies the underlying transport. Its Transport is wrapped,
// not replaced.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMessages overrides fallback messages per operation.
func WithMessages(m Messages) Option {
	return func(o *options) { o.messages = m }
}

// WithLogger sets the request logger. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// New creates a new API client for baseURL (e.g. http://localhost:8000/api/v1).
func New(baseURL string, opts ...Option) *Client {
	o := options{
		timeout: defaultTimeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	base := http.DefaultTransport
	var jar http.CookieJar
	if o.httpClient != nil {
		if o.httpClient.Transport != nil {
			base = o.httpClient.Transport
		}
		jar = o.httpClient.Jar
		if o.httpClient.Timeout > 0 && o.timeout == defaultTimeout {
			o.timeout = o.httpClient.Timeout
		}
	}

	messages := Messages{}
	for op, msg := range DefaultMessages {
		messages[op] = msg
	}
	for op, msg := range o.messages {
		messages[op] = msg
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: o.timeout,
			Jar:     jar,
			Transport: &authTransport{
				base:      base,
				tokens:    o.tokens,
				userAgent: o.userAgent,
				logger:    o.logger,
			},
		},
		messages: messages,
		logger:   o.logger,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, op Op, path string, out any) error {
	return c.doRequest(ctx, op, http.MethodGet, path, nil, nil, out)
}

func (c *Client) doRequest(ctx context.Context, op Op, method, path string, header http.Header, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return c.newError(op, 0, nil, fmt.Errorf("marshal body: %w", err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return c.newError(op, 0, nil, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.newError(op, 0, nil, fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			return c.newError(op, resp.StatusCode, nil, fmt.Errorf("read error body: %w", readErr))
		}
		return c.newError(op, resp.StatusCode, respBody, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return c.newError(op, 0, nil, fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}
