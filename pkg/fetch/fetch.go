package fetch

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
	"sync"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader is set on every outgoing call that does not carry one yet.
const RequestIDHeader = "X-Request-ID"

// Init holds the per-call options that accompany a target. A nil Init means
// a plain GET with no body.
type Init struct {
	Method string
	Header http.Header
	Body   []byte
}

// Fetcher performs one outgoing network call. The target is a URL string
// (absolute, protocol-relative or relative to the page origin) or a composite
// *http.Request carrying its own URL and options.
type Fetcher interface {
	Fetch(ctx context.Context, target any, init *Init) (*http.Response, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, target any, init *Init) (*http.Response, error)

// Fetch calls f(ctx, target, init).
func (f FetcherFunc) Fetch(ctx context.Context, target any, init *Init) (*http.Response, error) {
	return f(ctx, target, init)
}

// StatusError is returned by [DecodeJSON] when a non-2xx response does not
// carry a JSON body. Non-2xx responses with a JSON body decode normally.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client is the HTTP implementation of Fetcher. Targets without a host are
// resolved against Origin, so "/api/health" always means the page's own
// origin.
type Client struct {
	Origin    *url.URL          // Page origin (scheme and host only).
	UserAgent string            // User-Agent applied when the request has none.
	Headers   map[string]string // Extra headers applied to every request.
	Client    *http.Client      // HTTP client; falls back to a cached default.
	Timeout   time.Duration     // Timeout of the default client (0 = 10 minutes).

	clientOnce    sync.Once
	defaultClient *http.Client
}

// New creates a Client for the given page origin. Only the scheme and host
// of origin are kept. A nil client falls back to a default at call time.
func New(origin string, client *http.Client) (*Client, error) {
	u, err := ParseOrigin(origin)
	if err != nil {
		return nil, err
	}

	return &Client{Origin: u, Client: client}, nil
}

// ParseOrigin parses an absolute http(s) URL and strips everything but the
// scheme and host.
func ParseOrigin(origin string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil {
		return nil, fmt.Errorf("fetch: parse origin: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("fetch: origin %q: scheme must be http or https", origin)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("fetch: origin %q: host is required", origin)
	}

	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}

// Protocol returns the origin scheme followed by a colon ("https:").
func (c *Client) Protocol() string { return c.Origin.Scheme + ":" }

// httpClient returns the configured client or a cached default client.
func (c *Client) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}

	c.clientOnce.Do(func() {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Minute
		}
		c.defaultClient = &http.Client{Timeout: timeout}
	})

	return c.defaultClient
}

// Resolve turns target into an absolute URL relative to the origin.
func (c *Client) Resolve(target string) (*url.URL, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("fetch: parse target: %w", err)
	}

	return c.Origin.ResolveReference(ref), nil
}

// NewRequest builds an *http.Request for a string target with the options in
// init applied.
func (c *Client) NewRequest(ctx context.Context, target string, init *Init) (*http.Request, error) {
	u, err := c.Resolve(target)
	if err != nil {
		return nil, err
	}

	method := http.MethodGet
	var body io.Reader
	if init != nil {
		if init.Method != "" {
			method = init.Method
		}
		if init.Body != nil {
			body = bytes.NewReader(init.Body)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}

	if init != nil {
		for k, vs := range init.Header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}

	return req, nil
}

// Fetch sends the call described by target and init.
func (c *Client) Fetch(ctx context.Context, target any, init *Init) (*http.Response, error) {
	var (
		req *http.Request
		err error
	)

	switch t := target.(type) {
	case string:
		req, err = c.NewRequest(ctx, t, init)
	case *http.Request:
		req, err = c.fromRequest(ctx, t, init)
	default:
		return nil, fmt.Errorf("fetch: unsupported target type %T", target)
	}
	if err != nil {
		return nil, err
	}

	c.applyHeaders(req)

	resp, err := c.httpClient().Do(req) //nolint:gosec // targets are same-origin or explicitly chosen by the caller.
	if err != nil {
		return nil, fmt.Errorf("fetch: do request: %w", err)
	}

	return resp, nil
}

// fromRequest resolves a composite request against the origin. Options in
// init override the request's own method and headers.
func (c *Client) fromRequest(ctx context.Context, r *http.Request, init *Init) (*http.Request, error) {
	if r == nil || r.URL == nil {
		return nil, errors.New("fetch: request has no URL")
	}

	if ctx == nil {
		ctx = r.Context()
	}

	req := r.Clone(ctx)
	req.URL = c.Origin.ResolveReference(r.URL)
	req.Host = ""

	if init == nil {
		return req, nil
	}

	if init.Method != "" {
		req.Method = init.Method
	}

	for k, vs := range init.Header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if init.Body != nil {
		req.Body = io.NopCloser(bytes.NewReader(init.Body))
		req.ContentLength = int64(len(init.Body))
	}

	return req, nil
}

func (c *Client) applyHeaders(req *http.Request) {
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
}

// DecodeJSON reads and closes the response body and decodes it as a single
// JSON value. Numbers are kept as json.Number so large numerals survive
// unchanged. Response status is not checked unless the body fails to parse.
func DecodeJSON(resp *http.Response) (any, error) {
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: read response: %w", err)
	}

	v, err := decodeValue(data)
	if err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &StatusError{Code: resp.StatusCode, Body: snippet(data)}
		}
		return nil, fmt.Errorf("fetch: decode response: %w", err)
	}

	return v, nil
}

func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid data after top-level value")
	}

	return v, nil
}

// snippet shortens a response body for error messages.
func snippet(data []byte) string {
	const maxLen = 512

	s := strings.TrimSpace(string(data))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
