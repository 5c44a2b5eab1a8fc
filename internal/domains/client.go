// Package domains fetches the list of configured directory domains from the
// backend and publishes the result into the shared state.
package domains

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/direktor/internal/state"
)

// Path is the backend endpoint that lists configured domains.
const Path = "/v1/config/domains"

// DefaultUserAgent identifies the console to the backend.
const DefaultUserAgent = "direktor"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Envelope is the JSON body returned by the backend.
type Envelope struct {
	Error   json.RawMessage `json:"error,omitempty"`
	Domains []state.Domain  `json:"domains"`
}

// ErrorMessage returns the application error carried by the envelope and
// whether it is truthy. Strings are used verbatim; other truthy JSON values
// are rendered as their JSON text.
func (e *Envelope) ErrorMessage() (string, bool) {
	if len(e.Error) == 0 {
		return "", false
	}

	var v any
	if err := json.Unmarshal(e.Error, &v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case nil:
		return "", false
	case bool:
		if !t {
			return "", false
		}
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case float64:
		if t == 0 {
			return "", false
		}
	}
	return string(e.Error), true
}

// Publisher receives fetch results. *state.Store satisfies it.
type Publisher interface {
	SetDomains([]state.Domain)
	SetError(string)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithHeaders adds static headers to every request, e.g. deployment-supplied
// credentials for the backend.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) {
		for k, v := range h {
			c.headers.Set(k, v)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// Client talks to the directory backend.
type Client struct {
	baseURL string
	http    *http.Client
	headers http.Header
	timeout time.Duration
	log     *zap.Logger

	userAgent string
}

// NewClient returns a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		headers: make(http.Header),
		log:     zap.NewNop(),

		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the absolute URL of the domains endpoint.
func (c *Client) Endpoint() (string, error) {
	u, err := url.Parse(c.baseURL + Path)
	if err != nil {
		return "", fmt.Errorf("building endpoint: %w", err)
	}
	return u.String(), nil
}

// Get performs one GET of the domains endpoint and decodes the envelope.
// Any transport, status or decoding problem is returned as an error.
func (c *Client) Get(ctx context.Context) (*Envelope, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint, err := c.Endpoint()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if req.Header.Get("X-Request-Id") == "" {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &env, nil
}

// FetchDomains fetches the domain list once and publishes the outcome.
//
// An application error in the body is published via SetError and the domain
// list is left alone. Otherwise the body's domains replace the list verbatim.
// Transport and decoding failures are logged and leave the state untouched;
// nothing is returned to the caller.
func (c *Client) FetchDomains(ctx context.Context, pub Publisher) {
	start := time.Now()

	env, err := c.Get(ctx)
	if err != nil {
		level := c.log.Warn
		if errors.Is(err, context.Canceled) {
			level = c.log.Debug
		}
		level("fetching domains failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}

	if msg, ok := env.ErrorMessage(); ok {
		c.log.Warn("backend reported an error", zap.String("error", msg))
		pub.SetError(msg)
		return
	}

	pub.SetDomains(env.Domains)
	c.log.Info("domains loaded", zap.Int("count", len(env.Domains)), zap.Duration("duration", time.Since(start)))
}
