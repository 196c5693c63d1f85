package tier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Version is reported in the User-Agent header
const Version = "0.4.0"

// DefaultBaseURL is used when Config.BaseURL is empty
const DefaultBaseURL = "https://tier.run"

// Config holds the connection settings of a Client
type Config struct {
	BaseURL  string
	APIToken string
	Debug    bool
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the transport used for every call. It takes
// precedence over WithHTTPClient and WithTimeout.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithHTTPClient sends requests through a custom http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout of the built-in transport. Combined
// with WithHTTPClient it sets the timeout of that client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used when debug logging is enabled
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.hasLogger = true
	}
}

// WithMetrics records call and overage metrics into m
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithClock overrides the source of the current instant
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client talks to the Tier API. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	token      string
	debug      bool
	instanceID string

	transport  Transport
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
	hasLogger  bool
	metrics    *Metrics
	now        func() time.Time
}

var _ API = (*Client)(nil)

// New creates a new Tier client. It fails with a *ConfigError when the
// token is missing or the base URL is unusable.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, &ConfigError{Field: "api_token", Err: ErrMissingToken}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, &ConfigError{Field: "url", Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &ConfigError{Field: "url", Err: fmt.Errorf("%q is not an absolute URL", baseURL)}
	}

	c := &Client{
		baseURL:    u,
		token:      cfg.APIToken,
		debug:      cfg.Debug,
		instanceID: newID(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		c.transport = c.defaultTransport()
	}
	c.logger = c.debugLogger()

	c.logger.Debug().Str("url", u.String()).Msg("api url")

	return c, nil
}

// defaultTransport builds the resty transport from the HTTP client and
// timeout options
func (c *Client) defaultTransport() Transport {
	if c.httpClient == nil {
		timeout := c.timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		return NewRestyTransport(timeout)
	}
	if c.timeout > 0 {
		c.httpClient.Timeout = c.timeout
	}
	return NewHTTPTransport(c.httpClient)
}

// debugLogger returns the logger for this instance. Logging is disabled
// unless the client was configured with Debug.
func (c *Client) debugLogger() zerolog.Logger {
	if !c.debug {
		return zerolog.Nop()
	}
	logger := c.logger
	if !c.hasLogger {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
	return logger.With().
		Str("component", "tier").
		Int("pid", os.Getpid()).
		Str("instance", c.instanceID).
		Logger()
}

// InstanceID returns the identifier used to correlate this client's log lines
func (c *Client) InstanceID() string {
	return c.instanceID
}

// BaseURL returns the resolved service URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Call sends one request to endpoint and returns the decoded JSON reply.
// It fails with *ParseError, *APIError or a transport error.
func (c *Client) Call(ctx context.Context, endpoint string, opts CallOptions) (json.RawMessage, error) {
	req, err := buildRequest(c.baseURL, c.token, endpoint, opts)
	if err != nil {
		return nil, err
	}

	c.logRequest(req, opts)

	start := time.Now()
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		c.metrics.observeCall(endpoint, req.Method, 0, time.Since(start), err)
		c.logger.Debug().Str("request_id", req.ID).Err(err).Msg("transport error")
		return nil, err
	}

	env, err := interpretResponse(resp)
	if err == nil && env.kind == envelopeError {
		err = env.err
	}
	c.metrics.observeCall(endpoint, req.Method, resp.StatusCode, time.Since(start), err)
	if err != nil {
		c.logger.Debug().
			Str("request_id", req.ID).
			Int("status", resp.StatusCode).
			Err(err).
			Msg("error response")
		return nil, err
	}

	c.logResponse(req.ID, resp.StatusCode, env)
	return env.value, nil
}

func (c *Client) logRequest(req *Request, opts CallOptions) {
	e := c.logger.Debug()
	if !e.Enabled() {
		return
	}

	header := zerolog.Dict()
	for k, v := range req.Header {
		if k == headerToken {
			header.Str(k, "[redacted]")
			continue
		}
		header.Str(k, strings.Join(v, ", "))
	}

	e = e.Str("request_id", req.ID).
		Str("method", req.Method).
		Str("path", req.Path).
		Dict("headers", header)

	switch {
	case req.Body != nil && json.Valid(req.Body):
		e = e.RawJSON("body", req.Body)
	case req.Body != nil:
		e = e.Str("body", string(req.Body))
	case len(opts.Query) > 0:
		e = e.Str("query", opts.Query.Encode())
	}
	e.Msg("request")
}

func (c *Client) logResponse(requestID string, status int, env *envelope) {
	e := c.logger.Debug()
	if !e.Enabled() {
		return
	}
	e = e.Str("request_id", requestID).Int("status", status).RawJSON("body", env.value)
	if env.kind == envelopeUncoded {
		e = e.Bool("uncoded_error", true)
	}
	e.Msg("response")
}

// timestamp renders t, or now when t is zero, in the wire format
func (c *Client) timestamp(t time.Time) string {
	if t.IsZero() {
		t = c.now()
	}
	return t.UTC().Format(timestampLayout)
}

const timestampLayout = "2006-01-02T15:04:05.000Z"
