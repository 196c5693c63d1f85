package tier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout is the request timeout of the default transport
const DefaultTimeout = 30 * time.Second

// Transport performs one network exchange. Timeouts and cancellation
// belong to the transport.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Do calls f(ctx, req)
func (f TransportFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// restyTransport adapts resty.Client to the Transport interface
type restyTransport struct {
	client *resty.Client
}

var _ Transport = (*restyTransport)(nil)

// NewRestyTransport creates a Transport backed by resty with the given
// timeout. Cookies are never stored between calls.
func NewRestyTransport(timeout time.Duration) Transport {
	c := resty.New()
	c.SetCookieJar(nil)
	c.SetTimeout(timeout)
	return &restyTransport{client: c}
}

// NewHTTPTransport creates a Transport that sends requests through hc.
// hc keeps its own timeout and cookie jar.
func NewHTTPTransport(hc *http.Client) Transport {
	return &restyTransport{client: resty.NewWithClient(hc)}
}

// Do sends req and reads the full response body
func (t *restyTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	r := t.client.R().
		SetContext(ctx).
		SetHeaderMultiValues(req.Header)

	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}
