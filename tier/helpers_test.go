package tier

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recordingTransport captures every request and answers with respond
type recordingTransport struct {
	mu       sync.Mutex
	requests []*Request
	respond  func(req *Request) (*Response, error)
}

func (t *recordingTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	t.mu.Lock()
	t.requests = append(t.requests, req)
	t.mu.Unlock()
	if t.respond == nil {
		return jsonResponse(http.StatusOK, `{}`), nil
	}
	return t.respond(req)
}

func (t *recordingTransport) calls() []*Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Request(nil), t.requests...)
}

func jsonResponse(status int, body string) *Response {
	return &Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       []byte(body),
	}
}

var fixedNow = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func newTestClient(t *testing.T, tr Transport, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithTransport(tr), WithClock(func() time.Time { return fixedNow })}, opts...)
	c, err := New(Config{BaseURL: "https://tier.example.com", APIToken: "tkn_test"}, opts...)
	require.NoError(t, err)
	return c
}
