package tier

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	headerToken     = "Tier-Api-Token"
	headerRequestID = "Request-Id"
	acceptValue     = "application/json; q=1, text/plain; q=0.2"
	apiPrefix       = "/api/v1/"
)

var userAgent = fmt.Sprintf("tier-go/%s go/%s (%s/%s)",
	Version, strings.TrimPrefix(runtime.Version(), "go"), runtime.GOOS, runtime.GOARCH)

// CallOptions describes a single logical API call
type CallOptions struct {
	// Method defaults to GET
	Method string
	Query  url.Values
	// Body may be nil, []byte, json.RawMessage, string, or any value
	// accepted by json.Marshal.
	Body   any
	Header http.Header
}

// Request is a fully assembled outbound request handed to a Transport
type Request struct {
	ID     string
	Method string
	URL    string
	Path   string
	Header http.Header
	Body   []byte
}

// newID returns an opaque 8 character token
func newID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:4])
}

// buildRequest assembles the request for endpoint against baseURL
func buildRequest(baseURL *url.URL, token, endpoint string, opts CallOptions) (*Request, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	path := apiPrefix + strings.TrimLeft(endpoint, "/")
	if len(opts.Query) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + opts.Query.Encode()
	}

	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	body, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	header := make(http.Header, len(opts.Header)+6)
	for k, v := range opts.Header {
		header[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}

	id := newID()
	header.Set(headerToken, token)
	header.Set("Accept", acceptValue)
	header.Set("User-Agent", userAgent)
	header.Set(headerRequestID, id)

	if body != nil {
		header.Set("Content-Length", strconv.Itoa(len(body)))
		header.Set("Content-Type", "application/json")
	} else {
		header.Del("Content-Length")
		header.Del("Content-Type")
	}

	return &Request{
		ID:     id,
		Method: method,
		URL:    baseURL.ResolveReference(ref).String(),
		Path:   path,
		Header: header,
		Body:   body,
	}, nil
}

// encodeBody turns a call body into wire bytes. A nil result means no body.
func encodeBody(v any) ([]byte, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return []byte(b), nil
	case string:
		if b == "" {
			return nil, nil
		}
		return []byte(b), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		return data, nil
	}
}
