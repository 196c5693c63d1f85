package tier

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// Response is the raw result of a Transport exchange
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type envelopeKind int

const (
	envelopeValue envelopeKind = iota
	envelopeError
	// envelopeUncoded is an error status whose body carries no code.
	// Some endpoints still reply this way, so the body is handed back as a value.
	envelopeUncoded
)

type envelope struct {
	kind  envelopeKind
	value json.RawMessage
	err   *APIError
}

// interpretResponse classifies a raw response. A body that is not JSON is
// always a *ParseError, whatever the status.
func interpretResponse(resp *Response) (*envelope, error) {
	body := bytes.TrimSpace(resp.Body)

	var probe any
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, &ParseError{
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
			Reason:     err.Error(),
			Err:        err,
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return &envelope{kind: envelopeValue, value: json.RawMessage(body)}, nil
	}

	obj, ok := probe.(map[string]any)
	if !ok {
		return &envelope{kind: envelopeUncoded, value: json.RawMessage(body)}, nil
	}

	code := codeString(obj["code"])
	if code == "" {
		return &envelope{kind: envelopeUncoded, value: json.RawMessage(body)}, nil
	}

	return &envelope{
		kind: envelopeError,
		err: &APIError{
			StatusCode: resp.StatusCode,
			Code:       code,
			Message:    messageString(obj["message"]),
			Header:     headerSnapshot(resp.Header),
		},
	}, nil
}

// codeString returns the code as text, or "" when it is absent or falsy
func codeString(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		if c == 0 {
			return ""
		}
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		if c {
			return "true"
		}
		return ""
	case nil:
		return ""
	default:
		data, _ := json.Marshal(c)
		return string(data)
	}
}

func messageString(v any) string {
	switch m := v.(type) {
	case nil:
		return ""
	case string:
		return m
	default:
		data, _ := json.Marshal(m)
		return string(data)
	}
}

// headerSnapshot flattens response headers into lower-cased single values
func headerSnapshot(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	return out
}
