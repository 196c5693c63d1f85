package tier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// Model reads the pricing model when model is nil and pushes it otherwise.
// Typed nils such as a nil map or pointer count as nil.
func (c *Client) Model(ctx context.Context, model any) (json.RawMessage, error) {
	body, err := encodeBody(model)
	if err != nil {
		return nil, err
	}
	if isAbsent(body) {
		return c.GetModel(ctx)
	}
	return c.SetModel(ctx, json.RawMessage(body))
}

// GetModel retrieves the current pricing model
func (c *Client) GetModel(ctx context.Context) (json.RawMessage, error) {
	return c.Call(ctx, "model", CallOptions{})
}

// SetModel pushes model unchanged
func (c *Client) SetModel(ctx context.Context, model any) (json.RawMessage, error) {
	return c.Call(ctx, "model", CallOptions{
		Method: http.MethodPost,
		Body:   model,
	})
}

// isAbsent reports whether an encoded model carries no document
func isAbsent(body []byte) bool {
	body = bytes.TrimSpace(body)
	return len(body) == 0 || bytes.Equal(body, []byte("null"))
}
