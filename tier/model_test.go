package tier

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelDispatch(t *testing.T) {
	tests := []struct {
		name       string
		model      any
		wantMethod string
		wantBody   string
	}{
		{name: "nil reads", model: nil, wantMethod: http.MethodGet},
		{name: "empty raw reads", model: json.RawMessage(nil), wantMethod: http.MethodGet},
		{name: "empty string reads", model: "", wantMethod: http.MethodGet},
		{name: "nil map reads", model: map[string]any(nil), wantMethod: http.MethodGet},
		{name: "nil pointer reads", model: (*struct{ Plans map[string]any })(nil), wantMethod: http.MethodGet},
		{name: "null document reads", model: json.RawMessage("null"), wantMethod: http.MethodGet},
		{
			name:       "raw document pushed unchanged",
			model:      json.RawMessage(`{"plans":{"plan:free@0":{"title":"Free"}}}`),
			wantMethod: http.MethodPost,
			wantBody:   `{"plans":{"plan:free@0":{"title":"Free"}}}`,
		},
		{
			name:       "map pushed as json",
			model:      map[string]any{"plans": map[string]any{}},
			wantMethod: http.MethodPost,
			wantBody:   `{"plans":{}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &recordingTransport{respond: func(*Request) (*Response, error) {
				return jsonResponse(http.StatusOK, `{"plans":{}}`), nil
			}}
			c := newTestClient(t, tr)

			raw, err := c.Model(context.Background(), tt.model)
			require.NoError(t, err)
			assert.JSONEq(t, `{"plans":{}}`, string(raw))

			req := tr.calls()[0]
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, "https://tier.example.com/api/v1/model", req.URL)
			if tt.wantBody == "" {
				assert.Nil(t, req.Body)
				return
			}
			assert.JSONEq(t, tt.wantBody, string(req.Body))
		})
	}
}

func TestModelEncodeError(t *testing.T) {
	tr := &recordingTransport{}
	c := newTestClient(t, tr)

	_, err := c.Model(context.Background(), make(chan int))
	require.Error(t, err)
	assert.Empty(t, tr.calls())
}
