package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintResult(t *testing.T) {
	raw := json.RawMessage(`{"b":1,"a":{"c":"x"}}`)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printResult(&buf, raw, "json"))
		assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": {\n    \"c\": \"x\"\n  }\n}\n", buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printResult(&buf, raw, "yaml"))
		assert.Equal(t, "a:\n  c: x\nb: 1\n", buf.String())
	})
}

func TestLoadModelFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("json passes through", func(t *testing.T) {
		body := `{"plans": {"plan:free@0": {"title": "Free"}}}`
		model, err := loadModelFile(write("model.json", body))
		require.NoError(t, err)
		assert.Equal(t, body, string(model))
	})

	t.Run("yaml is converted", func(t *testing.T) {
		model, err := loadModelFile(write("model.yaml", `
plans:
  plan:free@0:
    title: Free
    features:
      feature:calls:
        tiers:
          - upto: 100
`))
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"plans":{"plan:free@0":{"title":"Free","features":{"feature:calls":{"tiers":[{"upto":100}]}}}}}`,
			string(model))
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := loadModelFile(write("empty.yaml", ""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadModelFile(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})
}
