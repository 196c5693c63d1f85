package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command against a fake Tier server
func runCLI(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("TIER_URL", server.URL)
	t.Setenv("TIER_API_TOKEN", "tkn_cli")
	t.Setenv("TIER_DEBUG", "")
	t.Setenv("DEBUG", "")

	level := zerolog.GlobalLevel()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(level)
		resetFlags(rootCmd)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag of c and its children to its default so
// commands can be executed more than once in a test binary
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestReserveCommand(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reserve", r.URL.Path)
		assert.Equal(t, "tkn_cli", r.Header.Get("Tier-Api-Token"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "org:acme", body["org"])
		assert.Equal(t, "feature:calls", body["feature"])
		assert.Equal(t, float64(5), body["N"])

		w.Write([]byte(`{"Period":"2024-03","Total":{"Used":12,"Limit":10,"Overage":2,"Remaining":0}}`))
	}, "reserve", "org:acme", "feature:calls", "-n", "5")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, float64(3), res["amountAuthorized"])
	assert.Equal(t, float64(2), res["overage"])
	assert.Equal(t, "2024-03", res["Period"])
	assert.Contains(t, res["Total"], "Remaining")
}

func TestReserveCommandNoOverage(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Total":{"Overage":1}}`))
	}, "reserve", "org:acme", "feature:calls", "--no-overage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan limit reached")
}

func TestModelCommandPushesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plans:\n  plan:free@0:\n    title: Free\n"), 0o600))

	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/model", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"plans":{"plan:free@0":{"title":"Free"}}}`, string(body))
		w.Write([]byte(`{}`))
	}, "model", "-f", path, "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "{}\n", out)
}

func TestScheduleCommandReads(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "org:acme", r.URL.Query().Get("org"))
		w.Write([]byte(`{"phases":[]}`))
	}, "schedule", "org:acme")
	require.NoError(t, err)
	assert.JSONEq(t, `{"phases":[]}`, out)
}

func TestScheduleCommandRequiresPlanForTimes(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, "schedule", "org:acme", "--effective", "2024-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "require --plan")
}
