package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditools/internal/domain"
	"auditools/pkg/retry"
)

func newOpenAIServer(t *testing.T, handler http.HandlerFunc) Options {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return Options{
		APIKey:  "sk-test-1234",
		Model:   "gpt-4o-mini",
		BaseURL: srv.URL + "/v1",
		Timeout: 5 * time.Second,
		Retry:   retry.Config{MaxAttempts: 3, Delay: time.Millisecond},
	}
}

func TestOpenAI_ListModels(t *testing.T) {
	opts := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "Bearer sk-test-1234", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[
			{"id":"gpt-4o","object":"model","owned_by":"openai"},
			{"id":"whisper-1","object":"model","owned_by":"openai"}
		]}`))
	})

	a := NewOpenAI(opts, nil)
	ids, err := a.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o", "whisper-1"}, ids)

	st := a.Status()
	assert.Equal(t, domain.ModeReal, st.Mode)
	assert.True(t, st.APIKeyPresent)
	assert.True(t, st.ClientInitialised)
}

func TestOpenAI_ListModels_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	opts := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"gpt-4o"}]}`))
	})

	ids, err := NewOpenAI(opts, nil).ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o"}, ids)
	assert.EqualValues(t, 3, calls.Load())
}

func TestOpenAI_ListModels_UnauthorizedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	opts := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key","type":"invalid_request_error","code":"invalid_api_key"}}`))
	})

	_, err := NewOpenAI(opts, nil).ListModels(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestOpenAI_Probe(t *testing.T) {
	opts := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o-mini","choices":[
			{"index":0,"message":{"role":"assistant","content":"Voici: {\"score_confiance\": 91}"},"finish_reason":"stop"}
		]}`))
	})

	res, err := NewOpenAI(opts, nil).Probe(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Score)
	assert.InDelta(t, 91.0, *res.Score, 0.001)
	assert.Equal(t, domain.ModeReal, res.Mode)
	assert.Equal(t, "gpt-4o-mini", res.Model)
}

func TestOpenAI_WithoutUsableKey(t *testing.T) {
	missing := NewOpenAI(Options{}, nil)
	_, err := missing.ListModels(context.Background())
	assert.ErrorIs(t, err, domain.ErrAPIKeyMissing)
	_, err = missing.Probe(context.Background())
	assert.ErrorIs(t, err, domain.ErrAPIKeyMissing)
	assert.False(t, missing.Status().ClientInitialised)

	sim := NewOpenAI(Options{APIKey: "mode-simulation-local"}, nil)
	_, err = sim.ListModels(context.Background())
	assert.ErrorIs(t, err, domain.ErrSimulationMode)

	res, err := sim.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSimulation, res.Mode)
	assert.InDelta(t, 78.0, *res.Score, 0.001)
	assert.Equal(t, domain.ModeSimulation, sim.Status().Mode)
}

func TestParseProbe(t *testing.T) {
	res := parseProbe("```json\n{\"score_confiance\": 64.5}\n```", "m")
	require.NotNil(t, res.Score)
	assert.InDelta(t, 64.5, *res.Score, 0.001)

	res = parseProbe("pas de json", "m")
	assert.Nil(t, res.Score)
	assert.Equal(t, "pas de json", res.Raw)
}

func TestNewGemini_WithoutKeyHasNoClient(t *testing.T) {
	g, err := NewGemini(context.Background(), Options{APIKey: "mode-simulation"}, nil)
	require.NoError(t, err)
	defer g.Close()

	assert.False(t, g.Status().ClientInitialised)
	_, err = g.ListModels(context.Background())
	assert.ErrorIs(t, err, domain.ErrSimulationMode)

	res, err := g.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSimulation, res.Mode)
}
