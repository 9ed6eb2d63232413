package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIEngine_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": `{"a":1}`},
				"finish_reason": "stop",
			}},
		})
	}))
	defer server.Close()

	engine := NewOpenAIEngine("test-key", server.URL+"/v1/", "test-model", 5*time.Second)
	text, err := engine.Generate(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
}

func TestOpenAIEngine_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
	}))
	defer server.Close()

	engine := NewOpenAIEngine("test-key", server.URL+"/v1", "test-model", 5*time.Second)
	_, err := engine.Generate(context.Background(), "hello")

	require.Error(t, err)
	assert.True(t, IsQuotaError(err))
}

func TestOpenAIEngine_StalledEndpointTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	engine := NewOpenAIEngine("test-key", server.URL+"/v1", "test-model", 50*time.Millisecond)
	started := time.Now()
	_, err := engine.Generate(context.Background(), "hello")

	require.Error(t, err)
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestBudgetedEngine(t *testing.T) {
	inner := &fakeEngine{response: "ok"}
	engine := NewBudgetedEngine(inner, 2)

	for i := 0; i < 2; i++ {
		text, err := engine.Generate(context.Background(), "p")
		require.NoError(t, err)
		assert.Equal(t, "ok", text)
	}

	_, err := engine.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrBudgetExhausted)
	assert.True(t, IsQuotaError(err))
	assert.Equal(t, 2, inner.calls())
}

func TestBudgetedEngine_Disabled(t *testing.T) {
	inner := &fakeEngine{response: "ok"}
	assert.Same(t, Engine(inner), NewBudgetedEngine(inner, 0))
}
